package entity_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/caliper/capability"
	"github.com/c360studio/caliper/conformance"
	"github.com/c360studio/caliper/construct"
	"github.com/c360studio/caliper/entity"
	"github.com/c360studio/caliper/vocabulary/caliper"
)

const bobID = "https://example.edu/users/554433"

var t0 = time.Date(2016, 11, 15, 10, 15, 0, 0, time.UTC)

func mustPerson(t *testing.T) *entity.Person {
	t.Helper()
	p, err := entity.NewPerson().ID(bobID).Name("Bob Jones").Build()
	require.NoError(t, err)
	return p
}

func TestEveryEntryPointBindsItsType(t *testing.T) {
	const id = "https://example.edu/entities/1"
	tests := []struct {
		want  caliper.EntityType
		build func() (entity.Entity, error)
	}{
		{caliper.EntityPerson, func() (entity.Entity, error) { return entity.NewPerson().ID(id).Build() }},
		{caliper.EntitySoftwareApplication, func() (entity.Entity, error) { return entity.NewSoftwareApplication().ID(id).Build() }},
		{caliper.EntityOrganization, func() (entity.Entity, error) { return entity.NewOrganization().ID(id).Build() }},
		{caliper.EntityCourseOffering, func() (entity.Entity, error) { return entity.NewCourseOffering().ID(id).Build() }},
		{caliper.EntityCourseSection, func() (entity.Entity, error) { return entity.NewCourseSection().ID(id).Build() }},
		{caliper.EntityGroup, func() (entity.Entity, error) { return entity.NewGroup().ID(id).Build() }},
		{caliper.EntityMembership, func() (entity.Entity, error) { return entity.NewMembership().ID(id).Build() }},
		{caliper.EntityDigitalResource, func() (entity.Entity, error) { return entity.NewDigitalResource().ID(id).Build() }},
		{caliper.EntityDocument, func() (entity.Entity, error) { return entity.NewDocument().ID(id).Build() }},
		{caliper.EntityChapter, func() (entity.Entity, error) { return entity.NewChapter().ID(id).Build() }},
		{caliper.EntityPage, func() (entity.Entity, error) { return entity.NewPage().ID(id).Build() }},
		{caliper.EntityWebPage, func() (entity.Entity, error) { return entity.NewWebPage().ID(id).Build() }},
		{caliper.EntityFrame, func() (entity.Entity, error) { return entity.NewFrame().ID(id).Build() }},
		{caliper.EntityReading, func() (entity.Entity, error) { return entity.NewReading().ID(id).Build() }},
		{caliper.EntityEpubVolume, func() (entity.Entity, error) { return entity.NewEpubVolume().ID(id).Build() }},
		{caliper.EntityEpubPart, func() (entity.Entity, error) { return entity.NewEpubPart().ID(id).Build() }},
		{caliper.EntityEpubChapter, func() (entity.Entity, error) { return entity.NewEpubChapter().ID(id).Build() }},
		{caliper.EntityEpubSubChapter, func() (entity.Entity, error) { return entity.NewEpubSubChapter().ID(id).Build() }},
		{caliper.EntityMessage, func() (entity.Entity, error) { return entity.NewMessage().ID(id).Build() }},
		{caliper.EntityAssignableDigitalResource, func() (entity.Entity, error) { return entity.NewAssignableDigitalResource().ID(id).Build() }},
		{caliper.EntityAssessment, func() (entity.Entity, error) { return entity.NewAssessment().ID(id).Build() }},
		{caliper.EntityAssessmentItem, func() (entity.Entity, error) { return entity.NewAssessmentItem().ID(id).Build() }},
		{caliper.EntityDigitalResourceCollection, func() (entity.Entity, error) { return entity.NewDigitalResourceCollection().ID(id).Build() }},
		{caliper.EntityForum, func() (entity.Entity, error) { return entity.NewForum().ID(id).Build() }},
		{caliper.EntityThread, func() (entity.Entity, error) { return entity.NewThread().ID(id).Build() }},
		{caliper.EntityMediaObject, func() (entity.Entity, error) { return entity.NewMediaObject().ID(id).Build() }},
		{caliper.EntityAudioObject, func() (entity.Entity, error) { return entity.NewAudioObject().ID(id).Build() }},
		{caliper.EntityImageObject, func() (entity.Entity, error) { return entity.NewImageObject().ID(id).Build() }},
		{caliper.EntityVideoObject, func() (entity.Entity, error) { return entity.NewVideoObject().ID(id).Build() }},
		{caliper.EntityMediaLocation, func() (entity.Entity, error) { return entity.NewMediaLocation().ID(id).Build() }},
		{caliper.EntityAnnotation, func() (entity.Entity, error) { return entity.NewAnnotation().ID(id).Build() }},
		{caliper.EntityBookmarkAnnotation, func() (entity.Entity, error) { return entity.NewBookmarkAnnotation().ID(id).Build() }},
		{caliper.EntityHighlightAnnotation, func() (entity.Entity, error) { return entity.NewHighlightAnnotation().ID(id).Build() }},
		{caliper.EntitySharedAnnotation, func() (entity.Entity, error) { return entity.NewSharedAnnotation().ID(id).Build() }},
		{caliper.EntityTagAnnotation, func() (entity.Entity, error) { return entity.NewTagAnnotation().ID(id).Build() }},
		{caliper.EntityAttempt, func() (entity.Entity, error) { return entity.NewAttempt().ID(id).Build() }},
		{caliper.EntityResponse, func() (entity.Entity, error) { return entity.NewResponse().ID(id).Build() }},
		{caliper.EntityFillinBlankResponse, func() (entity.Entity, error) { return entity.NewFillinBlankResponse().ID(id).Build() }},
		{caliper.EntityMultipleChoiceResponse, func() (entity.Entity, error) { return entity.NewMultipleChoiceResponse().ID(id).Build() }},
		{caliper.EntityMultipleResponseResponse, func() (entity.Entity, error) { return entity.NewMultipleResponseResponse().ID(id).Build() }},
		{caliper.EntitySelectTextResponse, func() (entity.Entity, error) { return entity.NewSelectTextResponse().ID(id).Build() }},
		{caliper.EntityTrueFalseResponse, func() (entity.Entity, error) { return entity.NewTrueFalseResponse().ID(id).Build() }},
		{caliper.EntityResult, func() (entity.Entity, error) { return entity.NewResult().ID(id).Build() }},
		{caliper.EntityScore, func() (entity.Entity, error) { return entity.NewScore().ID(id).Build() }},
		{caliper.EntitySession, func() (entity.Entity, error) { return entity.NewSession().ID(id).Build() }},
		{caliper.EntityLtiSession, func() (entity.Entity, error) { return entity.NewLtiSession().ID(id).Build() }},
		{caliper.EntityLearningObjective, func() (entity.Entity, error) { return entity.NewLearningObjective().ID(id).Build() }},
	}

	require.Len(t, tests, len(caliper.EntityTypes()), "every entity type needs an entry point")

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			e, err := tt.build()
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.Type())
			assert.Equal(t, tt.want.URI(), e.Type().URI())
			assert.Equal(t, id, e.ID())
			assert.False(t, e.Capabilities().IsEmpty())
		})
	}
}

func TestPersonIsAgent(t *testing.T) {
	var agent entity.Agent = mustPerson(t)
	assert.True(t, agent.Capabilities().Has(capability.Agent))
	assert.True(t, agent.Capabilities().Has(capability.Person))
	assert.Equal(t, "Bob Jones", agent.Name())
}

func TestMissingIDFails(t *testing.T) {
	p, err := entity.NewPerson().Name("Anonymous").Build()

	assert.Nil(t, p)
	report, ok := conformance.ReportOf(err)
	require.True(t, ok)
	assert.True(t, report.Has(conformance.RuleID))
	assert.Equal(t, "Caliper Person conformance:", report.Summary())
}

func TestBuilderCannotBeReused(t *testing.T) {
	b := entity.NewPerson().ID(bobID)
	_, err := b.Build()
	require.NoError(t, err)

	_, err = b.Build()
	assert.ErrorIs(t, err, construct.ErrFinalized)
}

func TestFieldNotApplicableIsRejectedAtSetterTime(t *testing.T) {
	b := entity.NewGroup().ID("https://example.edu/groups/1").CourseNumber("CPS 435")

	var fe *entity.FieldError
	require.ErrorAs(t, b.Err(), &fe)
	assert.Equal(t, "courseNumber", fe.Field)
	assert.Equal(t, caliper.EntityGroup, fe.Type)

	g, err := b.Build()
	assert.Nil(t, g)
	assert.True(t, errors.Is(err, entity.ErrFieldNotApplicable))
	assert.False(t, errors.Is(err, conformance.ErrNonConformant))
}

func TestKindSpecificFields(t *testing.T) {
	tests := []struct {
		name string
		err  func() error
	}{
		{"index on page", func() error { return entity.NewPage().Index(1).Err() }},
		{"body on document", func() error { return entity.NewDocument().Body("hi").Err() }},
		{"duration on image", func() error { return entity.NewImageObject().Duration("PT1M").Err() }},
		{"volume on video", func() error { return entity.NewVideoObject().Volume("0.5").Err() }},
		{"tags on bookmark", func() error { return entity.NewBookmarkAnnotation().Tags("x").Err() }},
		{"value on fill-in-blank", func() error { return entity.NewFillinBlankResponse().Value("x").Err() }},
		{"values on true/false", func() error { return entity.NewTrueFalseResponse().Values("x").Err() }},
		{"timing on assessment", func() error { return entity.NewAssessment().IsTimeDependent(true).Err() }},
		{"claim on session", func() error { return entity.NewSession().MessageParameters(entity.LisClaim{}).Err() }},
		{"unknown role", func() error { return entity.NewMembership().Roles(entity.Role("Wizard")).Err() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err(), entity.ErrFieldNotApplicable)
		})
	}
}

func TestCourseSection(t *testing.T) {
	offering, err := entity.NewCourseOffering().
		ID("https://example.edu/terms/201601/courses/7").
		CourseNumber("CPS 435").
		AcademicSession("Fall 2016").
		Build()
	require.NoError(t, err)

	section, err := entity.NewCourseSection().
		ID("https://example.edu/terms/201601/courses/7/sections/1").
		CourseNumber("CPS 435-01").
		AcademicSession("Fall 2016").
		SubOrganizationOf(offering).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "CPS 435-01", section.CourseNumber())
	assert.Same(t, offering, section.SubOrganizationOf())
}

func TestMembershipMemberMustBePerson(t *testing.T) {
	app, err := entity.NewSoftwareApplication().ID("https://example.edu").Build()
	require.NoError(t, err)

	_, err = entity.NewMembership().
		ID("https://example.edu/memberships/1").
		Member(app).
		Roles(entity.RoleLearner).
		Status(entity.StatusActive).
		Build()

	report, ok := conformance.ReportOf(err)
	require.True(t, ok)
	require.Len(t, report.Violations(), 1)
	assert.Equal(t, "member", report.Violations()[0].Field)
	assert.Equal(t, conformance.RuleReferenceCapability, report.Violations()[0].Rule)
}

func TestMembership(t *testing.T) {
	person := mustPerson(t)
	roles := []entity.Role{entity.RoleLearner}

	m, err := entity.NewMembership().
		ID("https://example.edu/memberships/1").
		Member(person).
		Roles(roles...).
		Status(entity.StatusActive).
		DateCreated(t0).
		Build()
	require.NoError(t, err)

	roles[0] = entity.RoleInstructor
	got := m.Roles()
	got[0] = entity.RoleMentor

	assert.Equal(t, []entity.Role{entity.RoleLearner}, m.Roles())
	assert.Equal(t, entity.StatusActive, m.Status())
	assert.Equal(t, t0, m.DateCreated())
	assert.Nil(t, m.Organization())
}

func TestTypedNilReferenceIsAbsent(t *testing.T) {
	var missing *entity.Person
	m, err := entity.NewMembership().ID("urn:m").Member(missing).Build()
	require.NoError(t, err)
	assert.Nil(t, m.Member())
}

func TestCollectionItemsAreReadOnly(t *testing.T) {
	ch1, err := entity.NewChapter().ID("https://example.com/book#ch1").Build()
	require.NoError(t, err)
	ch2, err := entity.NewChapter().ID("https://example.com/book#ch2").Build()
	require.NoError(t, err)

	items := []entity.Entity{ch1, ch2}
	c, err := entity.NewDigitalResourceCollection().
		ID("https://example.com/book").
		Items(items...).
		Build()
	require.NoError(t, err)

	items[0] = ch2
	got := c.Items()
	got[1] = ch1

	require.Equal(t, 2, c.Len())
	assert.Same(t, ch1, c.Item(0))
	assert.Same(t, ch2, c.Item(1))
}

func TestCollectionItemsMustMatchKind(t *testing.T) {
	doc, err := entity.NewDocument().ID("urn:doc").Build()
	require.NoError(t, err)

	_, err = entity.NewForum().ID("urn:forum").Items(doc).Build()

	report, ok := conformance.ReportOf(err)
	require.True(t, ok)
	assert.Equal(t, "items must be one of {Thread}, got Document", report.Violations()[0].Message)
}

func TestAttemptTemporalOrdering(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		valid bool
	}{
		{"end before start", t0, t0.Add(-time.Minute), false},
		{"end after start", t0, t0.Add(time.Minute), true},
		{"start only", t0, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := entity.NewAttempt().ID("urn:attempt").Count(1).StartedAtTime(tt.start)
			if !tt.end.IsZero() {
				b.EndedAtTime(tt.end)
			}
			a, err := b.Build()
			if tt.valid {
				require.NoError(t, err)
				assert.Equal(t, tt.start, a.StartedAtTime())
				return
			}
			assert.Nil(t, a)
			report, ok := conformance.ReportOf(err)
			require.True(t, ok)
			assert.True(t, report.Has(conformance.RuleTemporalOrder))
		})
	}
}

func TestEmptyDurationFails(t *testing.T) {
	_, err := entity.NewVideoObject().ID("urn:video").Duration("").Build()
	report, ok := conformance.ReportOf(err)
	require.True(t, ok)
	assert.True(t, report.Has(conformance.RuleDurationFormat))

	v, err := entity.NewVideoObject().ID("urn:video").Duration("PT1H12M27S").Build()
	require.NoError(t, err)
	d, ok := v.Duration()
	assert.True(t, ok)
	assert.Equal(t, "PT1H12M27S", d)

	image, err := entity.NewImageObject().ID("urn:image").Build()
	require.NoError(t, err)
	_, ok = image.Duration()
	assert.False(t, ok)
}

func TestExtensionsAreCopied(t *testing.T) {
	p, err := entity.NewPerson().ID(bobID).Extension("nickname", "bob").Build()
	require.NoError(t, err)

	ext := p.Extensions()
	ext["nickname"] = "robert"
	assert.Equal(t, "bob", p.Extensions()["nickname"])

	q, err := entity.NewPerson().ID(bobID).Build()
	require.NoError(t, err)
	assert.Nil(t, q.Extensions())
}

func TestNestedExtensionsAreCopied(t *testing.T) {
	roles := []string{"tutor"}
	meta := map[string]any{"cohort": "2016"}
	p, err := entity.NewPerson().ID(bobID).Extension("roles", roles).Extension("meta", meta).Build()
	require.NoError(t, err)

	roles[0] = "admin"
	meta["cohort"] = "2017"
	assert.Equal(t, []string{"tutor"}, p.Extensions()["roles"])
	assert.Equal(t, "2016", p.Extensions()["meta"].(map[string]any)["cohort"])

	p.Extensions()["roles"].([]string)[0] = "admin"
	assert.Equal(t, []string{"tutor"}, p.Extensions()["roles"])
}

func TestLtiSession(t *testing.T) {
	claim := entity.LisClaim{
		PersonSourcedID:         "example.edu:71ee7e42-f6d2-414a-80db-b69ac2defd4",
		CourseOfferingSourcedID: "example.edu:SI182-F16",
		CourseSectionSourcedID:  "example.edu:SI182-001-F16",
	}
	s, err := entity.NewLtiSession().
		ID("https://example.edu/lti/sessions/b533eb02").
		User(mustPerson(t)).
		MessageParameters(claim).
		StartedAtTime(t0).
		Build()
	require.NoError(t, err)

	assert.Equal(t, claim, s.MessageParameters())
	assert.True(t, s.Capabilities().Has(capability.LtiSession))
	assert.True(t, s.Capabilities().Has(capability.Session))
	assert.False(t, claim.IsZero())
}

func TestResponses(t *testing.T) {
	attempt, err := entity.NewAttempt().ID("urn:attempt").Build()
	require.NoError(t, err)

	tf, err := entity.NewTrueFalseResponse().ID("urn:resp").Attempt(attempt).Value("true").Build()
	require.NoError(t, err)
	assert.Equal(t, "true", tf.Value())

	fib, err := entity.NewFillinBlankResponse().ID("urn:resp2").Values("a", "b").Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, fib.Values())

	_, err = entity.NewResponse().ID("urn:resp3").Attempt(mustPerson(t)).Build()
	assert.ErrorIs(t, err, conformance.ErrNonConformant)
}

func TestScoredByAgent(t *testing.T) {
	grader, err := entity.NewSoftwareApplication().ID("https://example.edu/autograder").Version("v2").Build()
	require.NoError(t, err)

	score, err := entity.NewScore().
		ID("urn:score").
		MaxScore(15).
		ScoreGiven(10).
		ScoredBy(grader).
		Comment("good").
		Build()
	require.NoError(t, err)
	assert.Same(t, grader, score.ScoredBy())
	given, ok := score.ScoreGiven()
	assert.True(t, ok)
	assert.Equal(t, 10.0, given)
	assert.Equal(t, "v2", grader.Version())
}

func TestZeroScoreIsPresent(t *testing.T) {
	score, err := entity.NewScore().ID("urn:score").MaxScore(5).ScoreGiven(0).Build()
	require.NoError(t, err)

	given, ok := score.ScoreGiven()
	assert.True(t, ok)
	assert.Zero(t, given)

	result, err := entity.NewResult().ID("urn:result").Build()
	require.NoError(t, err)
	_, ok = result.ScoreGiven()
	assert.False(t, ok)
	_, ok = result.MaxScore()
	assert.False(t, ok)
}

func TestAnnotations(t *testing.T) {
	page, err := entity.NewPage().ID("urn:page").Build()
	require.NoError(t, err)

	h, err := entity.NewHighlightAnnotation().
		ID("urn:highlight").
		Annotator(mustPerson(t)).
		Annotated(page).
		Selection(455, 489).
		SelectionText("Life, Liberty and the pursuit of Happiness").
		Build()
	require.NoError(t, err)

	sel, ok := h.Selection()
	require.True(t, ok)
	assert.Equal(t, entity.Selection{Start: 455, End: 489}, sel)

	_, err = entity.NewBookmarkAnnotation().ID("urn:bm").Annotated(mustPerson(t)).Build()
	assert.ErrorIs(t, err, conformance.ErrNonConformant)
}

func TestParseEnums(t *testing.T) {
	r, err := entity.ParseRole("http://purl.imsglobal.org/vocab/lis/v2/membership#Learner")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleLearner, r)

	s, err := entity.ParseStatus("Active")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusActive, s)

	_, err = entity.ParseRole("Wizard")
	assert.Error(t, err)
}
