package event_test

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/caliper/conformance"
	"github.com/c360studio/caliper/construct"
	"github.com/c360studio/caliper/entity"
	"github.com/c360studio/caliper/event"
	"github.com/c360studio/caliper/vocabulary/caliper"
)

var (
	start = time.Date(2016, 11, 15, 10, 15, 0, 0, time.UTC)
	end   = start.Add(5 * time.Minute)
)

// fixtures holds one built entity of each kind the event tests need.
type fixtures struct {
	bob        *entity.Person
	app        *entity.SoftwareApplication
	doc        *entity.DigitalResource
	page       *entity.DigitalResource
	message    *entity.DigitalResource
	assessment *entity.AssignableDigitalResource
	item       *entity.AssignableDigitalResource
	assignable *entity.AssignableDigitalResource
	forum      *entity.DigitalResourceCollection
	thread     *entity.DigitalResourceCollection
	video      *entity.MediaObject
	attempt    *entity.Attempt
	section    *entity.Organization
	lti        *entity.Session
}

func newFixtures(t *testing.T) fixtures {
	t.Helper()
	must := func(err error) {
		t.Helper()
		require.NoError(t, err)
	}

	var f fixtures
	var err error
	f.bob, err = entity.NewPerson().ID("https://example.edu/users/554433").Build()
	must(err)
	f.app, err = entity.NewSoftwareApplication().ID("https://example.edu").Version("v2").Build()
	must(err)
	f.doc, err = entity.NewDocument().ID("https://example.edu/terms/201601/courses/7/sections/1/resources/123").Build()
	must(err)
	f.page, err = entity.NewPage().ID("https://example.com/viewer/book/34843#epubcfi(/4/3/1)").Build()
	must(err)
	f.message, err = entity.NewMessage().ID("https://example.edu/forums/99/topics/1/messages/2").Body("hi").Build()
	must(err)
	f.assessment, err = entity.NewAssessment().ID("https://example.edu/assess/1").Build()
	must(err)
	f.item, err = entity.NewAssessmentItem().ID("https://example.edu/assess/1/items/3").Build()
	must(err)
	f.assignable, err = entity.NewAssignableDigitalResource().ID("https://example.edu/assign/1").Build()
	must(err)
	f.forum, err = entity.NewForum().ID("https://example.edu/forums/99").Build()
	must(err)
	f.thread, err = entity.NewThread().ID("https://example.edu/forums/99/topics/1").Build()
	must(err)
	f.video, err = entity.NewVideoObject().ID("https://example.edu/videos/1225").Duration("PT1H12M27S").Build()
	must(err)
	f.attempt, err = entity.NewAttempt().ID("https://example.edu/assess/1/users/554433/attempts/1").Assignee(f.bob).Build()
	must(err)
	f.section, err = entity.NewCourseSection().ID("https://example.edu/terms/201601/courses/7/sections/1").Build()
	must(err)
	f.lti, err = entity.NewLtiSession().
		ID("https://example.edu/lti/sessions/b533eb02").
		User(f.bob).
		MessageParameters(entity.LisClaim{PersonSourcedID: "example.edu:71ee7e42"}).
		Build()
	must(err)
	return f
}

func TestEveryEntryPointBindsItsType(t *testing.T) {
	f := newFixtures(t)

	tests := []struct {
		want   caliper.EventType
		new    func(...event.Option) *event.Builder
		actor  entity.Agent
		action caliper.Action
		object entity.Entity
	}{
		{caliper.EventGeneric, event.NewEvent, f.bob, caliper.ActionViewed, f.doc},
		{caliper.EventAnnotation, event.NewAnnotation, f.bob, caliper.ActionHighlighted, f.doc},
		{caliper.EventAssessment, event.NewAssessment, f.bob, caliper.ActionStarted, f.assessment},
		{caliper.EventAssessmentItem, event.NewAssessmentItem, f.bob, caliper.ActionSkipped, f.item},
		{caliper.EventAssignable, event.NewAssignable, f.bob, caliper.ActionActivated, f.assignable},
		{caliper.EventForum, event.NewForum, f.bob, caliper.ActionSubscribed, f.forum},
		{caliper.EventGrade, event.NewGrade, f.app, "", f.attempt},
		{caliper.EventMedia, event.NewMedia, f.bob, caliper.ActionPaused, f.video},
		{caliper.EventMessage, event.NewMessage, f.bob, caliper.ActionPosted, f.message},
		{caliper.EventNavigation, event.NewNavigation, f.bob, "", f.page},
		{caliper.EventReading, event.NewReading, f.bob, caliper.ActionViewed, f.page},
		{caliper.EventResourceManagement, event.NewResourceManagement, f.bob, caliper.ActionDownloaded, f.doc},
		{caliper.EventSession, event.NewSession, f.bob, caliper.ActionLoggedIn, f.app},
		{caliper.EventThread, event.NewThread, f.bob, caliper.ActionMarkedAsRead, f.thread},
		{caliper.EventToolLaunch, event.NewToolLaunch, f.bob, caliper.ActionLaunched, f.app},
		{caliper.EventToolUse, event.NewToolUse, f.bob, "", f.app},
		{caliper.EventView, event.NewView, f.bob, "", f.doc},
	}

	require.Len(t, tests, len(caliper.EventTypes()), "every event type needs an entry point")

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			b := tt.new().Actor(tt.actor).Object(tt.object).EventTime(start)
			if tt.action != "" {
				b.Action(tt.action)
			}
			e, err := b.Build()
			require.NoError(t, err)

			assert.Equal(t, tt.want, e.Type())
			assert.Equal(t, tt.want.URI(), e.Candidate().Type)
			assert.True(t, e.Context().Equal(caliper.ContextFor(tt.want)))
			assert.NotEmpty(t, e.Action())
		})
	}
}

func TestSingletonActionIsDefaulted(t *testing.T) {
	f := newFixtures(t)

	e, err := event.NewToolUse().Actor(f.bob).Object(f.app).EventTime(start).Build()
	require.NoError(t, err)
	assert.Equal(t, caliper.ActionUsed, e.Action())

	_, err = event.NewReading().Actor(f.bob).Object(f.doc).EventTime(start).Build()
	report, ok := conformance.ReportOf(err)
	require.True(t, ok)
	assert.True(t, report.Has(conformance.RuleActionRequired))
}

func TestReadingActions(t *testing.T) {
	f := newFixtures(t)

	for _, a := range caliper.Actions() {
		t.Run(string(a), func(t *testing.T) {
			e, err := event.NewReading().
				Actor(f.bob).
				Action(a).
				Object(f.page).
				EventTime(start).
				Build()

			if a == caliper.ActionSearched || a == caliper.ActionViewed {
				require.NoError(t, err)
				assert.Equal(t, a, e.Action())
				return
			}
			assert.Nil(t, e)
			report, ok := conformance.ReportOf(err)
			require.True(t, ok)
			require.Len(t, report.Violations(), 1)
			assert.Equal(t, conformance.RuleActionAllowed, report.Violations()[0].Rule)
			assert.Equal(t,
				fmt.Sprintf("action %s is not supported by ReadingEvent (allowed: Searched, Viewed)", a),
				report.Violations()[0].Message)
		})
	}
}

func TestWrongActorAndReversedTimesGiveTwoViolations(t *testing.T) {
	f := newFixtures(t)

	_, err := event.NewReading().
		Actor(f.app).
		Action(caliper.ActionViewed).
		Object(f.page).
		EventTime(start).
		StartedAtTime(end).
		EndedAtTime(start).
		Build()

	report, ok := conformance.ReportOf(err)
	require.True(t, ok)
	require.Len(t, report.Violations(), 2)
	assert.Equal(t, conformance.RuleReferenceCapability, report.Violations()[0].Rule)
	assert.Equal(t, "actor must be one of {Person}, got SoftwareApplication", report.Violations()[0].Message)
	assert.Equal(t, conformance.RuleTemporalOrder, report.Violations()[1].Rule)

	lines := strings.Split(report.String(), "\n")
	assert.Equal(t, "Caliper ReadingEvent conformance:", lines[len(lines)-1])
}

func TestTemporalOrdering(t *testing.T) {
	f := newFixtures(t)

	tests := []struct {
		name      string
		started   time.Time
		ended     time.Time
		wantValid bool
	}{
		{"end before start", end, start, false},
		{"end equals start", start, start, false},
		{"start before end", start, end, true},
		{"start only", start, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := event.NewMedia().
				Actor(f.bob).
				Action(caliper.ActionEnded).
				Object(f.video).
				EventTime(start).
				StartedAtTime(tt.started).
				EndedAtTime(tt.ended).
				Build()
			if tt.wantValid {
				require.NoError(t, err)
				assert.Equal(t, tt.started, e.StartedAtTime())
				return
			}
			report, ok := conformance.ReportOf(err)
			require.True(t, ok)
			assert.True(t, report.Has(conformance.RuleTemporalOrder))
		})
	}
}

func TestFailedBuildYieldsNoEvent(t *testing.T) {
	e, err := event.NewView().Build()

	assert.Nil(t, e)
	require.Error(t, err)
	assert.True(t, errors.Is(err, conformance.ErrNonConformant))

	report, _ := conformance.ReportOf(err)
	assert.True(t, report.Has(conformance.RuleReferenceRequired))
	assert.True(t, report.Has(conformance.RuleEventTime))
}

func TestDownloadedByActionKey(t *testing.T) {
	f := newFixtures(t)

	e, err := event.NewResourceManagement().
		ID(event.NewID()).
		Actor(f.bob).
		ActionKey("item.downloaded").
		Object(f.doc).
		EventTime(start).
		Build()

	require.NoError(t, err)
	assert.Equal(t, caliper.ActionDownloaded, e.Action())
	assert.True(t, strings.HasPrefix(e.ID(), "urn:uuid:"))
}

func TestUnknownActionKeyIsRejectedImmediately(t *testing.T) {
	f := newFixtures(t)

	b := event.NewResourceManagement().ActionKey("unknown.key")

	var unknown *caliper.UnknownActionError
	require.ErrorAs(t, b.Err(), &unknown)
	assert.Equal(t, "unknown.key", unknown.Key)

	e, err := b.Actor(f.bob).Object(f.doc).EventTime(start).Build()
	assert.Nil(t, e)
	assert.ErrorIs(t, err, caliper.ErrUnknownAction)
	assert.NotErrorIs(t, err, conformance.ErrNonConformant)
}

func TestUnregisteredActionIsRejectedImmediately(t *testing.T) {
	f := newFixtures(t)

	b := event.NewReading().Action(caliper.Action("Bogus"))

	var unknown *caliper.UnknownActionError
	require.ErrorAs(t, b.Err(), &unknown)
	assert.Equal(t, "Bogus", unknown.Key)

	e, err := b.Actor(f.bob).Object(f.page).EventTime(start).Build()
	assert.Nil(t, e)
	assert.ErrorIs(t, err, caliper.ErrUnknownAction)
	_, hasReport := conformance.ReportOf(err)
	assert.False(t, hasReport)
}

func TestToolLaunchWithFederatedSession(t *testing.T) {
	f := newFixtures(t)

	e, err := event.NewToolLaunch().
		ID(event.NewID()).
		Actor(f.bob).
		Action(caliper.ActionLaunched).
		Object(f.app).
		EventTime(start).
		EdApp(f.app).
		Group(f.section).
		FederatedSession(f.lti).
		Extension("referrer", "lms").
		Build()
	require.NoError(t, err)

	assert.Same(t, f.lti, e.FederatedSession())
	assert.Same(t, f.section, e.Group())

	// An LtiSession is a Session, but a plain Session is not federated.
	plain, err := entity.NewSession().ID("https://example.edu/sessions/1").Build()
	require.NoError(t, err)
	_, err = event.NewToolLaunch().
		Actor(f.bob).
		Action(caliper.ActionLaunched).
		Object(f.app).
		EventTime(start).
		FederatedSession(plain).
		Build()
	report, ok := conformance.ReportOf(err)
	require.True(t, ok)
	assert.Equal(t, "federatedSession", report.Violations()[0].Field)
}

func TestForbiddenGenerated(t *testing.T) {
	f := newFixtures(t)

	_, err := event.NewReading().
		Actor(f.bob).
		Action(caliper.ActionViewed).
		Object(f.doc).
		Generated(f.attempt).
		EventTime(start).
		Build()

	report, ok := conformance.ReportOf(err)
	require.True(t, ok)
	assert.Equal(t, "generated is not permitted for ReadingEvent", report.Violations()[0].Message)
}

func TestTypedNilReferenceIsAbsent(t *testing.T) {
	f := newFixtures(t)
	var noTarget *entity.DigitalResource

	e, err := event.NewReading().
		Actor(f.bob).
		Action(caliper.ActionViewed).
		Object(f.doc).
		Target(noTarget).
		EventTime(start).
		Build()
	require.NoError(t, err)
	assert.Nil(t, e.Target())
}

func TestDurationFormat(t *testing.T) {
	f := newFixtures(t)
	build := func(d string, opts ...event.Option) error {
		_, err := event.NewMedia(opts...).
			Actor(f.bob).
			Action(caliper.ActionEnded).
			Object(f.video).
			EventTime(start).
			Duration(d).
			Build()
		return err
	}

	assert.NoError(t, build("about an hour"))
	assert.Error(t, build(""))
	assert.NoError(t, build("PT1H", event.WithDurationFormat(conformance.ISO8601Duration)))

	err := build("about an hour", event.WithDurationFormat(conformance.ISO8601Duration))
	report, ok := conformance.ReportOf(err)
	require.True(t, ok)
	assert.True(t, report.Has(conformance.RuleDurationFormat))
}

func TestWithRulesOverride(t *testing.T) {
	f := newFixtures(t)
	rs := conformance.EventRules(caliper.EventReading)
	rs.Actions = append(rs.Actions, caliper.ActionBookmarked)

	e, err := event.NewReading(event.WithRules(rs)).
		Actor(f.bob).
		Action(caliper.ActionBookmarked).
		Object(f.doc).
		EventTime(start).
		Build()
	require.NoError(t, err)

	report := e.Validate(conformance.EventRules(caliper.EventReading))
	assert.False(t, report.Valid())
}

func TestRevalidationIsDeterministic(t *testing.T) {
	f := newFixtures(t)
	e, err := event.NewView().Actor(f.bob).Object(f.doc).EventTime(start).Build()
	require.NoError(t, err)

	strict := conformance.EventRules(caliper.EventView)
	strict.Temporal.RequireStart = true
	strict.RequireID = true

	first := e.Validate(strict)
	second := e.Validate(strict)
	assert.Equal(t, first, second)
	assert.Equal(t, first.String(), second.String())
	assert.Len(t, first.Violations(), 2)
}

func TestBuilderCannotBeReused(t *testing.T) {
	f := newFixtures(t)
	b := event.NewView().Actor(f.bob).Object(f.doc).EventTime(start)

	_, err := b.Build()
	require.NoError(t, err)
	_, err = b.Build()
	assert.ErrorIs(t, err, construct.ErrFinalized)
}

func TestUnknownEventType(t *testing.T) {
	e, err := event.New(caliper.EventType("PartyEvent")).Build()
	assert.Nil(t, e)
	assert.EqualError(t, err, "unknown event type: PartyEvent")
}

type recorder struct {
	mu       sync.Mutex
	variants []string
	errs     []error
}

func (r *recorder) ObserveBuild(variant string, _ conformance.Report, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.variants = append(r.variants, variant)
	r.errs = append(r.errs, err)
}

func TestObserverSeesEveryBuild(t *testing.T) {
	f := newFixtures(t)
	rec := &recorder{}

	_, err := event.NewView(event.WithObserver(rec)).Actor(f.bob).Object(f.doc).EventTime(start).Build()
	require.NoError(t, err)
	_, err = event.NewView(event.WithObserver(rec)).Build()
	require.Error(t, err)

	assert.Equal(t, []string{"ViewEvent", "ViewEvent"}, rec.variants)
	assert.NoError(t, rec.errs[0])
	assert.ErrorIs(t, rec.errs[1], conformance.ErrNonConformant)
}

func TestConcurrentSetters(t *testing.T) {
	f := newFixtures(t)
	b := event.NewView().Actor(f.bob).Object(f.doc).EventTime(start)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Extension(fmt.Sprintf("k%d", i), i)
		}()
	}
	wg.Wait()

	e, err := b.Build()
	require.NoError(t, err)
	assert.Len(t, e.Extensions(), 20)
}

func TestExtensionsAreCopied(t *testing.T) {
	f := newFixtures(t)
	e, err := event.NewView().Actor(f.bob).Object(f.doc).EventTime(start).Extension("a", 1).Build()
	require.NoError(t, err)

	ext := e.Extensions()
	ext["a"] = 2
	assert.Equal(t, 1, e.Extensions()["a"])
}

func TestNestedExtensionsAreCopied(t *testing.T) {
	f := newFixtures(t)
	scores := []any{1.0, 2.0}
	e, err := event.NewView().Actor(f.bob).Object(f.doc).EventTime(start).Extension("scores", scores).Build()
	require.NoError(t, err)

	scores[0] = 9.0
	assert.Equal(t, []any{1.0, 2.0}, e.Extensions()["scores"])
}
