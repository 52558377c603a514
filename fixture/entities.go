package fixture

import (
	"fmt"
	"time"

	"github.com/c360studio/caliper/entity"
	"github.com/c360studio/caliper/vocabulary/caliper"
)

// common is the setter set every entity builder shares.
type common[B any] interface {
	ID(id string) B
	Name(name string) B
	Description(description string) B
	DateCreated(t time.Time) B
	DateModified(t time.Time) B
	Extension(key string, value any) B
}

// resourceSetters is shared by every digital resource builder.
type resourceSetters[B any] interface {
	common[B]
	IsPartOf(parent entity.Entity) B
	Creators(creators ...entity.Agent) B
	MediaType(mediaType string) B
	Keywords(keywords ...string) B
	LearningObjectives(objectives ...entity.Entity) B
	DatePublished(t time.Time) B
	Version(version string) B
}

func applyCommon[B common[B]](b B, r *resolver, s EntitySpec) {
	b.ID(s.ID)
	if s.Name != "" {
		b.Name(s.Name)
	}
	if s.Description != "" {
		b.Description(s.Description)
	}
	b.DateCreated(r.time("dateCreated", s.DateCreated))
	b.DateModified(r.time("dateModified", s.DateModified))
	for k, v := range s.Extensions {
		b.Extension(k, v)
	}
}

func applyResource[B resourceSetters[B]](b B, r *resolver, s EntitySpec) {
	applyCommon(b, r, s)
	b.IsPartOf(r.entity("isPartOf", s.IsPartOf))
	if len(s.Creators) > 0 {
		b.Creators(r.agents("creators", s.Creators)...)
	}
	if s.MediaType != "" {
		b.MediaType(s.MediaType)
	}
	if len(s.Keywords) > 0 {
		b.Keywords(s.Keywords...)
	}
	if len(s.LearningObjectives) > 0 {
		b.LearningObjectives(r.entities("learningObjectives", s.LearningObjectives)...)
	}
	b.DatePublished(r.time("datePublished", s.DatePublished))
	if s.Version != "" {
		b.Version(s.Version)
	}
}

// finish resolves pending lookup errors before building.
func finish[T entity.Entity](build func() (T, error), r *resolver) (entity.Entity, error) {
	if r.err != nil {
		return nil, r.err
	}
	e, err := build()
	if err != nil {
		return nil, err
	}
	return e, nil
}

var (
	organizations = map[caliper.EntityType]func() *entity.OrganizationBuilder{
		caliper.EntityOrganization:   entity.NewOrganization,
		caliper.EntityCourseOffering: entity.NewCourseOffering,
		caliper.EntityCourseSection:  entity.NewCourseSection,
		caliper.EntityGroup:          entity.NewGroup,
	}
	resources = map[caliper.EntityType]func() *entity.DigitalResourceBuilder{
		caliper.EntityDigitalResource: entity.NewDigitalResource,
		caliper.EntityDocument:        entity.NewDocument,
		caliper.EntityChapter:         entity.NewChapter,
		caliper.EntityPage:            entity.NewPage,
		caliper.EntityWebPage:         entity.NewWebPage,
		caliper.EntityFrame:           entity.NewFrame,
		caliper.EntityReading:         entity.NewReading,
		caliper.EntityEpubVolume:      entity.NewEpubVolume,
		caliper.EntityEpubPart:        entity.NewEpubPart,
		caliper.EntityEpubChapter:     entity.NewEpubChapter,
		caliper.EntityEpubSubChapter:  entity.NewEpubSubChapter,
		caliper.EntityMessage:         entity.NewMessage,
	}
	assignables = map[caliper.EntityType]func() *entity.AssignableBuilder{
		caliper.EntityAssignableDigitalResource: entity.NewAssignableDigitalResource,
		caliper.EntityAssessment:                entity.NewAssessment,
		caliper.EntityAssessmentItem:            entity.NewAssessmentItem,
	}
	collections = map[caliper.EntityType]func() *entity.CollectionBuilder{
		caliper.EntityDigitalResourceCollection: entity.NewDigitalResourceCollection,
		caliper.EntityForum:                     entity.NewForum,
		caliper.EntityThread:                    entity.NewThread,
	}
	media = map[caliper.EntityType]func() *entity.MediaObjectBuilder{
		caliper.EntityMediaObject: entity.NewMediaObject,
		caliper.EntityAudioObject: entity.NewAudioObject,
		caliper.EntityImageObject: entity.NewImageObject,
		caliper.EntityVideoObject: entity.NewVideoObject,
	}
	annotations = map[caliper.EntityType]func() *entity.AnnotationBuilder{
		caliper.EntityAnnotation:          entity.NewAnnotation,
		caliper.EntityBookmarkAnnotation:  entity.NewBookmarkAnnotation,
		caliper.EntityHighlightAnnotation: entity.NewHighlightAnnotation,
		caliper.EntitySharedAnnotation:    entity.NewSharedAnnotation,
		caliper.EntityTagAnnotation:       entity.NewTagAnnotation,
	}
	responses = map[caliper.EntityType]func() *entity.ResponseBuilder{
		caliper.EntityResponse:                 entity.NewResponse,
		caliper.EntityFillinBlankResponse:      entity.NewFillinBlankResponse,
		caliper.EntityMultipleChoiceResponse:   entity.NewMultipleChoiceResponse,
		caliper.EntityMultipleResponseResponse: entity.NewMultipleResponseResponse,
		caliper.EntitySelectTextResponse:       entity.NewSelectTextResponse,
		caliper.EntityTrueFalseResponse:        entity.NewTrueFalseResponse,
	}
	results = map[caliper.EntityType]func() *entity.ResultBuilder{
		caliper.EntityResult: entity.NewResult,
		caliper.EntityScore:  entity.NewScore,
	}
	sessions = map[caliper.EntityType]func() *entity.SessionBuilder{
		caliper.EntitySession:    entity.NewSession,
		caliper.EntityLtiSession: entity.NewLtiSession,
	}
)

func buildEntity(reg registry, s EntitySpec) (entity.Entity, error) {
	t, err := caliper.ParseEntityType(s.Type)
	if err != nil {
		return nil, err
	}
	r := &resolver{reg: reg}

	switch t {
	case caliper.EntityPerson:
		b := entity.NewPerson()
		applyCommon(b, r, s)
		return finish(b.Build, r)

	case caliper.EntitySoftwareApplication:
		b := entity.NewSoftwareApplication()
		applyCommon(b, r, s)
		if s.Version != "" {
			b.Version(s.Version)
		}
		return finish(b.Build, r)

	case caliper.EntityMembership:
		b := entity.NewMembership()
		applyCommon(b, r, s)
		b.Member(r.entity("member", s.Member))
		b.Organization(r.entity("organization", s.Organization))
		for _, name := range s.Roles {
			role, err := entity.ParseRole(name)
			if err != nil {
				return nil, err
			}
			b.Roles(role)
		}
		if s.Status != "" {
			status, err := entity.ParseStatus(s.Status)
			if err != nil {
				return nil, err
			}
			b.Status(status)
		}
		return finish(b.Build, r)

	case caliper.EntityLearningObjective:
		b := entity.NewLearningObjective()
		applyCommon(b, r, s)
		return finish(b.Build, r)

	case caliper.EntityMediaLocation:
		b := entity.NewMediaLocation()
		applyCommon(b, r, s)
		if s.CurrentTime != "" {
			b.CurrentTime(s.CurrentTime)
		}
		return finish(b.Build, r)

	case caliper.EntityAttempt:
		b := entity.NewAttempt()
		applyCommon(b, r, s)
		b.Assignee(r.entity("assignee", s.Assignee)).
			Assignable(r.entity("assignable", s.Assignable)).
			IsPartOf(r.entity("isPartOf", s.IsPartOf)).
			StartedAtTime(r.time("startedAtTime", s.StartedAtTime)).
			EndedAtTime(r.time("endedAtTime", s.EndedAtTime))
		if s.Duration != "" {
			b.Duration(s.Duration)
		}
		if s.Count != 0 {
			b.Count(s.Count)
		}
		return finish(b.Build, r)
	}

	if newB, ok := organizations[t]; ok {
		b := newB()
		applyCommon(b, r, s)
		b.SubOrganizationOf(r.entity("subOrganizationOf", s.SubOrganizationOf))
		if s.CourseNumber != "" {
			b.CourseNumber(s.CourseNumber)
		}
		if s.AcademicSession != "" {
			b.AcademicSession(s.AcademicSession)
		}
		return finish(b.Build, r)
	}

	if newB, ok := resources[t]; ok {
		b := newB()
		applyResource(b, r, s)
		if s.Index != nil {
			b.Index(*s.Index)
		}
		if s.Body != "" {
			b.Body(s.Body)
		}
		return finish(b.Build, r)
	}

	if newB, ok := assignables[t]; ok {
		b := newB()
		applyResource(b, r, s)
		b.DateToActivate(r.time("dateToActivate", s.DateToActivate)).
			DateToShow(r.time("dateToShow", s.DateToShow)).
			DateToStartOn(r.time("dateToStartOn", s.DateToStartOn)).
			DateToSubmit(r.time("dateToSubmit", s.DateToSubmit))
		if s.MaxAttempts != 0 {
			b.MaxAttempts(s.MaxAttempts)
		}
		if s.MaxSubmissions != 0 {
			b.MaxSubmissions(s.MaxSubmissions)
		}
		if s.MaxScore != nil {
			b.MaxScore(*s.MaxScore)
		}
		if s.IsTimeDependent != nil {
			b.IsTimeDependent(*s.IsTimeDependent)
		}
		return finish(b.Build, r)
	}

	if newB, ok := collections[t]; ok {
		b := newB()
		applyResource(b, r, s)
		if len(s.Items) > 0 {
			b.Items(r.entities("items", s.Items)...)
		}
		return finish(b.Build, r)
	}

	if newB, ok := media[t]; ok {
		b := newB()
		applyResource(b, r, s)
		if s.Duration != "" {
			b.Duration(s.Duration)
		}
		if s.Volume != "" {
			b.Volume(s.Volume)
		}
		if s.Muted != nil {
			b.Muted(*s.Muted)
		}
		return finish(b.Build, r)
	}

	if newB, ok := annotations[t]; ok {
		b := newB()
		applyCommon(b, r, s)
		b.Annotator(r.entity("annotator", s.Annotator)).
			Annotated(r.entity("annotated", s.Annotated))
		if s.BookmarkNotes != "" {
			b.BookmarkNotes(s.BookmarkNotes)
		}
		if s.Selection != nil {
			b.Selection(s.Selection.Start, s.Selection.End)
		}
		if s.SelectionText != "" {
			b.SelectionText(s.SelectionText)
		}
		if len(s.WithAgents) > 0 {
			b.WithAgents(r.agents("withAgents", s.WithAgents)...)
		}
		if len(s.Tags) > 0 {
			b.Tags(s.Tags...)
		}
		return finish(b.Build, r)
	}

	if newB, ok := responses[t]; ok {
		b := newB()
		applyCommon(b, r, s)
		b.Attempt(r.entity("attempt", s.Attempt)).
			StartedAtTime(r.time("startedAtTime", s.StartedAtTime)).
			EndedAtTime(r.time("endedAtTime", s.EndedAtTime))
		if s.Duration != "" {
			b.Duration(s.Duration)
		}
		if s.Value != "" {
			b.Value(s.Value)
		}
		if len(s.Values) > 0 {
			b.Values(s.Values...)
		}
		return finish(b.Build, r)
	}

	if newB, ok := results[t]; ok {
		b := newB()
		applyCommon(b, r, s)
		b.Attempt(r.entity("attempt", s.Attempt))
		if s.MaxScore != nil {
			b.MaxScore(*s.MaxScore)
		}
		if s.ScoreGiven != nil {
			b.ScoreGiven(*s.ScoreGiven)
		}
		if s.Comment != "" {
			b.Comment(s.Comment)
		}
		b.ScoredBy(r.agent("scoredBy", s.ScoredBy))
		return finish(b.Build, r)
	}

	if newB, ok := sessions[t]; ok {
		b := newB()
		applyCommon(b, r, s)
		b.User(r.entity("user", s.User)).
			StartedAtTime(r.time("startedAtTime", s.StartedAtTime)).
			EndedAtTime(r.time("endedAtTime", s.EndedAtTime))
		if s.Duration != "" {
			b.Duration(s.Duration)
		}
		if s.MessageParameters != nil {
			b.MessageParameters(*s.MessageParameters)
		}
		return finish(b.Build, r)
	}

	return nil, fmt.Errorf("no fixture support for entity type %s", t)
}
