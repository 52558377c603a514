package entity

import (
	"time"

	"github.com/c360studio/caliper/conformance"
	"github.com/c360studio/caliper/construct"
	"github.com/c360studio/caliper/vocabulary/caliper"
)

// AssignableDigitalResource is a resource assigned to learners: a generic
// assignable, an Assessment or an AssessmentItem.
type AssignableDigitalResource struct {
	core
	resourceFields
	dateToActivate  time.Time
	dateToShow      time.Time
	dateToStartOn   time.Time
	dateToSubmit    time.Time
	maxAttempts     int
	maxSubmissions  int
	maxScore        *float64
	isTimeDependent bool
}

func (a *AssignableDigitalResource) DateToActivate() time.Time { return a.dateToActivate }
func (a *AssignableDigitalResource) DateToShow() time.Time     { return a.dateToShow }
func (a *AssignableDigitalResource) DateToStartOn() time.Time  { return a.dateToStartOn }
func (a *AssignableDigitalResource) DateToSubmit() time.Time   { return a.dateToSubmit }
func (a *AssignableDigitalResource) MaxAttempts() int          { return a.maxAttempts }
func (a *AssignableDigitalResource) MaxSubmissions() int       { return a.maxSubmissions }

// MaxScore returns the highest attainable score and whether one was set.
// Zero is a valid maximum.
func (a *AssignableDigitalResource) MaxScore() (float64, bool) { return optional(a.maxScore) }

// IsTimeDependent reports whether an AssessmentItem is timed.
func (a *AssignableDigitalResource) IsTimeDependent() bool { return a.isTimeDependent }

type assignableState struct {
	coreState
	resourceState
	dateToActivate  time.Time
	dateToShow      time.Time
	dateToStartOn   time.Time
	dateToSubmit    time.Time
	maxAttempts     int
	maxSubmissions  int
	maxScore        *float64
	isTimeDependent bool
}

// AssignableBuilder accumulates the fields of an AssignableDigitalResource.
type AssignableBuilder struct {
	kind caliper.EntityType
	acc  construct.Accumulator[assignableState]
}

// NewAssignableDigitalResource starts a generic AssignableDigitalResource.
func NewAssignableDigitalResource() *AssignableBuilder {
	return &AssignableBuilder{kind: caliper.EntityAssignableDigitalResource}
}

// NewAssessment starts an Assessment.
func NewAssessment() *AssignableBuilder {
	return &AssignableBuilder{kind: caliper.EntityAssessment}
}

// NewAssessmentItem starts an AssessmentItem.
func NewAssessmentItem() *AssignableBuilder {
	return &AssignableBuilder{kind: caliper.EntityAssessmentItem}
}

func (b *AssignableBuilder) ID(id string) *AssignableBuilder {
	b.acc.Set(func(s *assignableState) { s.id = id })
	return b
}

func (b *AssignableBuilder) Name(name string) *AssignableBuilder {
	b.acc.Set(func(s *assignableState) { s.name = name })
	return b
}

func (b *AssignableBuilder) Description(description string) *AssignableBuilder {
	b.acc.Set(func(s *assignableState) { s.description = description })
	return b
}

func (b *AssignableBuilder) DateCreated(t time.Time) *AssignableBuilder {
	b.acc.Set(func(s *assignableState) { s.dateCreated = t })
	return b
}

func (b *AssignableBuilder) DateModified(t time.Time) *AssignableBuilder {
	b.acc.Set(func(s *assignableState) { s.dateModified = t })
	return b
}

func (b *AssignableBuilder) Extension(key string, value any) *AssignableBuilder {
	b.acc.Set(func(s *assignableState) { s.setExtension(key, value) })
	return b
}

// IsPartOf sets the parent resource or organization.
func (b *AssignableBuilder) IsPartOf(parent Entity) *AssignableBuilder {
	b.acc.Set(func(s *assignableState) { s.isPartOf = orNil(parent) })
	return b
}

// Creators appends creators.
func (b *AssignableBuilder) Creators(creators ...Agent) *AssignableBuilder {
	creators = present(creators)
	b.acc.Set(func(s *assignableState) { s.creators = append(s.creators, creators...) })
	return b
}

func (b *AssignableBuilder) MediaType(mediaType string) *AssignableBuilder {
	b.acc.Set(func(s *assignableState) { s.mediaType = mediaType })
	return b
}

// Keywords appends keywords.
func (b *AssignableBuilder) Keywords(keywords ...string) *AssignableBuilder {
	b.acc.Set(func(s *assignableState) { s.keywords = append(s.keywords, keywords...) })
	return b
}

// LearningObjectives appends learning objectives.
func (b *AssignableBuilder) LearningObjectives(objectives ...Entity) *AssignableBuilder {
	objectives = present(objectives)
	b.acc.Set(func(s *assignableState) { s.learningObjectives = append(s.learningObjectives, objectives...) })
	return b
}

func (b *AssignableBuilder) DatePublished(t time.Time) *AssignableBuilder {
	b.acc.Set(func(s *assignableState) { s.datePublished = t })
	return b
}

func (b *AssignableBuilder) Version(version string) *AssignableBuilder {
	b.acc.Set(func(s *assignableState) { s.version = version })
	return b
}

func (b *AssignableBuilder) DateToActivate(t time.Time) *AssignableBuilder {
	b.acc.Set(func(s *assignableState) { s.dateToActivate = t })
	return b
}

func (b *AssignableBuilder) DateToShow(t time.Time) *AssignableBuilder {
	b.acc.Set(func(s *assignableState) { s.dateToShow = t })
	return b
}

func (b *AssignableBuilder) DateToStartOn(t time.Time) *AssignableBuilder {
	b.acc.Set(func(s *assignableState) { s.dateToStartOn = t })
	return b
}

func (b *AssignableBuilder) DateToSubmit(t time.Time) *AssignableBuilder {
	b.acc.Set(func(s *assignableState) { s.dateToSubmit = t })
	return b
}

// MaxAttempts sets the number of attempts allowed.
func (b *AssignableBuilder) MaxAttempts(n int) *AssignableBuilder {
	b.acc.Set(func(s *assignableState) { s.maxAttempts = n })
	return b
}

// MaxSubmissions sets the number of submissions allowed.
func (b *AssignableBuilder) MaxSubmissions(n int) *AssignableBuilder {
	b.acc.Set(func(s *assignableState) { s.maxSubmissions = n })
	return b
}

// MaxScore sets the highest attainable score.
func (b *AssignableBuilder) MaxScore(score float64) *AssignableBuilder {
	b.acc.Set(func(s *assignableState) { s.maxScore = &score })
	return b
}

// IsTimeDependent marks an AssessmentItem as timed.
func (b *AssignableBuilder) IsTimeDependent(timed bool) *AssignableBuilder {
	if allow(&b.acc, b.kind, "isTimeDependent", caliper.EntityAssessmentItem) {
		b.acc.Set(func(s *assignableState) { s.isTimeDependent = timed })
	}
	return b
}

func (b *AssignableBuilder) Err() error { return b.acc.Err() }

// Build validates the accumulated fields and returns the resource.
func (b *AssignableBuilder) Build() (*AssignableDigitalResource, error) {
	return construct.Build(&b.acc, construct.Recipe[assignableState, *AssignableDigitalResource]{
		Rules: conformance.EntityRules(b.kind),
		Clone: func(s assignableState) assignableState {
			s.coreState = s.coreState.clone()
			s.resourceState = s.resourceState.clone()
			return s
		},
		Defaults: func(s *assignableState) { s.typ = b.kind },
		Candidate: func(s *assignableState) conformance.Candidate {
			c := s.candidate()
			s.references(&c)
			return c
		},
		Freeze: func(s assignableState) *AssignableDigitalResource {
			return &AssignableDigitalResource{
				core:            s.coreState.freeze(),
				resourceFields:  s.resourceState.freeze(),
				dateToActivate:  s.dateToActivate,
				dateToShow:      s.dateToShow,
				dateToStartOn:   s.dateToStartOn,
				dateToSubmit:    s.dateToSubmit,
				maxAttempts:     s.maxAttempts,
				maxSubmissions:  s.maxSubmissions,
				maxScore:        copyPtr(s.maxScore),
				isTimeDependent: s.isTimeDependent,
			}
		},
	}, nil)
}
