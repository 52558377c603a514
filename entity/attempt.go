package entity

import (
	"slices"
	"time"

	"github.com/c360studio/caliper/conformance"
	"github.com/c360studio/caliper/construct"
	"github.com/c360studio/caliper/vocabulary/caliper"
)

// Attempt records one try at an assignable resource.
type Attempt struct {
	core
	timingFields
	assignee   Entity
	assignable Entity
	isPartOf   Entity
	count      int
}

func (a *Attempt) Assignee() Entity   { return a.assignee }
func (a *Attempt) Assignable() Entity { return a.assignable }
func (a *Attempt) IsPartOf() Entity   { return a.isPartOf }
func (a *Attempt) Count() int         { return a.count }

type attemptState struct {
	coreState
	timingState
	assignee   Entity
	assignable Entity
	isPartOf   Entity
	count      int
}

// AttemptBuilder accumulates the fields of an Attempt.
type AttemptBuilder struct {
	acc construct.Accumulator[attemptState]
}

// NewAttempt starts an Attempt.
func NewAttempt() *AttemptBuilder {
	return &AttemptBuilder{}
}

func (b *AttemptBuilder) ID(id string) *AttemptBuilder {
	b.acc.Set(func(s *attemptState) { s.id = id })
	return b
}

func (b *AttemptBuilder) Name(name string) *AttemptBuilder {
	b.acc.Set(func(s *attemptState) { s.name = name })
	return b
}

func (b *AttemptBuilder) Description(description string) *AttemptBuilder {
	b.acc.Set(func(s *attemptState) { s.description = description })
	return b
}

func (b *AttemptBuilder) DateCreated(t time.Time) *AttemptBuilder {
	b.acc.Set(func(s *attemptState) { s.dateCreated = t })
	return b
}

func (b *AttemptBuilder) DateModified(t time.Time) *AttemptBuilder {
	b.acc.Set(func(s *attemptState) { s.dateModified = t })
	return b
}

func (b *AttemptBuilder) Extension(key string, value any) *AttemptBuilder {
	b.acc.Set(func(s *attemptState) { s.setExtension(key, value) })
	return b
}

// StartedAtTime sets when the activity started.
func (b *AttemptBuilder) StartedAtTime(t time.Time) *AttemptBuilder {
	b.acc.Set(func(s *attemptState) { s.startedAt = t })
	return b
}

// EndedAtTime sets when the activity ended. It must be after StartedAtTime.
func (b *AttemptBuilder) EndedAtTime(t time.Time) *AttemptBuilder {
	b.acc.Set(func(s *attemptState) { s.endedAt = t })
	return b
}

// Duration sets the ISO-8601 duration of the activity.
func (b *AttemptBuilder) Duration(d string) *AttemptBuilder {
	b.acc.Set(func(s *attemptState) { s.duration = &d })
	return b
}

// Assignee sets the person making the attempt.
func (b *AttemptBuilder) Assignee(p Entity) *AttemptBuilder {
	b.acc.Set(func(s *attemptState) { s.assignee = orNil(p) })
	return b
}

// Assignable sets the resource being attempted.
func (b *AttemptBuilder) Assignable(r Entity) *AttemptBuilder {
	b.acc.Set(func(s *attemptState) { s.assignable = orNil(r) })
	return b
}

// IsPartOf sets the parent attempt of an item attempt.
func (b *AttemptBuilder) IsPartOf(parent Entity) *AttemptBuilder {
	b.acc.Set(func(s *attemptState) { s.isPartOf = orNil(parent) })
	return b
}

// Count sets the attempt number, starting at 1.
func (b *AttemptBuilder) Count(n int) *AttemptBuilder {
	b.acc.Set(func(s *attemptState) { s.count = n })
	return b
}

func (b *AttemptBuilder) Err() error { return b.acc.Err() }

// Build validates the accumulated fields and returns the Attempt.
func (b *AttemptBuilder) Build() (*Attempt, error) {
	return construct.Build(&b.acc, construct.Recipe[attemptState, *Attempt]{
		Rules: conformance.EntityRules(caliper.EntityAttempt),
		Clone: func(s attemptState) attemptState {
			s.coreState = s.coreState.clone()
			s.timingState = s.timingState.clone()
			return s
		},
		Defaults: func(s *attemptState) { s.typ = caliper.EntityAttempt },
		Candidate: func(s *attemptState) conformance.Candidate {
			c := s.candidate()
			s.apply(&c)
			c.References["assignee"] = one(s.assignee)
			c.References["assignable"] = one(s.assignable)
			c.References["isPartOf"] = one(s.isPartOf)
			return c
		},
		Freeze: func(s attemptState) *Attempt {
			return &Attempt{
				core:         s.coreState.freeze(),
				timingFields: s.timingState.freeze(),
				assignee:     s.assignee,
				assignable:   s.assignable,
				isPartOf:     s.isPartOf,
				count:        s.count,
			}
		},
	}, nil)
}

// Response is a learner's answer to an assessment item. Fill-in-blank,
// multiple-response and select-text responses carry Values; multiple-choice
// and true/false responses carry a single Value.
type Response struct {
	core
	timingFields
	attempt Entity
	values  []string
	value   string
}

// Attempt returns the attempt the response belongs to, or nil.
func (r *Response) Attempt() Entity { return r.attempt }

// Values returns a copy of the selected or entered values.
func (r *Response) Values() []string { return slices.Clone(r.values) }

// Value returns the single selected value.
func (r *Response) Value() string { return r.value }

type responseState struct {
	coreState
	timingState
	attempt Entity
	values  []string
	value   string
}

// ResponseBuilder accumulates the fields of a Response.
type ResponseBuilder struct {
	kind caliper.EntityType
	acc  construct.Accumulator[responseState]
}

// NewResponse starts a generic Response.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{kind: caliper.EntityResponse}
}

func NewFillinBlankResponse() *ResponseBuilder {
	return &ResponseBuilder{kind: caliper.EntityFillinBlankResponse}
}

func NewMultipleChoiceResponse() *ResponseBuilder {
	return &ResponseBuilder{kind: caliper.EntityMultipleChoiceResponse}
}

func NewMultipleResponseResponse() *ResponseBuilder {
	return &ResponseBuilder{kind: caliper.EntityMultipleResponseResponse}
}

func NewSelectTextResponse() *ResponseBuilder {
	return &ResponseBuilder{kind: caliper.EntitySelectTextResponse}
}

func NewTrueFalseResponse() *ResponseBuilder {
	return &ResponseBuilder{kind: caliper.EntityTrueFalseResponse}
}

func (b *ResponseBuilder) ID(id string) *ResponseBuilder {
	b.acc.Set(func(s *responseState) { s.id = id })
	return b
}

func (b *ResponseBuilder) Name(name string) *ResponseBuilder {
	b.acc.Set(func(s *responseState) { s.name = name })
	return b
}

func (b *ResponseBuilder) Description(description string) *ResponseBuilder {
	b.acc.Set(func(s *responseState) { s.description = description })
	return b
}

func (b *ResponseBuilder) DateCreated(t time.Time) *ResponseBuilder {
	b.acc.Set(func(s *responseState) { s.dateCreated = t })
	return b
}

func (b *ResponseBuilder) DateModified(t time.Time) *ResponseBuilder {
	b.acc.Set(func(s *responseState) { s.dateModified = t })
	return b
}

func (b *ResponseBuilder) Extension(key string, value any) *ResponseBuilder {
	b.acc.Set(func(s *responseState) { s.setExtension(key, value) })
	return b
}

// StartedAtTime sets when the activity started.
func (b *ResponseBuilder) StartedAtTime(t time.Time) *ResponseBuilder {
	b.acc.Set(func(s *responseState) { s.startedAt = t })
	return b
}

// EndedAtTime sets when the activity ended. It must be after StartedAtTime.
func (b *ResponseBuilder) EndedAtTime(t time.Time) *ResponseBuilder {
	b.acc.Set(func(s *responseState) { s.endedAt = t })
	return b
}

// Duration sets the ISO-8601 duration of the activity.
func (b *ResponseBuilder) Duration(d string) *ResponseBuilder {
	b.acc.Set(func(s *responseState) { s.duration = &d })
	return b
}

// Attempt sets the attempt the response belongs to.
func (b *ResponseBuilder) Attempt(a Entity) *ResponseBuilder {
	b.acc.Set(func(s *responseState) { s.attempt = orNil(a) })
	return b
}

// Values appends entered or selected values.
func (b *ResponseBuilder) Values(values ...string) *ResponseBuilder {
	if allow(&b.acc, b.kind, "values", caliper.EntityFillinBlankResponse,
		caliper.EntityMultipleResponseResponse, caliper.EntitySelectTextResponse) {
		b.acc.Set(func(s *responseState) { s.values = append(s.values, values...) })
	}
	return b
}

// Value sets the single selected value.
func (b *ResponseBuilder) Value(value string) *ResponseBuilder {
	if allow(&b.acc, b.kind, "value", caliper.EntityMultipleChoiceResponse, caliper.EntityTrueFalseResponse) {
		b.acc.Set(func(s *responseState) { s.value = value })
	}
	return b
}

func (b *ResponseBuilder) Err() error { return b.acc.Err() }

// Build validates the accumulated fields and returns the Response.
func (b *ResponseBuilder) Build() (*Response, error) {
	return construct.Build(&b.acc, construct.Recipe[responseState, *Response]{
		Rules: conformance.EntityRules(b.kind),
		Clone: func(s responseState) responseState {
			s.coreState = s.coreState.clone()
			s.timingState = s.timingState.clone()
			s.values = slices.Clone(s.values)
			return s
		},
		Defaults: func(s *responseState) { s.typ = b.kind },
		Candidate: func(s *responseState) conformance.Candidate {
			c := s.candidate()
			s.apply(&c)
			c.References["attempt"] = one(s.attempt)
			return c
		},
		Freeze: func(s responseState) *Response {
			return &Response{
				core:         s.coreState.freeze(),
				timingFields: s.timingState.freeze(),
				attempt:      s.attempt,
				values:       s.values,
				value:        s.value,
			}
		},
	}, nil)
}

// Result is the outcome of an attempt. Score shares the same shape.
type Result struct {
	core
	attempt    Entity
	maxScore   *float64
	scoreGiven *float64
	comment    string
	scoredBy   Agent
}

func (r *Result) Attempt() Entity { return r.attempt }

// MaxScore returns the highest attainable score and whether one was set.
func (r *Result) MaxScore() (float64, bool) { return optional(r.maxScore) }

// ScoreGiven returns the awarded score and whether one was set. A score of
// zero is a real grade.
func (r *Result) ScoreGiven() (float64, bool) { return optional(r.scoreGiven) }

func (r *Result) Comment() string { return r.comment }
func (r *Result) ScoredBy() Agent { return r.scoredBy }

type resultState struct {
	coreState
	attempt    Entity
	maxScore   *float64
	scoreGiven *float64
	comment    string
	scoredBy   Agent
}

// ResultBuilder accumulates the fields of a Result or Score.
type ResultBuilder struct {
	kind caliper.EntityType
	acc  construct.Accumulator[resultState]
}

// NewResult starts a Result.
func NewResult() *ResultBuilder {
	return &ResultBuilder{kind: caliper.EntityResult}
}

// NewScore starts a Score.
func NewScore() *ResultBuilder {
	return &ResultBuilder{kind: caliper.EntityScore}
}

func (b *ResultBuilder) ID(id string) *ResultBuilder {
	b.acc.Set(func(s *resultState) { s.id = id })
	return b
}

func (b *ResultBuilder) Name(name string) *ResultBuilder {
	b.acc.Set(func(s *resultState) { s.name = name })
	return b
}

func (b *ResultBuilder) Description(description string) *ResultBuilder {
	b.acc.Set(func(s *resultState) { s.description = description })
	return b
}

func (b *ResultBuilder) DateCreated(t time.Time) *ResultBuilder {
	b.acc.Set(func(s *resultState) { s.dateCreated = t })
	return b
}

func (b *ResultBuilder) DateModified(t time.Time) *ResultBuilder {
	b.acc.Set(func(s *resultState) { s.dateModified = t })
	return b
}

func (b *ResultBuilder) Extension(key string, value any) *ResultBuilder {
	b.acc.Set(func(s *resultState) { s.setExtension(key, value) })
	return b
}

// Attempt sets the scored attempt.
func (b *ResultBuilder) Attempt(a Entity) *ResultBuilder {
	b.acc.Set(func(s *resultState) { s.attempt = orNil(a) })
	return b
}

func (b *ResultBuilder) MaxScore(score float64) *ResultBuilder {
	b.acc.Set(func(s *resultState) { s.maxScore = &score })
	return b
}

func (b *ResultBuilder) ScoreGiven(score float64) *ResultBuilder {
	b.acc.Set(func(s *resultState) { s.scoreGiven = &score })
	return b
}

func (b *ResultBuilder) Comment(comment string) *ResultBuilder {
	b.acc.Set(func(s *resultState) { s.comment = comment })
	return b
}

// ScoredBy sets the agent that assigned the score.
func (b *ResultBuilder) ScoredBy(agent Agent) *ResultBuilder {
	b.acc.Set(func(s *resultState) { s.scoredBy = orNil(agent) })
	return b
}

func (b *ResultBuilder) Err() error { return b.acc.Err() }

// Build validates the accumulated fields and returns the Result.
func (b *ResultBuilder) Build() (*Result, error) {
	return construct.Build(&b.acc, construct.Recipe[resultState, *Result]{
		Rules: conformance.EntityRules(b.kind),
		Clone: func(s resultState) resultState {
			s.coreState = s.coreState.clone()
			return s
		},
		Defaults: func(s *resultState) { s.typ = b.kind },
		Candidate: func(s *resultState) conformance.Candidate {
			c := s.candidate()
			c.References["attempt"] = one(s.attempt)
			c.References["scoredBy"] = one(s.scoredBy)
			return c
		},
		Freeze: func(s resultState) *Result {
			return &Result{
				core:       s.freeze(),
				attempt:    s.attempt,
				maxScore:   copyPtr(s.maxScore),
				scoreGiven: copyPtr(s.scoreGiven),
				comment:    s.comment,
				scoredBy:   s.scoredBy,
			}
		},
	}, nil)
}
