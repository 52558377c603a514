package entity

import (
	"time"

	"github.com/c360studio/caliper/conformance"
	"github.com/c360studio/caliper/construct"
	"github.com/c360studio/caliper/vocabulary/caliper"
)

// LisClaim carries the LIS identifiers passed in an LTI launch.
type LisClaim struct {
	PersonSourcedID         string `json:"person_sourcedid,omitempty" yaml:"person_sourced_id"`
	CourseOfferingSourcedID string `json:"course_offering_sourcedid,omitempty" yaml:"course_offering_sourced_id"`
	CourseSectionSourcedID  string `json:"course_section_sourcedid,omitempty" yaml:"course_section_sourced_id"`
}

// IsZero reports whether no identifier is set.
func (c LisClaim) IsZero() bool { return c == LisClaim{} }

// Session is a user's session with a software application. An LtiSession
// additionally carries the launch parameters of an LTI tool.
type Session struct {
	core
	timingFields
	user              Entity
	messageParameters LisClaim
}

// User returns the session user, or nil.
func (s *Session) User() Entity { return s.user }

// MessageParameters returns the LIS claim of an LtiSession.
func (s *Session) MessageParameters() LisClaim { return s.messageParameters }

type sessionState struct {
	coreState
	timingState
	user              Entity
	messageParameters LisClaim
}

// SessionBuilder accumulates the fields of a Session.
type SessionBuilder struct {
	kind caliper.EntityType
	acc  construct.Accumulator[sessionState]
}

// NewSession starts a Session.
func NewSession() *SessionBuilder {
	return &SessionBuilder{kind: caliper.EntitySession}
}

// NewLtiSession starts an LtiSession.
func NewLtiSession() *SessionBuilder {
	return &SessionBuilder{kind: caliper.EntityLtiSession}
}

func (b *SessionBuilder) ID(id string) *SessionBuilder {
	b.acc.Set(func(s *sessionState) { s.id = id })
	return b
}

func (b *SessionBuilder) Name(name string) *SessionBuilder {
	b.acc.Set(func(s *sessionState) { s.name = name })
	return b
}

func (b *SessionBuilder) Description(description string) *SessionBuilder {
	b.acc.Set(func(s *sessionState) { s.description = description })
	return b
}

func (b *SessionBuilder) DateCreated(t time.Time) *SessionBuilder {
	b.acc.Set(func(s *sessionState) { s.dateCreated = t })
	return b
}

func (b *SessionBuilder) DateModified(t time.Time) *SessionBuilder {
	b.acc.Set(func(s *sessionState) { s.dateModified = t })
	return b
}

func (b *SessionBuilder) Extension(key string, value any) *SessionBuilder {
	b.acc.Set(func(s *sessionState) { s.setExtension(key, value) })
	return b
}

// StartedAtTime sets when the activity started.
func (b *SessionBuilder) StartedAtTime(t time.Time) *SessionBuilder {
	b.acc.Set(func(s *sessionState) { s.startedAt = t })
	return b
}

// EndedAtTime sets when the activity ended. It must be after StartedAtTime.
func (b *SessionBuilder) EndedAtTime(t time.Time) *SessionBuilder {
	b.acc.Set(func(s *sessionState) { s.endedAt = t })
	return b
}

// Duration sets the ISO-8601 duration of the activity.
func (b *SessionBuilder) Duration(d string) *SessionBuilder {
	b.acc.Set(func(s *sessionState) { s.duration = &d })
	return b
}

// User sets the session user.
func (b *SessionBuilder) User(user Entity) *SessionBuilder {
	b.acc.Set(func(s *sessionState) { s.user = orNil(user) })
	return b
}

// MessageParameters sets the LIS claim of an LtiSession.
func (b *SessionBuilder) MessageParameters(claim LisClaim) *SessionBuilder {
	if allow(&b.acc, b.kind, "messageParameters", caliper.EntityLtiSession) {
		b.acc.Set(func(s *sessionState) { s.messageParameters = claim })
	}
	return b
}

func (b *SessionBuilder) Err() error { return b.acc.Err() }

// Build validates the accumulated fields and returns the Session.
func (b *SessionBuilder) Build() (*Session, error) {
	return construct.Build(&b.acc, construct.Recipe[sessionState, *Session]{
		Rules: conformance.EntityRules(b.kind),
		Clone: func(s sessionState) sessionState {
			s.coreState = s.coreState.clone()
			s.timingState = s.timingState.clone()
			return s
		},
		Defaults: func(s *sessionState) { s.typ = b.kind },
		Candidate: func(s *sessionState) conformance.Candidate {
			c := s.candidate()
			s.apply(&c)
			c.References["user"] = one(s.user)
			return c
		},
		Freeze: func(s sessionState) *Session {
			return &Session{
				core:              s.coreState.freeze(),
				timingFields:      s.timingState.freeze(),
				user:              s.user,
				messageParameters: s.messageParameters,
			}
		},
	}, nil)
}
