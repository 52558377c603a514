package entity

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"time"

	"github.com/c360studio/caliper/capability"
	"github.com/c360studio/caliper/conformance"
	"github.com/c360studio/caliper/construct"
	"github.com/c360studio/caliper/vocabulary/caliper"
)

// Entity is an immutable Caliper entity.
type Entity interface {
	ID() string
	Type() caliper.EntityType
	Capabilities() capability.Set
	Name() string
	Description() string
	DateCreated() time.Time
	DateModified() time.Time
	Extensions() map[string]any

	sealed()
}

// Agent is an entity that can perform actions.
type Agent interface {
	Entity
	agent()
}

// IsNil reports whether e is nil or a typed nil pointer.
func IsNil(e Entity) bool {
	if e == nil {
		return true
	}
	rv := reflect.ValueOf(e)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// ErrFieldNotApplicable is matched by every *FieldError.
var ErrFieldNotApplicable = errors.New("field not applicable")

// FieldError reports a setter call for a field the variant does not carry.
type FieldError struct {
	Field string
	Type  caliper.EntityType
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s is not applicable to %s", e.Field, e.Type)
}

func (e *FieldError) Unwrap() error { return ErrFieldNotApplicable }

// allow reports whether kind is one of kinds, recording a *FieldError on
// acc when it is not.
func allow[S any](acc *construct.Accumulator[S], kind caliper.EntityType, field string, kinds ...caliper.EntityType) bool {
	if slices.Contains(kinds, kind) {
		return true
	}
	acc.Reject(&FieldError{Field: field, Type: kind})
	return false
}

// core holds the fields every entity carries.
type core struct {
	id           string
	typ          caliper.EntityType
	name         string
	description  string
	dateCreated  time.Time
	dateModified time.Time
	extensions   map[string]any
}

func (c *core) ID() string                   { return c.id }
func (c *core) Type() caliper.EntityType     { return c.typ }
func (c *core) Capabilities() capability.Set { return capabilitiesOf(c.typ) }
func (c *core) Name() string                 { return c.name }
func (c *core) Description() string          { return c.description }
func (c *core) DateCreated() time.Time       { return c.dateCreated }
func (c *core) DateModified() time.Time      { return c.dateModified }

// Extensions returns a deep copy of the extension map, or nil.
func (c *core) Extensions() map[string]any { return construct.CloneExtensions(c.extensions) }

func (c *core) sealed() {}

// String returns "Type <id>".
func (c *core) String() string { return string(c.typ) + " <" + c.id + ">" }

// coreState is the builder-side counterpart of core.
type coreState struct {
	id           string
	typ          caliper.EntityType
	name         string
	description  string
	dateCreated  time.Time
	dateModified time.Time
	extensions   map[string]any
}

func (s *coreState) setExtension(key string, value any) {
	if s.extensions == nil {
		s.extensions = make(map[string]any)
	}
	s.extensions[key] = construct.CloneValue(value)
}

func (s coreState) clone() coreState {
	s.extensions = construct.CloneExtensions(s.extensions)
	return s
}

func (s coreState) freeze() core {
	return core{
		id:           s.id,
		typ:          s.typ,
		name:         s.name,
		description:  s.description,
		dateCreated:  s.dateCreated,
		dateModified: s.dateModified,
		extensions:   s.extensions,
	}
}

func (s *coreState) candidate() conformance.Candidate {
	return conformance.Candidate{
		Type:       s.typ.URI(),
		ID:         s.id,
		References: make(map[string][]conformance.Participant),
	}
}

// one wraps a single optional reference for the validator.
func one(e Entity) []conformance.Participant {
	if IsNil(e) {
		return nil
	}
	return []conformance.Participant{e}
}

// many wraps a list reference for the validator.
func many[E Entity](es []E) []conformance.Participant {
	if len(es) == 0 {
		return nil
	}
	out := make([]conformance.Participant, len(es))
	for i, e := range es {
		out[i] = e
	}
	return out
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// optional unpacks a field that distinguishes unset from its zero value.
func optional[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

// present drops nil entries so list fields never hold holes.
func present[E Entity](es []E) []E {
	out := make([]E, 0, len(es))
	for _, e := range es {
		if !IsNil(e) {
			out = append(out, e)
		}
	}
	return out
}

// orNil normalizes a typed nil pointer to a nil interface.
func orNil[E Entity](e E) E {
	if IsNil(e) {
		var zero E
		return zero
	}
	return e
}

// timingFields are carried by entities that span an interval.
type timingFields struct {
	startedAt time.Time
	endedAt   time.Time
	duration  *string
}

func (t *timingFields) StartedAtTime() time.Time { return t.startedAt }
func (t *timingFields) EndedAtTime() time.Time   { return t.endedAt }

// Duration returns the ISO-8601 duration and whether one was set.
func (t *timingFields) Duration() (string, bool) { return optional(t.duration) }

type timingState struct {
	startedAt time.Time
	endedAt   time.Time
	duration  *string
}

func (t timingState) clone() timingState {
	t.duration = copyPtr(t.duration)
	return t
}

func (t timingState) freeze() timingFields {
	return timingFields{startedAt: t.startedAt, endedAt: t.endedAt, duration: copyPtr(t.duration)}
}

func (t *timingState) apply(c *conformance.Candidate) {
	c.StartedAt = t.startedAt
	c.EndedAt = t.endedAt
	c.Duration = t.duration
}
