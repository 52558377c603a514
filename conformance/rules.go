// Package conformance declares the Caliper conformance rules and the engine
// that checks candidate events and entities against them.
//
// Rules are data. Each variant has a RuleSet naming its allowed actions, the
// presence and capability constraints of its references, and its temporal
// and duration constraints. Validate evaluates every rule in a fixed order
// and collects all violations into a Report; it never stops at the first
// failure, so one pass surfaces everything that is wrong with a candidate.
package conformance

import (
	"time"

	"github.com/c360studio/caliper/capability"
	"github.com/c360studio/caliper/vocabulary/caliper"
)

// Presence constrains whether a reference may, must, or must not be set.
type Presence int

const (
	// Optional references are checked only when present.
	Optional Presence = iota
	// Required references must be present.
	Required
	// Forbidden references must be absent.
	Forbidden
)

// String returns the presence name.
func (p Presence) String() string {
	switch p {
	case Required:
		return "required"
	case Forbidden:
		return "forbidden"
	default:
		return "optional"
	}
}

// ReferenceRule constrains one entity-valued field.
type ReferenceRule struct {
	Field    string
	Presence Presence
	// Capabilities is an any-of constraint. An empty set accepts any entity.
	Capabilities capability.Set
}

// TemporalRule constrains the event time and the start/end pair.
type TemporalRule struct {
	RequireEventTime bool
	RequireStart     bool
	EndAfterStart    bool
}

// Predicate checks a literal value and returns nil when it is acceptable.
type Predicate func(string) error

// DurationRule constrains the duration literal. A nil Format only rejects
// the empty string.
type DurationRule struct {
	Required bool
	Format   Predicate
}

// RuleSet is the declarative conformance profile of one variant.
type RuleSet struct {
	// Variant names the variant in messages, e.g. "ReadingEvent".
	Variant string

	// Context is the required JSON-LD context. Zero skips the check.
	Context caliper.Context

	// Type is the required type IRI.
	Type string

	RequireID bool

	// Actions lists the allowed actions. Empty allows any registered action.
	Actions       []caliper.Action
	RequireAction bool

	// References are evaluated in declaration order.
	References []ReferenceRule

	Temporal TemporalRule
	Duration DurationRule
}

// Clone returns a copy that shares no slices with rs.
func (rs RuleSet) Clone() RuleSet {
	out := rs
	out.Actions = append([]caliper.Action(nil), rs.Actions...)
	out.References = append([]ReferenceRule(nil), rs.References...)
	return out
}

// WithDurationFormat returns a copy of rs whose duration rule uses p.
func (rs RuleSet) WithDurationFormat(p Predicate) RuleSet {
	out := rs.Clone()
	out.Duration.Format = p
	return out
}

// Allows reports whether action a passes the action whitelist.
func (rs RuleSet) Allows(a caliper.Action) bool {
	if !a.IsValid() {
		return false
	}
	if len(rs.Actions) == 0 {
		return true
	}
	for _, allowed := range rs.Actions {
		if allowed == a {
			return true
		}
	}
	return false
}

// SingleAction returns the only allowed action of a singleton whitelist.
func (rs RuleSet) SingleAction() (caliper.Action, bool) {
	if len(rs.Actions) == 1 {
		return rs.Actions[0], true
	}
	return "", false
}

// Reference returns the rule for field, if declared.
func (rs RuleSet) Reference(field string) (ReferenceRule, bool) {
	for _, r := range rs.References {
		if r.Field == field {
			return r, true
		}
	}
	return ReferenceRule{}, false
}

// Participant is an entity as seen by the engine: a type and the
// capabilities it declares.
type Participant interface {
	Type() caliper.EntityType
	Capabilities() capability.Set
}

// Candidate is a snapshot of a variant's fields, ready for validation.
type Candidate struct {
	Context caliper.Context
	Type    string
	ID      string
	Action  caliper.Action

	// References holds the entity-valued fields by name. Absent fields
	// have no entry or an empty slice.
	References map[string][]Participant

	EventTime time.Time
	StartedAt time.Time
	EndedAt   time.Time

	// Duration is nil when absent.
	Duration *string
}
