package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/caliper/conformance"
	"github.com/c360studio/caliper/construct"
	"github.com/c360studio/caliper/entity"
	"github.com/c360studio/caliper/vocabulary/caliper"
)

// NewID returns a fresh "urn:uuid:" event identifier.
func NewID() string {
	return "urn:uuid:" + uuid.NewString()
}

// Event is an immutable, conformant Caliper event.
type Event struct {
	context   caliper.Context
	typ       caliper.EventType
	id        string
	actor     entity.Agent
	action    caliper.Action
	object    entity.Entity
	target    entity.Entity
	generated entity.Entity
	referrer  entity.Entity

	eventTime time.Time
	startedAt time.Time
	endedAt   time.Time
	duration  *string

	edApp            entity.Entity
	group            entity.Entity
	membership       entity.Entity
	session          entity.Entity
	federatedSession entity.Entity

	extensions map[string]any
}

func (e *Event) Context() caliper.Context { return e.context }
func (e *Event) Type() caliper.EventType  { return e.typ }
func (e *Event) ID() string               { return e.id }
func (e *Event) Actor() entity.Agent      { return e.actor }
func (e *Event) Action() caliper.Action   { return e.action }
func (e *Event) Object() entity.Entity    { return e.object }
func (e *Event) Target() entity.Entity    { return e.target }
func (e *Event) Generated() entity.Entity { return e.generated }
func (e *Event) Referrer() entity.Entity  { return e.referrer }

// EventTime returns when the action occurred.
func (e *Event) EventTime() time.Time { return e.eventTime }

// StartedAtTime returns the start of the activity, or the zero time.
func (e *Event) StartedAtTime() time.Time { return e.startedAt }

// EndedAtTime returns the end of the activity, or the zero time.
func (e *Event) EndedAtTime() time.Time { return e.endedAt }

// Duration returns the duration literal and whether one was set.
func (e *Event) Duration() (string, bool) {
	if e.duration == nil {
		return "", false
	}
	return *e.duration, true
}

func (e *Event) EdApp() entity.Entity            { return e.edApp }
func (e *Event) Group() entity.Entity            { return e.group }
func (e *Event) Membership() entity.Entity       { return e.membership }
func (e *Event) Session() entity.Entity          { return e.session }
func (e *Event) FederatedSession() entity.Entity { return e.federatedSession }

// Extensions returns a deep copy of the extension map, or nil.
func (e *Event) Extensions() map[string]any { return construct.CloneExtensions(e.extensions) }

// String returns "Type Action <object id>".
func (e *Event) String() string {
	s := string(e.typ) + " " + string(e.action)
	if !entity.IsNil(e.object) {
		s += " <" + e.object.ID() + ">"
	}
	return s
}

// Candidate exposes the event to the conformance engine.
func (e *Event) Candidate() conformance.Candidate {
	c := conformance.Candidate{
		Context:    e.context,
		Type:       e.typ.URI(),
		ID:         e.id,
		Action:     e.action,
		References: make(map[string][]conformance.Participant),
		EventTime:  e.eventTime,
		StartedAt:  e.startedAt,
		EndedAt:    e.endedAt,
	}
	if e.duration != nil {
		d := *e.duration
		c.Duration = &d
	}
	e.eachReference(func(field string, ref entity.Entity) {
		if !entity.IsNil(ref) {
			c.References[field] = []conformance.Participant{ref}
		}
	})
	return c
}

// Validate re-checks a built event against rs. An event is conformant to
// the rule set it was built with, so this is only useful with a different
// or stricter one.
func (e *Event) Validate(rs conformance.RuleSet) conformance.Report {
	return conformance.Validate(e.Candidate(), rs)
}

// References calls fn for each entity-valued field in serialization order,
// including absent ones as nil.
func (e *Event) References(fn func(field string, ref entity.Entity)) {
	e.eachReference(fn)
}

func (e *Event) eachReference(fn func(string, entity.Entity)) {
	var actor entity.Entity
	if !entity.IsNil(e.actor) {
		actor = e.actor
	}
	fn("actor", actor)
	fn("object", e.object)
	fn("target", e.target)
	fn("generated", e.generated)
	fn("referrer", e.referrer)
	fn("edApp", e.edApp)
	fn("group", e.group)
	fn("membership", e.membership)
	fn("session", e.session)
	fn("federatedSession", e.federatedSession)
}
