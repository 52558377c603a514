package fixture

import (
	"errors"
	"fmt"
	"time"

	"github.com/c360studio/caliper/conformance"
	"github.com/c360studio/caliper/entity"
	"github.com/c360studio/caliper/event"
	"github.com/c360studio/caliper/vocabulary/caliper"
)

// ErrUnknownReference is returned for a reference to an entity that was not
// declared earlier in the file or that failed to build.
var ErrUnknownReference = errors.New("unknown reference")

// EntityResult is the outcome of building one EntitySpec.
type EntityResult struct {
	Index  int
	Spec   EntitySpec
	Entity entity.Entity
	Err    error
}

// EventResult is the outcome of building one EventSpec. Report is the zero
// Report when the event failed before validation.
type EventResult struct {
	Index  int
	Spec   EventSpec
	Event  *event.Event
	Report conformance.Report
	Err    error
}

// Name identifies the event in messages: its @id, or its position.
func (r EventResult) Name() string {
	if r.Spec.ID != "" {
		return r.Spec.ID
	}
	return fmt.Sprintf("events[%d]", r.Index)
}

// Result holds every build outcome of one file, in declaration order.
type Result struct {
	Path     string
	Entities []EntityResult
	Events   []EventResult
}

// OK reports whether every entity and event built.
func (r *Result) OK() bool {
	return r.Failures() == 0
}

// Failures counts the entities and events that did not build.
func (r *Result) Failures() int {
	n := 0
	for _, e := range r.Entities {
		if e.Err != nil {
			n++
		}
	}
	for _, e := range r.Events {
		if e.Err != nil {
			n++
		}
	}
	return n
}

// Built returns the events that built, in declaration order.
func (r *Result) Built() []*event.Event {
	var out []*event.Event
	for _, e := range r.Events {
		if e.Event != nil {
			out = append(out, e.Event)
		}
	}
	return out
}

// Build builds every entity and event of f. Failures are recorded per item
// and do not stop the build. opts apply to every event builder.
func Build(f *File, opts ...event.Option) *Result {
	res := &Result{Path: f.Path}
	reg := make(registry)

	for i, spec := range f.Entities {
		e, err := buildEntity(reg, spec)
		if err == nil {
			if _, dup := reg[e.ID()]; dup {
				e, err = nil, fmt.Errorf("duplicate entity id %s", e.ID())
			} else {
				reg[e.ID()] = e
			}
		}
		if err != nil {
			err = fmt.Errorf("entities[%d] %s: %w", i, spec.Type, err)
		}
		res.Entities = append(res.Entities, EntityResult{Index: i, Spec: spec, Entity: e, Err: err})
	}

	for i, spec := range f.Events {
		e, rules, err := buildEvent(reg, spec, opts)
		r := EventResult{Index: i, Spec: spec, Event: e, Err: err}
		if report, ok := conformance.ReportOf(err); ok {
			r.Report = report
		} else if e != nil {
			r.Report = e.Validate(rules)
		}
		res.Events = append(res.Events, r)
	}
	return res
}

// registry resolves references by @id.
type registry map[string]entity.Entity

func (r registry) entity(field, id string) (entity.Entity, error) {
	if id == "" {
		return nil, nil
	}
	e, ok := r[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w %s", field, ErrUnknownReference, id)
	}
	return e, nil
}

func (r registry) agent(field, id string) (entity.Agent, error) {
	e, err := r.entity(field, id)
	if err != nil || e == nil {
		return nil, err
	}
	a, ok := e.(entity.Agent)
	if !ok {
		return nil, fmt.Errorf("%s: %s is a %s, not an agent", field, id, e.Type())
	}
	return a, nil
}

func (r registry) entities(field string, ids []string) ([]entity.Entity, error) {
	out := make([]entity.Entity, 0, len(ids))
	for _, id := range ids {
		e, err := r.entity(field, id)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r registry) agents(field string, ids []string) ([]entity.Agent, error) {
	out := make([]entity.Agent, 0, len(ids))
	for _, id := range ids {
		a, err := r.agent(field, id)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// resolver collects the first error across a run of lookups.
type resolver struct {
	reg registry
	err error
}

func (r *resolver) entity(field, id string) entity.Entity {
	e, err := r.reg.entity(field, id)
	r.keep(err)
	return e
}

func (r *resolver) agent(field, id string) entity.Agent {
	a, err := r.reg.agent(field, id)
	r.keep(err)
	return a
}

func (r *resolver) entities(field string, ids []string) []entity.Entity {
	es, err := r.reg.entities(field, ids)
	r.keep(err)
	return es
}

func (r *resolver) agents(field string, ids []string) []entity.Agent {
	as, err := r.reg.agents(field, ids)
	r.keep(err)
	return as
}

func (r *resolver) time(field, s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		r.keep(fmt.Errorf("%s: invalid time %q", field, s))
	}
	return t
}

func (r *resolver) keep(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

func buildEvent(reg registry, spec EventSpec, opts []event.Option) (*event.Event, conformance.RuleSet, error) {
	t, err := caliper.ParseEventType(spec.Type)
	if err != nil {
		return nil, conformance.RuleSet{}, err
	}
	r := &resolver{reg: reg}

	b := event.New(t, opts...)
	if spec.ID != "" {
		b.ID(spec.ID)
	}
	b.Actor(r.agent("actor", spec.Actor))
	switch {
	case spec.ActionKey != "":
		b.ActionKey(spec.ActionKey)
	case spec.Action != "":
		a, err := caliper.ParseAction(spec.Action)
		if err != nil {
			return nil, b.Rules(), err
		}
		b.Action(a)
	}
	b.Object(r.entity("object", spec.Object)).
		Target(r.entity("target", spec.Target)).
		Generated(r.entity("generated", spec.Generated)).
		Referrer(r.entity("referrer", spec.Referrer)).
		EventTime(r.time("eventTime", spec.EventTime)).
		StartedAtTime(r.time("startedAtTime", spec.StartedAtTime)).
		EndedAtTime(r.time("endedAtTime", spec.EndedAtTime)).
		EdApp(r.entity("edApp", spec.EdApp)).
		Group(r.entity("group", spec.Group)).
		Membership(r.entity("membership", spec.Membership)).
		Session(r.entity("session", spec.Session)).
		FederatedSession(r.entity("federatedSession", spec.FederatedSession))
	if spec.Duration != nil {
		b.Duration(*spec.Duration)
	}
	for k, v := range spec.Extensions {
		b.Extension(k, v)
	}
	if r.err != nil {
		return nil, b.Rules(), r.err
	}
	e, err := b.Build()
	return e, b.Rules(), err
}
