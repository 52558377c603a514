package event

import (
	"fmt"
	"time"

	"github.com/c360studio/caliper/conformance"
	"github.com/c360studio/caliper/construct"
	"github.com/c360studio/caliper/entity"
	"github.com/c360studio/caliper/vocabulary/caliper"
)

// Option configures a Builder.
type Option func(*options)

type options struct {
	rules          *conformance.RuleSet
	durationFormat conformance.Predicate
	observer       construct.Observer
}

// WithRules replaces the variant's default rule set.
func WithRules(rs conformance.RuleSet) Option {
	return func(o *options) {
		rs = rs.Clone()
		o.rules = &rs
	}
}

// WithDurationFormat tightens the duration check, for example with
// conformance.ISO8601Duration.
func WithDurationFormat(p conformance.Predicate) Option {
	return func(o *options) { o.durationFormat = p }
}

// WithObserver reports every Build outcome to obs.
func WithObserver(obs construct.Observer) Option {
	return func(o *options) { o.observer = obs }
}

type state struct {
	context caliper.Context
	typ     caliper.EventType

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

func (s state) clone() state {
	if s.duration != nil {
		d := *s.duration
		s.duration = &d
	}
	s.extensions = construct.CloneExtensions(s.extensions)
	return s
}

func (s state) freeze() *Event {
	return &Event{
		context:          s.context,
		typ:              s.typ,
		id:               s.id,
		actor:            s.actor,
		action:           s.action,
		object:           s.object,
		target:           s.target,
		generated:        s.generated,
		referrer:         s.referrer,
		eventTime:        s.eventTime,
		startedAt:        s.startedAt,
		endedAt:          s.endedAt,
		duration:         s.duration,
		edApp:            s.edApp,
		group:            s.group,
		membership:       s.membership,
		session:          s.session,
		federatedSession: s.federatedSession,
		extensions:       s.extensions,
	}
}

// Builder accumulates the fields of one event. Setters may be called from
// several goroutines; Build may be called once.
type Builder struct {
	acc      construct.Accumulator[state]
	typ      caliper.EventType
	rules    conformance.RuleSet
	observer construct.Observer
}

// New starts an event of variant t. An unregistered t is recorded as an
// error and returned by Build.
func New(t caliper.EventType, opts ...Option) *Builder {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	b := &Builder{typ: t, observer: o.observer}
	switch {
	case !t.IsValid():
		b.rules = conformance.RuleSet{Variant: string(t)}
		b.acc.Reject(fmt.Errorf("unknown event type: %s", t))
	case o.rules != nil:
		b.rules = *o.rules
	default:
		b.rules = conformance.EventRules(t)
	}
	if o.durationFormat != nil {
		b.rules = b.rules.WithDurationFormat(o.durationFormat)
	}
	return b
}

// NewEvent starts a generic Event, which accepts any registered action.
func NewEvent(opts ...Option) *Builder { return New(caliper.EventGeneric, opts...) }

func NewAnnotation(opts ...Option) *Builder     { return New(caliper.EventAnnotation, opts...) }
func NewAssessment(opts ...Option) *Builder     { return New(caliper.EventAssessment, opts...) }
func NewAssessmentItem(opts ...Option) *Builder { return New(caliper.EventAssessmentItem, opts...) }
func NewAssignable(opts ...Option) *Builder     { return New(caliper.EventAssignable, opts...) }
func NewForum(opts ...Option) *Builder          { return New(caliper.EventForum, opts...) }
func NewGrade(opts ...Option) *Builder          { return New(caliper.EventGrade, opts...) }
func NewMedia(opts ...Option) *Builder          { return New(caliper.EventMedia, opts...) }
func NewMessage(opts ...Option) *Builder        { return New(caliper.EventMessage, opts...) }
func NewNavigation(opts ...Option) *Builder     { return New(caliper.EventNavigation, opts...) }
func NewReading(opts ...Option) *Builder        { return New(caliper.EventReading, opts...) }
func NewSession(opts ...Option) *Builder        { return New(caliper.EventSession, opts...) }
func NewThread(opts ...Option) *Builder         { return New(caliper.EventThread, opts...) }
func NewToolLaunch(opts ...Option) *Builder     { return New(caliper.EventToolLaunch, opts...) }
func NewToolUse(opts ...Option) *Builder        { return New(caliper.EventToolUse, opts...) }
func NewView(opts ...Option) *Builder           { return New(caliper.EventView, opts...) }

// NewResourceManagement starts a ResourceManagementEvent.
func NewResourceManagement(opts ...Option) *Builder {
	return New(caliper.EventResourceManagement, opts...)
}

// Rules returns a copy of the rule set Build will apply.
func (b *Builder) Rules() conformance.RuleSet { return b.rules.Clone() }

// ID sets the event identifier, usually from NewID.
func (b *Builder) ID(id string) *Builder {
	b.acc.Set(func(s *state) { s.id = id })
	return b
}

func (b *Builder) Actor(actor entity.Agent) *Builder {
	b.acc.Set(func(s *state) { s.actor = orNil(actor) })
	return b
}

// Action sets the action. An unregistered token is recorded immediately as
// a *caliper.UnknownActionError; whether a registered one is allowed for
// the variant is decided by Build.
func (b *Builder) Action(a caliper.Action) *Builder {
	if !a.IsValid() {
		b.acc.Reject(&caliper.UnknownActionError{Key: string(a)})
		return b
	}
	b.acc.Set(func(s *state) { s.action = a })
	return b
}

// ActionKey resolves a dotted action key such as "item.downloaded". An
// unknown key is recorded immediately as a *caliper.UnknownActionError.
func (b *Builder) ActionKey(key string) *Builder {
	a, err := caliper.LookupAction(key)
	if err != nil {
		b.acc.Reject(err)
		return b
	}
	return b.Action(a)
}

func (b *Builder) Object(object entity.Entity) *Builder {
	b.acc.Set(func(s *state) { s.object = orNil(object) })
	return b
}

func (b *Builder) Target(target entity.Entity) *Builder {
	b.acc.Set(func(s *state) { s.target = orNil(target) })
	return b
}

func (b *Builder) Generated(generated entity.Entity) *Builder {
	b.acc.Set(func(s *state) { s.generated = orNil(generated) })
	return b
}

func (b *Builder) Referrer(referrer entity.Entity) *Builder {
	b.acc.Set(func(s *state) { s.referrer = orNil(referrer) })
	return b
}

func (b *Builder) EventTime(t time.Time) *Builder {
	b.acc.Set(func(s *state) { s.eventTime = t })
	return b
}

func (b *Builder) StartedAtTime(t time.Time) *Builder {
	b.acc.Set(func(s *state) { s.startedAt = t })
	return b
}

func (b *Builder) EndedAtTime(t time.Time) *Builder {
	b.acc.Set(func(s *state) { s.endedAt = t })
	return b
}

// Duration sets the ISO-8601 duration literal.
func (b *Builder) Duration(d string) *Builder {
	b.acc.Set(func(s *state) { s.duration = &d })
	return b
}

func (b *Builder) EdApp(app entity.Entity) *Builder {
	b.acc.Set(func(s *state) { s.edApp = orNil(app) })
	return b
}

func (b *Builder) Group(group entity.Entity) *Builder {
	b.acc.Set(func(s *state) { s.group = orNil(group) })
	return b
}

func (b *Builder) Membership(m entity.Entity) *Builder {
	b.acc.Set(func(s *state) { s.membership = orNil(m) })
	return b
}

func (b *Builder) Session(session entity.Entity) *Builder {
	b.acc.Set(func(s *state) { s.session = orNil(session) })
	return b
}

func (b *Builder) FederatedSession(session entity.Entity) *Builder {
	b.acc.Set(func(s *state) { s.federatedSession = orNil(session) })
	return b
}

// Extension sets one extension value. Later calls for the same key win.
func (b *Builder) Extension(key string, value any) *Builder {
	b.acc.Set(func(s *state) {
		if s.extensions == nil {
			s.extensions = make(map[string]any)
		}
		s.extensions[key] = construct.CloneValue(value)
	})
	return b
}

// Err returns the first setter error recorded so far.
func (b *Builder) Err() error { return b.acc.Err() }

// Build validates the accumulated fields and returns the event. On failure
// the event is nil and the error is ErrFinalized, the recorded setter
// error, or a *conformance.Error.
func (b *Builder) Build() (*Event, error) {
	return construct.Build(&b.acc, construct.Recipe[state, *Event]{
		Rules:     b.rules,
		Clone:     state.clone,
		Defaults:  b.defaults,
		Candidate: func(s *state) conformance.Candidate { return s.freeze().Candidate() },
		Freeze:    state.freeze,
	}, b.observer)
}

func (b *Builder) defaults(s *state) {
	s.typ = b.typ
	s.context = b.rules.Context
	if s.context.IsZero() {
		s.context = caliper.ContextFor(b.typ)
	}
	if s.action == "" {
		if a, ok := b.rules.SingleAction(); ok {
			s.action = a
		}
	}
}

func orNil[E entity.Entity](e E) E {
	if entity.IsNil(e) {
		var zero E
		return zero
	}
	return e
}
