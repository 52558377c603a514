// Package sensor packages built events into envelopes and hands them to a
// sink, such as the JetStream archive or an in-memory sink.
package sensor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/sjson"

	"github.com/c360studio/caliper/event"
	"github.com/c360studio/caliper/export"
	"github.com/c360studio/caliper/metrics"
	"github.com/c360studio/caliper/vocabulary/caliper"
)

// DefaultDataVersion identifies the Caliper data model of envelope payloads.
const DefaultDataVersion = caliper.DefaultContext

var (
	// ErrNoEvents is returned by Send when called without events.
	ErrNoEvents = errors.New("no events to send")

	// ErrNilEvent is returned when one of the events passed to Send is nil.
	ErrNilEvent = errors.New("nil event")
)

// Envelope carries a batch of events from one sensor.
type Envelope struct {
	ID          string
	Sensor      string
	SendTime    time.Time
	DataVersion string
	Data        []*event.Event
}

// Sink receives serialized envelopes.
type Sink interface {
	Deliver(ctx context.Context, id string, body []byte) error
}

// Option configures a Sensor.
type Option func(*Sensor)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Sensor) { s.logger = l }
}

// WithMetrics records delivery outcomes in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Sensor) { s.metrics = m }
}

// WithDataVersion overrides DefaultDataVersion.
func WithDataVersion(v string) Option {
	return func(s *Sensor) { s.dataVersion = v }
}

// WithClock sets the source of send times.
func WithClock(now func() time.Time) Option {
	return func(s *Sensor) { s.now = now }
}

// Sensor sends events on behalf of one identified sensor.
type Sensor struct {
	id          string
	sink        Sink
	logger      *slog.Logger
	metrics     *metrics.Metrics
	dataVersion string
	now         func() time.Time
}

// New creates a sensor identified by id that delivers to sink.
func New(id string, sink Sink, opts ...Option) (*Sensor, error) {
	if id == "" {
		return nil, errors.New("sensor id is required")
	}
	if sink == nil {
		return nil, errors.New("sensor sink is required")
	}
	s := &Sensor{
		id:          id,
		sink:        sink,
		dataVersion: DefaultDataVersion,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// ID returns the sensor identifier.
func (s *Sensor) ID() string { return s.id }

// Envelope wraps events in a new envelope stamped with the current time.
func (s *Sensor) Envelope(events ...*event.Event) (Envelope, error) {
	if len(events) == 0 {
		return Envelope{}, ErrNoEvents
	}
	for i, e := range events {
		if e == nil {
			return Envelope{}, fmt.Errorf("event %d: %w", i, ErrNilEvent)
		}
	}
	return Envelope{
		ID:          "urn:uuid:" + uuid.NewString(),
		Sensor:      s.id,
		SendTime:    s.now(),
		DataVersion: s.dataVersion,
		Data:        append([]*event.Event(nil), events...),
	}, nil
}

// Send serializes events into one envelope and delivers it.
func (s *Sensor) Send(ctx context.Context, events ...*event.Event) (Envelope, error) {
	env, err := s.Envelope(events...)
	if err != nil {
		return Envelope{}, err
	}
	if err := ctx.Err(); err != nil {
		return Envelope{}, err
	}

	start := time.Now()
	body, err := Marshal(env)
	if err == nil {
		err = s.sink.Deliver(ctx, env.ID, body)
	}
	s.metrics.ObserveSend(s.id, len(env.Data), time.Since(start), err)

	if err != nil {
		s.logger.Error("Envelope delivery failed", "sensor", s.id, "envelope", env.ID, "error", err)
		return Envelope{}, fmt.Errorf("send envelope %s: %w", env.ID, err)
	}
	s.logger.Info("Sent envelope", "sensor", s.id, "envelope", env.ID, "events", len(env.Data), "bytes", len(body))
	return env, nil
}

// Marshal renders env as JSON with its events as JSON-LD.
func Marshal(env Envelope) ([]byte, error) {
	buf := []byte("{}")
	var err error
	set := func(key string, v any) {
		if err == nil {
			buf, err = sjson.SetBytes(buf, key, v)
		}
	}
	set("id", env.ID)
	set("sensor", env.Sensor)
	set("sendTime", env.SendTime.UTC().Format(export.TimeLayout))
	set("dataVersion", env.DataVersion)
	if err == nil {
		buf, err = sjson.SetRawBytes(buf, "data", []byte("[]"))
	}
	for _, e := range env.Data {
		if err != nil {
			break
		}
		var raw []byte
		if raw, err = export.MarshalEvent(e); err == nil {
			buf, err = sjson.SetRawBytes(buf, "data.-1", raw)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return buf, nil
}

// Delivery is one envelope received by a MemorySink.
type Delivery struct {
	ID   string
	Body []byte
}

// MemorySink keeps deliveries in memory.
type MemorySink struct {
	mu         sync.Mutex
	deliveries []Delivery
}

// Deliver implements Sink.
func (m *MemorySink) Deliver(ctx context.Context, id string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deliveries = append(m.deliveries, Delivery{ID: id, Body: append([]byte(nil), body...)})
	return nil
}

// Deliveries returns a copy of everything delivered so far.
func (m *MemorySink) Deliveries() []Delivery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Delivery(nil), m.deliveries...)
}
