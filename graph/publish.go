// Package graph publishes Caliper events to the knowledge graph as one
// triple payload per subject.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360studio/caliper/event"
	"github.com/c360studio/caliper/export"
)

const (
	// IngestSubject is the subject graph payloads are published on.
	IngestSubject = "graph.ingest.entity"
	// StreamName is the JetStream stream that captures IngestSubject.
	StreamName = "CALIPER_GRAPH"
)

// Stream is the part of jetstream.JetStream the publisher uses.
type Stream interface {
	Publish(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// Publisher sends event triples to IngestSubject.
type Publisher struct {
	js      Stream
	profile export.Profile
	logger  *slog.Logger
	now     func() time.Time
}

// NewPublisher publishes through js, rendering triples with profile.
func NewPublisher(js Stream, profile export.Profile, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{js: js, profile: profile, logger: logger, now: time.Now}
}

// Connect dials url, ensures the ingest stream exists and returns a
// publisher. The returned func drains the connection.
func Connect(ctx context.Context, url string, profile export.Profile, logger *slog.Logger) (*Publisher, func(), error) {
	nc, err := nats.Connect(url, nats.Name("caliper"))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to NATS: %w", err)
	}
	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("create JetStream context: %w", err)
	}
	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{IngestSubject},
	})
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("ensure stream %s: %w", StreamName, err)
	}
	return NewPublisher(js, profile, logger), func() { _ = nc.Drain() }, nil
}

// PublishEvent publishes one payload for the event and one for each
// entity it references. The event must have an @id.
func (p *Publisher) PublishEvent(ctx context.Context, e *event.Event) (int, error) {
	triples, err := export.Triples(e, p.profile)
	if err != nil {
		return 0, err
	}

	payloads := GroupBySubject(triples, p.profile, p.now())
	for i, payload := range payloads {
		if err := payload.Validate(); err != nil {
			return i, err
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return i, fmt.Errorf("marshal %s: %w", payload.Subject, err)
		}
		if _, err := p.js.Publish(ctx, IngestSubject, data); err != nil {
			return i, fmt.Errorf("publish %s: %w", payload.Subject, err)
		}
	}

	p.logger.Debug("Published event to graph", "event", e.ID(), "payloads", len(payloads), "triples", len(triples))
	return len(payloads), nil
}
