package graph

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/caliper/entity"
	"github.com/c360studio/caliper/event"
	"github.com/c360studio/caliper/export"
	"github.com/c360studio/caliper/vocabulary/caliper"
	"github.com/c360studio/semstreams/message"
)

type published struct {
	subject string
	data    []byte
}

type fakeStream struct {
	msgs []published
	err  error
}

func (f *fakeStream) Publish(_ context.Context, subject string, data []byte, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.msgs = append(f.msgs, published{subject: subject, data: data})
	return &jetstream.PubAck{Stream: StreamName, Sequence: uint64(len(f.msgs))}, nil
}

func viewEvent(t *testing.T, id string) *event.Event {
	t.Helper()
	bob, err := entity.NewPerson().ID("https://example.edu/users/554433").Build()
	require.NoError(t, err)
	doc, err := entity.NewDocument().ID("https://example.edu/docs/1").Name("Syllabus").Build()
	require.NoError(t, err)

	b := event.NewView().
		Actor(bob).
		Object(doc).
		EventTime(time.Date(2016, 11, 15, 10, 15, 0, 0, time.UTC))
	if id != "" {
		b.ID(id)
	}
	e, err := b.Build()
	require.NoError(t, err)
	return e
}

func TestPublishEvent(t *testing.T) {
	js := &fakeStream{}
	p := NewPublisher(js, export.ProfileMinimal, nil)
	updated := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	p.now = func() time.Time { return updated }

	n, err := p.PublishEvent(context.Background(), viewEvent(t, "urn:uuid:ff9ec22a-fc59-4ae1-ae8d-2c9463ee2f8f"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.Len(t, js.msgs, 3)

	var first SubjectPayload
	require.NoError(t, json.Unmarshal(js.msgs[0].data, &first))
	assert.Equal(t, IngestSubject, js.msgs[0].subject)
	assert.Equal(t, "urn:uuid:ff9ec22a-fc59-4ae1-ae8d-2c9463ee2f8f", first.EntityID())
	assert.Equal(t, caliper.EventView.URI(), first.Variant)
	assert.Equal(t, export.ProfileMinimal, first.Profile)
	assert.True(t, first.UpdatedAt.Equal(updated))
	require.NoError(t, first.Validate())
	for _, tr := range first.Triples() {
		assert.Equal(t, first.EntityID(), tr.Subject)
	}

	var subjects []string
	for _, m := range js.msgs {
		var payload SubjectPayload
		require.NoError(t, json.Unmarshal(m.data, &payload))
		subjects = append(subjects, payload.EntityID())
	}
	assert.ElementsMatch(t, []string{
		"urn:uuid:ff9ec22a-fc59-4ae1-ae8d-2c9463ee2f8f",
		"https://example.edu/users/554433",
		"https://example.edu/docs/1",
	}, subjects)
}

func TestPublishEventRequiresID(t *testing.T) {
	js := &fakeStream{}
	_, err := NewPublisher(js, export.ProfileMinimal, nil).PublishEvent(context.Background(), viewEvent(t, ""))
	assert.ErrorIs(t, err, export.ErrNoSubject)
	assert.Empty(t, js.msgs)
}

func TestPublishEventError(t *testing.T) {
	js := &fakeStream{err: errors.New("no responders")}
	n, err := NewPublisher(js, export.ProfileMinimal, nil).PublishEvent(context.Background(), viewEvent(t, "urn:uuid:1"))
	assert.ErrorContains(t, err, "no responders")
	assert.Zero(t, n)
}

func TestGroupBySubject(t *testing.T) {
	now := time.Now()
	triples := []message.Triple{
		{Subject: "a", Predicate: caliper.EventTypePredicate, Object: "x"},
		{Subject: "b", Predicate: caliper.EntityName, Object: "Bob"},
		{Subject: "b", Predicate: caliper.EntityTypePredicate, Object: "y"},
		{Subject: "a", Predicate: caliper.EventActor, Object: "b"},
	}
	payloads := GroupBySubject(triples, export.ProfileMinimal, now)
	require.Len(t, payloads, 2)
	assert.Equal(t, "a", payloads[0].EntityID())
	assert.Equal(t, "x", payloads[0].Variant)
	assert.Len(t, payloads[0].Triples(), 2)
	assert.Equal(t, "b", payloads[1].EntityID())
	assert.Equal(t, "y", payloads[1].Variant)
	assert.Equal(t, SubjectType, payloads[1].Schema())
}

func TestSubjectPayloadValidate(t *testing.T) {
	assert.ErrorIs(t, (&SubjectPayload{}).Validate(), ErrNoSubject)
	assert.ErrorIs(t, (&SubjectPayload{Subject: "a"}).Validate(), ErrNoTriples)

	mixed := &SubjectPayload{Subject: "a", Statements: []message.Triple{
		{Subject: "a", Predicate: caliper.EventActor, Object: "b"},
		{Subject: "b", Predicate: caliper.EntityName, Object: "Bob"},
	}}
	assert.ErrorContains(t, mixed.Validate(), "is about b")
}
