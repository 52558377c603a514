package storage

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memBucket is an in-memory Bucket.
type memBucket struct {
	mu      sync.Mutex
	data    map[string][]byte
	rev     uint64
	putErr  error
	keysErr error
}

func newMemBucket() *memBucket { return &memBucket{data: make(map[string][]byte)} }

type memEntry struct {
	jetstream.KeyValueEntry
	key   string
	value []byte
}

func (e memEntry) Key() string   { return e.key }
func (e memEntry) Value() []byte { return e.value }

func (b *memBucket) Get(_ context.Context, key string) (jetstream.KeyValueEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.data[key]
	if !ok {
		return nil, jetstream.ErrKeyNotFound
	}
	return memEntry{key: key, value: v}, nil
}

func (b *memBucket) Put(_ context.Context, key string, value []byte) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.putErr != nil {
		return 0, b.putErr
	}
	b.rev++
	b.data[key] = append([]byte(nil), value...)
	return b.rev, nil
}

func (b *memBucket) Delete(_ context.Context, key string, _ ...jetstream.KVDeleteOpt) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.data[key]; !ok {
		return jetstream.ErrKeyNotFound
	}
	delete(b.data, key)
	return nil
}

func (b *memBucket) Keys(_ context.Context, _ ...jetstream.WatchOpt) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.keysErr != nil {
		return nil, b.keysErr
	}
	if len(b.data) == 0 {
		return nil, jetstream.ErrNoKeysFound
	}
	keys := make([]string, 0, len(b.data))
	for k := range b.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

const (
	envA = `{"id":"urn:uuid:0b1c","sensor":"https://example.edu/sensor/1","sendTime":"2016-11-15T11:05:01.000Z","dataVersion":"http://purl.imsglobal.org/ctx/caliper/v1p1","data":[{},{}]}`
	envB = `{"id":"urn:uuid:0a99","sensor":"https://example.edu/sensor/1","sendTime":"2016-11-15T10:05:01.000Z","dataVersion":"http://purl.imsglobal.org/ctx/caliper/v1p1","data":[{}]}`
)

func TestKey(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"urn:uuid:3a648e68-f00d-4c08-aa59-8738e1884f2c", "3a648e68-f00d-4c08-aa59-8738e1884f2c"},
		{"https://example.edu/envelopes/1", "https___example_edu_envelopes_1"},
		{" plain_id= ", "plain_id="},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := Key(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Key("urn:uuid:")
	assert.ErrorIs(t, err, ErrEmptyID)
}

func TestArchiveDeliverAndGet(t *testing.T) {
	ctx := context.Background()
	a := NewArchive(newMemBucket(), nil)

	require.NoError(t, a.Deliver(ctx, "urn:uuid:0b1c", []byte(envA)))

	got, err := a.Get(ctx, "urn:uuid:0b1c")
	require.NoError(t, err)
	assert.JSONEq(t, envA, string(got))

	_, err = a.Get(ctx, "urn:uuid:missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, a.Deliver(ctx, "", []byte(envA)), ErrEmptyID)
}

func TestArchiveDeliverWrapsBucketErrors(t *testing.T) {
	b := newMemBucket()
	b.putErr = errors.New("stream unavailable")
	a := NewArchive(b, nil)

	err := a.Deliver(context.Background(), "urn:uuid:0b1c", []byte(envA))
	require.Error(t, err)
	assert.ErrorIs(t, err, b.putErr)
	assert.Contains(t, err.Error(), "store envelope")
}

func TestArchiveList(t *testing.T) {
	ctx := context.Background()
	b := newMemBucket()
	a := NewArchive(b, nil)

	list, err := a.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, a.Deliver(ctx, "urn:uuid:0b1c", []byte(envA)))
	require.NoError(t, a.Deliver(ctx, "urn:uuid:0a99", []byte(envB)))
	b.data["garbage"] = []byte("not json")

	list, err = a.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "urn:uuid:0a99", list[0].ID)
	assert.Equal(t, 1, list[0].Events)
	assert.Equal(t, "urn:uuid:0b1c", list[1].ID)
	assert.Equal(t, 2, list[1].Events)
	assert.Equal(t, "https://example.edu/sensor/1", list[1].Sensor)
	assert.True(t, time.Date(2016, 11, 15, 11, 5, 1, 0, time.UTC).Equal(list[1].SendTime))
}

func TestArchiveListWrapsKeyErrors(t *testing.T) {
	b := newMemBucket()
	b.keysErr = errors.New("timeout")

	_, err := NewArchive(b, nil).List(context.Background())
	assert.ErrorIs(t, err, b.keysErr)
}

func TestArchiveDelete(t *testing.T) {
	ctx := context.Background()
	a := NewArchive(newMemBucket(), nil)
	require.NoError(t, a.Deliver(ctx, "urn:uuid:0b1c", []byte(envA)))

	require.NoError(t, a.Delete(ctx, "urn:uuid:0b1c"))
	assert.ErrorIs(t, a.Delete(ctx, "urn:uuid:0b1c"), ErrNotFound)
}

func TestIsNotFound(t *testing.T) {
	assert.False(t, isNotFound(nil))
	assert.True(t, isNotFound(jetstream.ErrKeyNotFound))
	assert.True(t, isNotFound(errors.New("nats: key not found")))
	assert.False(t, isNotFound(errors.New("timeout")))
}
