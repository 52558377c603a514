// Package storage archives sent sensor envelopes in a NATS JetStream
// key-value bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/tidwall/gjson"
)

// DefaultBucket is the KV bucket used when none is configured.
const DefaultBucket = "CALIPER_ENVELOPES"

// Bucket is the part of jetstream.KeyValue the archive uses.
type Bucket interface {
	Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error)
	Put(ctx context.Context, key string, value []byte) (uint64, error)
	Delete(ctx context.Context, key string, opts ...jetstream.KVDeleteOpt) error
	Keys(ctx context.Context, opts ...jetstream.WatchOpt) ([]string, error)
}

// Summary describes one archived envelope without its events.
type Summary struct {
	Key         string
	ID          string
	Sensor      string
	SendTime    time.Time
	DataVersion string
	Events      int
}

// Archive stores serialized envelopes keyed by envelope id.
type Archive struct {
	bucket Bucket
	logger *slog.Logger
}

// NewArchive wraps an existing bucket.
func NewArchive(b Bucket, logger *slog.Logger) *Archive {
	if logger == nil {
		logger = slog.Default()
	}
	return &Archive{bucket: b, logger: logger}
}

// OpenArchive opens the named bucket through js, creating it if it doesn't
// exist.
func OpenArchive(ctx context.Context, js jetstream.JetStream, bucket string, logger *slog.Logger) (*Archive, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}
	kv, err := getOrCreateBucket(ctx, js, bucket)
	if err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", bucket, err)
	}
	return NewArchive(kv, logger), nil
}

// Connect dials the NATS server at url and opens the archive bucket. The
// returned func drains the connection.
func Connect(ctx context.Context, url, bucket string, logger *slog.Logger) (*Archive, func(), error) {
	nc, err := nats.Connect(url, nats.Name("caliper"))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to NATS: %w", err)
	}
	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("create JetStream context: %w", err)
	}
	a, err := OpenArchive(ctx, js, bucket, logger)
	if err != nil {
		nc.Close()
		return nil, nil, err
	}
	return a, func() { _ = nc.Drain() }, nil
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	// Bucket doesn't exist, create it
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: "Caliper sensor envelope archive",
		History:     1,
	})
}

// Deliver stores one serialized envelope. It satisfies the sensor's sink
// contract.
func (a *Archive) Deliver(ctx context.Context, id string, body []byte) error {
	key, err := Key(id)
	if err != nil {
		return err
	}
	rev, err := a.bucket.Put(ctx, key, body)
	if err != nil {
		return fmt.Errorf("store envelope: %w", err)
	}
	a.logger.Debug("Archived envelope", "id", id, "key", key, "revision", rev, "bytes", len(body))
	return nil
}

// Get returns the serialized envelope stored under id.
func (a *Archive) Get(ctx context.Context, id string) ([]byte, error) {
	key, err := Key(id)
	if err != nil {
		return nil, err
	}
	entry, err := a.bucket.Get(ctx, key)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get envelope: %w", err)
	}
	return entry.Value(), nil
}

// Delete removes the envelope stored under id.
func (a *Archive) Delete(ctx context.Context, id string) error {
	key, err := Key(id)
	if err != nil {
		return err
	}
	if err := a.bucket.Delete(ctx, key); err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete envelope: %w", err)
	}
	return nil
}

// List summarizes every archived envelope, oldest send time first.
// Entries that vanish or don't parse while listing are skipped.
func (a *Archive) List(ctx context.Context) ([]Summary, error) {
	keys, err := a.bucket.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("list envelope keys: %w", err)
	}

	out := make([]Summary, 0, len(keys))
	for _, key := range keys {
		entry, err := a.bucket.Get(ctx, key)
		if err != nil {
			continue
		}
		s, ok := summarize(key, entry.Value())
		if !ok {
			a.logger.Warn("Skipping unreadable envelope", "key", key)
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].SendTime.Equal(out[j].SendTime) {
			return out[i].SendTime.Before(out[j].SendTime)
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}

func summarize(key string, body []byte) (Summary, bool) {
	if !gjson.ValidBytes(body) {
		return Summary{}, false
	}
	r := gjson.GetManyBytes(body, "id", "sensor", "sendTime", "dataVersion", "data.#")
	s := Summary{
		Key:         key,
		ID:          r[0].String(),
		Sensor:      r[1].String(),
		DataVersion: r[3].String(),
		Events:      int(r[4].Int()),
	}
	if r[2].Exists() {
		t, err := time.Parse(time.RFC3339Nano, r[2].String())
		if err != nil {
			return Summary{}, false
		}
		s.SendTime = t
	}
	return s, true
}

// Key maps an envelope id to a KV key. Characters NATS does not allow in
// keys become underscores; a urn:uuid: prefix is dropped.
func Key(id string) (string, error) {
	id = strings.TrimPrefix(strings.TrimSpace(id), "urn:uuid:")
	if id == "" {
		return "", ErrEmptyID
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '=':
			return r
		default:
			return '_'
		}
	}, id), nil
}

// isNotFound checks if an error indicates a key was not found.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, jetstream.ErrKeyNotFound) || strings.Contains(err.Error(), "key not found")
}
