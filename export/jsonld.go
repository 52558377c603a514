// Package export serializes Caliper events and entities as JSON-LD and as
// semstreams triples, with N-Triples and Turtle renderings of the latter.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/sjson"

	"github.com/c360studio/caliper/entity"
	"github.com/c360studio/caliper/event"
	"github.com/c360studio/caliper/vocabulary/caliper"
)

// TimeLayout is the timestamp layout of every serialized time: UTC with
// millisecond precision.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// MarshalEvent renders e as a JSON-LD object. Properties appear in a fixed
// order and absent ones are omitted. Referenced entities are embedded.
func MarshalEvent(e *event.Event) ([]byte, error) {
	if e == nil {
		return nil, fmt.Errorf("marshal event: nil event")
	}
	w := newWriter()
	w.context("@context", e.Context())
	w.value("@id", e.ID(), true)
	w.value("@type", e.Type().URI(), false)
	w.fields(eventFields(e))
	w.extensions(e.Extensions())
	return w.result("marshal event")
}

// MarshalEntity renders e as a JSON-LD object.
func MarshalEntity(e entity.Entity) ([]byte, error) {
	if entity.IsNil(e) {
		return nil, fmt.Errorf("marshal entity: nil entity")
	}
	w := newWriter()
	w.entity(e)
	return w.result("marshal entity")
}

// writer accumulates one JSON object. The first error sticks.
type writer struct {
	buf []byte
	err error
}

func newWriter() *writer {
	return &writer{buf: []byte("{}")}
}

func (w *writer) result(op string) ([]byte, error) {
	if w.err != nil {
		return nil, fmt.Errorf("%s: %w", op, w.err)
	}
	return w.buf, nil
}

func (w *writer) set(key string, v any) {
	if w.err != nil {
		return
	}
	w.buf, w.err = sjson.SetBytes(w.buf, escapeKey(key), v)
}

func (w *writer) setRaw(key string, raw []byte) {
	if w.err != nil {
		return
	}
	w.buf, w.err = sjson.SetRawBytes(w.buf, escapeKey(key), raw)
}

func (w *writer) value(key, v string, omitEmpty bool) {
	if v == "" && omitEmpty {
		return
	}
	w.set(key, v)
}

func (w *writer) context(key string, c caliper.Context) {
	if c.IsZero() {
		return
	}
	if uri := c.URI(); uri != "" {
		w.set(key, uri)
		return
	}
	sub := newWriter()
	for _, m := range c.Mappings() {
		sub.set(m.Prefix, m.URI)
	}
	w.embed(key, sub)
}

func (w *writer) entity(e entity.Entity) {
	w.value("@id", e.ID(), false)
	w.value("@type", e.Type().URI(), false)
	w.fields(commonFields(e))
	w.fields(familyFields(e))
	w.extensions(e.Extensions())
}

func (w *writer) extensions(ext map[string]any) {
	if len(ext) > 0 {
		w.set("extensions", ext)
	}
}

func (w *writer) fields(fs fields) {
	for _, f := range fs {
		w.field(f.name, f.value)
	}
}

func (w *writer) field(key string, v any) {
	switch v := v.(type) {
	case time.Time:
		w.set(key, stamp(v))
	case entity.Entity:
		sub := newWriter()
		sub.entity(v)
		w.embed(key, sub)
	case []entity.Entity:
		arr := []byte("[]")
		for _, e := range v {
			sub := newWriter()
			sub.entity(e)
			if sub.err != nil {
				w.err = sub.err
				return
			}
			var err error
			if arr, err = sjson.SetRawBytes(arr, "-1", sub.buf); err != nil {
				w.err = err
				return
			}
		}
		w.setRaw(key, arr)
	case []field:
		sub := newWriter()
		sub.fields(v)
		w.embed(key, sub)
	default:
		w.set(key, v)
	}
}

func (w *writer) embed(key string, sub *writer) {
	if sub.err != nil && w.err == nil {
		w.err = sub.err
	}
	w.setRaw(key, sub.buf)
}

func stamp(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// escapeKey quotes the characters sjson treats as path syntax.
func escapeKey(key string) string {
	if !strings.ContainsAny(key, `.*?|#@\:!`) {
		return key
	}
	var sb strings.Builder
	for _, r := range key {
		if strings.ContainsRune(`.*?|#@\:!`, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
