package export

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/vocabulary"

	"github.com/c360studio/caliper/entity"
	"github.com/c360studio/caliper/event"
	"github.com/c360studio/caliper/vocabulary/caliper"
)

// TripleSource is the Source of every triple produced here.
const TripleSource = "caliper.export"

// ErrNoSubject is returned when an event without an @id is turned into
// triples.
var ErrNoSubject = errors.New("event has no @id")

// propertyPrefix names predicates for properties without a registered one.
const propertyPrefix = "caliper.property."

// Triples flattens e and every entity it references into triples. Entities
// are emitted once each, after the event's own triples. Extensions are not
// exported. Every triple is stamped with the event time.
func Triples(e *event.Event, profile Profile) ([]message.Triple, error) {
	if e == nil || e.ID() == "" {
		return nil, ErrNoSubject
	}

	t := &tripler{
		ts:      e.EventTime(),
		profile: GetProfileConfig(profile),
		seen:    make(map[string]bool),
	}
	t.typeTriples(e.ID(), caliper.EventTypePredicate, e.Type().URI(), vocabulary.ProvActivity)
	t.walk(e.ID(), eventFields(e), "")
	t.drain()
	return t.out, nil
}

// EntityTriples flattens one entity and the entities it references.
func EntityTriples(e entity.Entity, profile Profile) []message.Triple {
	if entity.IsNil(e) {
		return nil
	}
	t := &tripler{profile: GetProfileConfig(profile), seen: make(map[string]bool)}
	t.enqueue(e)
	t.drain()
	return t.out
}

type tripler struct {
	ts      time.Time
	profile ProfileConfig
	seen    map[string]bool
	queue   []entity.Entity
	out     []message.Triple
}

func (t *tripler) add(subject, predicate string, object any) {
	t.out = append(t.out, message.Triple{
		Subject:    subject,
		Predicate:  predicate,
		Object:     object,
		Source:     TripleSource,
		Timestamp:  t.ts,
		Confidence: 1.0,
	})
}

func (t *tripler) typeTriples(subject, predicate, typeIRI, provClass string) {
	t.add(subject, predicate, typeIRI)
	if t.profile.IncludePROV && provClass != "" {
		t.add(subject, predicate, provClass)
	}
}

func (t *tripler) enqueue(e entity.Entity) {
	if t.seen[e.ID()] {
		return
	}
	t.seen[e.ID()] = true
	t.queue = append(t.queue, e)
}

func (t *tripler) drain() {
	for len(t.queue) > 0 {
		e := t.queue[0]
		t.queue = t.queue[1:]
		t.typeTriples(e.ID(), caliper.EntityTypePredicate, e.Type().URI(), provClassOf(e))
		t.walk(e.ID(), commonFields(e), "")
		t.walk(e.ID(), familyFields(e), "")
	}
}

// walk emits one triple per scalar, list element or reference. Nested
// objects are flattened onto the same subject with prefixed names.
func (t *tripler) walk(subject string, fs fields, prefix string) {
	for _, f := range fs {
		if strings.HasPrefix(f.name, "@") {
			continue
		}
		name := f.name
		if prefix != "" {
			name = prefix + upperFirst(name)
		}
		pred := predicateFor(name)

		switch v := f.value.(type) {
		case entity.Entity:
			t.add(subject, pred, v.ID())
			t.enqueue(v)
		case []entity.Entity:
			for _, e := range v {
				t.add(subject, pred, e.ID())
				t.enqueue(e)
			}
		case []string:
			for _, s := range v {
				t.add(subject, pred, s)
			}
		case []field:
			t.walk(subject, v, name)
		case time.Time:
			t.add(subject, pred, v.UTC())
		default:
			t.add(subject, pred, v)
		}
	}
}

// predicateFor returns the registered predicate of a JSON-LD property, or a
// caliper.property.<name> predicate when none is registered.
func predicateFor(property string) string {
	if p, ok := caliper.PredicateFor(property); ok {
		return p
	}
	return propertyPrefix + property
}

// PredicateIRI resolves a predicate to its RDF IRI.
func PredicateIRI(predicate string) string {
	if meta := vocabulary.GetPredicateMetadata(predicate); meta != nil && meta.StandardIRI != "" {
		return meta.StandardIRI
	}
	if name, ok := strings.CutPrefix(predicate, propertyPrefix); ok {
		return caliper.PropertyNamespace + name
	}
	return caliper.PropertyNamespace + strings.ReplaceAll(predicate, ".", "/")
}

// isReference reports whether objects of predicate are IRIs rather than
// literals.
func isReference(predicate string) bool {
	switch predicate {
	case caliper.EventTypePredicate, caliper.EntityTypePredicate, caliper.EventAction:
		return true
	}
	meta := vocabulary.GetPredicateMetadata(predicate)
	return meta != nil && meta.DataType == "entity_id"
}

func upperFirst(s string) string {
	for i, r := range s {
		return string(unicode.ToUpper(r)) + s[i+len(string(r)):]
	}
	return s
}

// RDFExporter collects triples and serializes them as RDF.
type RDFExporter struct {
	triples  []message.Triple
	prefixes map[string]string
}

// NewRDFExporter creates an empty exporter with the default prefixes.
func NewRDFExporter() *RDFExporter {
	return &RDFExporter{prefixes: defaultPrefixes()}
}

// defaultPrefixes returns the namespace prefixes declared in Turtle output.
func defaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":     "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
		"xsd":     "http://www.w3.org/2001/XMLSchema#",
		"dc":      "http://purl.org/dc/terms/",
		"prov":    "http://www.w3.org/ns/prov#",
		"caliper": caliper.PropertyNamespace,
	}
}

// Add appends triples to the export.
func (x *RDFExporter) Add(triples ...message.Triple) {
	x.triples = append(x.triples, triples...)
}

// Len returns the number of collected triples.
func (x *RDFExporter) Len() int { return len(x.triples) }

// Export serializes the collected triples. JSON-LD is produced by
// MarshalEvent, not from triples.
func (x *RDFExporter) Export(format Format) (string, error) {
	switch format {
	case FormatTurtle:
		return x.toTurtle(), nil
	case FormatNTriples:
		return x.toNTriples(), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func (x *RDFExporter) toNTriples() string {
	w := NewNTriplesWriter()
	for _, tr := range x.triples {
		w.WriteTriple(tr.Subject, PredicateIRI(tr.Predicate), object(tr))
	}
	return w.String()
}

func (x *RDFExporter) toTurtle() string {
	w := NewTurtleWriter()
	for prefix, iri := range x.prefixes {
		w.SetPrefix(prefix, iri)
	}
	w.WritePrefixes()

	// Group consecutive triples by subject.
	for i := 0; i < len(x.triples); {
		j := i
		for j < len(x.triples) && x.triples[j].Subject == x.triples[i].Subject {
			j++
		}
		w.WriteSubject(x.triples[i].Subject)
		for k := i; k < j; k++ {
			w.WritePredicate(PredicateIRI(x.triples[k].Predicate), object(x.triples[k]), k == j-1)
		}
		w.WriteBlank()
		i = j
	}
	return w.String()
}

// object wraps references as iri so the writers emit them unquoted.
func object(tr message.Triple) any {
	if s, ok := tr.Object.(string); ok && isReference(tr.Predicate) {
		return iri(s)
	}
	return tr.Object
}
