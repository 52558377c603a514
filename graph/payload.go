package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/message"

	"github.com/c360studio/caliper/export"
	"github.com/c360studio/caliper/vocabulary/caliper"
)

func init() {
	err := component.RegisterPayload(&component.PayloadRegistration{
		Domain:      "caliper",
		Category:    "subject",
		Version:     "v1",
		Description: "Triples of one Caliper event or entity, grouped for graph ingestion",
		Factory:     func() any { return &SubjectPayload{} },
	})
	if err != nil {
		panic("failed to register SubjectPayload: " + err.Error())
	}
}

// SubjectType is the message type of a SubjectPayload.
var SubjectType = message.Type{Domain: "caliper", Category: "subject", Version: "v1"}

var (
	// ErrNoSubject is returned by Validate for a payload without a subject.
	ErrNoSubject = errors.New("payload subject is required")
	// ErrNoTriples is returned by Validate for a payload without triples.
	ErrNoTriples = errors.New("payload has no triples")
)

// SubjectPayload carries every triple about one event or entity.
type SubjectPayload struct {
	Subject    string           `json:"id"`
	Variant    string           `json:"variant,omitempty"`
	Profile    export.Profile   `json:"profile"`
	Statements []message.Triple `json:"triples"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// EntityID and Triples let the graph ingester index the payload.
func (p *SubjectPayload) EntityID() string          { return p.Subject }
func (p *SubjectPayload) Triples() []message.Triple { return p.Statements }
func (p *SubjectPayload) Schema() message.Type      { return SubjectType }

// Validate rejects empty payloads and triples about another subject.
func (p *SubjectPayload) Validate() error {
	if p.Subject == "" {
		return ErrNoSubject
	}
	if len(p.Statements) == 0 {
		return fmt.Errorf("%s: %w", p.Subject, ErrNoTriples)
	}
	for _, tr := range p.Statements {
		if tr.Subject != p.Subject {
			return fmt.Errorf("%s: triple %s is about %s", p.Subject, tr.Predicate, tr.Subject)
		}
	}
	return nil
}

func (p *SubjectPayload) MarshalJSON() ([]byte, error) {
	type plain SubjectPayload
	return json.Marshal((*plain)(p))
}

func (p *SubjectPayload) UnmarshalJSON(data []byte) error {
	type plain SubjectPayload
	return json.Unmarshal(data, (*plain)(p))
}

// GroupBySubject splits triples into one payload per subject, in the order
// subjects first appear. The first type triple of a subject names its
// variant.
func GroupBySubject(triples []message.Triple, profile export.Profile, updatedAt time.Time) []*SubjectPayload {
	index := make(map[string]int)
	var out []*SubjectPayload
	for _, tr := range triples {
		i, ok := index[tr.Subject]
		if !ok {
			i = len(out)
			index[tr.Subject] = i
			out = append(out, &SubjectPayload{Subject: tr.Subject, Profile: profile, UpdatedAt: updatedAt})
		}
		p := out[i]
		if p.Variant == "" && isTypePredicate(tr.Predicate) {
			if iri, ok := tr.Object.(string); ok {
				p.Variant = iri
			}
		}
		p.Statements = append(p.Statements, tr)
	}
	return out
}

func isTypePredicate(predicate string) bool {
	return predicate == caliper.EventTypePredicate || predicate == caliper.EntityTypePredicate
}
