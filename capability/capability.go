// Package capability defines the abstract roles an entity variant can play.
// Conformance rules constrain event fields by capability rather than by
// concrete type, so adding a variant never touches the rule engine.
package capability

import (
	"math/bits"
	"strings"
)

// Capability is an abstract role such as Agent or DigitalResource.
type Capability string

const (
	// Agent is anything that can act: people and software.
	Agent Capability = "Agent"

	// Person is a human agent.
	Person Capability = "Person"

	// SoftwareApplication is a software agent.
	SoftwareApplication Capability = "SoftwareApplication"

	// Organization covers LIS organizations, course offerings, sections and groups.
	Organization Capability = "Organization"

	// Membership relates a person to an organization.
	Membership Capability = "Membership"

	DigitalResource           Capability = "DigitalResource"
	DigitalResourceCollection Capability = "DigitalResourceCollection"
	AssignableDigitalResource Capability = "AssignableDigitalResource"
	Assessment                Capability = "Assessment"
	AssessmentItem            Capability = "AssessmentItem"
	Forum                     Capability = "Forum"
	Thread                    Capability = "Thread"
	Message                   Capability = "Message"
	Frame                     Capability = "Frame"
	MediaObject               Capability = "MediaObject"
	MediaLocation             Capability = "MediaLocation"
	Annotation                Capability = "Annotation"
	Attempt                   Capability = "Attempt"
	Response                  Capability = "Response"
	Result                    Capability = "Result"
	Score                     Capability = "Score"
	Session                   Capability = "Session"
	LtiSession                Capability = "LtiSession"
	LearningObjective         Capability = "LearningObjective"

	// Targetable marks entities usable as an event target.
	Targetable Capability = "Targetable"

	// Generatable marks entities an event can produce.
	Generatable Capability = "Generatable"

	// Referrable marks entities usable as an event referrer.
	Referrable Capability = "Referrable"
)

// all fixes the bit position of every capability.
var all = []Capability{
	Agent, Person, SoftwareApplication, Organization, Membership,
	DigitalResource, DigitalResourceCollection, AssignableDigitalResource,
	Assessment, AssessmentItem, Forum, Thread, Message, Frame,
	MediaObject, MediaLocation, Annotation, Attempt, Response, Result, Score,
	Session, LtiSession, LearningObjective,
	Targetable, Generatable, Referrable,
}

var index = func() map[Capability]uint {
	m := make(map[Capability]uint, len(all))
	for i, c := range all {
		m[c] = uint(i)
	}
	return m
}()

// IsValid checks if a capability string is a known capability.
func (c Capability) IsValid() bool {
	_, ok := index[c]
	return ok
}

// String returns the string representation of the capability.
func (c Capability) String() string {
	return string(c)
}

// Parse converts a string to a Capability, returning empty for invalid values.
func Parse(s string) Capability {
	c := Capability(s)
	if c.IsValid() {
		return c
	}
	return ""
}

// All returns every capability in declaration order.
func All() []Capability {
	return append([]Capability(nil), all...)
}

// Set is an immutable set of capabilities.
type Set uint64

// Of builds a set. Unknown capabilities panic: capability tables are
// written by hand and a typo there is a programming error.
func Of(caps ...Capability) Set {
	var s Set
	for _, c := range caps {
		i, ok := index[c]
		if !ok {
			panic("capability: unknown capability " + string(c))
		}
		s |= 1 << i
	}
	return s
}

// Has reports whether c is in the set.
func (s Set) Has(c Capability) bool {
	i, ok := index[c]
	return ok && s&(1<<i) != 0
}

// Any reports whether the sets share at least one capability. An empty
// constraint accepts any non-empty set.
func (s Set) Any(constraint Set) bool {
	if constraint == 0 {
		return s != 0
	}
	return s&constraint != 0
}

// Union returns the capabilities present in either set.
func (s Set) Union(other Set) Set { return s | other }

// IsEmpty reports whether the set has no capabilities.
func (s Set) IsEmpty() bool { return s == 0 }

// Len returns the number of capabilities in the set.
func (s Set) Len() int { return bits.OnesCount64(uint64(s)) }

// Capabilities lists the members in declaration order.
func (s Set) Capabilities() []Capability {
	out := make([]Capability, 0, s.Len())
	for i, c := range all {
		if s&(1<<uint(i)) != 0 {
			out = append(out, c)
		}
	}
	return out
}

// String renders the set as "{A, B}" or "{A}" in declaration order.
func (s Set) String() string {
	caps := s.Capabilities()
	names := make([]string, len(caps))
	for i, c := range caps {
		names[i] = string(c)
	}
	return "{" + strings.Join(names, ", ") + "}"
}
