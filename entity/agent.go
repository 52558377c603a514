package entity

import (
	"time"

	"github.com/c360studio/caliper/conformance"
	"github.com/c360studio/caliper/construct"
	"github.com/c360studio/caliper/vocabulary/caliper"
)

// Person is an LIS person.
type Person struct {
	core
}

func (*Person) agent() {}

type personState struct {
	coreState
}

// PersonBuilder accumulates the fields of a Person.
type PersonBuilder struct {
	acc construct.Accumulator[personState]
}

// NewPerson starts a Person.
func NewPerson() *PersonBuilder {
	return &PersonBuilder{}
}

// ID sets the entity identifier, an IRI or blank node.
func (b *PersonBuilder) ID(id string) *PersonBuilder {
	b.acc.Set(func(s *personState) { s.id = id })
	return b
}

// Name sets the display name.
func (b *PersonBuilder) Name(name string) *PersonBuilder {
	b.acc.Set(func(s *personState) { s.name = name })
	return b
}

// Description sets the free-text description.
func (b *PersonBuilder) Description(description string) *PersonBuilder {
	b.acc.Set(func(s *personState) { s.description = description })
	return b
}

// DateCreated sets the creation time.
func (b *PersonBuilder) DateCreated(t time.Time) *PersonBuilder {
	b.acc.Set(func(s *personState) { s.dateCreated = t })
	return b
}

// DateModified sets the last modification time.
func (b *PersonBuilder) DateModified(t time.Time) *PersonBuilder {
	b.acc.Set(func(s *personState) { s.dateModified = t })
	return b
}

// Extension sets one extension value. Later calls for the same key win.
func (b *PersonBuilder) Extension(key string, value any) *PersonBuilder {
	b.acc.Set(func(s *personState) { s.setExtension(key, value) })
	return b
}

// Err returns the first setter error recorded so far.
func (b *PersonBuilder) Err() error { return b.acc.Err() }

// Build validates the accumulated fields and returns the Person.
func (b *PersonBuilder) Build() (*Person, error) {
	return construct.Build(&b.acc, construct.Recipe[personState, *Person]{
		Rules: conformance.EntityRules(caliper.EntityPerson),
		Clone: func(s personState) personState {
			s.coreState = s.coreState.clone()
			return s
		},
		Defaults:  func(s *personState) { s.typ = caliper.EntityPerson },
		Candidate: func(s *personState) conformance.Candidate { return s.candidate() },
		Freeze: func(s personState) *Person {
			return &Person{core: s.freeze()}
		},
	}, nil)
}

// SoftwareApplication is a software agent: an LMS, a reader, an LTI tool.
type SoftwareApplication struct {
	core
	version string
}

func (*SoftwareApplication) agent() {}

// Version returns the application version, or "".
func (a *SoftwareApplication) Version() string { return a.version }

type softwareState struct {
	coreState
	version string
}

// SoftwareApplicationBuilder accumulates the fields of a SoftwareApplication.
type SoftwareApplicationBuilder struct {
	acc construct.Accumulator[softwareState]
}

// NewSoftwareApplication starts a SoftwareApplication.
func NewSoftwareApplication() *SoftwareApplicationBuilder {
	return &SoftwareApplicationBuilder{}
}

func (b *SoftwareApplicationBuilder) ID(id string) *SoftwareApplicationBuilder {
	b.acc.Set(func(s *softwareState) { s.id = id })
	return b
}

func (b *SoftwareApplicationBuilder) Name(name string) *SoftwareApplicationBuilder {
	b.acc.Set(func(s *softwareState) { s.name = name })
	return b
}

func (b *SoftwareApplicationBuilder) Description(description string) *SoftwareApplicationBuilder {
	b.acc.Set(func(s *softwareState) { s.description = description })
	return b
}

func (b *SoftwareApplicationBuilder) DateCreated(t time.Time) *SoftwareApplicationBuilder {
	b.acc.Set(func(s *softwareState) { s.dateCreated = t })
	return b
}

func (b *SoftwareApplicationBuilder) DateModified(t time.Time) *SoftwareApplicationBuilder {
	b.acc.Set(func(s *softwareState) { s.dateModified = t })
	return b
}

func (b *SoftwareApplicationBuilder) Extension(key string, value any) *SoftwareApplicationBuilder {
	b.acc.Set(func(s *softwareState) { s.setExtension(key, value) })
	return b
}

// Version sets the application version.
func (b *SoftwareApplicationBuilder) Version(v string) *SoftwareApplicationBuilder {
	b.acc.Set(func(s *softwareState) { s.version = v })
	return b
}

func (b *SoftwareApplicationBuilder) Err() error { return b.acc.Err() }

// Build validates the accumulated fields and returns the SoftwareApplication.
func (b *SoftwareApplicationBuilder) Build() (*SoftwareApplication, error) {
	return construct.Build(&b.acc, construct.Recipe[softwareState, *SoftwareApplication]{
		Rules: conformance.EntityRules(caliper.EntitySoftwareApplication),
		Clone: func(s softwareState) softwareState {
			s.coreState = s.coreState.clone()
			return s
		},
		Defaults:  func(s *softwareState) { s.typ = caliper.EntitySoftwareApplication },
		Candidate: func(s *softwareState) conformance.Candidate { return s.candidate() },
		Freeze: func(s softwareState) *SoftwareApplication {
			return &SoftwareApplication{core: s.freeze(), version: s.version}
		},
	}, nil)
}
