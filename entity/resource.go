package entity

import (
	"slices"
	"time"

	"github.com/c360studio/caliper/conformance"
	"github.com/c360studio/caliper/construct"
	"github.com/c360studio/caliper/vocabulary/caliper"
)

// resourceFields are carried by every digital resource variant.
type resourceFields struct {
	isPartOf           Entity
	creators           []Agent
	mediaType          string
	keywords           []string
	learningObjectives []Entity
	datePublished      time.Time
	version            string
}

// IsPartOf returns the parent resource or organization, or nil.
func (r *resourceFields) IsPartOf() Entity { return r.isPartOf }

// Creators returns a copy of the creators.
func (r *resourceFields) Creators() []Agent { return slices.Clone(r.creators) }

// MediaType returns the IANA media type, or "".
func (r *resourceFields) MediaType() string { return r.mediaType }

// Keywords returns a copy of the keywords.
func (r *resourceFields) Keywords() []string { return slices.Clone(r.keywords) }

// LearningObjectives returns a copy of the learning objectives.
func (r *resourceFields) LearningObjectives() []Entity { return slices.Clone(r.learningObjectives) }

func (r *resourceFields) DatePublished() time.Time { return r.datePublished }
func (r *resourceFields) Version() string          { return r.version }

type resourceState struct {
	isPartOf           Entity
	creators           []Agent
	mediaType          string
	keywords           []string
	learningObjectives []Entity
	datePublished      time.Time
	version            string
}

func (r resourceState) clone() resourceState {
	r.creators = slices.Clone(r.creators)
	r.keywords = slices.Clone(r.keywords)
	r.learningObjectives = slices.Clone(r.learningObjectives)
	return r
}

func (r resourceState) freeze() resourceFields {
	return resourceFields{
		isPartOf:           r.isPartOf,
		creators:           r.creators,
		mediaType:          r.mediaType,
		keywords:           r.keywords,
		learningObjectives: r.learningObjectives,
		datePublished:      r.datePublished,
		version:            r.version,
	}
}

func (r *resourceState) references(c *conformance.Candidate) {
	c.References["isPartOf"] = one(r.isPartOf)
	c.References["creators"] = many(r.creators)
	c.References["learningObjectives"] = many(r.learningObjectives)
}

// DigitalResource is a document, chapter, page, web page, frame, reading,
// EPUB part or message, distinguished by Type.
type DigitalResource struct {
	core
	resourceFields
	index int
	body  string
}

// Index returns the position of a Frame within its parent.
func (d *DigitalResource) Index() int { return d.index }

// Body returns the text of a Message.
func (d *DigitalResource) Body() string { return d.body }

type digitalResourceState struct {
	coreState
	resourceState
	index int
	body  string
}

// DigitalResourceBuilder accumulates the fields of a DigitalResource.
type DigitalResourceBuilder struct {
	kind caliper.EntityType
	acc  construct.Accumulator[digitalResourceState]
}

func newDigitalResource(kind caliper.EntityType) *DigitalResourceBuilder {
	return &DigitalResourceBuilder{kind: kind}
}

// NewDigitalResource starts a generic DigitalResource.
func NewDigitalResource() *DigitalResourceBuilder {
	return newDigitalResource(caliper.EntityDigitalResource)
}

func NewDocument() *DigitalResourceBuilder { return newDigitalResource(caliper.EntityDocument) }
func NewChapter() *DigitalResourceBuilder  { return newDigitalResource(caliper.EntityChapter) }
func NewPage() *DigitalResourceBuilder     { return newDigitalResource(caliper.EntityPage) }
func NewWebPage() *DigitalResourceBuilder  { return newDigitalResource(caliper.EntityWebPage) }
func NewFrame() *DigitalResourceBuilder    { return newDigitalResource(caliper.EntityFrame) }
func NewReading() *DigitalResourceBuilder  { return newDigitalResource(caliper.EntityReading) }
func NewMessage() *DigitalResourceBuilder  { return newDigitalResource(caliper.EntityMessage) }

// EPUB structure.
func NewEpubVolume() *DigitalResourceBuilder     { return newDigitalResource(caliper.EntityEpubVolume) }
func NewEpubPart() *DigitalResourceBuilder       { return newDigitalResource(caliper.EntityEpubPart) }
func NewEpubChapter() *DigitalResourceBuilder    { return newDigitalResource(caliper.EntityEpubChapter) }
func NewEpubSubChapter() *DigitalResourceBuilder { return newDigitalResource(caliper.EntityEpubSubChapter) }

// ID sets the entity identifier, an IRI or blank node.
func (b *DigitalResourceBuilder) ID(id string) *DigitalResourceBuilder {
	b.acc.Set(func(s *digitalResourceState) { s.id = id })
	return b
}

// Name sets the display name.
func (b *DigitalResourceBuilder) Name(name string) *DigitalResourceBuilder {
	b.acc.Set(func(s *digitalResourceState) { s.name = name })
	return b
}

// Description sets the free-text description.
func (b *DigitalResourceBuilder) Description(description string) *DigitalResourceBuilder {
	b.acc.Set(func(s *digitalResourceState) { s.description = description })
	return b
}

// DateCreated sets the creation time.
func (b *DigitalResourceBuilder) DateCreated(t time.Time) *DigitalResourceBuilder {
	b.acc.Set(func(s *digitalResourceState) { s.dateCreated = t })
	return b
}

// DateModified sets the last modification time.
func (b *DigitalResourceBuilder) DateModified(t time.Time) *DigitalResourceBuilder {
	b.acc.Set(func(s *digitalResourceState) { s.dateModified = t })
	return b
}

// Extension sets one extension value. Later calls for the same key win.
func (b *DigitalResourceBuilder) Extension(key string, value any) *DigitalResourceBuilder {
	b.acc.Set(func(s *digitalResourceState) { s.setExtension(key, value) })
	return b
}

// IsPartOf sets the parent resource or organization.
func (b *DigitalResourceBuilder) IsPartOf(parent Entity) *DigitalResourceBuilder {
	b.acc.Set(func(s *digitalResourceState) { s.isPartOf = orNil(parent) })
	return b
}

// Creators appends creators.
func (b *DigitalResourceBuilder) Creators(creators ...Agent) *DigitalResourceBuilder {
	creators = present(creators)
	b.acc.Set(func(s *digitalResourceState) { s.creators = append(s.creators, creators...) })
	return b
}

func (b *DigitalResourceBuilder) MediaType(mediaType string) *DigitalResourceBuilder {
	b.acc.Set(func(s *digitalResourceState) { s.mediaType = mediaType })
	return b
}

// Keywords appends keywords.
func (b *DigitalResourceBuilder) Keywords(keywords ...string) *DigitalResourceBuilder {
	b.acc.Set(func(s *digitalResourceState) { s.keywords = append(s.keywords, keywords...) })
	return b
}

// LearningObjectives appends learning objectives.
func (b *DigitalResourceBuilder) LearningObjectives(objectives ...Entity) *DigitalResourceBuilder {
	objectives = present(objectives)
	b.acc.Set(func(s *digitalResourceState) { s.learningObjectives = append(s.learningObjectives, objectives...) })
	return b
}

func (b *DigitalResourceBuilder) DatePublished(t time.Time) *DigitalResourceBuilder {
	b.acc.Set(func(s *digitalResourceState) { s.datePublished = t })
	return b
}

func (b *DigitalResourceBuilder) Version(version string) *DigitalResourceBuilder {
	b.acc.Set(func(s *digitalResourceState) { s.version = version })
	return b
}

// Index sets the position of a Frame within its parent resource.
func (b *DigitalResourceBuilder) Index(i int) *DigitalResourceBuilder {
	if allow(&b.acc, b.kind, "index", caliper.EntityFrame) {
		b.acc.Set(func(s *digitalResourceState) { s.index = i })
	}
	return b
}

// Body sets the text of a Message.
func (b *DigitalResourceBuilder) Body(body string) *DigitalResourceBuilder {
	if allow(&b.acc, b.kind, "body", caliper.EntityMessage) {
		b.acc.Set(func(s *digitalResourceState) { s.body = body })
	}
	return b
}

// Err returns the first setter error recorded so far.
func (b *DigitalResourceBuilder) Err() error { return b.acc.Err() }

// Build validates the accumulated fields and returns the DigitalResource.
func (b *DigitalResourceBuilder) Build() (*DigitalResource, error) {
	return construct.Build(&b.acc, construct.Recipe[digitalResourceState, *DigitalResource]{
		Rules: conformance.EntityRules(b.kind),
		Clone: func(s digitalResourceState) digitalResourceState {
			s.coreState = s.coreState.clone()
			s.resourceState = s.resourceState.clone()
			return s
		},
		Defaults: func(s *digitalResourceState) { s.typ = b.kind },
		Candidate: func(s *digitalResourceState) conformance.Candidate {
			c := s.candidate()
			s.references(&c)
			return c
		},
		Freeze: func(s digitalResourceState) *DigitalResource {
			return &DigitalResource{
				core:           s.coreState.freeze(),
				resourceFields: s.resourceState.freeze(),
				index:          s.index,
				body:           s.body,
			}
		},
	}, nil)
}
