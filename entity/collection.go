package entity

import (
	"slices"
	"time"

	"github.com/c360studio/caliper/conformance"
	"github.com/c360studio/caliper/construct"
	"github.com/c360studio/caliper/vocabulary/caliper"
)

// DigitalResourceCollection is an ordered collection of resources. Forums
// (collections of threads) and threads (collections of messages) are
// collections too.
type DigitalResourceCollection struct {
	core
	resourceFields
	items []Entity
}

// Items returns the members in insertion order. The returned slice is a
// copy; the collection itself cannot be changed.
func (c *DigitalResourceCollection) Items() []Entity { return slices.Clone(c.items) }

// Len returns the number of items.
func (c *DigitalResourceCollection) Len() int { return len(c.items) }

// Item returns the i'th item.
func (c *DigitalResourceCollection) Item(i int) Entity { return c.items[i] }

type collectionState struct {
	coreState
	resourceState
	items []Entity
}

// CollectionBuilder accumulates the fields of a DigitalResourceCollection.
type CollectionBuilder struct {
	kind caliper.EntityType
	acc  construct.Accumulator[collectionState]
}

// NewDigitalResourceCollection starts a DigitalResourceCollection.
func NewDigitalResourceCollection() *CollectionBuilder {
	return &CollectionBuilder{kind: caliper.EntityDigitalResourceCollection}
}

// NewForum starts a Forum.
func NewForum() *CollectionBuilder {
	return &CollectionBuilder{kind: caliper.EntityForum}
}

// NewThread starts a Thread.
func NewThread() *CollectionBuilder {
	return &CollectionBuilder{kind: caliper.EntityThread}
}

func (b *CollectionBuilder) ID(id string) *CollectionBuilder {
	b.acc.Set(func(s *collectionState) { s.id = id })
	return b
}

func (b *CollectionBuilder) Name(name string) *CollectionBuilder {
	b.acc.Set(func(s *collectionState) { s.name = name })
	return b
}

func (b *CollectionBuilder) Description(description string) *CollectionBuilder {
	b.acc.Set(func(s *collectionState) { s.description = description })
	return b
}

func (b *CollectionBuilder) DateCreated(t time.Time) *CollectionBuilder {
	b.acc.Set(func(s *collectionState) { s.dateCreated = t })
	return b
}

func (b *CollectionBuilder) DateModified(t time.Time) *CollectionBuilder {
	b.acc.Set(func(s *collectionState) { s.dateModified = t })
	return b
}

func (b *CollectionBuilder) Extension(key string, value any) *CollectionBuilder {
	b.acc.Set(func(s *collectionState) { s.setExtension(key, value) })
	return b
}

// IsPartOf sets the parent resource or organization.
func (b *CollectionBuilder) IsPartOf(parent Entity) *CollectionBuilder {
	b.acc.Set(func(s *collectionState) { s.isPartOf = orNil(parent) })
	return b
}

// Creators appends creators.
func (b *CollectionBuilder) Creators(creators ...Agent) *CollectionBuilder {
	creators = present(creators)
	b.acc.Set(func(s *collectionState) { s.creators = append(s.creators, creators...) })
	return b
}

func (b *CollectionBuilder) MediaType(mediaType string) *CollectionBuilder {
	b.acc.Set(func(s *collectionState) { s.mediaType = mediaType })
	return b
}

// Keywords appends keywords.
func (b *CollectionBuilder) Keywords(keywords ...string) *CollectionBuilder {
	b.acc.Set(func(s *collectionState) { s.keywords = append(s.keywords, keywords...) })
	return b
}

// LearningObjectives appends learning objectives.
func (b *CollectionBuilder) LearningObjectives(objectives ...Entity) *CollectionBuilder {
	objectives = present(objectives)
	b.acc.Set(func(s *collectionState) { s.learningObjectives = append(s.learningObjectives, objectives...) })
	return b
}

func (b *CollectionBuilder) DatePublished(t time.Time) *CollectionBuilder {
	b.acc.Set(func(s *collectionState) { s.datePublished = t })
	return b
}

func (b *CollectionBuilder) Version(version string) *CollectionBuilder {
	b.acc.Set(func(s *collectionState) { s.version = version })
	return b
}

// Items appends members to the collection.
func (b *CollectionBuilder) Items(items ...Entity) *CollectionBuilder {
	items = present(items)
	b.acc.Set(func(s *collectionState) { s.items = append(s.items, items...) })
	return b
}

func (b *CollectionBuilder) Err() error { return b.acc.Err() }

// Build validates the accumulated fields and returns the collection.
func (b *CollectionBuilder) Build() (*DigitalResourceCollection, error) {
	return construct.Build(&b.acc, construct.Recipe[collectionState, *DigitalResourceCollection]{
		Rules: conformance.EntityRules(b.kind),
		Clone: func(s collectionState) collectionState {
			s.coreState = s.coreState.clone()
			s.resourceState = s.resourceState.clone()
			s.items = slices.Clone(s.items)
			return s
		},
		Defaults: func(s *collectionState) { s.typ = b.kind },
		Candidate: func(s *collectionState) conformance.Candidate {
			c := s.candidate()
			s.references(&c)
			c.References["items"] = many(s.items)
			return c
		},
		Freeze: func(s collectionState) *DigitalResourceCollection {
			return &DigitalResourceCollection{
				core:           s.coreState.freeze(),
				resourceFields: s.resourceState.freeze(),
				items:          s.items,
			}
		},
	}, nil)
}
