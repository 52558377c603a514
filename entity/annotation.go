package entity

import (
	"slices"
	"time"

	"github.com/c360studio/caliper/conformance"
	"github.com/c360studio/caliper/construct"
	"github.com/c360studio/caliper/vocabulary/caliper"
)

// Selection is a character range within an annotated resource.
type Selection struct {
	Start int
	End   int
}

// Annotation is a bookmark, highlight, share or tag made by a person on a
// resource, distinguished by Type.
type Annotation struct {
	core
	annotator     Entity
	annotated     Entity
	bookmarkNotes string
	selection     *Selection
	selectionText string
	withAgents    []Agent
	tags          []string
}

func (a *Annotation) Annotator() Entity { return a.annotator }
func (a *Annotation) Annotated() Entity { return a.annotated }

// BookmarkNotes returns the notes of a BookmarkAnnotation.
func (a *Annotation) BookmarkNotes() string { return a.bookmarkNotes }

// Selection returns the highlighted range of a HighlightAnnotation.
func (a *Annotation) Selection() (Selection, bool) {
	if a.selection == nil {
		return Selection{}, false
	}
	return *a.selection, true
}

// SelectionText returns the highlighted text of a HighlightAnnotation.
func (a *Annotation) SelectionText() string { return a.selectionText }

// WithAgents returns the agents a SharedAnnotation was shared with.
func (a *Annotation) WithAgents() []Agent { return slices.Clone(a.withAgents) }

// Tags returns the tags of a TagAnnotation.
func (a *Annotation) Tags() []string { return slices.Clone(a.tags) }

type annotationState struct {
	coreState
	annotator     Entity
	annotated     Entity
	bookmarkNotes string
	selection     *Selection
	selectionText string
	withAgents    []Agent
	tags          []string
}

// AnnotationBuilder accumulates the fields of an Annotation.
type AnnotationBuilder struct {
	kind caliper.EntityType
	acc  construct.Accumulator[annotationState]
}

// NewAnnotation starts a generic Annotation.
func NewAnnotation() *AnnotationBuilder {
	return &AnnotationBuilder{kind: caliper.EntityAnnotation}
}

// NewBookmarkAnnotation starts a BookmarkAnnotation.
func NewBookmarkAnnotation() *AnnotationBuilder {
	return &AnnotationBuilder{kind: caliper.EntityBookmarkAnnotation}
}

// NewHighlightAnnotation starts a HighlightAnnotation.
func NewHighlightAnnotation() *AnnotationBuilder {
	return &AnnotationBuilder{kind: caliper.EntityHighlightAnnotation}
}

// NewSharedAnnotation starts a SharedAnnotation.
func NewSharedAnnotation() *AnnotationBuilder {
	return &AnnotationBuilder{kind: caliper.EntitySharedAnnotation}
}

// NewTagAnnotation starts a TagAnnotation.
func NewTagAnnotation() *AnnotationBuilder {
	return &AnnotationBuilder{kind: caliper.EntityTagAnnotation}
}

func (b *AnnotationBuilder) ID(id string) *AnnotationBuilder {
	b.acc.Set(func(s *annotationState) { s.id = id })
	return b
}

func (b *AnnotationBuilder) Name(name string) *AnnotationBuilder {
	b.acc.Set(func(s *annotationState) { s.name = name })
	return b
}

func (b *AnnotationBuilder) Description(description string) *AnnotationBuilder {
	b.acc.Set(func(s *annotationState) { s.description = description })
	return b
}

func (b *AnnotationBuilder) DateCreated(t time.Time) *AnnotationBuilder {
	b.acc.Set(func(s *annotationState) { s.dateCreated = t })
	return b
}

func (b *AnnotationBuilder) DateModified(t time.Time) *AnnotationBuilder {
	b.acc.Set(func(s *annotationState) { s.dateModified = t })
	return b
}

func (b *AnnotationBuilder) Extension(key string, value any) *AnnotationBuilder {
	b.acc.Set(func(s *annotationState) { s.setExtension(key, value) })
	return b
}

// Annotator sets the person who made the annotation.
func (b *AnnotationBuilder) Annotator(annotator Entity) *AnnotationBuilder {
	b.acc.Set(func(s *annotationState) { s.annotator = orNil(annotator) })
	return b
}

// Annotated sets the annotated resource.
func (b *AnnotationBuilder) Annotated(resource Entity) *AnnotationBuilder {
	b.acc.Set(func(s *annotationState) { s.annotated = orNil(resource) })
	return b
}

func (b *AnnotationBuilder) BookmarkNotes(notes string) *AnnotationBuilder {
	if allow(&b.acc, b.kind, "bookmarkNotes", caliper.EntityBookmarkAnnotation) {
		b.acc.Set(func(s *annotationState) { s.bookmarkNotes = notes })
	}
	return b
}

// Selection sets the highlighted character range.
func (b *AnnotationBuilder) Selection(start, end int) *AnnotationBuilder {
	if allow(&b.acc, b.kind, "selection", caliper.EntityHighlightAnnotation) {
		b.acc.Set(func(s *annotationState) { s.selection = &Selection{Start: start, End: end} })
	}
	return b
}

func (b *AnnotationBuilder) SelectionText(text string) *AnnotationBuilder {
	if allow(&b.acc, b.kind, "selectionText", caliper.EntityHighlightAnnotation) {
		b.acc.Set(func(s *annotationState) { s.selectionText = text })
	}
	return b
}

// WithAgents appends the agents a SharedAnnotation is shared with.
func (b *AnnotationBuilder) WithAgents(agents ...Agent) *AnnotationBuilder {
	if allow(&b.acc, b.kind, "withAgents", caliper.EntitySharedAnnotation) {
		agents = present(agents)
		b.acc.Set(func(s *annotationState) { s.withAgents = append(s.withAgents, agents...) })
	}
	return b
}

// Tags appends the tags of a TagAnnotation.
func (b *AnnotationBuilder) Tags(tags ...string) *AnnotationBuilder {
	if allow(&b.acc, b.kind, "tags", caliper.EntityTagAnnotation) {
		b.acc.Set(func(s *annotationState) { s.tags = append(s.tags, tags...) })
	}
	return b
}

func (b *AnnotationBuilder) Err() error { return b.acc.Err() }

// Build validates the accumulated fields and returns the Annotation.
func (b *AnnotationBuilder) Build() (*Annotation, error) {
	return construct.Build(&b.acc, construct.Recipe[annotationState, *Annotation]{
		Rules: conformance.EntityRules(b.kind),
		Clone: func(s annotationState) annotationState {
			s.coreState = s.coreState.clone()
			s.withAgents = slices.Clone(s.withAgents)
			s.tags = slices.Clone(s.tags)
			if s.selection != nil {
				sel := *s.selection
				s.selection = &sel
			}
			return s
		},
		Defaults: func(s *annotationState) { s.typ = b.kind },
		Candidate: func(s *annotationState) conformance.Candidate {
			c := s.candidate()
			c.References["annotator"] = one(s.annotator)
			c.References["annotated"] = one(s.annotated)
			c.References["withAgents"] = many(s.withAgents)
			return c
		},
		Freeze: func(s annotationState) *Annotation {
			return &Annotation{
				core:          s.freeze(),
				annotator:     s.annotator,
				annotated:     s.annotated,
				bookmarkNotes: s.bookmarkNotes,
				selection:     s.selection,
				selectionText: s.selectionText,
				withAgents:    s.withAgents,
				tags:          s.tags,
			}
		},
	}, nil)
}
