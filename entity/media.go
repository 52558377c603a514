package entity

import (
	"time"

	"github.com/c360studio/caliper/conformance"
	"github.com/c360studio/caliper/construct"
	"github.com/c360studio/caliper/vocabulary/caliper"
)

// MediaObject is an audio, image or video resource.
type MediaObject struct {
	core
	resourceFields
	duration *string
	volume   string
	muted    bool
}

// Duration returns the ISO-8601 duration and whether one was set.
func (m *MediaObject) Duration() (string, bool) { return optional(m.duration) }

// Volume returns the playback volume of an AudioObject.
func (m *MediaObject) Volume() string { return m.volume }

// Muted reports whether an AudioObject is muted.
func (m *MediaObject) Muted() bool { return m.muted }

type mediaState struct {
	coreState
	resourceState
	duration *string
	volume   string
	muted    bool
}

// MediaObjectBuilder accumulates the fields of a MediaObject.
type MediaObjectBuilder struct {
	kind caliper.EntityType
	acc  construct.Accumulator[mediaState]
}

// NewMediaObject starts a generic MediaObject.
func NewMediaObject() *MediaObjectBuilder {
	return &MediaObjectBuilder{kind: caliper.EntityMediaObject}
}

func NewAudioObject() *MediaObjectBuilder { return &MediaObjectBuilder{kind: caliper.EntityAudioObject} }
func NewImageObject() *MediaObjectBuilder { return &MediaObjectBuilder{kind: caliper.EntityImageObject} }
func NewVideoObject() *MediaObjectBuilder { return &MediaObjectBuilder{kind: caliper.EntityVideoObject} }

func (b *MediaObjectBuilder) ID(id string) *MediaObjectBuilder {
	b.acc.Set(func(s *mediaState) { s.id = id })
	return b
}

func (b *MediaObjectBuilder) Name(name string) *MediaObjectBuilder {
	b.acc.Set(func(s *mediaState) { s.name = name })
	return b
}

func (b *MediaObjectBuilder) Description(description string) *MediaObjectBuilder {
	b.acc.Set(func(s *mediaState) { s.description = description })
	return b
}

func (b *MediaObjectBuilder) DateCreated(t time.Time) *MediaObjectBuilder {
	b.acc.Set(func(s *mediaState) { s.dateCreated = t })
	return b
}

func (b *MediaObjectBuilder) DateModified(t time.Time) *MediaObjectBuilder {
	b.acc.Set(func(s *mediaState) { s.dateModified = t })
	return b
}

func (b *MediaObjectBuilder) Extension(key string, value any) *MediaObjectBuilder {
	b.acc.Set(func(s *mediaState) { s.setExtension(key, value) })
	return b
}

// IsPartOf sets the parent resource or organization.
func (b *MediaObjectBuilder) IsPartOf(parent Entity) *MediaObjectBuilder {
	b.acc.Set(func(s *mediaState) { s.isPartOf = orNil(parent) })
	return b
}

// Creators appends creators.
func (b *MediaObjectBuilder) Creators(creators ...Agent) *MediaObjectBuilder {
	creators = present(creators)
	b.acc.Set(func(s *mediaState) { s.creators = append(s.creators, creators...) })
	return b
}

func (b *MediaObjectBuilder) MediaType(mediaType string) *MediaObjectBuilder {
	b.acc.Set(func(s *mediaState) { s.mediaType = mediaType })
	return b
}

// Keywords appends keywords.
func (b *MediaObjectBuilder) Keywords(keywords ...string) *MediaObjectBuilder {
	b.acc.Set(func(s *mediaState) { s.keywords = append(s.keywords, keywords...) })
	return b
}

// LearningObjectives appends learning objectives.
func (b *MediaObjectBuilder) LearningObjectives(objectives ...Entity) *MediaObjectBuilder {
	objectives = present(objectives)
	b.acc.Set(func(s *mediaState) { s.learningObjectives = append(s.learningObjectives, objectives...) })
	return b
}

func (b *MediaObjectBuilder) DatePublished(t time.Time) *MediaObjectBuilder {
	b.acc.Set(func(s *mediaState) { s.datePublished = t })
	return b
}

func (b *MediaObjectBuilder) Version(version string) *MediaObjectBuilder {
	b.acc.Set(func(s *mediaState) { s.version = version })
	return b
}

// Duration sets the ISO-8601 playing time. Images have none.
func (b *MediaObjectBuilder) Duration(d string) *MediaObjectBuilder {
	if allow(&b.acc, b.kind, "duration",
		caliper.EntityMediaObject, caliper.EntityAudioObject, caliper.EntityVideoObject) {
		b.acc.Set(func(s *mediaState) { s.duration = &d })
	}
	return b
}

// Volume sets the playback volume of an AudioObject.
func (b *MediaObjectBuilder) Volume(v string) *MediaObjectBuilder {
	if allow(&b.acc, b.kind, "volume", caliper.EntityAudioObject) {
		b.acc.Set(func(s *mediaState) { s.volume = v })
	}
	return b
}

// Muted marks an AudioObject as muted.
func (b *MediaObjectBuilder) Muted(muted bool) *MediaObjectBuilder {
	if allow(&b.acc, b.kind, "muted", caliper.EntityAudioObject) {
		b.acc.Set(func(s *mediaState) { s.muted = muted })
	}
	return b
}

func (b *MediaObjectBuilder) Err() error { return b.acc.Err() }

// Build validates the accumulated fields and returns the MediaObject.
func (b *MediaObjectBuilder) Build() (*MediaObject, error) {
	return construct.Build(&b.acc, construct.Recipe[mediaState, *MediaObject]{
		Rules: conformance.EntityRules(b.kind),
		Clone: func(s mediaState) mediaState {
			s.coreState = s.coreState.clone()
			s.resourceState = s.resourceState.clone()
			s.duration = copyPtr(s.duration)
			return s
		},
		Defaults: func(s *mediaState) { s.typ = b.kind },
		Candidate: func(s *mediaState) conformance.Candidate {
			c := s.candidate()
			s.references(&c)
			c.Duration = s.duration
			return c
		},
		Freeze: func(s mediaState) *MediaObject {
			return &MediaObject{
				core:           s.coreState.freeze(),
				resourceFields: s.resourceState.freeze(),
				duration:       copyPtr(s.duration),
				volume:         s.volume,
				muted:          s.muted,
			}
		},
	}, nil)
}

// MediaLocation is a position within a media object.
type MediaLocation struct {
	core
	currentTime string
}

// CurrentTime returns the ISO-8601 offset into the media.
func (m *MediaLocation) CurrentTime() string { return m.currentTime }

type locationState struct {
	coreState
	currentTime string
}

// MediaLocationBuilder accumulates the fields of a MediaLocation.
type MediaLocationBuilder struct {
	acc construct.Accumulator[locationState]
}

// NewMediaLocation starts a MediaLocation.
func NewMediaLocation() *MediaLocationBuilder {
	return &MediaLocationBuilder{}
}

func (b *MediaLocationBuilder) ID(id string) *MediaLocationBuilder {
	b.acc.Set(func(s *locationState) { s.id = id })
	return b
}

func (b *MediaLocationBuilder) Name(name string) *MediaLocationBuilder {
	b.acc.Set(func(s *locationState) { s.name = name })
	return b
}

func (b *MediaLocationBuilder) Description(description string) *MediaLocationBuilder {
	b.acc.Set(func(s *locationState) { s.description = description })
	return b
}

func (b *MediaLocationBuilder) DateCreated(t time.Time) *MediaLocationBuilder {
	b.acc.Set(func(s *locationState) { s.dateCreated = t })
	return b
}

func (b *MediaLocationBuilder) DateModified(t time.Time) *MediaLocationBuilder {
	b.acc.Set(func(s *locationState) { s.dateModified = t })
	return b
}

func (b *MediaLocationBuilder) Extension(key string, value any) *MediaLocationBuilder {
	b.acc.Set(func(s *locationState) { s.setExtension(key, value) })
	return b
}

// CurrentTime sets the ISO-8601 offset into the media, e.g. "PT30M54S".
func (b *MediaLocationBuilder) CurrentTime(offset string) *MediaLocationBuilder {
	b.acc.Set(func(s *locationState) { s.currentTime = offset })
	return b
}

func (b *MediaLocationBuilder) Err() error { return b.acc.Err() }

// Build validates the accumulated fields and returns the MediaLocation.
func (b *MediaLocationBuilder) Build() (*MediaLocation, error) {
	return construct.Build(&b.acc, construct.Recipe[locationState, *MediaLocation]{
		Rules: conformance.EntityRules(caliper.EntityMediaLocation),
		Clone: func(s locationState) locationState {
			s.coreState = s.coreState.clone()
			return s
		},
		Defaults:  func(s *locationState) { s.typ = caliper.EntityMediaLocation },
		Candidate: func(s *locationState) conformance.Candidate { return s.candidate() },
		Freeze: func(s locationState) *MediaLocation {
			return &MediaLocation{core: s.freeze(), currentTime: s.currentTime}
		},
	}, nil)
}
