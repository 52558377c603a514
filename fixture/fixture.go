// Package fixture loads YAML descriptions of Caliper entities and events and
// builds them through the entity and event builders.
//
// A fixture file lists entities first, then events. References are written
// as the @id of an entity declared earlier in the same file:
//
//	entities:
//	  - id: https://example.edu/users/554433
//	    type: Person
//	  - id: https://example.edu/docs/1
//	    type: Document
//	    creators: [https://example.edu/users/554433]
//	events:
//	  - type: ReadingEvent
//	    actor: https://example.edu/users/554433
//	    action: Viewed
//	    object: https://example.edu/docs/1
//	    eventTime: 2016-11-15T10:15:00.000Z
package fixture

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/caliper/entity"
)

// File is one parsed fixture document.
type File struct {
	Path     string       `yaml:"-"`
	Entities []EntitySpec `yaml:"entities"`
	Events   []EventSpec  `yaml:"events"`
}

// EntitySpec describes one entity. Only the fields that apply to Type may
// be set; the builders reject the rest. Times are RFC 3339 strings.
type EntitySpec struct {
	ID           string         `yaml:"id"`
	Type         string         `yaml:"type"`
	Name         string         `yaml:"name"`
	Description  string         `yaml:"description"`
	DateCreated  string         `yaml:"dateCreated"`
	DateModified string         `yaml:"dateModified"`
	Extensions   map[string]any `yaml:"extensions"`

	// SoftwareApplication and resources
	Version string `yaml:"version"`

	// Organizations
	SubOrganizationOf string `yaml:"subOrganizationOf"`
	CourseNumber      string `yaml:"courseNumber"`
	AcademicSession   string `yaml:"academicSession"`

	// Membership
	Member       string   `yaml:"member"`
	Organization string   `yaml:"organization"`
	Roles        []string `yaml:"roles"`
	Status       string   `yaml:"status"`

	// Resources
	IsPartOf           string   `yaml:"isPartOf"`
	Creators           []string `yaml:"creators"`
	MediaType          string   `yaml:"mediaType"`
	Keywords           []string `yaml:"keywords"`
	LearningObjectives []string `yaml:"learningObjectives"`
	DatePublished      string   `yaml:"datePublished"`
	Index              *int     `yaml:"index"`
	Body               string   `yaml:"body"`

	// Assignable resources
	DateToActivate  string   `yaml:"dateToActivate"`
	DateToShow      string   `yaml:"dateToShow"`
	DateToStartOn   string   `yaml:"dateToStartOn"`
	DateToSubmit    string   `yaml:"dateToSubmit"`
	MaxAttempts     int      `yaml:"maxAttempts"`
	MaxSubmissions  int      `yaml:"maxSubmissions"`
	MaxScore        *float64 `yaml:"maxScore"`
	IsTimeDependent *bool    `yaml:"isTimeDependent"`

	// Collections
	Items []string `yaml:"items"`

	// Media
	Duration    string `yaml:"duration"`
	Volume      string `yaml:"volume"`
	Muted       *bool  `yaml:"muted"`
	CurrentTime string `yaml:"currentTime"`

	// Annotations
	Annotator     string     `yaml:"annotator"`
	Annotated     string     `yaml:"annotated"`
	BookmarkNotes string     `yaml:"bookmarkNotes"`
	Selection     *Selection `yaml:"selection"`
	SelectionText string     `yaml:"selectionText"`
	WithAgents    []string   `yaml:"withAgents"`
	Tags          []string   `yaml:"tags"`

	// Attempts, responses and results
	Assignee      string   `yaml:"assignee"`
	Assignable    string   `yaml:"assignable"`
	Count         int      `yaml:"count"`
	StartedAtTime string   `yaml:"startedAtTime"`
	EndedAtTime   string   `yaml:"endedAtTime"`
	Attempt       string   `yaml:"attempt"`
	Value         string   `yaml:"value"`
	Values        []string `yaml:"values"`
	ScoreGiven    *float64 `yaml:"scoreGiven"`
	Comment       string   `yaml:"comment"`
	ScoredBy      string   `yaml:"scoredBy"`

	// Sessions
	User              string           `yaml:"user"`
	MessageParameters *entity.LisClaim `yaml:"messageParameters"`
}

// Selection is a text position range.
type Selection struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// EventSpec describes one event. Action accepts a token, an action IRI or a
// dotted key; ActionKey accepts only a dotted key.
type EventSpec struct {
	ID               string         `yaml:"id"`
	Type             string         `yaml:"type"`
	Actor            string         `yaml:"actor"`
	Action           string         `yaml:"action"`
	ActionKey        string         `yaml:"actionKey"`
	Object           string         `yaml:"object"`
	Target           string         `yaml:"target"`
	Generated        string         `yaml:"generated"`
	Referrer         string         `yaml:"referrer"`
	EventTime        string         `yaml:"eventTime"`
	StartedAtTime    string         `yaml:"startedAtTime"`
	EndedAtTime      string         `yaml:"endedAtTime"`
	Duration         *string        `yaml:"duration"`
	EdApp            string         `yaml:"edApp"`
	Group            string         `yaml:"group"`
	Membership       string         `yaml:"membership"`
	Session          string         `yaml:"session"`
	FederatedSession string         `yaml:"federatedSession"`
	Extensions       map[string]any `yaml:"extensions"`
}

// Parse decodes a fixture document. Unknown keys are errors.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}

// Load reads and parses the fixture at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.Path = path
	return f, nil
}

// Expand resolves glob patterns, including "**", to a sorted list of
// distinct regular files. A pattern without matches is an error.
func Expand(patterns ...string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("glob error: %w", err)
		}
		found := false
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			found = true
			clean := filepath.Clean(match)
			if !seen[clean] {
				seen[clean] = true
				out = append(out, clean)
			}
		}
		if !found {
			return nil, fmt.Errorf("no fixtures match %q", pattern)
		}
	}
	sort.Strings(out)
	return out, nil
}
