package export

import (
	"time"

	"github.com/c360studio/caliper/entity"
	"github.com/c360studio/caliper/event"
	"github.com/c360studio/caliper/vocabulary/caliper"
)

// field is one serialized property. value is a string, time.Time, int,
// float64, bool, []string, entity.Entity, []entity.Entity, or []field for a
// nested object.
type field struct {
	name  string
	value any
}

type fields []field

func (f *fields) str(name, v string) {
	if v != "" {
		*f = append(*f, field{name, v})
	}
}

func (f *fields) instant(name string, t time.Time) {
	if !t.IsZero() {
		*f = append(*f, field{name, t})
	}
}

func (f *fields) integer(name string, v int) {
	if v != 0 {
		*f = append(*f, field{name, v})
	}
}

// number writes v when ok, including zero.
func (f *fields) number(name string, v float64, ok bool) {
	if ok {
		*f = append(*f, field{name, v})
	}
}

// optStr writes v when ok, including the empty string.
func (f *fields) optStr(name, v string, ok bool) {
	if ok {
		*f = append(*f, field{name, v})
	}
}

func (f *fields) strs(name string, v []string) {
	if len(v) > 0 {
		*f = append(*f, field{name, v})
	}
}

func (f *fields) ref(name string, e entity.Entity) {
	if !entity.IsNil(e) {
		*f = append(*f, field{name, e})
	}
}

func (f *fields) object(name string, sub fields) {
	if len(sub) > 0 {
		*f = append(*f, field{name, []field(sub)})
	}
}

func refs[E entity.Entity](f *fields, name string, es []E) {
	out := make([]entity.Entity, 0, len(es))
	for _, e := range es {
		if !entity.IsNil(e) {
			out = append(out, e)
		}
	}
	if len(out) > 0 {
		*f = append(*f, field{name, out})
	}
}

// eventFields lists the event properties between @type and extensions.
func eventFields(e *event.Event) fields {
	var f fields
	f.ref("actor", e.Actor())
	if e.Action() != "" {
		f.str("action", e.Action().URI())
	}
	f.ref("object", e.Object())
	f.ref("target", e.Target())
	f.ref("generated", e.Generated())
	f.ref("referrer", e.Referrer())
	f.instant("eventTime", e.EventTime())
	f.instant("startedAtTime", e.StartedAtTime())
	f.instant("endedAtTime", e.EndedAtTime())
	d, ok := e.Duration()
	f.optStr("duration", d, ok)
	f.ref("edApp", e.EdApp())
	f.ref("group", e.Group())
	f.ref("membership", e.Membership())
	f.ref("session", e.Session())
	f.ref("federatedSession", e.FederatedSession())
	return f
}

// commonFields lists the properties every entity shares after @type.
func commonFields(e entity.Entity) fields {
	var f fields
	f.str("name", e.Name())
	f.str("description", e.Description())
	f.instant("dateCreated", e.DateCreated())
	f.instant("dateModified", e.DateModified())
	return f
}

type resource interface {
	IsPartOf() entity.Entity
	Creators() []entity.Agent
	MediaType() string
	Keywords() []string
	LearningObjectives() []entity.Entity
	DatePublished() time.Time
	Version() string
}

func resourceFields(f *fields, r resource) {
	f.ref("isPartOf", r.IsPartOf())
	refs(f, "creators", r.Creators())
	f.str("mediaType", r.MediaType())
	f.strs("keywords", r.Keywords())
	refs(f, "learningObjectives", r.LearningObjectives())
	f.instant("datePublished", r.DatePublished())
	f.str("version", r.Version())
}

type timed interface {
	StartedAtTime() time.Time
	EndedAtTime() time.Time
	Duration() (string, bool)
}

func timingFields(f *fields, t timed) {
	f.instant("startedAtTime", t.StartedAtTime())
	f.instant("endedAtTime", t.EndedAtTime())
	d, ok := t.Duration()
	f.optStr("duration", d, ok)
}

// familyFields lists the variant-specific properties of an entity.
func familyFields(e entity.Entity) fields {
	var f fields
	switch v := e.(type) {
	case *entity.SoftwareApplication:
		f.str("version", v.Version())
	case *entity.Organization:
		f.ref("subOrganizationOf", v.SubOrganizationOf())
		f.str("courseNumber", v.CourseNumber())
		f.str("academicSession", v.AcademicSession())
	case *entity.Membership:
		f.ref("member", v.Member())
		f.ref("organization", v.Organization())
		roles := make([]string, 0, len(v.Roles()))
		for _, r := range v.Roles() {
			roles = append(roles, r.URI())
		}
		f.strs("roles", roles)
		if v.Status() != "" {
			f.str("status", v.Status().URI())
		}
	case *entity.DigitalResource:
		resourceFields(&f, v)
		if v.Type() == caliper.EntityFrame {
			f = append(f, field{"index", v.Index()})
		}
		f.str("body", v.Body())
	case *entity.AssignableDigitalResource:
		resourceFields(&f, v)
		f.instant("dateToActivate", v.DateToActivate())
		f.instant("dateToShow", v.DateToShow())
		f.instant("dateToStartOn", v.DateToStartOn())
		f.instant("dateToSubmit", v.DateToSubmit())
		f.integer("maxAttempts", v.MaxAttempts())
		f.integer("maxSubmissions", v.MaxSubmissions())
		maxScore, ok := v.MaxScore()
		f.number("maxScore", maxScore, ok)
		if v.Type() == caliper.EntityAssessmentItem {
			f = append(f, field{"isTimeDependent", v.IsTimeDependent()})
		}
	case *entity.DigitalResourceCollection:
		resourceFields(&f, v)
		refs(&f, "items", v.Items())
	case *entity.MediaObject:
		resourceFields(&f, v)
		d, ok := v.Duration()
		f.optStr("duration", d, ok)
		f.str("volume", v.Volume())
		if v.Type() == caliper.EntityAudioObject {
			f = append(f, field{"muted", v.Muted()})
		}
	case *entity.MediaLocation:
		f.str("currentTime", v.CurrentTime())
	case *entity.Annotation:
		f.ref("annotator", v.Annotator())
		f.ref("annotated", v.Annotated())
		f.str("bookmarkNotes", v.BookmarkNotes())
		if sel, ok := v.Selection(); ok {
			f = append(f, field{"selection", []field{
				{"@type", "TextPositionSelector"},
				{"start", sel.Start},
				{"end", sel.End},
			}})
		}
		f.str("selectionText", v.SelectionText())
		refs(&f, "withAgents", v.WithAgents())
		f.strs("tags", v.Tags())
	case *entity.Attempt:
		f.ref("assignee", v.Assignee())
		f.ref("assignable", v.Assignable())
		f.ref("isPartOf", v.IsPartOf())
		f.integer("count", v.Count())
		timingFields(&f, v)
	case *entity.Response:
		f.ref("attempt", v.Attempt())
		timingFields(&f, v)
		f.strs("values", v.Values())
		f.str("value", v.Value())
	case *entity.Result:
		f.ref("attempt", v.Attempt())
		maxScore, ok := v.MaxScore()
		f.number("maxScore", maxScore, ok)
		given, ok := v.ScoreGiven()
		f.number("scoreGiven", given, ok)
		f.str("comment", v.Comment())
		f.ref("scoredBy", v.ScoredBy())
	case *entity.Session:
		f.ref("user", v.User())
		timingFields(&f, v)
		if claim := v.MessageParameters(); !claim.IsZero() {
			var sub fields
			sub.str("personSourcedId", claim.PersonSourcedID)
			sub.str("courseOfferingSourcedId", claim.CourseOfferingSourcedID)
			sub.str("courseSectionSourcedId", claim.CourseSectionSourcedID)
			f.object("messageParameters", sub)
		}
	}
	return f
}
