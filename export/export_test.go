package export_test

import (
	"strings"
	"testing"
	"time"

	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/vocabulary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/c360studio/caliper/conformance"
	"github.com/c360studio/caliper/entity"
	"github.com/c360studio/caliper/event"
	"github.com/c360studio/caliper/export"
	"github.com/c360studio/caliper/vocabulary/caliper"
)

const (
	eventID = "urn:uuid:3a648e68-f00d-4c08-aa59-8738e1884f2c"
	bobID   = "https://example.edu/users/554433"
	appID   = "https://example.edu/reader"
	bookID  = "https://example.com/viewer/book/34843"
	pageID  = "https://example.com/viewer/book/34843#epubcfi(/4/3/1)"
)

var eventTime = time.Date(2016, 11, 15, 10, 15, 0, 0, time.FixedZone("EST", -5*3600))

func readingEvent(t *testing.T, opts ...event.Option) *event.Event {
	t.Helper()
	bob, err := entity.NewPerson().ID(bobID).Name("Bob").Build()
	require.NoError(t, err)
	app, err := entity.NewSoftwareApplication().ID(appID).Version("2.1").Build()
	require.NoError(t, err)
	book, err := entity.NewEpubVolume().ID(bookID).Name("The Glass Cage").Creators(bob).Build()
	require.NoError(t, err)
	page, err := entity.NewFrame().ID(pageID).IsPartOf(book).Index(0).Build()
	require.NoError(t, err)

	e, err := event.NewReading(opts...).
		ID(eventID).
		Actor(bob).
		Action(caliper.ActionViewed).
		Object(book).
		Target(page).
		EventTime(eventTime).
		EdApp(app).
		Extension("tenant", "example").
		Build()
	require.NoError(t, err)
	return e
}

func keys(t *testing.T, json []byte, path string) []string {
	t.Helper()
	res := gjson.ParseBytes(json)
	if path != "" {
		res = gjson.GetBytes(json, path)
	}
	require.True(t, res.IsObject(), "%s is not an object", path)
	var out []string
	res.ForEach(func(k, _ gjson.Result) bool {
		out = append(out, k.String())
		return true
	})
	return out
}

func TestMarshalEventPropertyOrder(t *testing.T) {
	b, err := export.MarshalEvent(readingEvent(t))
	require.NoError(t, err)
	require.True(t, gjson.ValidBytes(b))

	assert.Equal(t, []string{
		"@context", "@id", "@type", "actor", "action", "object", "target", "eventTime", "edApp", "extensions",
	}, keys(t, b, ""))
	assert.Equal(t, []string{"@id", "@type", "name"}, keys(t, b, "actor"))
	assert.Equal(t, []string{"@id", "@type", "name", "creators"}, keys(t, b, "object"))
}

func TestMarshalEventValues(t *testing.T) {
	b, err := export.MarshalEvent(readingEvent(t))
	require.NoError(t, err)

	get := func(path string) string { return gjson.GetBytes(b, path).String() }

	assert.Equal(t, caliper.ContextNamespace+"ReadingEvent", get(`\@context`))
	assert.Equal(t, eventID, get(`\@id`))
	assert.Equal(t, caliper.EventReading.URI(), get(`\@type`))
	assert.Equal(t, caliper.ActionViewed.URI(), get("action"))
	assert.Equal(t, bobID, get(`actor.\@id`))
	assert.Equal(t, caliper.EntityPerson.URI(), get(`actor.\@type`))
	assert.Equal(t, bobID, get(`object.creators.0.\@id`))
	assert.Equal(t, bookID, get(`target.isPartOf.\@id`))
	assert.Equal(t, "2.1", get("edApp.version"))
	assert.Equal(t, "example", get("extensions.tenant"))

	// Times are rendered in UTC with millisecond precision.
	assert.Equal(t, "2016-11-15T15:15:00.000Z", get("eventTime"))
}

func TestFrameIndexZeroIsEmitted(t *testing.T) {
	b, err := export.MarshalEvent(readingEvent(t))
	require.NoError(t, err)

	index := gjson.GetBytes(b, "target.index")
	require.True(t, index.Exists())
	assert.Equal(t, int64(0), index.Int())
}

func TestZeroScoreIsEmitted(t *testing.T) {
	score, err := entity.NewScore().ID("urn:score").MaxScore(0).ScoreGiven(0).Build()
	require.NoError(t, err)

	b, err := export.MarshalEntity(score)
	require.NoError(t, err)
	assert.Equal(t, []string{"@id", "@type", "maxScore", "scoreGiven"}, keys(t, b, ""))
	assert.Equal(t, 0.0, gjson.GetBytes(b, "scoreGiven").Float())

	unscored, err := entity.NewResult().ID("urn:result").Comment("pending").Build()
	require.NoError(t, err)
	b, err = export.MarshalEntity(unscored)
	require.NoError(t, err)
	assert.Equal(t, []string{"@id", "@type", "comment"}, keys(t, b, ""))
}

func TestMarshalEventMappedContext(t *testing.T) {
	rs := conformance.EventRules(caliper.EventReading)
	rs.Context = caliper.ContextMappings(
		caliper.PrefixMapping{Prefix: "caliper", URI: caliper.DefaultContext},
		caliper.PrefixMapping{Prefix: "ex", URI: "https://example.edu/ctx"},
	)

	b, err := export.MarshalEvent(readingEvent(t, event.WithRules(rs)))
	require.NoError(t, err)

	assert.Equal(t, []string{"caliper", "ex"}, keys(t, b, `\@context`))
	assert.Equal(t, "https://example.edu/ctx", gjson.GetBytes(b, `\@context.ex`).String())
}

func TestMarshalEventOmitsAbsentID(t *testing.T) {
	bob, err := entity.NewPerson().ID(bobID).Build()
	require.NoError(t, err)
	app, err := entity.NewSoftwareApplication().ID(appID).Build()
	require.NoError(t, err)

	e, err := event.NewToolUse().Actor(bob).Object(app).EventTime(eventTime).Build()
	require.NoError(t, err)

	b, err := export.MarshalEvent(e)
	require.NoError(t, err)
	assert.False(t, gjson.GetBytes(b, `\@id`).Exists())
	assert.Equal(t, caliper.ActionUsed.URI(), gjson.GetBytes(b, "action").String())
}

func TestMarshalEntity(t *testing.T) {
	section, err := entity.NewCourseSection().ID("https://example.edu/sections/1").CourseNumber("CPS 435-01").Build()
	require.NoError(t, err)

	b, err := export.MarshalEntity(section)
	require.NoError(t, err)
	assert.Equal(t, []string{"@id", "@type", "courseNumber"}, keys(t, b, ""))

	_, err = export.MarshalEntity(nil)
	assert.Error(t, err)
	_, err = export.MarshalEvent(nil)
	assert.Error(t, err)
}

func TestTriples(t *testing.T) {
	triples, err := export.Triples(readingEvent(t), export.ProfileMinimal)
	require.NoError(t, err)
	require.NotEmpty(t, triples)

	for _, tr := range triples {
		assert.Equal(t, export.TripleSource, tr.Source)
		assert.Equal(t, 1.0, tr.Confidence)
		assert.True(t, tr.Timestamp.Equal(eventTime))
	}

	first := triples[0]
	assert.Equal(t, eventID, first.Subject)
	assert.Equal(t, caliper.EventTypePredicate, first.Predicate)
	assert.Equal(t, caliper.EventReading.URI(), first.Object)

	assert.Contains(t, triples, tripleLike(eventID, caliper.EventActor, bobID))
	assert.Contains(t, triples, tripleLike(eventID, caliper.EventAction, caliper.ActionViewed.URI()))
	assert.Contains(t, triples, tripleLike(bookID, caliper.EntityCreator, bobID))
	assert.Contains(t, triples, tripleLike(pageID, caliper.EntityIsPartOf, bookID))
	assert.Contains(t, triples, tripleLike(appID, "caliper.property.version", "2.1"))

	// Bob is referenced twice but described once.
	var bobTypes int
	for _, tr := range triples {
		if tr.Subject == bobID && tr.Predicate == caliper.EntityTypePredicate {
			bobTypes++
		}
		assert.NotEqual(t, "caliper.property.tenant", tr.Predicate, "extensions are not exported")
	}
	assert.Equal(t, 1, bobTypes)
}

// tripleLike copies the fixed fields so assert.Contains can compare whole
// triples.
func tripleLike(subject, predicate string, object any) message.Triple {
	return message.Triple{
		Subject:    subject,
		Predicate:  predicate,
		Object:     object,
		Source:     export.TripleSource,
		Timestamp:  eventTime,
		Confidence: 1.0,
	}
}

func TestTriplesPROVProfile(t *testing.T) {
	triples, err := export.Triples(readingEvent(t), export.ProfilePROV)
	require.NoError(t, err)

	classes := map[string][]any{}
	for _, tr := range triples {
		if tr.Predicate == caliper.EventTypePredicate || tr.Predicate == caliper.EntityTypePredicate {
			classes[tr.Subject] = append(classes[tr.Subject], tr.Object)
		}
	}

	assert.Equal(t, []any{caliper.EventReading.URI(), vocabulary.ProvActivity}, classes[eventID])
	assert.Equal(t, []any{caliper.EntityPerson.URI(), vocabulary.ProvPerson}, classes[bobID])
	assert.Equal(t, []any{caliper.EntitySoftwareApplication.URI(), vocabulary.ProvSoftwareAgent}, classes[appID])
	assert.Equal(t, []any{caliper.EntityEpubVolume.URI(), vocabulary.ProvEntity}, classes[bookID])
}

func TestTriplesRequireID(t *testing.T) {
	bob, err := entity.NewPerson().ID(bobID).Build()
	require.NoError(t, err)
	app, err := entity.NewSoftwareApplication().ID(appID).Build()
	require.NoError(t, err)
	e, err := event.NewToolUse().Actor(bob).Object(app).EventTime(eventTime).Build()
	require.NoError(t, err)

	_, err = export.Triples(e, export.ProfileMinimal)
	assert.ErrorIs(t, err, export.ErrNoSubject)
}

func TestEntityTriples(t *testing.T) {
	section, err := entity.NewCourseSection().ID("https://example.edu/sections/1").Build()
	require.NoError(t, err)
	m, err := entity.NewMembership().
		ID("https://example.edu/sections/1/rosters/1").
		Member(mustPerson(t)).
		Organization(section).
		Build()
	require.NoError(t, err)

	triples := export.EntityTriples(m, export.ProfileMinimal)
	subjects := map[string]bool{}
	for _, tr := range triples {
		subjects[tr.Subject] = true
	}
	assert.Len(t, subjects, 3)
	assert.Nil(t, export.EntityTriples(nil, export.ProfileMinimal))
}

func mustPerson(t *testing.T) *entity.Person {
	t.Helper()
	p, err := entity.NewPerson().ID(bobID).Build()
	require.NoError(t, err)
	return p
}

func TestRDFExporterNTriples(t *testing.T) {
	triples, err := export.Triples(readingEvent(t), export.ProfileMinimal)
	require.NoError(t, err)

	x := export.NewRDFExporter()
	x.Add(triples...)
	assert.Equal(t, len(triples), x.Len())

	out, err := x.Export(export.FormatNTriples)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Len(t, lines, len(triples))
	assert.Equal(t,
		"<"+eventID+"> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <"+caliper.EventReading.URI()+"> .",
		lines[0])
	assert.Contains(t, lines,
		"<"+eventID+"> <"+export.PredicateIRI(caliper.EventActor)+"> <"+bobID+"> .")
	assert.Contains(t, lines,
		"<"+eventID+"> <"+export.PredicateIRI(caliper.EventTime)+"> \"2016-11-15T15:15:00Z\"^^<http://www.w3.org/2001/XMLSchema#dateTime> .")
	assert.Contains(t, lines,
		"<"+bobID+"> <"+export.PredicateIRI(caliper.EntityName)+"> \"Bob\" .")
	assert.Contains(t, lines,
		"<"+pageID+"> <"+caliper.PropertyNamespace+"index> \"0\"^^<http://www.w3.org/2001/XMLSchema#integer> .")
}

func TestRDFExporterTurtle(t *testing.T) {
	triples, err := export.Triples(readingEvent(t), export.ProfileMinimal)
	require.NoError(t, err)

	x := export.NewRDFExporter()
	x.Add(triples...)
	out, err := x.Export(export.FormatTurtle)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "@prefix caliper: <"+caliper.PropertyNamespace+"> .\n"))
	assert.Contains(t, out, "@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .\n")
	assert.Contains(t, out, "<"+eventID+">\n    a <"+caliper.EventReading.URI()+"> ;\n")
	assert.Contains(t, out, "    caliper:action <"+caliper.ActionViewed.URI()+"> ;\n")
	assert.Contains(t, out, "    caliper:version \"2.1\" .\n")
}

func TestRDFExporterRejectsJSONLD(t *testing.T) {
	_, err := export.NewRDFExporter().Export(export.FormatJSONLD)
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want export.Format
	}{
		{"jsonld", export.FormatJSONLD},
		{"JSON-LD", export.FormatJSONLD},
		{"nt", export.FormatNTriples},
		{"ntriples", export.FormatNTriples},
		{" ttl ", export.FormatTurtle},
	}
	for _, tt := range tests {
		got, err := export.ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)

		info, ok := export.GetFormatInfo(got)
		assert.True(t, ok)
		assert.NotEmpty(t, info.MIMEType)
	}

	_, err := export.ParseFormat("rdfxml")
	assert.Error(t, err)
}

func TestGetProfileConfigDefaultsToMinimal(t *testing.T) {
	assert.Equal(t, export.ProfileMinimal, export.GetProfileConfig("bogus").Name)
	assert.True(t, export.GetProfileConfig(export.ProfilePROV).IncludePROV)
}
