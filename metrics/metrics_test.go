package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/caliper/conformance"
	"github.com/c360studio/caliper/construct"
	"github.com/c360studio/caliper/entity"
	"github.com/c360studio/caliper/event"
	"github.com/c360studio/caliper/metrics"
	"github.com/c360studio/caliper/vocabulary/caliper"
)

func TestObserveBuild(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	bob, err := entity.NewPerson().ID("https://example.edu/users/554433").Build()
	require.NoError(t, err)
	app, err := entity.NewSoftwareApplication().ID("https://example.edu").Build()
	require.NoError(t, err)
	doc, err := entity.NewDocument().ID("https://example.edu/docs/1").Build()
	require.NoError(t, err)

	now := time.Date(2016, 11, 15, 10, 15, 0, 0, time.UTC)

	// valid
	b := event.NewReading(event.WithObserver(m)).Actor(bob).Action(caliper.ActionViewed).Object(doc).EventTime(now)
	_, err = b.Build()
	require.NoError(t, err)

	// finalized
	_, err = b.Build()
	require.ErrorIs(t, err, construct.ErrFinalized)

	// invalid: software actor and a forbidden action
	_, err = event.NewReading(event.WithObserver(m)).Actor(app).Action(caliper.ActionPosted).Object(doc).EventTime(now).Build()
	require.ErrorIs(t, err, conformance.ErrNonConformant)

	// rejected by a setter
	_, err = event.NewReading(event.WithObserver(m)).ActionKey("no.such.key").Build()
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Builds.WithLabelValues("ReadingEvent", metrics.OutcomeValid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Builds.WithLabelValues("ReadingEvent", metrics.OutcomeFinalized)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Builds.WithLabelValues("ReadingEvent", metrics.OutcomeInvalid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Builds.WithLabelValues("ReadingEvent", metrics.OutcomeRejected)))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Violations.WithLabelValues("ReadingEvent", string(conformance.RuleActionAllowed))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Violations.WithLabelValues("ReadingEvent", string(conformance.RuleReferenceCapability))))
}

func TestObserveSend(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.ObserveSend("sensor-1", 3, 5*time.Millisecond, nil)
	m.ObserveSend("sensor-1", 2, time.Millisecond, errors.New("down"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Envelopes.WithLabelValues("sensor-1", metrics.DeliverySent)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Envelopes.WithLabelValues("sensor-1", metrics.DeliveryFailed)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Events.WithLabelValues("sensor-1")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveBuild("ReadingEvent", conformance.Report{}, nil)
		m.ObserveSend("sensor-1", 1, time.Second, nil)
	})
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, metrics.OutcomeValid, metrics.Outcome(nil))
	assert.Equal(t, metrics.OutcomeFinalized, metrics.Outcome(construct.ErrFinalized))
	assert.Equal(t, metrics.OutcomeRejected, metrics.Outcome(errors.New("boom")))
}
