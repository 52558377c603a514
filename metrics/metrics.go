// Package metrics exposes Prometheus counters for event construction and
// sensor delivery.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/c360studio/caliper/conformance"
	"github.com/c360studio/caliper/construct"
)

// Build outcomes.
const (
	OutcomeValid     = "valid"
	OutcomeInvalid   = "invalid"
	OutcomeRejected  = "rejected"
	OutcomeFinalized = "finalized"
)

// Delivery outcomes.
const (
	DeliverySent   = "sent"
	DeliveryFailed = "failed"
)

// Metrics provides observability for builders and sensors. A nil *Metrics
// records nothing.
type Metrics struct {
	// Build outcomes by variant
	Builds *prometheus.CounterVec

	// Violations by variant and rule
	Violations *prometheus.CounterVec

	// Envelopes by sensor and outcome
	Envelopes *prometheus.CounterVec

	// Events carried by successfully sent envelopes
	Events *prometheus.CounterVec

	SendLatency *prometheus.HistogramVec
}

// New creates a Metrics instance registered with reg. A nil reg registers
// with the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Builds: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "caliper",
			Subsystem: "builder",
			Name:      "builds_total",
			Help:      "Total Build calls by variant and outcome",
		}, []string{"variant", "outcome"}), // outcome: valid, invalid, rejected, finalized

		Violations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "caliper",
			Subsystem: "builder",
			Name:      "violations_total",
			Help:      "Total conformance violations by variant and rule",
		}, []string{"variant", "rule"}),

		Envelopes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "caliper",
			Subsystem: "sensor",
			Name:      "envelopes_total",
			Help:      "Total envelopes handed to a sink by sensor and outcome",
		}, []string{"sensor", "outcome"}),

		Events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "caliper",
			Subsystem: "sensor",
			Name:      "events_total",
			Help:      "Total events delivered by sensor",
		}, []string{"sensor"}),

		SendLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "caliper",
			Subsystem: "sensor",
			Name:      "send_duration_seconds",
			Help:      "Duration of envelope delivery including serialization",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"sensor"}),
	}
}

// ObserveBuild implements construct.Observer.
func (m *Metrics) ObserveBuild(variant string, report conformance.Report, err error) {
	if m == nil {
		return
	}
	m.Builds.WithLabelValues(variant, Outcome(err)).Inc()
	for _, v := range report.Violations() {
		m.Violations.WithLabelValues(variant, string(v.Rule)).Inc()
	}
}

// ObserveSend records one envelope delivery attempt.
func (m *Metrics) ObserveSend(sensor string, events int, d time.Duration, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.Envelopes.WithLabelValues(sensor, DeliveryFailed).Inc()
		return
	}
	m.Envelopes.WithLabelValues(sensor, DeliverySent).Inc()
	m.Events.WithLabelValues(sensor).Add(float64(events))
	m.SendLatency.WithLabelValues(sensor).Observe(d.Seconds())
}

// Outcome classifies a Build error.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeValid
	case errors.Is(err, conformance.ErrNonConformant):
		return OutcomeInvalid
	case errors.Is(err, construct.ErrFinalized):
		return OutcomeFinalized
	default:
		return OutcomeRejected
	}
}

var _ construct.Observer = (*Metrics)(nil)
