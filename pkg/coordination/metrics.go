package coordination

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/concordai/concord/pkg/domain"
)

// Coordination outcomes recorded on concord_coordinations_total.
const (
	OutcomeSuccess    = "success"
	OutcomeDisharmony = "disharmony"
	OutcomeRejected   = "rejected"
	OutcomeError      = "error"
)

// Metrics holds all Prometheus metrics for the coordination engine
type Metrics struct {
	// Coordination metrics
	coordinationsTotal  *prometheus.CounterVec
	coordinationLatency prometheus.Histogram
	batchSize           prometheus.Histogram

	// Ethics gate metrics
	violationsTotal *prometheus.CounterVec

	// Conflict metrics
	conflictsTotal            *prometheus.CounterVec
	resolutionInconsistencies prometheus.Counter

	// Result metrics
	harmonyScore     prometheus.Histogram
	sequencedActions prometheus.Histogram

	// Registry metrics
	domainsRegistered prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics instance with all coordination metrics
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		coordinationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "concord_coordinations_total",
				Help: "Total number of coordination requests by outcome",
			},
			[]string{"outcome"},
		),

		coordinationLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "concord_coordination_duration_seconds",
				Help:    "End-to-end coordination latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		batchSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "concord_batch_size",
				Help:    "Number of actions submitted per coordination request",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
		),

		violationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "concord_violations_total",
				Help: "Total number of ethical violations by principle",
			},
			[]string{"principle"},
		),

		conflictsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "concord_conflicts_total",
				Help: "Total number of detected conflicts by type",
			},
			[]string{"type"},
		),

		resolutionInconsistencies: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "concord_resolution_inconsistencies_total",
				Help: "Coordinations whose survivors still conflicted after resolution",
			},
		),

		harmonyScore: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "concord_harmony_score",
				Help:    "Harmony scores of completed coordinations",
				Buckets: prometheus.LinearBuckets(0, 0.1, 11),
			},
		),

		sequencedActions: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "concord_sequenced_actions",
				Help:    "Number of actions surviving to the final sequence",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
		),

		domainsRegistered: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "concord_domains_registered",
				Help: "Number of currently registered domains",
			},
		),

		registry: registry,
	}

	registry.MustRegister(
		m.coordinationsTotal,
		m.coordinationLatency,
		m.batchSize,
		m.violationsTotal,
		m.conflictsTotal,
		m.resolutionInconsistencies,
		m.harmonyScore,
		m.sequencedActions,
		m.domainsRegistered,
	)

	return m
}

// RecordCoordination records one coordination request with its outcome
func (m *Metrics) RecordCoordination(outcome string, duration time.Duration, batchSize int) {
	m.coordinationsTotal.WithLabelValues(outcome).Inc()
	m.coordinationLatency.Observe(duration.Seconds())
	m.batchSize.Observe(float64(batchSize))
}

// RecordViolations records gate violations partitioned by principle
func (m *Metrics) RecordViolations(violations []domain.EthicalViolation) {
	for _, v := range violations {
		m.violationsTotal.WithLabelValues(v.Principle).Inc()
	}
}

// RecordConflicts records detected conflicts partitioned by type
func (m *Metrics) RecordConflicts(conflicts []domain.DomainConflict) {
	for _, c := range conflicts {
		m.conflictsTotal.WithLabelValues(string(c.Type)).Inc()
	}
}

// RecordResolutionInconsistency records a survivor set that scored below 1.0
func (m *Metrics) RecordResolutionInconsistency() {
	m.resolutionInconsistencies.Inc()
}

// ObserveHarmony records the harmony score of a completed coordination
func (m *Metrics) ObserveHarmony(score float64) {
	m.harmonyScore.Observe(score)
}

// ObserveSequenced records the size of the final sequence
func (m *Metrics) ObserveSequenced(n int) {
	m.sequencedActions.Observe(float64(n))
}

// SetDomainsRegistered updates the registered-domain gauge
func (m *Metrics) SetDomainsRegistered(n int) {
	m.domainsRegistered.Set(float64(n))
}

// Handler returns the Prometheus metrics HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
