// Package metrics exposes Prometheus instrumentation for sync runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace prefixes every metric name.
	Namespace = "happytools"

	// Subsystem groups the sync pipeline metrics.
	Subsystem = "sync"
)

// Metrics holds the sync pipeline collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	ToolsSynced    *prometheus.CounterVec
	ToolsUpdated   *prometheus.CounterVec
	ToolsRejected  *prometheus.CounterVec
	StoreErrors    *prometheus.CounterVec
	TargetFailures *prometheus.CounterVec
	RunsTotal      *prometheus.CounterVec
	RunDuration    *prometheus.HistogramVec
	RunsInFlight   prometheus.Gauge
}

// New creates and registers the collectors on reg, or on the default registerer when reg is nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      name,
			Help:      help,
		}, labels)
	}

	return &Metrics{
		ToolsSynced:    counter("tools_inserted_total", "Tools inserted into the catalog", "source"),
		ToolsUpdated:   counter("tools_updated_total", "Existing tools refreshed by a sync", "source"),
		ToolsRejected:  counter("tools_rejected_total", "Candidates dropped by the normalizer", "source"),
		StoreErrors:    counter("store_errors_total", "Records skipped after a store failure", "source"),
		TargetFailures: counter("target_failures_total", "Targets that ended in the failed state", "reason"),
		RunsTotal:      counter("runs_total", "Completed sync runs", "kind", "status"),
		RunDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "run_duration_seconds",
			Help:      "Wall time of sync runs",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10), // 0.5s to ~4min
		}, []string{"kind"}),
		RunsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "runs_in_flight",
			Help:      "Sync runs currently executing",
		}),
	}
}

// RecordTools adds the per-source tool tallies of one run.
func (m *Metrics) RecordTools(source string, inserted, updated, rejected, storeErrors int) {
	if m == nil {
		return
	}
	m.ToolsSynced.WithLabelValues(source).Add(float64(inserted))
	m.ToolsUpdated.WithLabelValues(source).Add(float64(updated))
	m.ToolsRejected.WithLabelValues(source).Add(float64(rejected))
	m.StoreErrors.WithLabelValues(source).Add(float64(storeErrors))
}

// RecordTargetFailure counts one failed target.
func (m *Metrics) RecordTargetFailure(reason string) {
	if m == nil {
		return
	}
	m.TargetFailures.WithLabelValues(reason).Inc()
}

// RecordRunStarted marks a run as in flight.
func (m *Metrics) RecordRunStarted() {
	if m == nil {
		return
	}
	m.RunsInFlight.Inc()
}

// RecordRunFinished records the outcome and duration of a run.
func (m *Metrics) RecordRunFinished(kind string, failed bool, durationSeconds float64) {
	if m == nil {
		return
	}
	status := "success"
	if failed {
		status = "failed"
	}
	m.RunsInFlight.Dec()
	m.RunsTotal.WithLabelValues(kind, status).Inc()
	m.RunDuration.WithLabelValues(kind).Observe(durationSeconds)
}
