package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the ledger's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry            *prometheus.Registry
	transitions         *prometheus.CounterVec
	vetoResolutions     *prometheus.CounterVec
	performanceDuration *prometheus.HistogramVec
	cacheLookups        *prometheus.CounterVec
	backups             *prometheus.CounterVec
}

// NewMetrics registers every collector on a fresh registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "parlay_transitions_total",
			Help:      "Parlay lifecycle operations by operation and outcome.",
		}, []string{"op", "outcome"}),
		vetoResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "veto_resolutions_total",
			Help:      "Veto approval statuses reached through voting or locking.",
		}, []string{"status"}),
		performanceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ledger",
			Name:      "performance_compute_seconds",
			Help:      "Time spent replaying a season into performances or time series.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "performance_cache_lookups_total",
			Help:      "Performance cache lookups by result.",
		}, []string{"result"}),
		backups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "backups_total",
			Help:      "Scheduled backup runs by outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(
		m.transitions,
		m.vetoResolutions,
		m.performanceDuration,
		m.cacheLookups,
		m.backups,
		prometheus.NewGoCollector(),
	)
	return m
}

// Registry exposes the registry for the /metrics handler and HTTP middleware
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func outcomeLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) transition(op string, err error) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(op, outcomeLabel(err)).Inc()
}

func (m *Metrics) vetoResolved(status string) {
	if m == nil {
		return
	}
	m.vetoResolutions.WithLabelValues(status).Inc()
}

func (m *Metrics) observeCompute(kind string, started time.Time) {
	if m == nil {
		return
	}
	m.performanceDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
}

func (m *Metrics) cacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) backupRun(err error) {
	if m == nil {
		return
	}
	m.backups.WithLabelValues(outcomeLabel(err)).Inc()
}
