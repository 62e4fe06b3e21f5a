package stats

import (
	"time"

	"github.com/FAU-CDI/nightcap/internal/triplestore/igraph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// cspell:words promauto

// Metrics holds prometheus collectors describing a store.
//
// A nil Metrics is valid, and discards all observations.
type Metrics struct {
	statements prometheus.Gauge
	retired    prometheus.Gauge
	terms      prometheus.Gauge
	readers    prometheus.Gauge

	commits   prometheus.Counter
	rollbacks prometheus.Counter
	changes   *prometheus.CounterVec

	gcRuns      prometheus.Counter
	gcDuration  prometheus.Histogram
	gcReclaimed *prometheus.CounterVec
}

// NewMetrics creates a new set of metrics and registers them with reg.
// When reg is nil, the metrics are created but never registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		statements: factory.NewGauge(prometheus.GaugeOpts{
			Name: "nightcap_statements",
			Help: "Statements held by the store, including retracted statements awaiting collection",
		}),
		retired: factory.NewGauge(prometheus.GaugeOpts{
			Name: "nightcap_statements_retired",
			Help: "Retracted statements awaiting collection",
		}),
		terms: factory.NewGauge(prometheus.GaugeOpts{
			Name: "nightcap_terms",
			Help: "Interned terms",
		}),
		readers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "nightcap_readers",
			Help: "Open read transactions",
		}),

		commits: factory.NewCounter(prometheus.CounterOpts{
			Name: "nightcap_commits_total",
			Help: "Committed write transactions",
		}),
		rollbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "nightcap_rollbacks_total",
			Help: "Rolled back write transactions",
		}),
		changes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nightcap_committed_statements_total",
			Help: "Committed statement changes by operation",
		}, []string{"operation"}),

		gcRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "nightcap_gc_runs_total",
			Help: "Garbage collection passes",
		}),
		gcDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "nightcap_gc_duration_seconds",
			Help:    "Garbage collection duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms to ~26s
		}),
		gcReclaimed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nightcap_gc_reclaimed_total",
			Help: "Objects reclaimed by garbage collection by kind",
		}, []string{"kind"}),
	}
}

// ObserveIndex records the current size of the index.
func (m *Metrics) ObserveIndex(stats igraph.Stats) {
	if m == nil {
		return
	}
	m.statements.Set(float64(stats.Statements))
	m.retired.Set(float64(stats.Retired))
	m.terms.Set(float64(stats.Terms))
}

// ObserveReaders records the number of open read transactions.
func (m *Metrics) ObserveReaders(count int) {
	if m == nil {
		return
	}
	m.readers.Set(float64(count))
}

// ObserveCommit records a commit.
func (m *Metrics) ObserveCommit(added, retracted int) {
	if m == nil {
		return
	}
	m.commits.Inc()
	m.changes.WithLabelValues("add").Add(float64(added))
	m.changes.WithLabelValues("retract").Add(float64(retracted))
}

// ObserveRollback records a rollback.
func (m *Metrics) ObserveRollback() {
	if m == nil {
		return
	}
	m.rollbacks.Inc()
}

// ObserveCollect records a garbage collection pass.
func (m *Metrics) ObserveCollect(took time.Duration, stats igraph.CollectStats) {
	if m == nil {
		return
	}
	m.gcRuns.Inc()
	m.gcDuration.Observe(took.Seconds())
	m.gcReclaimed.WithLabelValues("statement").Add(float64(stats.Statements))
	m.gcReclaimed.WithLabelValues("term").Add(float64(stats.Terms))
}
