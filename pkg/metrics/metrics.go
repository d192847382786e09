// Package metrics holds the Prometheus collectors exported by realitycheck.
package metrics

import (
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BusinessMetrics tracks reality check outcomes
type BusinessMetrics struct {
	AnalysesTotal    *prometheus.CounterVec
	RealityScore     prometheus.Histogram
	AnalysisDuration *prometheus.HistogramVec
	CacheLookups     *prometheus.CounterVec
}

// NewBusinessMetrics registers the business collectors under namespace.
// A nil registerer uses prometheus.DefaultRegisterer.
func NewBusinessMetrics(namespace string, reg prometheus.Registerer) *BusinessMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &BusinessMetrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Completed reality checks by verdict and source.",
		}, []string{"verdict", "source"}),
		RealityScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reality_score",
			Help:      "Distribution of reality scores.",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}),
		AnalysisDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent running a reality check.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"source"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups by outcome.",
		}, []string{"result"}),
	}

	reg.MustRegister(m.AnalysesTotal, m.RealityScore, m.AnalysisDuration, m.CacheLookups)
	return m
}

// RecordAnalysis records one finished reality check. source is "api" or "worker".
func (m *BusinessMetrics) RecordAnalysis(source, verdict string, score int, duration time.Duration) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(verdict, source).Inc()
	m.RealityScore.Observe(float64(score))
	m.AnalysisDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordCacheLookup counts a cache hit, miss or error
func (m *BusinessMetrics) RecordCacheLookup(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// DatabaseMetrics exports sql.DBStats as gauges
type DatabaseMetrics struct {
	openConnections *prometheus.GaugeVec
	waitCount       prometheus.Gauge
	waitDuration    prometheus.Gauge
}

// NewDatabaseMetrics registers the connection pool gauges under namespace
func NewDatabaseMetrics(namespace string, reg prometheus.Registerer) *DatabaseMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &DatabaseMetrics{
		openConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "connections",
			Help:      "Database connections by state.",
		}, []string{"state"}),
		waitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "wait_count",
			Help:      "Total number of connections waited for.",
		}),
		waitDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "wait_duration_seconds",
			Help:      "Total time blocked waiting for a connection.",
		}),
	}

	reg.MustRegister(m.openConnections, m.waitCount, m.waitDuration)
	return m
}

// UpdateDBStats copies the current pool statistics into the gauges
func (m *DatabaseMetrics) UpdateDBStats(db *sql.DB) {
	stats := db.Stats()
	m.openConnections.WithLabelValues("open").Set(float64(stats.OpenConnections))
	m.openConnections.WithLabelValues("in_use").Set(float64(stats.InUse))
	m.openConnections.WithLabelValues("idle").Set(float64(stats.Idle))
	m.waitCount.Set(float64(stats.WaitCount))
	m.waitDuration.Set(stats.WaitDuration.Seconds())
}
