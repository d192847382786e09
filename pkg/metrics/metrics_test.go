package metrics

import (
	"database/sql"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/lib/pq"
)

func TestRecordAnalysis(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBusinessMetrics("realitycheck", reg)

	m.RecordAnalysis("api", "authentic", 84, 3*time.Millisecond)
	m.RecordAnalysis("api", "authentic", 90, time.Millisecond)
	m.RecordAnalysis("worker", "likely_sponsored", 40, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("authentic", "api")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("likely_sponsored", "worker")))

	count, err := testutil.GatherAndCount(reg, "realitycheck_reality_score")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecordCacheLookup(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBusinessMetrics("realitycheck", reg)

	m.RecordCacheLookup("hit")
	m.RecordCacheLookup("miss")
	m.RecordCacheLookup("miss")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")))
}

func TestNilBusinessMetrics(t *testing.T) {
	var m *BusinessMetrics
	assert.NotPanics(t, func() {
		m.RecordAnalysis("api", "authentic", 80, time.Second)
		m.RecordCacheLookup("hit")
	})
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewBusinessMetrics("realitycheck", reg)

	assert.Panics(t, func() { NewBusinessMetrics("realitycheck", reg) })
}

func TestUpdateDBStats(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewDatabaseMetrics("realitycheck", reg)

	// sql.Open does not connect, so the pool is empty
	db, err := sql.Open("postgres", "host=localhost dbname=none sslmode=disable")
	require.NoError(t, err)
	defer db.Close()

	m.UpdateDBStats(db)

	assert.Equal(t, 0.0, testutil.ToFloat64(m.openConnections.WithLabelValues("open")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.waitCount))
}
