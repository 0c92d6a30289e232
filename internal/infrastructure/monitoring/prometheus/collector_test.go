package prometheus

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/viz-satellite/internal/infrastructure/monitoring/logging"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "vizsat_test"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func TestNewMetricsCollectorRequiresNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{}, logging.NewNopLogger())
	assert.Error(t, err)
}

func TestRegisterAndScrape(t *testing.T) {
	c := newTestCollector(t)

	hits := c.RegisterCounter("cache_hits_total", "Cache hits.", "source")
	hits.WithLabelValues("get").Inc()
	hits.WithLabelValues("get").Add(2)

	entries := c.RegisterGauge("cache_entries", "Cached datasets.")
	entries.WithLabelValues().Set(3)

	latency := c.RegisterHistogram("request_seconds", "Latency.", nil, "path")
	latency.WithLabelValues("/api/volcano-data").Observe(0.02)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, `vizsat_test_cache_hits_total{source="get"} 3`)
	assert.Contains(t, body, "vizsat_test_cache_entries 3")
	assert.Contains(t, body, "vizsat_test_request_seconds_count")
}

func TestRegisterIsIdempotent(t *testing.T) {
	c := newTestCollector(t)

	first := c.RegisterCounter("runs_total", "Runs.", "outcome")
	second := c.RegisterCounter("runs_total", "Runs.", "outcome")

	first.WithLabelValues("ok").Inc()
	second.WithLabelValues("ok").Inc()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `vizsat_test_runs_total{outcome="ok"} 2`)
}

func TestNewAppMetrics(t *testing.T) {
	m := NewAppMetrics(newTestCollector(t))
	require.NotNil(t, m)

	// Observing must not panic through the whole set.
	m.HTTPRequestsTotal.WithLabelValues("GET", "/api/volcano-data", "200").Inc()
	m.PipelineStageDuration.WithLabelValues("generate").Observe(0.1)
	m.CacheMissesTotal.WithLabelValues().Inc()
	m.MemoryHeapBytes.WithLabelValues().Set(1 << 20)
}

func TestTimer(t *testing.T) {
	c := newTestCollector(t)
	h := c.RegisterHistogram("stage_seconds", "Stage timing.", nil, "stage")

	timer := NewTimer(h.WithLabelValues("filter"))
	timer.ObserveDuration()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `vizsat_test_stage_seconds_count{stage="filter"} 1`)
}

func TestNopCollector(t *testing.T) {
	m := NewNopAppMetrics()
	m.CacheHitsTotal.WithLabelValues("warm").Inc()
	m.CacheEntries.WithLabelValues().Set(10)
	m.HTTPRequestDuration.WithLabelValues("GET", "/").Observe(0.5)
}
