package prometheus

// AppMetrics bundles every metric the service emits.  Constructed once at
// startup and injected into the layers that observe into it.
type AppMetrics struct {
	// HTTP surface.
	HTTPRequestsTotal   CounterVec // labels: method, path, status
	HTTPRequestDuration HistogramVec
	HTTPInFlight        GaugeVec // label: path

	// Pipeline.
	PipelineStageDuration HistogramVec // label: stage
	PipelineRunsTotal     CounterVec   // label: outcome
	DatasetPointsReturned HistogramVec // label: mode (full|chunked|streamed)

	// Dataset cache.
	CacheHitsTotal        CounterVec // label: source (get|warm)
	CacheMissesTotal      CounterVec
	CacheGenerationsTotal CounterVec
	CacheEntries          GaugeVec
	CacheMemoryBytes      GaugeVec

	// Resource governor.
	SerializerDegradationsTotal CounterVec // label: reason
	MemoryReclaimsTotal         CounterVec
	MemoryHeapBytes             GaugeVec
}

var (
	durationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	pointsBuckets   = []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 200000, 500000, 1000000}
)

// NewAppMetrics registers the full metric set against the given collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	return &AppMetrics{
		HTTPRequestsTotal: collector.RegisterCounter(
			"http_requests_total",
			"Total number of HTTP requests processed.",
			"method", "path", "status"),
		HTTPRequestDuration: collector.RegisterHistogram(
			"http_request_duration_seconds",
			"HTTP request latency in seconds.",
			durationBuckets,
			"method", "path"),
		HTTPInFlight: collector.RegisterGauge(
			"http_in_flight_requests",
			"Number of HTTP requests currently being served.",
			"path"),

		PipelineStageDuration: collector.RegisterHistogram(
			"pipeline_stage_duration_seconds",
			"Duration of each volcano pipeline stage in seconds.",
			durationBuckets,
			"stage"),
		PipelineRunsTotal: collector.RegisterCounter(
			"pipeline_runs_total",
			"Total pipeline executions by outcome.",
			"outcome"),
		DatasetPointsReturned: collector.RegisterHistogram(
			"dataset_points_returned",
			"Number of data points in the serialized response.",
			pointsBuckets,
			"mode"),

		CacheHitsTotal: collector.RegisterCounter(
			"cache_hits_total",
			"Dataset cache hits.",
			"source"),
		CacheMissesTotal: collector.RegisterCounter(
			"cache_misses_total",
			"Dataset cache misses."),
		CacheGenerationsTotal: collector.RegisterCounter(
			"cache_generations_total",
			"Datasets generated on cache miss or warm-up."),
		CacheEntries: collector.RegisterGauge(
			"cache_entries",
			"Number of datasets currently cached."),
		CacheMemoryBytes: collector.RegisterGauge(
			"cache_memory_bytes",
			"Estimated memory held by cached datasets."),

		SerializerDegradationsTotal: collector.RegisterCounter(
			"serializer_degradations_total",
			"Serializer payload degradations forced by memory pressure.",
			"reason"),
		MemoryReclaimsTotal: collector.RegisterCounter(
			"memory_reclaims_total",
			"Explicit memory reclamation passes."),
		MemoryHeapBytes: collector.RegisterGauge(
			"memory_heap_bytes",
			"Current heap allocation reported by the runtime."),
	}
}

// NewNopAppMetrics returns an AppMetrics whose observations are discarded.
// Intended for tests.
func NewNopAppMetrics() *AppMetrics {
	return NewAppMetrics(NewNopCollector())
}
