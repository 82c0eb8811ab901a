// Package metrics provides Prometheus metrics for the crewboard service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Fetch outcomes other than a LoadError kind.
const (
	OutcomeSuccess = "success"
)

// Manager manages all Prometheus metrics for the crewboard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Snapshot Metrics - payload fetch and cache behaviour
	snapshotFetches      *prometheus.CounterVec
	snapshotFetchLatency *prometheus.HistogramVec
	snapshotCacheHits    prometheus.Counter
	snapshotCacheMisses  prometheus.Counter
	snapshotRows         prometheus.Gauge
	snapshotLastUnix     prometheus.Gauge

	// Leaderboard Metrics - what the dashboard shows
	leaderboardBuilds       prometheus.Counter
	leaderboardBuildLatency prometheus.Histogram
	leaderboardCarriers     prometheus.Gauge
	leaderboardCrew         prometheus.Gauge
	refreshRequests         prometheus.Counter
	pipelineState           *prometheus.GaugeVec

	// Export Metrics
	exportsWritten *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	upstreamRequests    *prometheus.CounterVec

	// Enhanced Error Metrics - Detailed error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Pipeline states reported by UpdatePipelineState.
var pipelineStates = []string{"IDLE", "LOADING", "READY", "LOAD_FAILED"} //nolint:gochecknoglobals // fixed label set

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "crewboard",
		subsystem:        "leaderboard",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// RefreshInterval returns how often system gauges should be sampled.
func (m *Manager) RefreshInterval() time.Duration {
	return m.refreshInterval
}

// Enabled reports whether recording is switched on.
func (m *Manager) Enabled() bool {
	return m.enabled
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Snapshot Metrics
	m.snapshotFetches = auto.NewCounterVec(
		m.counterOpts("snapshot_fetches_total", "Total number of source fetches by outcome (success or error kind)"),
		[]string{"outcome"},
	)

	m.snapshotFetchLatency = auto.NewHistogramVec(
		m.histogramOpts("snapshot_fetch_latency_milliseconds", "Fetch and parse latency in milliseconds", m.histogramBuckets),
		[]string{"outcome"},
	)

	m.snapshotCacheHits = auto.NewCounter(m.counterOpts("snapshot_cache_hits_total", "Loads served from the snapshot cache"))
	m.snapshotCacheMisses = auto.NewCounter(m.counterOpts("snapshot_cache_misses_total", "Loads that had to fetch the source"))
	m.snapshotRows = auto.NewGauge(m.gaugeOpts("snapshot_rows", "Rows in the last successfully loaded snapshot"))
	m.snapshotLastUnix = auto.NewGauge(m.gaugeOpts("snapshot_last_success_unix", "Unix timestamp of the last successful load"))

	// Leaderboard Metrics
	m.leaderboardBuilds = auto.NewCounter(m.counterOpts("builds_total", "Total number of leaderboards built"))
	m.leaderboardBuildLatency = auto.NewHistogram(
		m.histogramOpts("build_latency_milliseconds", "Aggregation and ranking latency in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250}),
	)
	m.leaderboardCarriers = auto.NewGauge(m.gaugeOpts("carriers", "Carriers in the current leaderboard"))
	m.leaderboardCrew = auto.NewGauge(m.gaugeOpts("crew_members", "Ranked crew members across all carriers"))
	m.refreshRequests = auto.NewCounter(m.counterOpts("refresh_requests_total", "Explicit refresh requests"))
	m.pipelineState = auto.NewGaugeVec(
		m.gaugeOpts("pipeline_state", "Current pipeline state (1 for the active state)"),
		[]string{"state"},
	)

	// Export Metrics
	m.exportsWritten = auto.NewCounterVec(
		m.counterOpts("exports_total", "Leaderboard exports written by format"),
		[]string{"format"},
	)

	// HTTP Performance Metrics - User experience indicators
	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds (user experience)", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.upstreamRequests = auto.NewCounterVec(
		m.counterOpts("upstream_requests_total", "Outbound source requests by host and status code"),
		[]string{"host", "status_code"},
	)

	// Enhanced Error Metrics - Detailed error tracking
	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// Snapshot Metrics Functions.

// RecordSnapshotCacheHit increments the cache hit counter.
func RecordSnapshotCacheHit() {
	if !globalManager.enabled {
		return
	}
	globalManager.snapshotCacheHits.Inc()
}

// RecordSnapshotCacheMiss increments the cache miss counter.
func RecordSnapshotCacheMiss() {
	if !globalManager.enabled {
		return
	}
	globalManager.snapshotCacheMisses.Inc()
}

// RecordSnapshotFetch records one fetch attempt. outcome is OutcomeSuccess or
// the error kind that ended the attempt.
func RecordSnapshotFetch(outcome string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.snapshotFetches.WithLabelValues(outcome).Inc()
	globalManager.snapshotFetchLatency.WithLabelValues(outcome).Observe(latencyMs)
	if outcome == OutcomeSuccess {
		globalManager.snapshotLastUnix.SetToCurrentTime()
	}
}

// UpdateSnapshotRows sets the row count of the cached snapshot.
func UpdateSnapshotRows(rows int) {
	if !globalManager.enabled {
		return
	}
	globalManager.snapshotRows.Set(float64(rows))
}

// Leaderboard Metrics Functions.

// RecordLeaderboardBuild records one Build call.
func RecordLeaderboardBuild(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.leaderboardBuilds.Inc()
	globalManager.leaderboardBuildLatency.Observe(latencyMs)
}

// UpdateLeaderboardSize sets the carrier and crew gauges.
func UpdateLeaderboardSize(carriers, crew int) {
	if !globalManager.enabled {
		return
	}
	globalManager.leaderboardCarriers.Set(float64(carriers))
	globalManager.leaderboardCrew.Set(float64(crew))
}

// RecordRefreshRequest increments the explicit refresh counter.
func RecordRefreshRequest() {
	if !globalManager.enabled {
		return
	}
	globalManager.refreshRequests.Inc()
}

// UpdatePipelineState marks state as the active pipeline state.
func UpdatePipelineState(state string) {
	if !globalManager.enabled {
		return
	}
	for _, s := range pipelineStates {
		v := 0.0
		if s == state {
			v = 1
		}
		globalManager.pipelineState.WithLabelValues(s).Set(v)
	}
}

// RecordExport increments the export counter for format.
func RecordExport(format string) {
	if !globalManager.enabled {
		return
	}
	globalManager.exportsWritten.WithLabelValues(format).Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordUpstreamRequest records an outbound request to a data source.
func RecordUpstreamRequest(host, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.upstreamRequests.WithLabelValues(host, statusCode).Inc()
}

// Enhanced Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// SystemRefreshInterval returns the sampling interval of the global manager.
func SystemRefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
