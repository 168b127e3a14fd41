// Package metrics provides Prometheus metrics for the leaderboard page service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Upstream fetches
	fetchesTotal  *prometheus.CounterVec
	fetchErrors   *prometheus.CounterVec
	fetchLatency  *prometheus.HistogramVec
	fetchStale    *prometheus.CounterVec
	playersLoaded *prometheus.GaugeVec

	// Rendering
	rendersTotal *prometheus.CounterVec
	rowsRendered prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByType        *prometheus.CounterVec

	// Fetch queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors *prometheus.CounterVec

	// Fetch workers
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by package-level recorders

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out of /healthz

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "leagueboard",
		subsystem:        "page",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		enabled:          true,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.fetchesTotal = auto.NewCounterVec(
		m.counterOpts("fetches_total", "Upstream leaderboard fetches by season and outcome"),
		[]string{"season", "outcome"},
	)
	m.fetchErrors = auto.NewCounterVec(
		m.counterOpts("fetch_errors_total", "Failed upstream fetches by season and error kind"),
		[]string{"season", "kind"},
	)
	m.fetchLatency = auto.NewHistogramVec(
		m.histogramOpts("fetch_latency_milliseconds", "Upstream fetch latency in milliseconds", m.histogramBuckets),
		[]string{"season"},
	)
	m.fetchStale = auto.NewCounterVec(
		m.counterOpts("fetch_stale_total", "Fetch results discarded because a newer result was already applied"),
		[]string{"season"},
	)
	m.playersLoaded = auto.NewGaugeVec(
		m.gaugeOpts("players_loaded", "Players held in the slot for a season"),
		[]string{"season"},
	)

	m.rendersTotal = auto.NewCounterVec(
		m.counterOpts("renders_total", "Leaderboard renders by format, language and theme"),
		[]string{"format", "language", "theme"},
	)
	m.rowsRendered = auto.NewHistogram(
		m.histogramOpts("rows_rendered", "Rows per rendered leaderboard", prometheus.ExponentialBuckets(1, 4, 8)),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorsByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "HTTP errors by endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorsByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Pending fetch requests"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Fetch queue capacity"))
	m.queueEnqueued = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Fetch requests enqueued"))
	m.queueDequeued = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Fetch requests dequeued"))
	m.queueEnqueueErrors = auto.NewCounterVec(
		m.counterOpts("queue_enqueue_errors_total", "Rejected fetch requests by reason"),
		[]string{"reason"},
	)

	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Running fetch workers"))
	m.workerProcessingLatency = auto.NewHistogram(
		m.histogramOpts("worker_processing_latency_milliseconds", "Time a worker spends on one fetch request", m.histogramBuckets),
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Running goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_milliseconds", "Average GC pause in milliseconds", []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10}),
	)
}

// Manager-level recorders. Package-level wrappers below route to the global manager.

func (m *Manager) RecordFetch(season, outcome string, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.fetchesTotal.WithLabelValues(season, outcome).Inc()
	m.fetchLatency.WithLabelValues(season).Observe(latencyMs)
}

func (m *Manager) RecordFetchError(season, kind string) {
	if !m.enabled {
		return
	}
	m.fetchErrors.WithLabelValues(season, kind).Inc()
	m.errorsByType.WithLabelValues("fetch_"+kind, "high").Inc()
}

func (m *Manager) RecordFetchStale(season string) {
	if !m.enabled {
		return
	}
	m.fetchStale.WithLabelValues(season).Inc()
}

func (m *Manager) UpdatePlayersLoaded(season string, n int) {
	if !m.enabled {
		return
	}
	m.playersLoaded.WithLabelValues(season).Set(float64(n))
}

func (m *Manager) RecordRender(format, language, theme string, rows int) {
	if !m.enabled {
		return
	}
	m.rendersTotal.WithLabelValues(format, language, theme).Inc()
	m.rowsRendered.Observe(float64(rows))
}

func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

func (m *Manager) RecordHTTPError(endpoint, method, errorType, severity string) {
	if !m.enabled {
		return
	}
	m.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	m.errorsByType.WithLabelValues(errorType, severity).Inc()
}

// RecordFetch counts one finished upstream fetch and observes its latency.
func RecordFetch(season, outcome string, latencyMs float64) {
	globalManager.RecordFetch(season, outcome, latencyMs)
}

// RecordFetchError counts a failed fetch by kind (transport, status, decode).
func RecordFetchError(season, kind string) { globalManager.RecordFetchError(season, kind) }

// RecordFetchStale counts a result dropped by the generation check.
func RecordFetchStale(season string) { globalManager.RecordFetchStale(season) }

// UpdatePlayersLoaded sets the slot size for a season.
func UpdatePlayersLoaded(season string, n int) { globalManager.UpdatePlayersLoaded(season, n) }

// RecordRender counts a rendered leaderboard.
func RecordRender(format, language, theme string, rows int) {
	globalManager.RecordRender(format, language, theme, rows)
}

// RecordHTTPRequest counts an HTTP request and observes its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordHTTPError counts an HTTP error response.
func RecordHTTPError(endpoint, method, errorType, severity string) {
	globalManager.RecordHTTPError(endpoint, method, errorType, severity)
}

func UpdateQueueSize(size int) {
	if globalManager.enabled {
		globalManager.queueSize.Set(float64(size))
	}
}

func UpdateQueueCapacity(capacity int) {
	if globalManager.enabled {
		globalManager.queueCapacity.Set(float64(capacity))
	}
}

func RecordQueueEnqueue() {
	if globalManager.enabled {
		globalManager.queueEnqueued.Inc()
	}
}

func RecordQueueDequeue() {
	if globalManager.enabled {
		globalManager.queueDequeued.Inc()
	}
}

func RecordQueueEnqueueError(reason string) {
	if globalManager.enabled {
		globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
	}
}

func UpdateWorkerCount(count int) {
	if globalManager.enabled {
		globalManager.workerCount.Set(float64(count))
	}
}

func RecordWorkerProcessingLatency(latencyMs float64) {
	if globalManager.enabled {
		globalManager.workerProcessingLatency.Observe(latencyMs)
	}
}

func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager.enabled {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

func UpdateSystemGoroutineCount(count int) {
	if globalManager.enabled {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

func RecordSystemGCPauseTime(pauseMs float64) {
	if globalManager.enabled {
		globalManager.systemGCPauseTime.Observe(pauseMs)
	}
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
