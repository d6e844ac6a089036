// Package metrics provides Prometheus metrics for the roast curve service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the roast curve service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Derivation metrics
	rowsNormalized  prometheus.Counter
	rowsDropped     prometheus.Counter
	derivations     *prometheus.CounterVec
	deriveLatency   prometheus.Histogram
	parseLines      *prometheus.CounterVec
	synchronizes    prometheus.Counter
	syncErrors      prometheus.Counter
	profilesSynced  prometheus.Histogram
	renders         *prometheus.CounterVec
	imports         *prometheus.CounterVec
	activeSessions  prometheus.Gauge
	sessionsCreated prometheus.Counter

	// Session store metrics
	storeOps       *prometheus.CounterVec
	storeLatency   *prometheus.HistogramVec
	storeEncodedSz prometheus.Histogram

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "roast",
		subsystem:        "curve",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	m.rowsNormalized = m.counter("rows_normalized_total", "Rows that survived normalization")
	m.rowsDropped = m.counter("rows_dropped_total", "Rows dropped for a missing temperature")
	m.derivations = m.counterVec("derivations_total", "Derivation passes by input mode", "mode")
	m.deriveLatency = m.histogram("derive_latency_milliseconds", "Latency of one normalize and derive pass",
		[]float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10})
	m.parseLines = m.counterVec("parse_lines_total", "Bulk text lines by outcome", "outcome")
	m.synchronizes = m.counter("synchronizations_total", "Successful profile set synchronizations")
	m.syncErrors = m.counter("synchronization_errors_total", "Synchronizations aborted by an error")
	m.profilesSynced = m.histogram("profiles_per_sync", "Profiles processed per synchronization",
		[]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	m.renders = m.counterVec("renders_total", "Rendered artifacts by format", "format")
	m.imports = m.counterVec("imports_total", "Imported documents by format", "format")
	m.activeSessions = m.gauge("active_sessions", "Sessions currently held by the store")
	m.sessionsCreated = m.counter("sessions_created_total", "Sessions created")

	m.storeOps = m.counterVec("store_operations_total", "Session store operations", "op", "result")
	m.storeLatency = m.histogramVec("store_latency_milliseconds", "Session store operation latency",
		m.histogramBuckets, "op")
	m.storeEncodedSz = m.histogram("store_encoded_bytes", "Compressed size of stored sessions",
		prometheus.ExponentialBuckets(128, 2, 10))

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds",
		m.histogramBuckets, "endpoint", "method", "status_code")

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Total number of errors by component",
		"component", "error_type")
	m.errorRateByType = m.counterVec("errors_by_type_total", "Total number of errors by type",
		"error_type", "severity")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Total number of errors by endpoint",
		"endpoint", "method", "error_type")
	m.errorLatency = m.histogramVec("error_latency_milliseconds", "Latency of operations that resulted in errors",
		m.histogramBuckets, "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// RecordRowsNormalized adds kept and dropped row counts from one normalization.
func RecordRowsNormalized(kept, dropped int) {
	globalManager.rowsNormalized.Add(float64(kept))
	globalManager.rowsDropped.Add(float64(dropped))
}

// RecordDerivation counts one derivation pass for mode.
func RecordDerivation(mode string) {
	globalManager.derivations.WithLabelValues(mode).Inc()
}

// RecordDeriveLatency records derivation latency in milliseconds.
func RecordDeriveLatency(latencyMs float64) {
	globalManager.deriveLatency.Observe(latencyMs)
}

// RecordParse adds the outcome of one bulk text parse.
func RecordParse(kept, skipped int) {
	globalManager.parseLines.WithLabelValues("kept").Add(float64(kept))
	globalManager.parseLines.WithLabelValues("skipped").Add(float64(skipped))
}

// RecordSynchronize counts a successful synchronization over n profiles.
func RecordSynchronize(n int) {
	globalManager.synchronizes.Inc()
	globalManager.profilesSynced.Observe(float64(n))
}

// RecordSynchronizeError counts an aborted synchronization.
func RecordSynchronizeError() {
	globalManager.syncErrors.Inc()
}

// RecordRender counts one rendered artifact (png, xlsx, toml).
func RecordRender(format string) {
	globalManager.renders.WithLabelValues(format).Inc()
}

// RecordImport counts one imported document.
func RecordImport(format string) {
	globalManager.imports.WithLabelValues(format).Inc()
}

// RecordSessionCreated increments the session creation counter.
func RecordSessionCreated() {
	globalManager.sessionsCreated.Inc()
}

// UpdateActiveSessions sets the number of live sessions.
func UpdateActiveSessions(count int) {
	globalManager.activeSessions.Set(float64(count))
}

// RecordStoreOperation counts a store operation and its latency.
func RecordStoreOperation(op, result string, latencyMs float64) {
	globalManager.storeOps.WithLabelValues(op, result).Inc()
	globalManager.storeLatency.WithLabelValues(op).Observe(latencyMs)
}

// RecordStoreEncodedSize records the compressed size of a stored session.
func RecordStoreEncodedSize(bytes int) {
	globalManager.storeEncodedSz.Observe(float64(bytes))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

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

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
