// Package metrics provides Prometheus metrics for the venkman rules server.
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

// frameLatencyBuckets covers sub-millisecond classification up to a missed
// tracker frame.
var frameLatencyBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 25, 50, 100}

// Manager manages all Prometheus metrics for the rules server.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Session metrics
	sessionsActive  prometheus.Gauge
	sessionsTotal   prometheus.Counter
	requests        *prometheus.CounterVec
	frameLatency    prometheus.Histogram
	behaviorModes   *prometheus.CounterVec
	jumpFrames      prometheus.Counter
	stimulusSent    prometheus.Counter
	configLookups   *prometheus.CounterVec
	sessionDuration prometheus.Histogram

	// Session log queue and writer metrics
	logQueueSize      prometheus.Gauge
	logEnqueued       prometheus.Counter
	logEnqueueErrors  prometheus.Counter
	logRecordsWritten prometheus.Counter
	logWriteLatency   prometheus.Histogram
	logWritersActive  prometheus.Gauge
	logWriteErrors    prometheus.Counter

	// Ops HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	monitorClients      prometheus.Gauge
	monitorDropped      prometheus.Counter

	// Error metrics
	errorsByComponent *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

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
		namespace:        "venkman",
		subsystem:        "rules",
		histogramBuckets: prometheus.DefBuckets,
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

func (m *Manager) name(n string) string { return m.metricPrefix + n }

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	// Session metrics
	m.sessionsActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("sessions_active"),
		Help:        "Number of tracker sessions currently connected",
		ConstLabels: labels,
	})

	m.sessionsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("sessions_total"),
		Help:        "Total number of tracker sessions accepted",
		ConstLabels: labels,
	})

	m.requests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("requests_total"),
			Help:        "Total number of tracker requests by message type and response status",
			ConstLabels: labels,
		},
		[]string{"type", "status"},
	)

	m.frameLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("frame_latency_milliseconds"),
		Help:        "Time from reading a skeleton request to writing its response",
		Buckets:     frameLatencyBuckets,
		ConstLabels: labels,
	})

	m.behaviorModes = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("behavior_modes_total"),
			Help:        "Classified frames by behavior mode",
			ConstLabels: labels,
		},
		[]string{"mode"},
	)

	m.jumpFrames = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("jump_frames_total"),
		Help:        "Frames whose skeleton was skipped as a tracking jump",
		ConstLabels: labels,
	})

	m.stimulusSent = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("stimulus_commands_total"),
		Help:        "LED commands returned to trackers",
		ConstLabels: labels,
	})

	m.configLookups = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("configuration_lookups_total"),
			Help:        "Configuration store lookups by result",
			ConstLabels: labels,
		},
		[]string{"result"},
	)

	m.sessionDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("session_duration_seconds"),
		Help:        "Lifetime of tracker sessions",
		Buckets:     prometheus.ExponentialBuckets(1, 4, 8),
		ConstLabels: labels,
	})

	// Session log metrics
	m.logQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("log_queue_size"),
		Help:        "Records waiting to be written across all session logs",
		ConstLabels: labels,
	})

	m.logEnqueued = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("log_records_enqueued_total"),
		Help:        "Records handed to session logs",
		ConstLabels: labels,
	})

	m.logEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("log_enqueue_errors_total"),
		Help:        "Records rejected because their session log was closed",
		ConstLabels: labels,
	})

	m.logRecordsWritten = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("log_records_written_total"),
		Help:        "Records written to session log files",
		ConstLabels: labels,
	})

	m.logWriteLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("log_write_latency_milliseconds"),
		Help:        "Time to encode and write one batch of records",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.logWritersActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("log_writers_active"),
		Help:        "Session log writers currently running",
		ConstLabels: labels,
	})

	m.logWriteErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("log_write_errors_total"),
		Help:        "Failed session log writes",
		ConstLabels: labels,
	})

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_requests_total"),
			Help:        "Total number of ops HTTP requests by endpoint and method",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("http_request_duration_milliseconds"),
			Help:        "Ops HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.monitorClients = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("monitor_clients"),
		Help:        "Connected frame monitor clients",
		ConstLabels: labels,
	})

	m.monitorDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("monitor_dropped_total"),
		Help:        "Frame updates dropped for slow monitor clients",
		ConstLabels: labels,
	})

	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        m.name("errors_total"),
			Help:        "Errors by component and type",
			ConstLabels: labels,
		},
		[]string{"component", "type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_memory_usage_bytes"),
		Help:        "System memory usage in bytes",
		ConstLabels: labels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_goroutine_count"),
		Help:        "Number of goroutines",
		ConstLabels: labels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_gc_pause_time_milliseconds"),
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: labels,
	})
}

// Enabled reports whether the manager records anything.
func (m *Manager) Enabled() bool { return m.enabled }

// RefreshInterval is how often periodic gauges should be refreshed.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

// Session Metrics Functions.

// RecordSessionOpened counts an accepted session.
func RecordSessionOpened() {
	if !globalManager.enabled {
		return
	}
	globalManager.sessionsTotal.Inc()
	globalManager.sessionsActive.Inc()
}

// RecordSessionClosed records the end of a session that lived for d.
func RecordSessionClosed(d time.Duration) {
	if !globalManager.enabled {
		return
	}
	globalManager.sessionsActive.Dec()
	globalManager.sessionDuration.Observe(d.Seconds())
}

// RecordRequest counts a request by message type and response status.
func RecordRequest(messageType, status string) {
	if !globalManager.enabled {
		return
	}
	globalManager.requests.WithLabelValues(messageType, status).Inc()
}

// RecordFrameLatency records the processing time of one skeleton request.
func RecordFrameLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.frameLatency.Observe(latencyMs)
}

// RecordBehaviorMode counts a classified frame.
func RecordBehaviorMode(mode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.behaviorModes.WithLabelValues(mode).Inc()
}

// RecordJumpFrame counts a skipped jump frame.
func RecordJumpFrame() {
	if !globalManager.enabled {
		return
	}
	globalManager.jumpFrames.Inc()
}

// RecordStimulusCommands counts LED commands sent back to a tracker.
func RecordStimulusCommands(n int) {
	if !globalManager.enabled || n <= 0 {
		return
	}
	globalManager.stimulusSent.Add(float64(n))
}

// RecordConfigurationLookup counts a store lookup ("found", "not_found", "error").
func RecordConfigurationLookup(result string) {
	if !globalManager.enabled {
		return
	}
	globalManager.configLookups.WithLabelValues(result).Inc()
}

// Session Log Metrics Functions.

// UpdateLogQueueSize adds delta to the number of queued log records.
func UpdateLogQueueSize(delta int) {
	if !globalManager.enabled {
		return
	}
	globalManager.logQueueSize.Add(float64(delta))
}

// RecordLogEnqueue counts a queued log record.
func RecordLogEnqueue() {
	if !globalManager.enabled {
		return
	}
	globalManager.logEnqueued.Inc()
}

// RecordLogEnqueueError counts a record rejected by a closed log.
func RecordLogEnqueueError() {
	if !globalManager.enabled {
		return
	}
	globalManager.logEnqueueErrors.Inc()
}

// RecordLogBatch records a written batch of n records.
func RecordLogBatch(n int, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.logRecordsWritten.Add(float64(n))
	globalManager.logWriteLatency.Observe(latencyMs)
}

// RecordLogWriteError counts a failed log write.
func RecordLogWriteError() {
	if !globalManager.enabled {
		return
	}
	globalManager.logWriteErrors.Inc()
}

// UpdateLogWritersActive sets the number of running log writers.
func UpdateLogWritersActive(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.logWritersActive.Set(float64(count))
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

// UpdateMonitorClients sets the number of monitor clients.
func UpdateMonitorClients(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.monitorClients.Set(float64(count))
}

// RecordMonitorDropped counts an update a slow client missed.
func RecordMonitorDropped() {
	if !globalManager.enabled {
		return
	}
	globalManager.monitorDropped.Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
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

// RefreshInterval is the global manager's gauge refresh interval.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
