// Package metrics provides Prometheus metrics for the studio service.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Pipeline metrics
	workSessions       prometheus.Counter
	workUnits          *prometheus.CounterVec
	stageCompletions   prometheus.Counter
	projectCompletions prometheus.Counter
	finalScore         prometheus.Histogram
	payoutTotal        prometheus.Counter
	reputationTotal    prometheus.Counter
	minigameTriggers   *prometheus.CounterVec
	actions            *prometheus.CounterVec
	duplicateRequests  prometheus.Counter

	// Queue metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueue       prometheus.Counter
	queueDequeue       prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Worker metrics
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Archive metrics
	archiveLatency *prometheus.HistogramVec
	archiveRecords prometheus.Gauge

	// Stream metrics
	streamClients  prometheus.Gauge
	streamMessages prometheus.Counter

	snapshotOps *prometheus.CounterVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorsByComponent *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "tycoon",
		subsystem:        "studio",
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

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.workSessions = auto.NewCounter(m.counterOpts("work_sessions_total", "Work sessions performed"))
	m.workUnits = auto.NewCounterVec(m.counterOpts("work_units_total", "Work unit value recorded by type and source"), []string{"type", "source"})
	m.stageCompletions = auto.NewCounter(m.counterOpts("stage_completions_total", "Project stages completed"))
	m.projectCompletions = auto.NewCounter(m.counterOpts("project_completions_total", "Projects completed and settled"))
	m.finalScore = auto.NewHistogram(m.histogramOpts("final_score", "Final score of completed projects",
		[]float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}))
	m.payoutTotal = auto.NewCounter(m.counterOpts("payout_total", "Money paid out for completed projects"))
	m.reputationTotal = auto.NewCounter(m.counterOpts("reputation_gained_total", "Reputation gained from completed projects"))
	m.minigameTriggers = auto.NewCounterVec(m.counterOpts("minigame_triggers_total", "Minigames offered by kind"), []string{"kind", "completion_linked"})
	m.actions = auto.NewCounterVec(m.counterOpts("actions_total", "Game actions applied by name and result"), []string{"action", "result"})
	m.duplicateRequests = auto.NewCounter(m.counterOpts("duplicate_requests_total", "Work requests ignored as duplicates"))

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Completion events waiting in the queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Completion event queue capacity"))
	m.queueEnqueue = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Completion events enqueued"))
	m.queueDequeue = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Completion events dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("queue_enqueue_errors_total", "Completion events rejected by the queue"))

	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Running event workers"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts("worker_processing_latency_milliseconds",
		"Time to archive and broadcast one completion event", m.histogramBuckets))
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total", "Completion events that failed processing"))

	m.archiveLatency = auto.NewHistogramVec(m.histogramOpts("archive_latency_milliseconds",
		"Review archive operation latency", m.histogramBuckets), []string{"operation"})
	m.archiveRecords = auto.NewGauge(m.gaugeOpts("archive_records", "Reviews stored in the archive"))

	m.streamClients = auto.NewGauge(m.gaugeOpts("stream_clients", "Connected event stream clients"))
	m.streamMessages = auto.NewCounter(m.counterOpts("stream_messages_total", "Events broadcast to stream clients"))

	m.snapshotOps = auto.NewCounterVec(m.counterOpts("snapshot_operations_total", "Save and load operations by result"), []string{"operation", "result"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total", "HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.histogramBuckets), []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(m.counterOpts("errors_total", "Errors by component and type"), []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Heap memory in use"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Running goroutines"))
}

// RecordWorkSession increments the work session counter.
func RecordWorkSession() {
	globalManager.workSessions.Inc()
}

// RecordWorkUnit adds a recorded unit's value.
func RecordWorkUnit(workType, source string, value int) {
	if value <= 0 {
		return
	}
	globalManager.workUnits.WithLabelValues(workType, source).Add(float64(value))
}

// RecordStageCompletion increments the completed stage counter.
func RecordStageCompletion() {
	globalManager.stageCompletions.Inc()
}

// RecordProjectCompletion records a settled project's score and rewards.
func RecordProjectCompletion(finalScore, payout, repGain int) {
	globalManager.projectCompletions.Inc()
	globalManager.finalScore.Observe(float64(finalScore))
	if payout > 0 {
		globalManager.payoutTotal.Add(float64(payout))
	}
	if repGain > 0 {
		globalManager.reputationTotal.Add(float64(repGain))
	}
}

// RecordMinigameTrigger counts an offered minigame.
func RecordMinigameTrigger(kind string, completionLinked bool) {
	globalManager.minigameTriggers.WithLabelValues(kind, strconv.FormatBool(completionLinked)).Inc()
}

// RecordAction counts an applied or rejected game action.
func RecordAction(action, result string) {
	globalManager.actions.WithLabelValues(action, result).Inc()
}

// RecordDuplicateRequest increments the duplicate request counter.
func RecordDuplicateRequest() {
	globalManager.duplicateRequests.Inc()
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueue.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeue.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records how long one event took to process.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordArchiveLatency records an archive operation's latency.
func RecordArchiveLatency(operation string, latencyMs float64) {
	globalManager.archiveLatency.WithLabelValues(operation).Observe(latencyMs)
}

// UpdateArchiveRecords sets the number of archived reviews.
func UpdateArchiveRecords(count int) {
	globalManager.archiveRecords.Set(float64(count))
}

// UpdateStreamClients sets the number of connected stream clients.
func UpdateStreamClients(count int) {
	globalManager.streamClients.Set(float64(count))
}

// RecordStreamMessage increments the broadcast counter.
func RecordStreamMessage() {
	globalManager.streamMessages.Inc()
}

// RecordSnapshot counts a save or load.
func RecordSnapshot(operation string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	globalManager.snapshotOps.WithLabelValues(operation, result).Inc()
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
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap memory in use.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
