package grademywork

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for the client's requests and
// its session cache. It is safe for concurrent use.
type MetricsCollector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight *prometheus.GaugeVec

	cacheHits          *prometheus.CounterVec
	cacheMisses        *prometheus.CounterVec
	cacheInvalidations prometheus.Counter

	deduplicationHits *prometheus.CounterVec

	errorsTotal *prometheus.CounterVec
}

// NewMetricsCollector creates a metrics collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using supplied registerer.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	factory := promauto.With(registry)
	return &MetricsCollector{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grademywork_requests_total",
				Help: "Total number of requests sent to the grading service",
			},
			[]string{"method", "status_code", "route"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "grademywork_request_duration_seconds",
				Help:    "Duration of requests to the grading service in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "status_code", "route"},
		),
		requestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "grademywork_requests_in_flight",
				Help: "Number of requests currently in flight",
			},
			[]string{"method", "route"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grademywork_session_cache_hits_total",
				Help: "Total number of session cache hits",
			},
			[]string{"slot"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grademywork_session_cache_misses_total",
				Help: "Total number of session cache misses",
			},
			[]string{"slot"},
		),
		cacheInvalidations: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "grademywork_session_cache_invalidations_total",
				Help: "Total number of times the session cache was cleared",
			},
		),
		deduplicationHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grademywork_deduplication_hits_total",
				Help: "Total number of cache-miss fetches shared with an in-flight call",
			},
			[]string{"slot"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grademywork_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type", "method", "route"},
		),
	}
}

// RecordRequest records request count and duration.
func (mc *MetricsCollector) RecordRequest(method, route string, statusCode int, duration time.Duration) {
	if mc == nil {
		return
	}

	statusCodeStr := strconv.Itoa(statusCode)
	mc.requestsTotal.WithLabelValues(method, statusCodeStr, route).Inc()
	mc.requestDuration.WithLabelValues(method, statusCodeStr, route).Observe(duration.Seconds())
}

// RecordRequestStart increments in-flight gauge.
func (mc *MetricsCollector) RecordRequestStart(method, route string) {
	if mc == nil {
		return
	}
	mc.requestsInFlight.WithLabelValues(method, route).Inc()
}

// RecordRequestEnd decrements in-flight gauge.
func (mc *MetricsCollector) RecordRequestEnd(method, route string) {
	if mc == nil {
		return
	}
	mc.requestsInFlight.WithLabelValues(method, route).Dec()
}

// RecordCacheHit increments the hit counter of a session cache slot.
func (mc *MetricsCollector) RecordCacheHit(slot string) {
	if mc == nil {
		return
	}
	mc.cacheHits.WithLabelValues(slot).Inc()
}

// RecordCacheMiss increments the miss counter of a session cache slot.
func (mc *MetricsCollector) RecordCacheMiss(slot string) {
	if mc == nil {
		return
	}
	mc.cacheMisses.WithLabelValues(slot).Inc()
}

// RecordCacheInvalidation counts a ClearCache.
func (mc *MetricsCollector) RecordCacheInvalidation() {
	if mc == nil {
		return
	}
	mc.cacheInvalidations.Inc()
}

// RecordDeduplicationHit increments de-dup hit counter.
func (mc *MetricsCollector) RecordDeduplicationHit(slot string) {
	if mc == nil {
		return
	}
	mc.deduplicationHits.WithLabelValues(slot).Inc()
}

// RecordError increments error counter by type.
func (mc *MetricsCollector) RecordError(errorType, method, route string) {
	if mc == nil {
		return
	}
	mc.errorsTotal.WithLabelValues(errorType, method, route).Inc()
}
