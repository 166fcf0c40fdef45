// Package metrics provides Prometheus instrumentation for the gateway.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ChatMessagesTotal tracks successful chat exchanges per tenant.
	ChatMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_chat_messages_total",
			Help: "Total successful chat exchanges",
		},
		[]string{"tenant_id"},
	)

	// ChatErrorsTotal tracks failed chat requests by error kind.
	ChatErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_chat_errors_total",
			Help: "Total failed chat requests by error kind",
		},
		[]string{"kind"},
	)

	// LLMRequestDuration tracks upstream model call duration.
	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_llm_request_duration_seconds",
			Help:    "Upstream model call duration in seconds",
			Buckets: []float64{.25, .5, 1, 2, 5, 10, 20, 30, 45, 60},
		},
		[]string{"model", "status"},
	)

	// RecorderFailuresTotal tracks best-effort recorder operations that failed.
	RecorderFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_recorder_failures_total",
			Help: "Best-effort usage/log writes that failed",
		},
		[]string{"operation"},
	)
)

// RecordRequest records metrics for a completed HTTP request.
func RecordRequest(method, path, status string, seconds float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(seconds)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordLLMRequest records metrics for an upstream model call.
func RecordLLMRequest(model, status string, seconds float64) {
	LLMRequestDuration.WithLabelValues(model, status).Observe(seconds)
}
