// Package metrics exposes Prometheus metrics for the Beauty Battle service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "beauty_battle"
)

// Prediction outcomes recorded on every submit attempt.
const (
	OutcomeAccepted     = "accepted"
	OutcomeInvalidInput = "invalid_input"
	OutcomeUpstream     = "upstream_error"
	OutcomeStorage      = "storage_error"
)

var registry = prometheus.NewRegistry()

var (
	predictionsTotal = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictions_total",
		Help:      "Prediction submissions by outcome.",
	}, []string{"outcome"})

	scoreClampsTotal = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "score_clamps_total",
		Help:      "Upstream scores clamped into the valid range, by direction.",
	}, []string{"direction"})

	analysesTotal = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analyses_total",
		Help:      "Styling analysis requests by outcome.",
	}, []string{"outcome"})

	upstreamLatency = promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_latency_ms",
		Help:      "Latency of external collaborator calls in milliseconds.",
		Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
	}, []string{"collaborator"})

	httpRequestsTotal = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status"})

	httpRequestDuration = promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"endpoint", "method"})

	rateLimitedTotal = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Upload requests rejected by the rate limiter.",
	})

	storedScores = promauto.With(registry).NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stored_scores",
		Help:      "Number of score records currently in the store.",
	})
)

// GetRegistry returns the registry serving /metrics.
func GetRegistry() *prometheus.Registry { return registry }

// RecordPrediction counts one submit attempt with the given outcome.
func RecordPrediction(outcome string) { predictionsTotal.WithLabelValues(outcome).Inc() }

// RecordScoreClamp counts a raw upstream score clamped low or high.
func RecordScoreClamp(direction string) { scoreClampsTotal.WithLabelValues(direction).Inc() }

// RecordAnalysis counts one styling analysis attempt with the given outcome.
func RecordAnalysis(outcome string) { analysesTotal.WithLabelValues(outcome).Inc() }

// ObserveUpstreamLatency records the duration of an external call.
func ObserveUpstreamLatency(collaborator string, ms float64) {
	upstreamLatency.WithLabelValues(collaborator).Observe(ms)
}

// RecordHTTPRequest counts one handled HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	httpRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
}

// ObserveHTTPRequestDuration records handler latency.
func ObserveHTTPRequestDuration(endpoint, method string, ms float64) {
	httpRequestDuration.WithLabelValues(endpoint, method).Observe(ms)
}

// RecordRateLimited counts an upload rejected by the rate limiter.
func RecordRateLimited() { rateLimitedTotal.Inc() }

// UpdateStoredScores sets the stored score record gauge.
func UpdateStoredScores(n int) { storedScores.Set(float64(n)) }
