package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Retrieval, LLM and fallback metrics of the ask/search pipeline.
var (
	RetrievalCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrieval_calls_total",
			Help:      "Retrieval provider calls by strategy and outcome",
		},
		[]string{"strategy", "status"}, // status: "ok" / "empty" / "error"
	)

	RetrievalPoolSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retrieval_pool_size",
			Help:      "Merged candidate pool size per request",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 30, 50},
		},
	)

	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "LLM completions by call site and outcome",
		},
		[]string{"call_site", "status"},
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "LLM completion duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"call_site"},
	)

	LLMTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_tokens_total",
			Help:      "LLM tokens consumed",
		},
		[]string{"call_site", "type"},
	)

	FallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Deterministic fallbacks taken after a provider or parse failure",
		},
		[]string{"component", "reason"},
	)

	IntentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intent_total",
			Help:      "Intent decisions by label and deciding layer",
		},
		[]string{"intent", "source"},
	)
)

var registerEngine sync.Once

// RegisterEngineMetrics registers the pipeline metrics. Safe to call repeatedly.
func RegisterEngineMetrics() {
	registerEngine.Do(func() {
		prometheus.MustRegister(
			RetrievalCallsTotal,
			RetrievalPoolSize,
			LLMRequestsTotal,
			LLMRequestDuration,
			LLMTokensTotal,
			FallbacksTotal,
			IntentTotal,
		)
	})
}

// Fallback records a deterministic fallback taken by a component.
func Fallback(component, reason string) {
	FallbacksTotal.WithLabelValues(component, reason).Inc()
}
