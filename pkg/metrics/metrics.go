// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// GenerationDuration tracks model completion duration.
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_generation_duration_seconds",
			Help:    "Model completion duration",
			Buckets: []float64{.5, 1, 2, 5, 10, 20, 30, 45, 60},
		},
		[]string{"model", "status"},
	)

	// GenerationTokensTotal tracks total tokens processed by the model.
	GenerationTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_tokens_total",
			Help: "Total LLM tokens processed",
		},
		[]string{"model", "direction"},
	)

	// MessagesTotal tracks messages recorded in session history.
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversation_messages_total",
			Help: "Total conversation messages recorded",
		},
		[]string{"role"},
	)

	// SessionsActive tracks the number of live sessions.
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "conversation_sessions_active",
			Help: "Number of live conversation sessions",
		},
	)

	// SessionsExpiredTotal tracks sessions removed by age-based cleanup.
	SessionsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "conversation_sessions_expired_total",
			Help: "Total sessions removed by expiry cleanup",
		},
	)

	// TaskIntentTotal tracks task intent verdicts by outcome.
	TaskIntentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_intent_analyses_total",
			Help: "Total task intent analyses",
		},
		[]string{"has_intent"},
	)

	// KnowledgeDocuments tracks the knowledge base corpus size.
	KnowledgeDocuments = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "knowledge_documents",
			Help: "Number of documents in the knowledge base",
		},
	)

	// KnowledgeSearchesTotal tracks knowledge base searches.
	KnowledgeSearchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "knowledge_searches_total",
			Help: "Total knowledge base searches",
		},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordGeneration records metrics for a model completion.
func RecordGeneration(model, status string, duration float64, tokensIn, tokensOut int) {
	GenerationDuration.WithLabelValues(model, status).Observe(duration)
	GenerationTokensTotal.WithLabelValues(model, "in").Add(float64(tokensIn))
	GenerationTokensTotal.WithLabelValues(model, "out").Add(float64(tokensOut))
}
