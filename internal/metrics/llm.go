package metrics

import "github.com/prometheus/client_golang/prometheus"

// LLM, answer cache and retrieval Prometheus metrics.
var (
	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lessonqa",
			Name:      "llm_requests_total",
			Help:      "Total number of LLM generation requests",
		},
		[]string{"backend", "model", "status"},
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lessonqa",
			Name:      "llm_request_duration_seconds",
			Help:      "LLM generation request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"backend", "model"},
	)

	LLMTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lessonqa",
			Name:      "llm_tokens_total",
			Help:      "Total LLM tokens consumed",
		},
		[]string{"backend", "model", "type"},
	)

	LLMErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lessonqa",
			Name:      "llm_errors_total",
			Help:      "Total LLM errors",
		},
		[]string{"backend", "model", "error_type"},
	)

	LLMBudgetTokensRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "lessonqa",
			Name:      "llm_budget_tokens_remaining",
			Help:      "Remaining LLM token budget",
		},
		[]string{"backend", "period"},
	)

	AnswerCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lessonqa",
			Name:      "answer_cache_total",
			Help:      "Answer cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	RetrievalMatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lessonqa",
			Name:      "retrieval_matches_total",
			Help:      "Record retrieval outcomes by match path",
		},
		[]string{"path", "outcome"}, // path: date/fuzzy, outcome: hit/empty
	)
)

var llmMetricsRegistered bool

// RegisterLLMMetrics registers the LLM, cache and retrieval metrics. Must be called once from main.
func RegisterLLMMetrics() {
	if llmMetricsRegistered {
		return
	}
	prometheus.MustRegister(LLMRequestsTotal)
	prometheus.MustRegister(LLMRequestDuration)
	prometheus.MustRegister(LLMTokensTotal)
	prometheus.MustRegister(LLMErrorsTotal)
	prometheus.MustRegister(LLMBudgetTokensRemaining)
	prometheus.MustRegister(AnswerCacheTotal)
	prometheus.MustRegister(RetrievalMatchesTotal)
	llmMetricsRegistered = true
}
