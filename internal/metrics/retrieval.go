package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval and embedding Prometheus metrics.
var (
	RetrievalRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ragfuse",
			Name:      "retrieval_requests_total",
			Help:      "Total number of fused retrieval passes",
		},
		[]string{"signal", "status"}, // signal: lexical / semantic / fused
	)

	RetrievalDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ragfuse",
			Name:      "retrieval_duration_seconds",
			Help:      "Fused retrieval pass duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"signal"},
	)

	RetrievalDocuments = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ragfuse",
			Name:      "retrieval_documents",
			Help:      "Documents returned per retrieval pass",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
		[]string{"signal"},
	)

	QueryVariantsGenerated = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ragfuse",
			Name:      "query_variants_generated",
			Help:      "Query variants produced per expansion (original included)",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 8, 10},
		},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ragfuse",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var retrievalMetricsRegistered bool

// RegisterRetrievalMetrics registers Prometheus retrieval metrics. Must be called once from main.
func RegisterRetrievalMetrics() {
	if retrievalMetricsRegistered {
		return
	}
	prometheus.MustRegister(RetrievalRequestsTotal)
	prometheus.MustRegister(RetrievalDuration)
	prometheus.MustRegister(RetrievalDocuments)
	prometheus.MustRegister(QueryVariantsGenerated)
	prometheus.MustRegister(EmbeddingCacheTotal)
	retrievalMetricsRegistered = true
}
