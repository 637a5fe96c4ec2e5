package metrics

import "github.com/prometheus/client_golang/prometheus"

// Chat model Prometheus metrics.
var (
	ModelRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ragfuse",
			Name:      "model_requests_total",
			Help:      "Total number of chat model requests",
		},
		[]string{"provider", "model", "status"},
	)

	ModelRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ragfuse",
			Name:      "model_request_duration_seconds",
			Help:      "Chat model request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"provider", "model"},
	)

	ModelTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ragfuse",
			Name:      "model_tokens_total",
			Help:      "Total chat model tokens consumed",
		},
		[]string{"provider", "model", "type"}, // type: prompt / completion
	)

	ModelErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ragfuse",
			Name:      "model_errors_total",
			Help:      "Total chat model errors",
		},
		[]string{"provider", "model", "error_type"},
	)
)

var modelMetricsRegistered bool

// RegisterModelMetrics registers Prometheus chat model metrics. Must be called once from main.
func RegisterModelMetrics() {
	if modelMetricsRegistered {
		return
	}
	prometheus.MustRegister(ModelRequestsTotal)
	prometheus.MustRegister(ModelRequestDuration)
	prometheus.MustRegister(ModelTokensTotal)
	prometheus.MustRegister(ModelErrorsTotal)
	modelMetricsRegistered = true
}
