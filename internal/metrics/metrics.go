package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// 推論API
	InferenceCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inference_call_duration_seconds",
			Help:    "Duration of outbound inference API calls in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"upstream", "result"},
	)

	// RecommendationOutcomes 劣化応答を監視側で区別するためのカウンター
	RecommendationOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_outcomes_total",
			Help: "Recommendation outcomes by provider, outcome (ok/degraded) and cause",
		},
		[]string{"provider", "outcome", "cause"},
	)

	ImageOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_synthesis_outcomes_total",
			Help: "Image synthesis outcomes by provider and cause",
		},
		[]string{"provider", "cause"},
	)

	ImageCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_cache_hits_total",
			Help: "Image cache hits",
		},
	)

	ImageCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_cache_misses_total",
			Help: "Image cache misses",
		},
	)

	// サーキットブレーカー
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Requests through the circuit breaker by result (success, failure, rejected)",
		},
		[]string{"name", "result"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)
)

// RecordAPIRequest APIリクエストを記録
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// InferenceResultOK 推論API呼び出し成功時のresultラベル（失敗時はErrorKindの値）
const InferenceResultOK = "ok"

// RecordInferenceCall 推論API呼び出しを記録
func RecordInferenceCall(upstream, result string, duration time.Duration) {
	InferenceCallDuration.WithLabelValues(upstream, result).Observe(duration.Seconds())
}

// RecordRecommendation 推薦結果を記録
func RecordRecommendation(provider string, degraded bool, cause string) {
	outcome := "ok"
	if degraded {
		outcome = "degraded"
	}
	RecommendationOutcomes.WithLabelValues(provider, outcome, cause).Inc()
}

// RecordImage 画像生成結果を記録
func RecordImage(provider, cause string) {
	ImageOutcomes.WithLabelValues(provider, cause).Inc()
}
