package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OCR request metrics
	OCRRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ocr_requests_total",
			Help: "Total number of OCR requests processed",
		},
		[]string{"endpoint", "status"}, // status: success, failed, rejected
	)

	OCRRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ocr_request_duration_seconds",
			Help:    "Duration of OCR requests in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	// Recognition backend metrics
	VisionAPICalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vision_api_calls_total",
			Help: "Total number of calls to the Vision text-recognition backend",
		},
		[]string{"status"}, // status: success, failure, rejected
	)

	VisionAPIDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vision_api_call_duration_seconds",
			Help:    "Duration of Vision backend calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Result cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "result_cache_hits_total",
			Help: "Total number of result cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "result_cache_misses_total",
			Help: "Total number of result cache misses",
		},
	)

	CacheItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "result_cache_items",
			Help: "Current number of entries in the result cache",
		},
	)

	CacheHitRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "result_cache_hit_rate",
			Help: "Result cache hit rate percentage since last stats reset",
		},
	)

	CacheEvictions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "result_cache_evictions",
			Help: "Total LRU evictions since last stats reset",
		},
	)

	CacheEstimatedBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "result_cache_estimated_bytes",
			Help: "Estimated memory footprint of the result cache in bytes",
		},
	)

	// Batch metrics
	BatchImagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batch_images_processed_total",
			Help: "Total number of images processed through the batch endpoint",
		},
		[]string{"status"}, // status: success, failed
	)

	// Stats stream metrics
	WebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stats_websocket_connections",
			Help: "Current number of connected stats stream clients",
		},
	)

	WebSocketMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stats_websocket_messages_sent_total",
			Help: "Total number of messages pushed to stats stream clients",
		},
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"component"},
	)

	CircuitBreakerTrips = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_trips_total",
			Help: "Total number of circuit breaker trips",
		},
		[]string{"component"},
	)
)
