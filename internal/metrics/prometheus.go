package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal общее количество запросов
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration продолжительность запросов
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// AnalysesTotal исходы анализа записей
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrv_analyses_total",
			Help: "Total number of HRV analyses by outcome",
		},
		[]string{"detector", "outcome"},
	)

	// SamplesProcessed отсчеты, прошедшие через детектор
	SamplesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hrv_samples_processed_total",
			Help: "Total number of voltage samples analyzed",
		},
	)

	// PeaksDetected число R-пиков на запись
	PeaksDetected = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hrv_peaks_per_recording",
			Help:    "Number of R-peaks detected per recording",
			Buckets: prometheus.ExponentialBuckets(1, 2, 14),
		},
	)

	// AnalysisLatency задержка анализа
	AnalysisLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analysis_latency_seconds",
			Help:    "Analysis processing latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	// CacheOperations операции с кэшем результатов
	CacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of result cache operations",
		},
		[]string{"operation", "status"},
	)

	// CacheHitRate доля попаданий по пулу соединений Redis
	CacheHitRate = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_hit_rate",
			Help: "Cache hit rate",
		},
		[]string{"cache_type"},
	)
)
