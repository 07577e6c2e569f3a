package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "app_scout_analysis_duration_seconds",
			Help:    "Analysis processing duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"analysis_type"},
	)

	AnalysisTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_scout_analysis_total",
			Help: "Total number of analyses processed",
		},
		[]string{"analysis_type", "status"},
	)

	StoreFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_scout_store_fetch_total",
			Help: "Total Play store fetches by kind",
		},
		[]string{"kind", "status"},
	)

	FetchFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "app_scout_fetch_failures_total",
			Help: "Per-item fetch failures skipped during market builds",
		},
	)

	MarketTableRows = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "app_scout_market_table_rows",
			Help:    "Rows per built market table",
			Buckets: []float64{0, 5, 10, 20, 50, 100, 200},
		},
	)

	ReviewsAnalyzed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "app_scout_reviews_analyzed_total",
			Help: "Total reviews run through analytics",
		},
	)

	OpportunitiesFound = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "app_scout_opportunities_found_total",
			Help: "Total opportunity targets selected",
		},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_scout_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_scout_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)

	LLMTokensUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_scout_llm_tokens_used",
			Help: "Total LLM tokens used for brief rephrasing",
		},
		[]string{"model", "type"},
	)
)

func Init() {
	prometheus.MustRegister(AnalysisDuration)
	prometheus.MustRegister(AnalysisTotal)
	prometheus.MustRegister(StoreFetchTotal)
	prometheus.MustRegister(FetchFailures)
	prometheus.MustRegister(MarketTableRows)
	prometheus.MustRegister(ReviewsAnalyzed)
	prometheus.MustRegister(OpportunitiesFound)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
	prometheus.MustRegister(LLMTokensUsed)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
