// Package scout orchestrates the full analysis pipeline: fetch, derive
// metrics, aggregate, decide. Handlers call the engine; the engine owns
// caching and defaulting.
package scout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/8shagrid/app-scout/internal/cache"
	"github.com/8shagrid/app-scout/internal/decision"
	"github.com/8shagrid/app-scout/internal/market"
	"github.com/8shagrid/app-scout/internal/metrics"
	"github.com/8shagrid/app-scout/internal/models"
	"github.com/8shagrid/app-scout/internal/playstore"
	"github.com/8shagrid/app-scout/internal/reviewintel"
	"github.com/8shagrid/app-scout/internal/scoring"
	"github.com/8shagrid/app-scout/internal/strategy"
	"github.com/8shagrid/app-scout/pkg/config"
	"github.com/8shagrid/app-scout/pkg/logger"
	"github.com/8shagrid/app-scout/pkg/utils"
)

// ErrNoResults means the keyword set matched no apps at all. It is an
// empty-result state, not a failure; handlers map it to an empty
// response rather than a 5xx.
var ErrNoResults = errors.New("no apps matched")

type Engine struct {
	provider playstore.Provider
	cache    cache.Cache
	advisor  *strategy.Advisor
	text     reviewintel.TextTable
	cfg      *config.Config
	now      func() time.Time
}

func NewEngine(provider playstore.Provider, c cache.Cache, advisor *strategy.Advisor, text reviewintel.TextTable, cfg *config.Config) *Engine {
	return &Engine{
		provider: provider,
		cache:    c,
		advisor:  advisor,
		text:     text,
		cfg:      cfg,
		now:      time.Now,
	}
}

type MarketRequest struct {
	Keywords []string `json:"keywords"`
	Locale   string   `json:"locale"`
	Region   string   `json:"region"`
}

type MarketAnalysis struct {
	Keywords      []string              `json:"keywords"`
	Table         models.MarketTable    `json:"table"`
	Failures      []models.FetchFailure `json:"failures,omitempty"`
	Summary       models.MarketSummary  `json:"summary"`
	Verdict       models.Decision       `json:"verdict"`
	Opportunities []models.Opportunity  `json:"opportunities"`
}

type CompetitorRequest struct {
	AppID  string `json:"app_id"`
	Locale string `json:"locale"`
	Region string `json:"region"`
}

type CompetitorAnalysis struct {
	App                  models.AppRecord       `json:"app"`
	Metrics              models.AppMetrics      `json:"metrics"`
	Verdict              models.Decision        `json:"verdict"`
	Analytics            models.ReviewAnalytics `json:"analytics"`
	Strategy             models.StrategyBrief   `json:"strategy"`
	SensitivePermissions []string               `json:"sensitive_permissions,omitempty"`
	Reviews              []models.Review        `json:"reviews"`
}

// AnalyzeMarket runs the market pipeline for a keyword set: expand,
// fetch, score, summarize, decide, select targets.
func (e *Engine) AnalyzeMarket(ctx context.Context, req MarketRequest) (*MarketAnalysis, error) {
	start := e.now()
	locale, region := e.localePair(req.Locale, req.Region)

	key := utils.CacheKey("market", locale, region, strings.ToLower(strings.Join(req.Keywords, ",")))
	var cached MarketAnalysis
	if hit, err := e.cache.Get(ctx, key, &cached); err == nil && hit {
		metrics.CacheHits.WithLabelValues("market").Inc()
		return &cached, nil
	}
	metrics.CacheMisses.WithLabelValues("market").Inc()

	text := e.text.For(locale)
	built := market.Build(ctx, e.provider, market.BuildRequest{
		Keywords:          req.Keywords,
		Locale:            locale,
		Region:            region,
		SearchLimit:       e.cfg.Provider.SearchLimit,
		SuggestLimit:      e.cfg.Provider.SuggestLimit,
		SizeVariesMarkers: text.SizeVariesMarkers,
		Now:               e.now(),
	})
	metrics.MarketTableRows.Observe(float64(len(built.Table)))
	metrics.FetchFailures.Add(float64(len(built.Failures)))

	if len(built.Table) == 0 {
		metrics.AnalysisTotal.WithLabelValues("market", "empty").Inc()
		// The expanded keywords and per-item failure reasons still go back
		// to the caller so the empty response can explain itself.
		return &MarketAnalysis{
			Keywords: built.Keywords,
			Failures: built.Failures,
		}, fmt.Errorf("keywords %v: %w", req.Keywords, ErrNoResults)
	}

	summary := market.Summarize(built.Table)
	verdict := decision.ForMarket(decision.MarketSignal{
		WeakCompetitors: summary.WeakCompetitors,
		AvgInstalls:     summary.AvgInstalls,
		AvgRating:       summary.AvgRating,
	})
	opportunities := market.FindOpportunities(built.Table)
	metrics.OpportunitiesFound.Add(float64(len(opportunities)))

	analysis := &MarketAnalysis{
		Keywords:      built.Keywords,
		Table:         built.Table,
		Failures:      built.Failures,
		Summary:       summary,
		Verdict:       verdict,
		Opportunities: opportunities,
	}

	ttl := time.Duration(e.cfg.Cache.TTLSeconds) * time.Second
	if err := e.cache.Set(ctx, key, analysis, ttl); err != nil {
		logger.Warn("Failed to cache market analysis", zap.Error(err))
	}

	metrics.AnalysisDuration.WithLabelValues("market").Observe(e.now().Sub(start).Seconds())
	metrics.AnalysisTotal.WithLabelValues("market", "ok").Inc()
	logger.Info("Market analysis complete",
		zap.Strings("keywords", req.Keywords),
		zap.String("verdict", verdict.Label),
		zap.Int("apps", summary.TotalApps),
	)
	return analysis, nil
}

// AnalyzeCompetitor runs the single-app pipeline: listing detail, review
// analytics, verdict, counter-strategy.
func (e *Engine) AnalyzeCompetitor(ctx context.Context, req CompetitorRequest) (*CompetitorAnalysis, error) {
	start := e.now()
	locale, region := e.localePair(req.Locale, req.Region)

	key := utils.CacheKey("competitor", locale, region, req.AppID)
	var cached CompetitorAnalysis
	if hit, err := e.cache.Get(ctx, key, &cached); err == nil && hit {
		metrics.CacheHits.WithLabelValues("competitor").Inc()
		return &cached, nil
	}
	metrics.CacheMisses.WithLabelValues("competitor").Inc()

	app, err := e.provider.FetchDetail(ctx, req.AppID, locale, region)
	if err != nil {
		metrics.AnalysisTotal.WithLabelValues("competitor", "error").Inc()
		return nil, err
	}

	reviews, err := e.provider.FetchReviews(ctx, req.AppID, locale, region, e.cfg.Provider.ReviewCount)
	if err != nil {
		// Listing data alone still supports a verdict; review analytics
		// just come back empty.
		logger.Warn("Review fetch failed, continuing without analytics",
			zap.String("app_id", req.AppID),
			zap.Error(err),
		)
		reviews = nil
	}
	metrics.ReviewsAnalyzed.Add(float64(len(reviews)))

	text := e.text.For(locale)
	now := e.now()
	appMetrics := scoring.Metrics(app, now, text.SizeVariesMarkers)
	analytics := reviewintel.Analyze(reviews, now, text)

	verdict := decision.ForCompetitor(decision.CompetitorSignal{
		Rating:   app.Score.Value,
		Installs: appMetrics.Installs,
		Velocity: analytics.Velocity,
	})

	analysis := &CompetitorAnalysis{
		App:                  app,
		Metrics:              appMetrics,
		Verdict:              verdict,
		Analytics:            analytics,
		Strategy:             e.advisor.Brief(ctx, app, analytics),
		SensitivePermissions: scoring.SensitivePermissions(app, scoring.DefaultSensitivePermissionKeywords),
		Reviews:              reviews,
	}

	ttl := time.Duration(e.cfg.Cache.TTLSeconds) * time.Second
	if err := e.cache.Set(ctx, key, analysis, ttl); err != nil {
		logger.Warn("Failed to cache competitor analysis", zap.Error(err))
	}

	metrics.AnalysisDuration.WithLabelValues("competitor").Observe(e.now().Sub(start).Seconds())
	metrics.AnalysisTotal.WithLabelValues("competitor", "ok").Inc()
	logger.Info("Competitor analysis complete",
		zap.String("app_id", req.AppID),
		zap.String("verdict", verdict.Label),
		zap.Int("reviews", len(reviews)),
	)
	return analysis, nil
}

func (e *Engine) localePair(locale, region string) (string, string) {
	if locale == "" {
		locale = e.cfg.Provider.DefaultLocale
	}
	if region == "" {
		region = e.cfg.Provider.DefaultRegion
	}
	return locale, region
}
