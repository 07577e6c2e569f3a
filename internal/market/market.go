// Package market builds the (keyword, app) dataset behind a market
// analysis and selects target apps from it. Fetching is best-effort: a
// failed item is recorded and skipped, never fatal to the batch.
package market

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/8shagrid/app-scout/internal/models"
	"github.com/8shagrid/app-scout/internal/playstore"
	"github.com/8shagrid/app-scout/internal/scoring"
	"github.com/8shagrid/app-scout/pkg/logger"
)

type BuildRequest struct {
	Keywords          []string
	Locale            string
	Region            string
	SearchLimit       int
	SuggestLimit      int
	SizeVariesMarkers []string
	Now               time.Time
}

type BuildResult struct {
	Table    models.MarketTable    `json:"table"`
	Failures []models.FetchFailure `json:"failures"`
	// Keywords is the expanded keyword list actually searched.
	Keywords []string `json:"keywords"`
}

// Build fans the keyword set out over search and detail fetches and folds
// the successes into a market table. Per-item failures are collected as
// reasons, not propagated.
func Build(ctx context.Context, provider playstore.Provider, req BuildRequest) BuildResult {
	result := BuildResult{
		Keywords: expandKeywords(ctx, provider, req),
	}

	for _, kw := range result.Keywords {
		hits, err := provider.Search(ctx, kw, req.Locale, req.Region, req.SearchLimit)
		if err != nil {
			logger.Warn("Keyword search failed",
				zap.String("keyword", kw),
				zap.Error(err),
			)
			result.Failures = append(result.Failures, models.FetchFailure{
				Keyword: kw,
				Reason:  err.Error(),
			})
			continue
		}

		for _, hit := range hits {
			app, err := provider.FetchDetail(ctx, hit.AppID, req.Locale, req.Region)
			if err != nil {
				logger.Debug("Detail fetch skipped",
					zap.String("keyword", kw),
					zap.String("app_id", hit.AppID),
					zap.Error(err),
				)
				result.Failures = append(result.Failures, models.FetchFailure{
					Keyword: kw,
					AppID:   hit.AppID,
					Reason:  err.Error(),
				})
				continue
			}

			result.Table = append(result.Table, models.MarketRow{
				Keyword: kw,
				App:     app,
				Metrics: scoring.Metrics(app, req.Now, req.SizeVariesMarkers),
			})
		}
	}

	logger.Info("Market table built",
		zap.Int("keywords", len(result.Keywords)),
		zap.Int("rows", len(result.Table)),
		zap.Int("failures", len(result.Failures)),
	)
	return result
}

// expandKeywords merges store suggestions into the base keyword set, a few
// per base keyword. Providers without suggestion support are skipped
// silently; the base set always survives.
func expandKeywords(ctx context.Context, provider playstore.Provider, req BuildRequest) []string {
	seen := map[string]bool{}
	var expanded []string

	add := func(kw string) {
		kw = strings.TrimSpace(kw)
		if kw == "" || seen[strings.ToLower(kw)] {
			return
		}
		seen[strings.ToLower(kw)] = true
		expanded = append(expanded, kw)
	}

	for _, kw := range req.Keywords {
		add(kw)
	}

	if req.SuggestLimit <= 0 {
		return expanded
	}
	for _, kw := range req.Keywords {
		suggestions, err := provider.Suggest(ctx, strings.TrimSpace(kw), req.Locale, req.Region)
		if err != nil {
			logger.Debug("Keyword suggestion skipped", zap.String("keyword", kw), zap.Error(err))
			continue
		}
		for i, s := range suggestions {
			if i >= req.SuggestLimit {
				break
			}
			add(s)
		}
	}
	return expanded
}

// Summarize computes the aggregate stats a market verdict is based on.
// Mean rating skips unrated rows; mean installs covers every row.
func Summarize(table models.MarketTable) models.MarketSummary {
	summary := models.MarketSummary{TotalApps: len(table)}
	if len(table) == 0 {
		return summary
	}

	var installsSum float64
	var ratingSum float64
	rated := 0
	for _, row := range table {
		installsSum += float64(row.Metrics.Installs)
		if row.App.Score.Valid {
			ratingSum += row.App.Score.Value
			rated++
			if row.App.Score.Value < 4.0 {
				summary.WeakCompetitors++
			}
		}
	}

	summary.AvgInstalls = installsSum / float64(len(table))
	if rated > 0 {
		summary.AvgRating = ratingSum / float64(rated)
	}
	return summary
}

// Opportunity selection criteria, applied in order. The order decides
// which tag a multi-criteria app keeps.
const (
	TagQualityGap   = "quality gap, adequate demand"
	TagZombie       = "zombie app"
	TagWeakListing  = "weak store listing"
	weakASOCutoff   = 50
	gapRatingCutoff = 4.2
	gapInstallFloor = 10000
)

// FindOpportunities unions three target filters over the table,
// deduplicating by app id and keeping the first matching tag.
func FindOpportunities(table models.MarketTable) []models.Opportunity {
	type criterion struct {
		tag   string
		match func(models.MarketRow) bool
	}
	criteria := []criterion{
		{TagQualityGap, func(r models.MarketRow) bool {
			return r.App.Score.Valid && r.App.Score.Value < gapRatingCutoff && r.Metrics.Installs > gapInstallFloor
		}},
		{TagZombie, func(r models.MarketRow) bool { return r.Metrics.IsZombie }},
		{TagWeakListing, func(r models.MarketRow) bool { return r.Metrics.ASOScore < weakASOCutoff }},
	}

	seen := map[string]bool{}
	var targets []models.Opportunity
	for _, c := range criteria {
		for _, row := range table {
			if !c.match(row) || seen[row.App.AppID] {
				continue
			}
			seen[row.App.AppID] = true
			targets = append(targets, models.Opportunity{
				App:     row.App,
				Metrics: row.Metrics,
				Tag:     c.tag,
			})
		}
	}
	return targets
}
