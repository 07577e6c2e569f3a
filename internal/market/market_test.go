package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/8shagrid/app-scout/internal/models"
	"github.com/8shagrid/app-scout/internal/playstore"
)

var buildNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

type fakeProvider struct {
	hits        map[string][]playstore.SearchResult
	details     map[string]models.AppRecord
	suggestions map[string][]string
	failDetail  map[string]bool
	failSearch  map[string]bool
}

func (f *fakeProvider) Search(_ context.Context, keyword, _, _ string, _ int) ([]playstore.SearchResult, error) {
	if f.failSearch[keyword] {
		return nil, errors.New("search unavailable")
	}
	return f.hits[keyword], nil
}

func (f *fakeProvider) FetchDetail(_ context.Context, appID, _, _ string) (models.AppRecord, error) {
	if f.failDetail[appID] {
		return models.AppRecord{}, errors.New("detail unavailable")
	}
	app, ok := f.details[appID]
	if !ok {
		return models.AppRecord{}, playstore.ErrNotFound
	}
	return app, nil
}

func (f *fakeProvider) FetchReviews(context.Context, string, string, string, int) ([]models.Review, error) {
	return nil, nil
}

func (f *fakeProvider) Suggest(_ context.Context, keyword, _, _ string) ([]string, error) {
	if f.suggestions == nil {
		return nil, playstore.ErrSuggestUnsupported
	}
	return f.suggestions[keyword], nil
}

func appWith(id string, rating float64, installs string) models.AppRecord {
	return models.AppRecord{
		AppID:       id,
		Title:       "A Properly Long Title",
		InstallsRaw: installs,
		Score:       models.OptionalFloat{Value: rating, Valid: rating > 0},
	}
}

func TestBuildCollectsRowsAndFailures(t *testing.T) {
	provider := &fakeProvider{
		hits: map[string][]playstore.SearchResult{
			"meditasi": {{AppID: "com.a"}, {AppID: "com.b"}, {AppID: "com.broken"}},
			"resep":    {{AppID: "com.a"}},
		},
		details: map[string]models.AppRecord{
			"com.a": appWith("com.a", 4.5, "100,000+"),
			"com.b": appWith("com.b", 3.5, "50,000+"),
		},
		failDetail: map[string]bool{"com.broken": true},
		failSearch: map[string]bool{"dead": true},
	}

	result := Build(context.Background(), provider, BuildRequest{
		Keywords:    []string{"meditasi", "resep", "dead"},
		SearchLimit: 20,
		Now:         buildNow,
	})

	// com.a appears under both keywords; the broken item and the dead
	// keyword are failures, not errors.
	if len(result.Table) != 3 {
		t.Errorf("rows = %d; want 3", len(result.Table))
	}
	if len(result.Failures) != 2 {
		t.Errorf("failures = %d; want 2", len(result.Failures))
	}
}

func TestBuildExpandsKeywords(t *testing.T) {
	provider := &fakeProvider{
		suggestions: map[string][]string{
			"meditasi": {"meditasi tidur", "meditasi islami", "meditasi pagi", "meditasi malam"},
		},
	}

	result := Build(context.Background(), provider, BuildRequest{
		Keywords:     []string{"meditasi"},
		SuggestLimit: 3,
		Now:          buildNow,
	})

	if len(result.Keywords) != 4 {
		t.Errorf("expanded keywords = %d; want base + 3 suggestions", len(result.Keywords))
	}
	if result.Keywords[0] != "meditasi" {
		t.Errorf("base keyword must come first, got %q", result.Keywords[0])
	}
}

func TestBuildSkipsSuggestWhenUnsupported(t *testing.T) {
	provider := &fakeProvider{}
	result := Build(context.Background(), provider, BuildRequest{
		Keywords:     []string{"meditasi"},
		SuggestLimit: 3,
		Now:          buildNow,
	})
	if len(result.Keywords) != 1 {
		t.Errorf("keywords = %d; want just the base keyword", len(result.Keywords))
	}
}

func TestSummarize(t *testing.T) {
	table := models.MarketTable{
		{App: appWith("a", 3.5, ""), Metrics: models.AppMetrics{Installs: 60000}},
		{App: appWith("b", 3.8, ""), Metrics: models.AppMetrics{Installs: 40000}},
		{App: appWith("c", 4.6, ""), Metrics: models.AppMetrics{Installs: 50000}},
		{App: appWith("d", 0, ""), Metrics: models.AppMetrics{Installs: 10000}},
	}

	s := Summarize(table)
	if s.TotalApps != 4 {
		t.Errorf("TotalApps = %d; want 4", s.TotalApps)
	}
	if s.WeakCompetitors != 2 {
		t.Errorf("WeakCompetitors = %d; want 2 (unrated rows do not count)", s.WeakCompetitors)
	}
	if s.AvgInstalls != 40000 {
		t.Errorf("AvgInstalls = %v; want 40000", s.AvgInstalls)
	}
	wantRating := (3.5 + 3.8 + 4.6) / 3
	if diff := s.AvgRating - wantRating; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("AvgRating = %v; want %v (unrated rows skipped)", s.AvgRating, wantRating)
	}
}

func TestFindOpportunitiesDedup(t *testing.T) {
	// One app matches both the quality-gap and zombie criteria; it must
	// appear once, tagged by the earlier criterion.
	table := models.MarketTable{
		{
			App:     appWith("com.both", 3.9, ""),
			Metrics: models.AppMetrics{Installs: 50000, IsZombie: true, ASOScore: 90},
		},
		{
			App:     appWith("com.zombie", 4.8, ""),
			Metrics: models.AppMetrics{Installs: 100, IsZombie: true, ASOScore: 90},
		},
		{
			App:     appWith("com.weakaso", 4.8, ""),
			Metrics: models.AppMetrics{Installs: 100, ASOScore: 30},
		},
		{
			App:     appWith("com.fine", 4.8, ""),
			Metrics: models.AppMetrics{Installs: 100, ASOScore: 90},
		},
	}

	targets := FindOpportunities(table)
	if len(targets) != 3 {
		t.Fatalf("targets = %d; want 3", len(targets))
	}
	if targets[0].App.AppID != "com.both" || targets[0].Tag != TagQualityGap {
		t.Errorf("first target = %s/%q; want com.both tagged %q",
			targets[0].App.AppID, targets[0].Tag, TagQualityGap)
	}
	for _, target := range targets[1:] {
		if target.App.AppID == "com.both" {
			t.Error("com.both listed twice; dedup by app id failed")
		}
	}
}
