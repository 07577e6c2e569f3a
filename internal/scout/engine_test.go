package scout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/8shagrid/app-scout/internal/cache"
	"github.com/8shagrid/app-scout/internal/models"
	"github.com/8shagrid/app-scout/internal/playstore"
	"github.com/8shagrid/app-scout/internal/reviewintel"
	"github.com/8shagrid/app-scout/internal/strategy"
	"github.com/8shagrid/app-scout/pkg/config"
)

type stubProvider struct {
	searches int
	details  map[string]models.AppRecord
	reviews  map[string][]models.Review
}

func (s *stubProvider) Search(_ context.Context, keyword, _, _ string, _ int) ([]playstore.SearchResult, error) {
	s.searches++
	var hits []playstore.SearchResult
	for id := range s.details {
		hits = append(hits, playstore.SearchResult{AppID: id})
	}
	return hits, nil
}

func (s *stubProvider) FetchDetail(_ context.Context, appID, _, _ string) (models.AppRecord, error) {
	app, ok := s.details[appID]
	if !ok {
		return models.AppRecord{}, playstore.ErrNotFound
	}
	return app, nil
}

func (s *stubProvider) FetchReviews(_ context.Context, appID, _, _ string, _ int) ([]models.Review, error) {
	return s.reviews[appID], nil
}

func (s *stubProvider) Suggest(context.Context, string, string, string) ([]string, error) {
	return nil, playstore.ErrSuggestUnsupported
}

func testEngine(p playstore.Provider) *Engine {
	cfg := &config.Config{
		Provider: config.ProviderConfig{
			DefaultLocale: "id",
			DefaultRegion: "id",
			SearchLimit:   20,
			ReviewCount:   300,
		},
		Cache: config.CacheConfig{TTLSeconds: 60},
	}
	mem := cache.NewMemory()
	advisor := strategy.NewAdvisor(config.LLMConfig{Enabled: false})
	table, _ := reviewintel.LoadTextTable("")
	return NewEngine(p, mem, advisor, table, cfg)
}

func record(id, title string, rating float64, installs string) models.AppRecord {
	return models.AppRecord{
		AppID:       id,
		Title:       title,
		InstallsRaw: installs,
		Score:       models.OptionalFloat{Value: rating, Valid: rating > 0},
	}
}

func TestAnalyzeMarket(t *testing.T) {
	provider := &stubProvider{
		details: map[string]models.AppRecord{
			"com.a": record("com.a", "Meditation Timer Pro", 3.5, "100,000+"),
			"com.b": record("com.b", "Calm Nights", 3.6, "50,000+"),
			"com.c": record("com.c", "Sleep Well App", 3.7, "200,000+"),
		},
	}

	analysis, err := testEngine(provider).AnalyzeMarket(context.Background(), MarketRequest{
		Keywords: []string{"meditasi"},
	})
	if err != nil {
		t.Fatalf("AnalyzeMarket: %v", err)
	}
	if analysis.Summary.TotalApps != 3 {
		t.Errorf("TotalApps = %d; want 3", analysis.Summary.TotalApps)
	}
	// Three sub-4.0 apps with a six-figure average install base.
	if analysis.Verdict.Label != "High Potential" {
		t.Errorf("Verdict = %q; want High Potential", analysis.Verdict.Label)
	}
	if len(analysis.Opportunities) == 0 {
		t.Error("expected opportunity targets in a weak market")
	}
}

func TestAnalyzeMarketEmpty(t *testing.T) {
	provider := &stubProvider{}
	analysis, err := testEngine(provider).AnalyzeMarket(context.Background(), MarketRequest{
		Keywords: []string{"meditasi"},
	})
	if !errors.Is(err, ErrNoResults) {
		t.Fatalf("err = %v; want ErrNoResults so callers can map the empty state", err)
	}
	if analysis == nil {
		t.Fatal("empty state must still carry keywords and failures")
	}
	if len(analysis.Keywords) != 1 {
		t.Errorf("keywords = %v; want the searched set", analysis.Keywords)
	}
	if len(analysis.Table) != 0 {
		t.Errorf("table rows = %d; want none", len(analysis.Table))
	}
}

func TestAnalyzeMarketCaching(t *testing.T) {
	provider := &stubProvider{
		details: map[string]models.AppRecord{
			"com.a": record("com.a", "Meditation Timer Pro", 4.5, "100,000+"),
		},
	}
	engine := testEngine(provider)

	req := MarketRequest{Keywords: []string{"meditasi"}}
	if _, err := engine.AnalyzeMarket(context.Background(), req); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first := provider.searches
	if _, err := engine.AnalyzeMarket(context.Background(), req); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if provider.searches != first {
		t.Error("second identical request must be served from cache")
	}
}

func TestAnalyzeCompetitor(t *testing.T) {
	now := time.Now()
	var recent []models.Review
	for i := 0; i < 120; i++ {
		recent = append(recent, models.Review{Score: 4, Content: "ok", At: now.Add(-time.Hour)})
	}

	provider := &stubProvider{
		details: map[string]models.AppRecord{
			"com.hot": record("com.hot", "Hot New App", 4.2, "500,000+"),
		},
		reviews: map[string][]models.Review{"com.hot": recent},
	}

	analysis, err := testEngine(provider).AnalyzeCompetitor(context.Background(), CompetitorRequest{
		AppID: "com.hot",
	})
	if err != nil {
		t.Fatalf("AnalyzeCompetitor: %v", err)
	}
	if analysis.Verdict.Label != "Viral" {
		t.Errorf("Verdict = %q; want Viral at 120 reviews in 30 days", analysis.Verdict.Label)
	}
	if analysis.Analytics.Velocity != 120 {
		t.Errorf("Velocity = %d; want 120", analysis.Analytics.Velocity)
	}
	if analysis.Strategy.Narrative == "" {
		t.Error("expected a strategy narrative")
	}
}

func TestAnalyzeCompetitorUnknownApp(t *testing.T) {
	provider := &stubProvider{}
	_, err := testEngine(provider).AnalyzeCompetitor(context.Background(), CompetitorRequest{
		AppID: "com.ghost",
	})
	if err == nil {
		t.Fatal("unknown app must propagate the provider error")
	}
}
