package scoring

import (
	"strings"
	"testing"
	"time"

	"github.com/8shagrid/app-scout/internal/models"
)

func TestASOScoreAllDeductions(t *testing.T) {
	app := models.AppRecord{
		Title:       "Short",
		Description: "thin",
		Screenshots: []string{"one.png"},
	}
	if got := ASOScore(app); got != 30 {
		t.Errorf("ASOScore = %d; want 30", got)
	}
}

func TestASOScoreFullListing(t *testing.T) {
	app := models.AppRecord{
		Title:       "A Properly Long Title",
		Description: strings.Repeat("x", 600),
		Screenshots: []string{"1", "2", "3", "4"},
		VideoURL:    "https://youtube.com/watch?v=abc",
	}
	if got := ASOScore(app); got != 100 {
		t.Errorf("ASOScore = %d; want 100", got)
	}
}

func TestTierBoundaries(t *testing.T) {
	tests := []struct {
		installs int
		want     models.Tier
	}{
		{1000001, models.TierGiant},
		{1000000, models.TierStable},
		{100001, models.TierStable},
		{100000, models.TierRising},
		{10001, models.TierRising},
		{10000, models.TierNewcomer},
		{0, models.TierNewcomer},
	}

	for _, tt := range tests {
		if got := TierFor(tt.installs); got != tt.want {
			t.Errorf("TierFor(%d) = %s; want %s", tt.installs, got, tt.want)
		}
	}
}

func TestEngagement(t *testing.T) {
	if got := Engagement(1000, 100); got != 10 {
		t.Errorf("Engagement = %v; want 10", got)
	}
	if got := Engagement(1000, 0); got != 0 {
		t.Errorf("Engagement with zero reviews = %v; want 0", got)
	}
}

func TestEstimatedRevenue(t *testing.T) {
	if got := EstimatedRevenue(10000, 2.5, "USD"); got != "USD 25,000" {
		t.Errorf("EstimatedRevenue = %q; want %q", got, "USD 25,000")
	}
	if got := EstimatedRevenue(10000, 0, "USD"); got != FreeRevenueLabel {
		t.Errorf("EstimatedRevenue free = %q; want %q", got, FreeRevenueLabel)
	}
}

func TestSensitivePermissions(t *testing.T) {
	app := models.AppRecord{
		Permissions: []models.Permission{
			{Permission: "approximate location (network-based)"},
			{Permission: "read your contacts"},
			{Permission: "full network access"},
		},
	}
	flagged := SensitivePermissions(app, DefaultSensitivePermissionKeywords)
	if len(flagged) != 2 {
		t.Fatalf("flagged %d permissions; want 2 (%v)", len(flagged), flagged)
	}
}

func TestMetricsDerivation(t *testing.T) {
	updated := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	app := models.AppRecord{
		Title:        "Short",
		InstallsRaw:  "50,000+",
		ReviewsCount: 500,
		SizeRaw:      "15M",
		UpdatedAt:    &updated,
	}

	m := Metrics(app, now, []string{"Varies", "Bervariasi"})
	if m.Installs != 50000 {
		t.Errorf("Installs = %d; want 50000", m.Installs)
	}
	if m.Engagement != 100 {
		t.Errorf("Engagement = %v; want 100", m.Engagement)
	}
	if m.SizeMB != 15 {
		t.Errorf("SizeMB = %v; want 15", m.SizeMB)
	}
	if !m.IsZombie {
		t.Error("four years without update should be a zombie")
	}
	if m.Tier != models.TierRising {
		t.Errorf("Tier = %s; want %s", m.Tier, models.TierRising)
	}
	if m.EstimatedRevenue != FreeRevenueLabel {
		t.Errorf("EstimatedRevenue = %q; want free label", m.EstimatedRevenue)
	}
}
