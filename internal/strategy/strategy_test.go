package strategy

import (
	"context"
	"strings"
	"testing"

	"github.com/8shagrid/app-scout/internal/models"
	"github.com/8shagrid/app-scout/pkg/config"
)

func disabledAdvisor() *Advisor {
	return NewAdvisor(config.LLMConfig{Enabled: false})
}

func TestBriefUsesPainPointAndWish(t *testing.T) {
	app := models.AppRecord{Title: "Sleepy Sounds"}
	ra := models.ReviewAnalytics{
		TopPainPoint: "Performance",
		TopWish:      "please add offline mode",
	}

	brief := disabledAdvisor().Brief(context.Background(), app, ra)
	if brief.PainPoint != "Performance" {
		t.Errorf("PainPoint = %q", brief.PainPoint)
	}
	if brief.TopWish != "please add offline mode" {
		t.Errorf("TopWish = %q", brief.TopWish)
	}
	if !strings.Contains(brief.Narrative, "Sleepy Sounds") {
		t.Errorf("narrative must name the competitor, got %q", brief.Narrative)
	}
}

func TestBriefPainPointFallback(t *testing.T) {
	brief := disabledAdvisor().Brief(context.Background(), models.AppRecord{Title: "X"}, models.ReviewAnalytics{})
	if brief.PainPoint != "UX" {
		t.Errorf("PainPoint = %q; want the UX fallback", brief.PainPoint)
	}
}

func TestBriefBranding(t *testing.T) {
	plain := models.AppRecord{Title: "X"}
	brief := disabledAdvisor().Brief(context.Background(), plain, models.ReviewAnalytics{})
	if !strings.Contains(brief.Branding, "lightweight") {
		t.Errorf("Branding = %q; want lightweight angle without sensitive permissions", brief.Branding)
	}

	snoopy := models.AppRecord{
		Title: "X",
		Permissions: []models.Permission{
			{Permission: "approximate location (network-based)"},
		},
	}
	brief = disabledAdvisor().Brief(context.Background(), snoopy, models.ReviewAnalytics{})
	if !strings.Contains(brief.Branding, "privacy") {
		t.Errorf("Branding = %q; want privacy angle against sensitive permissions", brief.Branding)
	}
}
