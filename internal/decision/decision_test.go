package decision

import (
	"testing"

	"github.com/8shagrid/app-scout/internal/models"
)

func TestMarketDecisions(t *testing.T) {
	tests := []struct {
		name         string
		signal       MarketSignal
		wantLabel    string
		wantSeverity models.Severity
	}{
		{
			name:         "weak incumbents with demand",
			signal:       MarketSignal{WeakCompetitors: 3, AvgInstalls: 50000, AvgRating: 3.7},
			wantLabel:    "High Potential",
			wantSeverity: models.SeverityGood,
		},
		{
			name:         "strong incumbents",
			signal:       MarketSignal{WeakCompetitors: 0, AvgInstalls: 1000000, AvgRating: 4.5},
			wantLabel:    "Saturated",
			wantSeverity: models.SeverityWarn,
		},
		{
			name:         "no audience",
			signal:       MarketSignal{WeakCompetitors: 0, AvgInstalls: 2000, AvgRating: 4.1},
			wantLabel:    "Low Demand",
			wantSeverity: models.SeverityBad,
		},
		{
			name:         "nothing striking",
			signal:       MarketSignal{WeakCompetitors: 1, AvgInstalls: 50000, AvgRating: 4.1},
			wantLabel:    "Neutral",
			wantSeverity: models.SeverityNeutral,
		},
		{
			// High-potential outranks saturation when both match.
			name:         "rule order is priority",
			signal:       MarketSignal{WeakCompetitors: 4, AvgInstalls: 900000, AvgRating: 4.3},
			wantLabel:    "High Potential",
			wantSeverity: models.SeverityGood,
		},
	}

	for _, tt := range tests {
		got := ForMarket(tt.signal)
		if got.Label != tt.wantLabel {
			t.Errorf("%s: label = %q; want %q", tt.name, got.Label, tt.wantLabel)
		}
		if got.Severity != tt.wantSeverity {
			t.Errorf("%s: severity = %q; want %q", tt.name, got.Severity, tt.wantSeverity)
		}
		if got.Rationale == "" || got.IconTag == "" {
			t.Errorf("%s: rationale and icon tag must be populated", tt.name)
		}
	}
}

func TestCompetitorDecisions(t *testing.T) {
	tests := []struct {
		name      string
		signal    CompetitorSignal
		wantLabel string
	}{
		{"weak incumbent", CompetitorSignal{Rating: 3.5, Installs: 60000, Velocity: 5}, "Vulnerable"},
		{"riding a wave", CompetitorSignal{Rating: 4.0, Installs: 20000, Velocity: 150}, "Viral"},
		{"market king", CompetitorSignal{Rating: 4.6, Installs: 2000000, Velocity: 5}, "Dominant Leader"},
		{"no signal", CompetitorSignal{Rating: 4.0, Installs: 20000, Velocity: 5}, "Monitor"},
	}

	for _, tt := range tests {
		got := ForCompetitor(tt.signal)
		if got.Label != tt.wantLabel {
			t.Errorf("%s: label = %q; want %q", tt.name, got.Label, tt.wantLabel)
		}
	}
}

func TestCompetitorVulnerableBeatsViral(t *testing.T) {
	got := ForCompetitor(CompetitorSignal{Rating: 3.5, Installs: 60000, Velocity: 200})
	if got.Label != "Vulnerable" {
		t.Errorf("label = %q; want Vulnerable (earlier rule wins)", got.Label)
	}
}
