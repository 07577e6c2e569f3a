// Package decision holds the rule ladders that turn aggregate signals into
// labeled verdicts. Rules are ordered data, evaluated first-match-wins, so
// priority is explicit and each rule is testable on its own.
package decision

import (
	"fmt"

	"github.com/8shagrid/app-scout/internal/models"
)

// MarketSignal is the aggregate view of one market table run. The engine
// assumes a non-empty table; callers guard the empty case.
type MarketSignal struct {
	WeakCompetitors int
	AvgInstalls     float64
	AvgRating       float64
}

// CompetitorSignal is one app plus its trailing 30-day review velocity.
type CompetitorSignal struct {
	Rating   float64
	Installs int
	Velocity int
}

type marketRule struct {
	when   func(MarketSignal) bool
	decide func(MarketSignal) models.Decision
}

type competitorRule struct {
	when   func(CompetitorSignal) bool
	decide func(CompetitorSignal) models.Decision
}

var marketRules = []marketRule{
	{
		when: func(s MarketSignal) bool { return s.WeakCompetitors >= 3 && s.AvgInstalls > 10000 },
		decide: func(s MarketSignal) models.Decision {
			return models.Decision{
				Label:    "High Potential",
				Severity: models.SeverityGood,
				Rationale: fmt.Sprintf(
					"Found %d apps with real demand but a rating under 4.0; the market is hungry for a better alternative.",
					s.WeakCompetitors),
				IconTag: "check_circle",
			}
		},
	},
	{
		when: func(s MarketSignal) bool { return s.AvgInstalls > 500000 && s.AvgRating > 4.2 },
		decide: func(s MarketSignal) models.Decision {
			return models.Decision{
				Label:    "Saturated",
				Severity: models.SeverityWarn,
				Rationale: fmt.Sprintf(
					"Strong incumbents dominate (avg %.0f installs at %.1f stars); without a breakthrough feature this will be an uphill fight.",
					s.AvgInstalls, s.AvgRating),
				IconTag: "warning",
			}
		},
	},
	{
		when: func(s MarketSignal) bool { return s.AvgInstalls < 5000 },
		decide: func(s MarketSignal) models.Decision {
			return models.Decision{
				Label:    "Low Demand",
				Severity: models.SeverityBad,
				Rationale: fmt.Sprintf(
					"Average install base is only %.0f; the keywords may be too narrow or the audience simply is not there.",
					s.AvgInstalls),
				IconTag: "cancel",
			}
		},
	},
	{
		when: func(MarketSignal) bool { return true },
		decide: func(s MarketSignal) models.Decision {
			return models.Decision{
				Label:     "Neutral",
				Severity:  models.SeverityNeutral,
				Rationale: "Some opportunity, nothing striking. Dig into specific feature gaps before committing.",
				IconTag:   "info",
			}
		},
	},
}

var competitorRules = []competitorRule{
	{
		when: func(s CompetitorSignal) bool { return s.Rating < 3.8 && s.Installs > 50000 },
		decide: func(s CompetitorSignal) models.Decision {
			return models.Decision{
				Label:    "Vulnerable",
				Severity: models.SeverityGood,
				Rationale: fmt.Sprintf(
					"A %.1f rating across %d installs means many unhappy users with nowhere to go. Enter with a more stable take.",
					s.Rating, s.Installs),
				IconTag: "gavel",
			}
		},
	},
	{
		when: func(s CompetitorSignal) bool { return s.Velocity > 100 },
		decide: func(s CompetitorSignal) models.Decision {
			return models.Decision{
				Label:    "Viral",
				Severity: models.SeverityWarn,
				Rationale: fmt.Sprintf(
					"%d reviews in the last 30 days: this app is riding a wave. Flank with a lite or alternative version instead of going head-on.",
					s.Velocity),
				IconTag: "trending_up",
			}
		},
	},
	{
		when: func(s CompetitorSignal) bool { return s.Rating > 4.5 && s.Installs > 1000000 },
		decide: func(s CompetitorSignal) models.Decision {
			return models.Decision{
				Label:    "Dominant Leader",
				Severity: models.SeverityBad,
				Rationale: fmt.Sprintf(
					"A satisfied user base (%.1f stars, %d installs) is expensive to pry loose. Avoid direct competition.",
					s.Rating, s.Installs),
				IconTag: "shield",
			}
		},
	},
	{
		when: func(CompetitorSignal) bool { return true },
		decide: func(CompetitorSignal) models.Decision {
			return models.Decision{
				Label:     "Monitor",
				Severity:  models.SeverityNeutral,
				Rationale: "A standard competitor with no strong signal either way. Look for specific feature gaps they have left open.",
				IconTag:   "visibility",
			}
		},
	},
}

// ForMarket classifies one market run. The final rule always matches.
func ForMarket(s MarketSignal) models.Decision {
	for _, r := range marketRules {
		if r.when(s) {
			return r.decide(s)
		}
	}
	return models.Decision{}
}

// ForCompetitor classifies one competitor app.
func ForCompetitor(s CompetitorSignal) models.Decision {
	for _, r := range competitorRules {
		if r.when(s) {
			return r.decide(s)
		}
	}
	return models.Decision{}
}
