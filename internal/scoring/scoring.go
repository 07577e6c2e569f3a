package scoring

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/8shagrid/app-scout/internal/models"
	"github.com/8shagrid/app-scout/internal/normalize"
)

// FreeRevenueLabel is reported for apps without an upfront price.
const FreeRevenueLabel = "Free / Ad-supported"

// DefaultSensitivePermissionKeywords flag permissions a privacy-conscious
// alternative could position against.
var DefaultSensitivePermissionKeywords = []string{
	"location", "contacts", "sms", "calendar", "camera", "microphone",
}

// ASOScore rates listing quality from 0 to 100. Each weak spot is an
// independent deduction: short title -20, thin description -20, fewer than
// three screenshots -20, no promo video -10.
func ASOScore(app models.AppRecord) int {
	score := 100
	if len(app.Title) < 10 {
		score -= 20
	}
	if len(app.Description) < 500 {
		score -= 20
	}
	if len(app.Screenshots) < 3 {
		score -= 20
	}
	if app.VideoURL == "" {
		score -= 10
	}
	if score < 0 {
		score = 0
	}
	return score
}

// TierFor buckets an app by install base. Boundaries are strict: exactly
// 1,000,000 installs is still Stable, not Giant.
func TierFor(installs int) models.Tier {
	switch {
	case installs > 1000000:
		return models.TierGiant
	case installs > 100000:
		return models.TierStable
	case installs > 10000:
		return models.TierRising
	default:
		return models.TierNewcomer
	}
}

// Engagement is installs per review, a rough proxy for how vocal the user
// base is. Zero reviews yields zero rather than a division blowup.
func Engagement(installs, reviewsCount int) float64 {
	if reviewsCount <= 0 {
		return 0
	}
	return float64(installs) / float64(reviewsCount)
}

// EstimatedRevenue labels the upfront-purchase revenue: grouped integer in
// the listing currency for paid apps, a fixed label otherwise.
func EstimatedRevenue(installs int, price float64, currency string) string {
	if price <= 0 {
		return FreeRevenueLabel
	}
	total := int64(math.Round(float64(installs) * price))
	return fmt.Sprintf("%s %s", currency, humanize.Comma(total))
}

// SensitivePermissions returns the declared permissions matching any of the
// given keywords (case-insensitive substring).
func SensitivePermissions(app models.AppRecord, keywords []string) []string {
	var flagged []string
	for _, p := range app.Permissions {
		lower := strings.ToLower(p.Permission)
		for _, k := range keywords {
			if k != "" && strings.Contains(lower, k) {
				flagged = append(flagged, p.Permission)
				break
			}
		}
	}
	return flagged
}

// Metrics derives the full per-app metric set from one record.
func Metrics(app models.AppRecord, now time.Time, sizeVariesMarkers []string) models.AppMetrics {
	installs := normalize.ParseInstalls(app.InstallsRaw)
	return models.AppMetrics{
		Installs:         installs,
		Engagement:       Engagement(installs, app.ReviewsCount),
		SizeMB:           normalize.ParseSizeWith(app.SizeRaw, sizeVariesMarkers),
		IsZombie:         normalize.IsZombie(app.UpdatedAt, now),
		ASOScore:         ASOScore(app),
		Tier:             TierFor(installs),
		EstimatedRevenue: EstimatedRevenue(installs, app.Price, app.Currency),
	}
}
