package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ZombieAge is how long a listing may go without an update before it is
// considered abandoned.
const ZombieAge = 730 * 24 * time.Hour

// DefaultVariesMarkers are the store's "Varies with device" size labels in
// the supported locales. Overridable via the locale text config.
var DefaultVariesMarkers = []string{"Varies", "Bervariasi"}

var sizeNumber = regexp.MustCompile(`(\d+[.,]?\d*)`)

// ParseInstalls folds a free-text install count ("1,000,000+", "10.000+")
// down to its digits. Anything without digits parses to 0.
func ParseInstalls(raw string) int {
	n := 0
	for _, ch := range raw {
		if ch >= '0' && ch <= '9' {
			n = n*10 + int(ch-'0')
		}
	}
	return n
}

// ParseSize converts a raw size string to megabytes using the default
// "varies with device" markers.
func ParseSize(raw string) float64 {
	return ParseSizeWith(raw, DefaultVariesMarkers)
}

// ParseSizeWith converts a raw size string ("15M", "1.2G", "500k") to
// megabytes. Empty input, a varies-marker hit, or unparseable text all
// yield 0; this never fails.
func ParseSizeWith(raw string, variesMarkers []string) float64 {
	if raw == "" {
		return 0
	}
	for _, marker := range variesMarkers {
		if marker != "" && strings.Contains(raw, marker) {
			return 0
		}
	}

	match := sizeNumber.FindString(raw)
	if match == "" {
		return 0
	}

	val, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", "."), 64)
	if err != nil {
		return 0
	}

	// Unit checks run in sequence, mirroring how the store formats sizes:
	// a gigabyte marker scales up, a kilobyte marker scales down.
	if strings.Contains(strings.ToUpper(raw), "G") {
		val *= 1024
	}
	if strings.Contains(strings.ToLower(raw), "k") {
		val /= 1024
	}
	return val
}

// IsZombie reports whether the listing has gone more than two years
// without an update. An unknown update time is not a zombie.
func IsZombie(updatedAt *time.Time, now time.Time) bool {
	if updatedAt == nil {
		return false
	}
	return now.Sub(*updatedAt) > ZombieAge
}
