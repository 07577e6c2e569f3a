// Package reviewintel derives signals from a snapshot of one app's reviews:
// review velocity, daily sentiment, complaint clusters, wishlist phrases,
// and frequent bigrams from negative-review text.
package reviewintel

import (
	"regexp"
	"sort"
	"strings"
	"time"

	prose "github.com/jdkato/prose/v2"

	"github.com/8shagrid/app-scout/internal/models"
)

const (
	// NegativeThreshold marks a review as a complaint.
	NegativeThreshold = 2
	// VelocityWindow is the trailing window for review velocity.
	VelocityWindow = 30 * 24 * time.Hour

	topBigramCount = 5
	topTermCount   = 15
	wishMaxRunes   = 50
)

// Word tokens cover Unicode letters and digits so accented and non-Latin
// review text stays in one piece.
var wordToken = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Velocity counts reviews submitted within the trailing 30-day window.
func Velocity(reviews []models.Review, now time.Time) int {
	cutoff := now.Add(-VelocityWindow)
	count := 0
	for _, r := range reviews {
		if r.At.After(cutoff) {
			count++
		}
	}
	return count
}

// HypeStatus labels the acquisition momentum implied by velocity.
func HypeStatus(velocity int) string {
	switch {
	case velocity > 50:
		return "Viral"
	case velocity > 10:
		return "Stable"
	default:
		return "Quiet"
	}
}

// DailySentimentTrend groups reviews by UTC calendar date and averages the
// score per day, ordered chronologically.
func DailySentimentTrend(reviews []models.Review) []models.DailySentiment {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, r := range reviews {
		day := r.At.UTC().Format("2006-01-02")
		sums[day] += float64(r.Score)
		counts[day]++
	}

	days := make([]string, 0, len(sums))
	for day := range sums {
		days = append(days, day)
	}
	sort.Strings(days)

	trend := make([]models.DailySentiment, 0, len(days))
	for _, day := range days {
		trend = append(trend, models.DailySentiment{
			Date:     day,
			AvgScore: sums[day] / float64(counts[day]),
		})
	}
	return trend
}

// Negative filters reviews with a score at or below the complaint threshold.
func Negative(reviews []models.Review) []models.Review {
	var neg []models.Review
	for _, r := range reviews {
		if r.Score <= NegativeThreshold {
			neg = append(neg, r)
		}
	}
	return neg
}

// RatingDistribution counts reviews per star value.
func RatingDistribution(reviews []models.Review) map[int]int {
	dist := make(map[int]int)
	for _, r := range reviews {
		dist[r.Score]++
	}
	return dist
}

// SearchReviews returns the reviews whose content contains the query,
// case-insensitively. An empty query matches nothing.
func SearchReviews(reviews []models.Review, query string) []models.Review {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var matched []models.Review
	for _, r := range reviews {
		if strings.Contains(strings.ToLower(r.Content), query) {
			matched = append(matched, r)
		}
	}
	return matched
}

// ClusterComplaints counts, per category, the negative reviews containing
// at least one of the category's keywords. A review may land in several
// categories but counts once per category.
func ClusterComplaints(negative []models.Review, categories []Category) []models.ComplaintCount {
	counts := make([]models.ComplaintCount, 0, len(categories))
	for _, cat := range categories {
		count := 0
		for _, r := range negative {
			content := strings.ToLower(r.Content)
			for _, k := range cat.Keywords {
				if k != "" && strings.Contains(content, strings.ToLower(k)) {
					count++
					break
				}
			}
		}
		counts = append(counts, models.ComplaintCount{Category: cat.Category, Count: count})
	}
	return counts
}

// TopPainPoint picks the category with the highest complaint count. Ties go
// to the earlier category; all-zero counts yield an empty string.
func TopPainPoint(counts []models.ComplaintCount) string {
	top := ""
	max := 0
	for _, c := range counts {
		if c.Count > max {
			max = c.Count
			top = c.Category
		}
	}
	return top
}

// TopWish returns the first negative review that reads like a feature
// request, truncated to 50 characters, or the configured fallback phrase.
func TopWish(negative []models.Review, patterns []string, fallback string) string {
	re := wishRegexp(patterns)
	if re != nil {
		for _, r := range negative {
			if re.MatchString(r.Content) {
				return truncateRunes(r.Content, wishMaxRunes)
			}
		}
	}
	return fallback
}

func wishRegexp(patterns []string) *regexp.Regexp {
	quoted := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p != "" {
			quoted = append(quoted, regexp.QuoteMeta(p))
		}
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile("(?i)(" + strings.Join(quoted, "|") + ")")
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// TopBigrams extracts adjacent word pairs from the concatenated negative
// text, lowercased and split on non-word characters, and returns the most
// frequent ones. Ties keep first-encountered order.
func TopBigrams(negative []models.Review, limit int) []models.BigramCount {
	words := wordToken.FindAllString(strings.ToLower(joinContents(negative)), -1)

	counts := map[string]int{}
	order := map[string]int{}
	for i := 0; i+1 < len(words); i++ {
		bg := words[i] + " " + words[i+1]
		if _, seen := counts[bg]; !seen {
			order[bg] = len(order)
		}
		counts[bg]++
	}

	list := make([]models.BigramCount, 0, len(counts))
	for bg, count := range counts {
		list = append(list, models.BigramCount{Bigram: bg, Count: count})
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Count != list[j].Count {
			return list[i].Count > list[j].Count
		}
		return order[list[i].Bigram] < order[list[j].Bigram]
	})

	if len(list) > limit {
		list = list[:limit]
	}
	return list
}

// TopTerms tokenizes the negative-review text and counts word frequency
// with stopwords removed: the data behind the complaint word cloud.
func TopTerms(negative []models.Review, stopwords []string, limit int) []models.TermCount {
	text := joinContents(negative)
	if text == "" {
		return nil
	}

	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil
	}

	stop := make(map[string]bool, len(stopwords))
	for _, w := range stopwords {
		stop[strings.ToLower(w)] = true
	}

	counts := map[string]int{}
	order := map[string]int{}
	for _, tok := range doc.Tokens() {
		term := strings.ToLower(tok.Text)
		if len(term) < 3 || stop[term] || !isWordTerm(term) {
			continue
		}
		if _, seen := counts[term]; !seen {
			order[term] = len(order)
		}
		counts[term]++
	}

	list := make([]models.TermCount, 0, len(counts))
	for term, count := range counts {
		list = append(list, models.TermCount{Term: term, Count: count})
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Count != list[j].Count {
			return list[i].Count > list[j].Count
		}
		return order[list[i].Term] < order[list[j].Term]
	})

	if len(list) > limit {
		list = list[:limit]
	}
	return list
}

func isWordTerm(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '\'' || r == '-' || r > 127) {
			return false
		}
	}
	return true
}

func joinContents(reviews []models.Review) string {
	parts := make([]string, 0, len(reviews))
	for _, r := range reviews {
		parts = append(parts, r.Content)
	}
	return strings.Join(parts, " ")
}

// Analyze runs the whole review pipeline over one snapshot. The complaint
// cluster, wishlist, bigram, and term paths only run when negative reviews
// exist; with none, those fields stay empty rather than falling back to
// the full review set.
func Analyze(reviews []models.Review, now time.Time, text TextConfig) models.ReviewAnalytics {
	ra := models.ReviewAnalytics{
		RatingDistribution: RatingDistribution(reviews),
	}

	ra.Velocity = Velocity(reviews, now)
	ra.HypeStatus = HypeStatus(ra.Velocity)
	ra.DailySentiment = DailySentimentTrend(reviews)

	negative := Negative(reviews)
	ra.NegativeCount = len(negative)
	if len(negative) == 0 {
		return ra
	}

	ra.Clusters = ClusterComplaints(negative, text.Clusters)
	ra.TopPainPoint = TopPainPoint(ra.Clusters)
	ra.TopWish = TopWish(negative, text.WishlistPatterns, text.WishFallback)
	ra.TopBigrams = TopBigrams(negative, topBigramCount)
	ra.TopTerms = TopTerms(negative, text.Stopwords, topTermCount)

	return ra
}
