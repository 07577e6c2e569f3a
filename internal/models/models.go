package models

import "time"

// OptionalFloat distinguishes "no rating yet" from a genuine zero.
type OptionalFloat struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

type Permission struct {
	Permission string `json:"permission"`
}

// AppRecord is one store listing as fetched from the provider. Immutable
// once fetched; owned by the caller of the fetch.
type AppRecord struct {
	AppID        string        `json:"app_id"`
	StoreURL     string        `json:"store_url"`
	Title        string        `json:"title"`
	Developer    string        `json:"developer"`
	Summary      string        `json:"summary"`
	IconURL      string        `json:"icon_url"`
	Score        OptionalFloat `json:"score"`
	InstallsRaw  string        `json:"installs_raw"`
	ReviewsCount int           `json:"reviews_count"`
	Price        float64       `json:"price"`
	Currency     string        `json:"currency"`
	Description  string        `json:"description"`
	Screenshots  []string      `json:"screenshots"`
	VideoURL     string        `json:"video_url"`
	AdSupported  bool          `json:"ad_supported"`
	OffersIAP    bool          `json:"offers_iap"`
	SizeRaw      string        `json:"size_raw"`
	UpdatedAt    *time.Time    `json:"updated_at"`
	Permissions  []Permission  `json:"permissions"`
}

type Tier string

const (
	TierNewcomer Tier = "Newcomer"
	TierRising   Tier = "Rising"
	TierStable   Tier = "Stable"
	TierGiant    Tier = "Giant"
)

// AppMetrics is derived 1:1 from an AppRecord by the normalize and scoring
// packages. Pure function of the record, no external state.
type AppMetrics struct {
	Installs         int     `json:"installs"`
	Engagement       float64 `json:"engagement"`
	SizeMB           float64 `json:"size_mb"`
	IsZombie         bool    `json:"is_zombie"`
	ASOScore         int     `json:"aso_score"`
	Tier             Tier    `json:"tier"`
	EstimatedRevenue string  `json:"estimated_revenue"`
}

// MarketRow is one (keyword, app) pair in a market table. The same app may
// appear under several keywords.
type MarketRow struct {
	Keyword string     `json:"keyword"`
	App     AppRecord  `json:"app"`
	Metrics AppMetrics `json:"metrics"`
}

type MarketTable []MarketRow

// FetchFailure records one skipped item from a best-effort batch.
type FetchFailure struct {
	Keyword string `json:"keyword,omitempty"`
	AppID   string `json:"app_id,omitempty"`
	Reason  string `json:"reason"`
}

type MarketSummary struct {
	TotalApps       int     `json:"total_apps"`
	AvgRating       float64 `json:"avg_rating"`
	AvgInstalls     float64 `json:"avg_installs"`
	WeakCompetitors int     `json:"weak_competitors"`
}

// Review is one user review, newest-first in fetched sequences.
type Review struct {
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

type Severity string

const (
	SeverityGood    Severity = "good"
	SeverityWarn    Severity = "warn"
	SeverityBad     Severity = "bad"
	SeverityNeutral Severity = "neutral"
)

// Decision is one verdict from the rule engine.
type Decision struct {
	Label     string   `json:"label"`
	Severity  Severity `json:"severity"`
	Rationale string   `json:"rationale"`
	IconTag   string   `json:"icon_tag"`
}

// Opportunity is one target app selected by the opportunity finder,
// tagged with the first criterion it matched.
type Opportunity struct {
	App     AppRecord  `json:"app"`
	Metrics AppMetrics `json:"metrics"`
	Tag     string     `json:"tag"`
}

type DailySentiment struct {
	Date     string  `json:"date"`
	AvgScore float64 `json:"avg_score"`
}

type ComplaintCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type BigramCount struct {
	Bigram string `json:"bigram"`
	Count  int    `json:"count"`
}

type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

type ReviewAnalytics struct {
	Velocity           int              `json:"velocity"`
	HypeStatus         string           `json:"hype_status"`
	DailySentiment     []DailySentiment `json:"daily_sentiment"`
	RatingDistribution map[int]int      `json:"rating_distribution"`
	NegativeCount      int              `json:"negative_count"`
	Clusters           []ComplaintCount `json:"clusters"`
	TopPainPoint       string           `json:"top_pain_point"`
	TopWish            string           `json:"top_wish"`
	TopBigrams         []BigramCount    `json:"top_bigrams"`
	TopTerms           []TermCount      `json:"top_terms"`
}

// StrategyBrief is the recommended counter-positioning against one
// competitor, assembled from review analytics and the app profile.
type StrategyBrief struct {
	PainPoint string `json:"pain_point"`
	TopWish   string `json:"top_wish"`
	Branding  string `json:"branding"`
	Narrative string `json:"narrative"`
}
