package playstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/8shagrid/app-scout/internal/metrics"
	"github.com/8shagrid/app-scout/internal/models"
	"github.com/8shagrid/app-scout/pkg/logger"
	"github.com/8shagrid/app-scout/pkg/retry"
)

const (
	playBaseURL    = "https://play.google.com"
	suggestURL     = "https://market.android.com/suggest/SuggRequest"
	reviewsRPCID   = "UsvDTd"
	sortNewest     = 2
	defaultTimeout = 10 * time.Second
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Client scrapes the Google Play web pages and internal endpoints. It is
// the production Provider implementation.
type Client struct {
	httpClient *http.Client
	retryCfg   retry.Config
}

func NewClient(timeoutSec int) *Client {
	timeout := defaultTimeout
	if timeoutSec > 0 {
		timeout = time.Duration(timeoutSec) * time.Second
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.Logger = logger.GetLogger()
	retryCfg.Retryable = func(err error) bool {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			return httpErr.Status >= 500 || httpErr.Status == http.StatusTooManyRequests
		}
		return !errors.Is(err, ErrNotFound)
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		retryCfg:   retryCfg,
	}
}

func (c *Client) Search(ctx context.Context, keyword, locale, region string, limit int) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("q", keyword)
	params.Set("c", "apps")
	params.Set("hl", locale)
	params.Set("gl", region)
	searchURL := fmt.Sprintf("%s/store/search?%s", playBaseURL, params.Encode())

	doc, err := c.fetchDocument(ctx, searchURL)
	recordFetch("search", err)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", keyword, err)
	}

	seen := map[string]bool{}
	var results []SearchResult
	doc.Find(`a[href*="/store/apps/details?id="]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		u, err := url.Parse(href)
		if err != nil {
			return true
		}
		id := u.Query().Get("id")
		if id == "" || seen[id] {
			return true
		}
		seen[id] = true
		results = append(results, SearchResult{AppID: id})
		return limit <= 0 || len(results) < limit
	})

	logger.Debug("Play search parsed",
		zap.String("keyword", keyword),
		zap.Int("results", len(results)),
	)
	return results, nil
}

func (c *Client) FetchDetail(ctx context.Context, appID, locale, region string) (models.AppRecord, error) {
	params := url.Values{}
	params.Set("id", appID)
	params.Set("hl", locale)
	params.Set("gl", region)
	detailURL := fmt.Sprintf("%s/store/apps/details?%s", playBaseURL, params.Encode())

	doc, err := c.fetchDocument(ctx, detailURL)
	recordFetch("detail", err)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound {
			return models.AppRecord{}, fmt.Errorf("detail %s: %w", appID, ErrNotFound)
		}
		return models.AppRecord{}, fmt.Errorf("detail %s: %w", appID, err)
	}

	app := models.AppRecord{
		AppID:    appID,
		StoreURL: detailURL,
	}
	c.applyStructuredData(doc, &app)
	c.applyPageData(doc, &app)

	if app.Title == "" {
		return models.AppRecord{}, fmt.Errorf("detail %s: %w", appID, ErrNotFound)
	}
	return app, nil
}

// ldListing mirrors the application/ld+json blob on a details page.
type ldListing struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Image           string `json:"image"`
	AggregateRating struct {
		RatingValue json.Number `json:"ratingValue"`
		RatingCount json.Number `json:"ratingCount"`
	} `json:"aggregateRating"`
	Offers []struct {
		Price         string `json:"price"`
		PriceCurrency string `json:"priceCurrency"`
	} `json:"offers"`
}

func (c *Client) applyStructuredData(doc *goquery.Document, app *models.AppRecord) {
	raw := doc.Find(`script[type="application/ld+json"]`).First().Text()
	if raw == "" {
		return
	}

	var listing ldListing
	if err := json.Unmarshal([]byte(raw), &listing); err != nil {
		logger.Debug("Structured data parse failed", zap.String("app_id", app.AppID), zap.Error(err))
		return
	}

	app.Title = listing.Name
	app.Description = listing.Description
	app.IconURL = listing.Image

	if v, err := listing.AggregateRating.RatingValue.Float64(); err == nil && v > 0 {
		app.Score = models.OptionalFloat{Value: v, Valid: true}
	}
	if n, err := listing.AggregateRating.RatingCount.Int64(); err == nil {
		app.ReviewsCount = int(n)
	}
	if len(listing.Offers) > 0 {
		fmt.Sscanf(listing.Offers[0].Price, "%f", &app.Price)
		app.Currency = listing.Offers[0].PriceCurrency
	}
}

func (c *Client) applyPageData(doc *goquery.Document, app *models.AppRecord) {
	if app.Title == "" {
		app.Title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	app.Developer = strings.TrimSpace(doc.Find(`a[href*="/store/apps/dev"]`).First().Text())
	if summary, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		app.Summary = strings.TrimSpace(summary)
	}
	if video, ok := doc.Find(`meta[property="og:video"]`).Attr("content"); ok {
		app.VideoURL = video
	}

	doc.Find(`img[alt="Screenshot image"]`).Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("data-src"); ok {
			app.Screenshots = append(app.Screenshots, src)
		} else if src, ok := s.Attr("src"); ok {
			app.Screenshots = append(app.Screenshots, src)
		}
	})

	// The stats strip renders value/label pairs ("10,000,000+" under
	// "Downloads"). Labels are locale-dependent.
	doc.Find("div.wVqUob").Each(func(_ int, s *goquery.Selection) {
		value := strings.TrimSpace(s.Find("div.ClM7O").Text())
		label := strings.ToLower(strings.TrimSpace(s.Find("div.g1rdde").Text()))
		switch {
		case strings.Contains(label, "download") || strings.Contains(label, "unduhan"):
			app.InstallsRaw = value
		case strings.Contains(label, "size") || strings.Contains(label, "ukuran"):
			app.SizeRaw = value
		}
	})

	if updated := strings.TrimSpace(doc.Find("div.xg1aie").First().Text()); updated != "" {
		if t, err := time.Parse("Jan 2, 2006", updated); err == nil {
			app.UpdatedAt = &t
		}
	}

	html, _ := doc.Html()
	app.AdSupported = strings.Contains(html, "Contains ads") || strings.Contains(html, "Mengandung iklan")
	app.OffersIAP = strings.Contains(html, "In-app purchases") || strings.Contains(html, "Pembelian dalam aplikasi")
}

func (c *Client) FetchReviews(ctx context.Context, appID, locale, region string, count int) ([]models.Review, error) {
	if count <= 0 {
		count = 100
	}

	endpoint := fmt.Sprintf("%s/_/PlayStoreUi/data/batchexecute?hl=%s&gl=%s",
		playBaseURL, url.QueryEscape(locale), url.QueryEscape(region))

	rpcArgs := fmt.Sprintf(`[null,null,[2,%d,[%d,null,null]],[%q,7]]`, sortNewest, count, appID)
	envelope, err := json.Marshal([][]interface{}{{
		[]interface{}{reviewsRPCID, rpcArgs, nil, "generic"},
	}})
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("f.req", string(envelope))

	body, err := retry.DoWithResult(ctx, c.retryCfg, func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=UTF-8")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, &HTTPError{Status: resp.StatusCode, URL: endpoint}
		}
		return io.ReadAll(resp.Body)
	})
	recordFetch("reviews", err)
	if err != nil {
		return nil, fmt.Errorf("reviews %s: %w", appID, err)
	}

	reviews := parseReviewEnvelope(body)
	logger.Debug("Reviews fetched",
		zap.String("app_id", appID),
		zap.Int("count", len(reviews)),
	)
	return reviews, nil
}

// parseReviewEnvelope unwraps the batchexecute response: an anti-JSON
// prefix, an outer array, and a JSON-encoded payload string whose first
// element lists the reviews as positional arrays.
func parseReviewEnvelope(body []byte) []models.Review {
	text := string(body)
	if idx := strings.IndexByte(text, '\n'); idx >= 0 && strings.HasPrefix(text, ")]}'") {
		text = text[idx+1:]
	}

	var outer []interface{}
	if err := json.Unmarshal([]byte(text), &outer); err != nil {
		return nil
	}

	payloadStr, ok := nested(outer, 0, 2).(string)
	if !ok || payloadStr == "" {
		return nil
	}

	var payload []interface{}
	if err := json.Unmarshal([]byte(payloadStr), &payload); err != nil {
		return nil
	}

	items, ok := nested(payload, 0).([]interface{})
	if !ok {
		return nil
	}

	var reviews []models.Review
	for _, raw := range items {
		item, ok := raw.([]interface{})
		if !ok {
			continue
		}
		score, ok := nested(item, 2).(float64)
		if !ok {
			continue
		}
		review := models.Review{Score: int(score)}
		if author, ok := nested(item, 1, 0).(string); ok {
			review.Author = author
		}
		if content, ok := nested(item, 4).(string); ok {
			review.Content = content
		}
		if seconds, ok := nested(item, 5, 0).(float64); ok {
			review.At = time.Unix(int64(seconds), 0).UTC()
		}
		reviews = append(reviews, review)
	}
	return reviews
}

// nested walks positional indices through decoded JSON arrays, returning
// nil the moment an index is out of range.
func nested(value interface{}, indices ...int) interface{} {
	current := value
	for _, i := range indices {
		arr, ok := current.([]interface{})
		if !ok || i >= len(arr) {
			return nil
		}
		current = arr[i]
	}
	return current
}

func (c *Client) Suggest(ctx context.Context, keyword, locale, region string) ([]string, error) {
	params := url.Values{}
	params.Set("json", "1")
	params.Set("c", "3")
	params.Set("query", keyword)
	params.Set("hl", locale)
	params.Set("gl", region)

	body, err := retry.DoWithResult(ctx, c.retryCfg, func() ([]byte, error) {
		return c.get(ctx, suggestURL+"?"+params.Encode())
	})
	recordFetch("suggest", err)
	if err != nil {
		return nil, fmt.Errorf("suggest %q: %w", keyword, err)
	}

	var entries []struct {
		S string `json:"s"`
	}
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("suggest %q: %w", keyword, err)
	}

	suggestions := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.S != "" {
			suggestions = append(suggestions, e.S)
		}
	}
	return suggestions, nil
}

func recordFetch(kind string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.StoreFetchTotal.WithLabelValues(kind, status).Inc()
}

func (c *Client) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	body, err := retry.DoWithResult(ctx, c.retryCfg, func() ([]byte, error) {
		return c.get(ctx, pageURL)
	})
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(string(body)))
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{Status: resp.StatusCode, URL: rawURL}
	}
	return io.ReadAll(resp.Body)
}
