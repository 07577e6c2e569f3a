package playstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/8shagrid/app-scout/internal/models"
)

var (
	// ErrNotFound means the store has no listing for the requested id.
	ErrNotFound = errors.New("app not found")
	// ErrSuggestUnsupported is returned by providers without a suggestion
	// endpoint; callers treat it as "skip keyword expansion".
	ErrSuggestUnsupported = errors.New("suggestions not supported")
)

// HTTPError carries the status of a failed store request so callers can
// distinguish throttling from hard failures.
type HTTPError struct {
	Status int
	URL    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("playstore: http %d from %s", e.Status, e.URL)
}

type SearchResult struct {
	AppID string `json:"app_id"`
}

// Provider is the acquisition boundary of the pipeline. Implementations
// fetch from the store; everything downstream is pure computation.
type Provider interface {
	Search(ctx context.Context, keyword, locale, region string, limit int) ([]SearchResult, error)
	FetchDetail(ctx context.Context, appID, locale, region string) (models.AppRecord, error)
	FetchReviews(ctx context.Context, appID, locale, region string, count int) ([]models.Review, error)
	Suggest(ctx context.Context, keyword, locale, region string) ([]string, error)
}
