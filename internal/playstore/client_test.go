package playstore

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/8shagrid/app-scout/internal/metrics"
)

func TestRecordFetchCountsByOutcome(t *testing.T) {
	okBefore := testutil.ToFloat64(metrics.StoreFetchTotal.WithLabelValues("search", "ok"))
	errBefore := testutil.ToFloat64(metrics.StoreFetchTotal.WithLabelValues("search", "error"))

	recordFetch("search", nil)
	recordFetch("search", errors.New("boom"))
	recordFetch("search", errors.New("boom again"))

	if got := testutil.ToFloat64(metrics.StoreFetchTotal.WithLabelValues("search", "ok")) - okBefore; got != 1 {
		t.Errorf("ok fetches counted = %v; want 1", got)
	}
	if got := testutil.ToFloat64(metrics.StoreFetchTotal.WithLabelValues("search", "error")) - errBefore; got != 2 {
		t.Errorf("failed fetches counted = %v; want 2", got)
	}
}

func TestParseReviewEnvelopeRejectsGarbage(t *testing.T) {
	if got := parseReviewEnvelope([]byte("not json at all")); got != nil {
		t.Errorf("garbage body parsed to %d reviews; want none", len(got))
	}
	if got := parseReviewEnvelope(nil); got != nil {
		t.Errorf("empty body parsed to %d reviews; want none", len(got))
	}
}
