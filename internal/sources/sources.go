// Package sources implements the opportunity source adapters: search APIs,
// procurement platform APIs, and state portal scrapers. Each adapter turns
// one upstream into a flat slice of opportunities; relevance is judged later
// by the scoring engine, so adapters stay mapping-only.
package sources

import (
	"context"
	"time"

	"github.com/jonesrussell/rfpscout/internal/models"
)

// Adapter kinds, reported by Kind() and shown in the sources table.
const (
	KindSearchAPI = "search-api"
	KindHTMLTable = "html-table"
	KindAjaxGrid  = "ajax-grid"
	KindRESTAPI   = "rest-api"
)

// maxDescriptionLen caps adapter-built descriptions.
const maxDescriptionLen = 300

// Adapter is one opportunity source. Fetch returns an error only for total
// failure; per-query failures are logged and skipped inside the adapter so
// one bad upstream never aborts a scan.
type Adapter interface {
	// Name is the display tag, carried on every record as Opportunity.Source.
	Name() string
	// Kind reports the adapter family (search-api, html-table, ajax-grid, rest-api).
	Kind() string
	// Platform is true when every listing on the source is inherently a
	// solicitation. Non-platform sources face an extra procurement-language
	// gate in scoring.
	Platform() bool
	// Fetch retrieves and maps the source's current listings. Partial
	// results may accompany a non-nil error when the context expires
	// mid-run.
	Fetch(ctx context.Context) ([]models.Opportunity, error)
}

// pause sleeps cooperatively between sibling upstream calls, honoring
// context cancellation.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
