// Package dedup provides URL normalization and duplicate collapsing for
// merged opportunity lists.
package dedup

import (
	"strings"

	"github.com/jonesrussell/rfpscout/internal/models"
)

// Normalize reduces a URL to its identity form: query string and fragment
// stripped, trailing slashes removed, lowercased. Two listings that differ
// only by tracking parameters or a trailing slash are the same opportunity.
// Normalize is idempotent.
func Normalize(raw string) string {
	s := raw
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimRight(s, "/")
	return strings.ToLower(s)
}

// Deduplicate collapses records sharing a normalized URL, keeping the first
// occurrence in input order. Because the pipeline merges adapter results in
// configured adapter order, the first adapter enumerated wins ties. Records
// whose URL normalizes to the empty string are dropped.
func Deduplicate(opps []models.Opportunity) []models.Opportunity {
	seen := make(map[string]struct{}, len(opps))
	unique := make([]models.Opportunity, 0, len(opps))

	for _, opp := range opps {
		key := Normalize(opp.URL)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, opp)
	}
	return unique
}
