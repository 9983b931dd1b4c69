// Package models defines the canonical data shapes shared across rfpscout.
package models

// Opportunity is the canonical procurement-listing record every source
// adapter produces. Title and URL are required; adapters drop rows that
// cannot populate both.
type Opportunity struct {
	// Title is the display text of the listing.
	Title string `json:"title"`
	// URL is the canonical link. Its normalized form is the record's
	// identity for deduplication and seen tracking.
	URL string `json:"url"`
	// Description is an optional free-text snippet used for scoring.
	Description string `json:"description,omitempty"`
	// Source tags which adapter produced the record, e.g. "BidNet Direct".
	Source string `json:"source"`
	// PostedDate is origin-supplied display text; formats vary by source
	// and are never parsed.
	PostedDate string `json:"posted_date,omitempty"`
	// Agency is the issuing organization, when the source exposes one.
	Agency string `json:"agency,omitempty"`
	// Score is the relevance score 0-100, set exactly once after
	// deduplication and never recomputed downstream.
	Score int `json:"score"`
}

// Body returns the text scored alongside the title: the description, or
// the agency when no description was captured.
func (o Opportunity) Body() string {
	if o.Description != "" {
		return o.Description
	}
	return o.Agency
}
