// Package scoring implements the relevance and blocklist engine. It assigns
// each opportunity a 0-100 score using Aho-Corasick phrase matching over the
// configured keyword tables, with categorical hard-rejects evaluated first.
package scoring

import (
	"net/url"
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/jonesrussell/rfpscout/internal/models"
)

// Policy holds the static tables the engine scores against. All matching is
// case-insensitive substring matching.
type Policy struct {
	// Required phrases: at least one must appear or the record scores 0.
	Required []string
	// Boost phrases add +2 per distinct hit, capped at +10.
	Boost []string
	// Negative phrases (employment signals) hard-reject the record.
	Negative []string
	// BlockedDomains hard-reject by hostname, including subdomains.
	BlockedDomains []string
	// ForeignTLDs hard-reject hostnames ending with any of these suffixes.
	ForeignTLDs []string
	// JunkPaths hard-reject URLs whose path contains any of these segments.
	JunkPaths []string
	// NonPlatformSources lists source tags whose listings are not inherently
	// solicitations (general web search); records from these sources must
	// carry explicit procurement language or they score 0.
	NonPlatformSources []string
}

// Procurement-language phrases. A hit in the title is a strong signal (+25),
// anywhere else a moderate one (+10). For non-platform sources at least one
// hit is mandatory.
var procurementPhrases = []string{
	"request for proposal", "rfp", "solicitation", "bid", "procurement",
	"request for information", "rfi", "request for quotation", "rfq",
	"invitation to bid", "itb",
}

// Software/technology signal phrases (+10 when any appears).
var techPhrases = []string{
	"software", "platform", "system", "application", "app", "portal",
	"saas", "cloud", "cloud-based", "web-based", "digital", "technology",
}

// Scoring weights and caps.
const (
	requiredHitPoints = 20
	requiredHitCap    = 60
	procurementTitle  = 25
	procurementBody   = 10
	techSignalPoints  = 10
	boostHitPoints    = 2
	boostHitCap       = 10
	maxScore          = 100
)

// Engine scores opportunities. It is stateless after construction: Score is
// a pure function of the record and the policy tables, so records may be
// scored in any order or in parallel.
type Engine struct {
	required    *phraseSet
	boost       *phraseSet
	negative    *phraseSet
	procurement *phraseSet
	tech        *phraseSet

	blockedDomains []string
	foreignTLDs    []string
	junkPaths      []string
	nonPlatform    map[string]bool
}

// NewEngine builds the Aho-Corasick matchers from the policy tables.
func NewEngine(p Policy) *Engine {
	nonPlatform := make(map[string]bool, len(p.NonPlatformSources))
	for _, src := range p.NonPlatformSources {
		nonPlatform[src] = true
	}
	return &Engine{
		required:       newPhraseSet(p.Required),
		boost:          newPhraseSet(p.Boost),
		negative:       newPhraseSet(p.Negative),
		procurement:    newPhraseSet(procurementPhrases),
		tech:           newPhraseSet(techPhrases),
		blockedDomains: lowerAll(p.BlockedDomains),
		foreignTLDs:    lowerAll(p.ForeignTLDs),
		junkPaths:      lowerAll(p.JunkPaths),
		nonPlatform:    nonPlatform,
	}
}

// Score returns the relevance score for one record. Hard-rejects
// short-circuit to 0: blocked or foreign domain, junk URL path, employment
// language, no required phrase, or a non-platform record without
// procurement language. Survivors accumulate points from the remaining
// tables, clamped at 100.
func (e *Engine) Score(opp models.Opportunity) int {
	if e.urlBlocked(opp.URL) {
		return 0
	}

	title := strings.ToLower(opp.Title)
	text := title + " " + strings.ToLower(opp.Body())

	if e.negative.contains(text) {
		return 0
	}

	requiredHits := e.required.hits(text)
	if requiredHits == 0 {
		return 0
	}

	hasProcurementText := e.procurement.contains(text)
	if e.nonPlatform[opp.Source] && !hasProcurementText {
		return 0
	}

	score := requiredHits * requiredHitPoints
	if score > requiredHitCap {
		score = requiredHitCap
	}

	if e.procurement.contains(title) {
		score += procurementTitle
	} else if hasProcurementText {
		score += procurementBody
	}

	if e.tech.contains(text) {
		score += techSignalPoints
	}

	boost := e.boost.hits(text) * boostHitPoints
	if boost > boostHitCap {
		boost = boostHitCap
	}
	score += boost

	if score > maxScore {
		score = maxScore
	}
	return score
}

// urlBlocked applies the categorical URL rejects: blocked domain (exact or
// subdomain), foreign TLD suffix, junk path segment.
func (e *Engine) urlBlocked(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if host != "" {
		for _, d := range e.blockedDomains {
			if host == d || strings.HasSuffix(host, "."+d) {
				return true
			}
		}
		for _, tld := range e.foreignTLDs {
			if strings.HasSuffix(host, tld) {
				return true
			}
		}
	}

	path := strings.ToLower(u.Path)
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	for _, junk := range e.junkPaths {
		if strings.Contains(path, junk) {
			return true
		}
	}
	return false
}

// phraseSet wraps an Aho-Corasick matcher over a normalized phrase list.
// Matching is plain lowercase substring matching: the lists contain
// punctuated phrases such as "cloud-based", so the text is never stripped
// of punctuation.
type phraseSet struct {
	matcher *ahocorasick.Matcher
}

func newPhraseSet(phrases []string) *phraseSet {
	normalized := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if n := strings.ToLower(strings.TrimSpace(p)); n != "" {
			normalized = append(normalized, n)
		}
	}
	if len(normalized) == 0 {
		return &phraseSet{}
	}
	return &phraseSet{matcher: ahocorasick.NewStringMatcher(normalized)}
}

// hits returns the number of distinct phrases found in text.
func (s *phraseSet) hits(text string) int {
	if s.matcher == nil {
		return 0
	}
	return len(s.matcher.Match([]byte(text)))
}

func (s *phraseSet) contains(text string) bool {
	return s.hits(text) > 0
}

func lowerAll(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if n := strings.ToLower(strings.TrimSpace(v)); n != "" {
			out = append(out, n)
		}
	}
	return out
}
