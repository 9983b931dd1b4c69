// Package digest renders the daily email: an HTML body styled inline for
// broad email-client compatibility, a plain-text mirror, and the subject
// line. Rendering is pure; the notifier handles delivery.
package digest

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"github.com/jonesrussell/rfpscout/internal/models"
)

// dateLayout renders e.g. "August 22, 2026".
const dateLayout = "January 02, 2006"

// Row description caps. HTML rows get the ellipsis, the expiring section
// shows a hard cut, and the text mirror uses tighter limits.
const (
	htmlDescLen         = 250
	htmlExpiringDescLen = 300
	textDescLen         = 180
	textExpiringDescLen = 200
)

var sourceColors = map[string]string{
	"SAM.gov":         "#7c3aed",
	"BidNet Direct":   "#0891b2",
	"OpenGov":         "#059669",
	"Google / Serper": "#1d4ed8",
}

const defaultSourceColor = "#374151"

// Digest is one rendered email.
type Digest struct {
	Subject string
	HTML    string
	Text    string
}

// Build renders the digest for the given records. The opportunities arrive
// already scored and sorted; expiring contracts are rendered in their own
// section and never mixed into the main list.
func Build(opps, expiring []models.Opportunity, now time.Time) (Digest, error) {
	date := now.Format(dateLayout)

	html, err := buildHTML(opps, expiring, date)
	if err != nil {
		return Digest{}, fmt.Errorf("render html: %w", err)
	}

	return Digest{
		Subject: subject(len(opps), len(expiring), date),
		HTML:    html,
		Text:    buildText(opps, expiring, date),
	}, nil
}

func subject(oppCount, expiringCount int, date string) string {
	note := ""
	if expiringCount > 0 {
		note = fmt.Sprintf(" + %d expiring contracts", expiringCount)
	}
	return fmt.Sprintf("RFP Scout: %d new %s%s — %s", oppCount, noun(oppCount), note, date)
}

func noun(count int) string {
	if count == 1 {
		return "opportunity"
	}
	return "opportunities"
}

type htmlRow struct {
	Title       string
	URL         string
	Description string
	Agency      string
	Posted      string
	Score       int
	Source      string
}

type htmlData struct {
	Date          string
	Count         int
	Noun          string
	SourceSummary template.HTML
	Rows          []htmlRow
	Expiring      []htmlRow
}

func buildHTML(opps, expiring []models.Opportunity, date string) (string, error) {
	data := htmlData{
		Date:          date,
		Count:         len(opps),
		Noun:          noun(len(opps)),
		SourceSummary: sourceSummary(opps),
	}

	for _, opp := range opps {
		data.Rows = append(data.Rows, htmlRow{
			Title:       titleOrUntitled(opp),
			URL:         urlOrHash(opp),
			Description: truncateEllipsis(opp.Description, htmlDescLen),
			Agency:      opp.Agency,
			Posted:      opp.PostedDate,
			Score:       opp.Score,
			Source:      opp.Source,
		})
	}
	for _, opp := range expiring {
		data.Expiring = append(data.Expiring, htmlRow{
			Title:       titleOrUntitled(opp),
			URL:         urlOrHash(opp),
			Description: truncate(opp.Description, htmlExpiringDescLen),
			Agency:      opp.Agency,
			Posted:      opp.PostedDate,
		})
	}

	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// sourceSummary builds the "<src>: <n>" stats line, sorted by source name.
func sourceSummary(opps []models.Opportunity) template.HTML {
	counts := make(map[string]int)
	for _, opp := range opps {
		src := opp.Source
		if src == "" {
			src = "Other"
		}
		counts[src]++
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: <strong>%d</strong>",
			template.HTMLEscapeString(name), counts[name]))
	}
	return template.HTML(strings.Join(parts, " &nbsp;|&nbsp; "))
}

func scoreBadge(score int) template.HTML {
	bg, label := "#6b7280", "Low"
	switch {
	case score >= 70:
		bg, label = "#16a34a", "High"
	case score >= 50:
		bg, label = "#d97706", "Medium"
	}
	return template.HTML(fmt.Sprintf(
		`<span style="display:inline-block;font-size:10px;font-weight:700;`+
			`color:white;background:%s;padding:2px 7px;border-radius:10px;`+
			`letter-spacing:0.04em;margin-left:6px;">%s match</span>`,
		bg, label))
}

func sourceBadge(source string) template.HTML {
	bg, ok := sourceColors[source]
	if !ok {
		bg = defaultSourceColor
	}
	return template.HTML(fmt.Sprintf(
		`<span style="display:inline-block;font-size:10px;font-weight:700;`+
			`color:white;background:%s;padding:2px 8px;border-radius:10px;`+
			`letter-spacing:0.04em;">%s</span>`,
		bg, template.HTMLEscapeString(source)))
}

func titleOrUntitled(opp models.Opportunity) string {
	if opp.Title == "" {
		return "Untitled"
	}
	return opp.Title
}

func urlOrHash(opp models.Opportunity) string {
	if opp.URL == "" {
		return "#"
	}
	return opp.URL
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// truncateEllipsis shortens s to at most n runes, marking the cut.
func truncateEllipsis(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}

func buildText(opps, expiring []models.Opportunity, date string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "RFP Scout — Daily Digest — %s\n", date)
	b.WriteString(strings.Repeat("=", 55))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%d new %s found\n\n", len(opps), noun(len(opps)))

	for i, opp := range opps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, titleOrUntitled(opp))
		fmt.Fprintf(&b, "   Source : %s\n", opp.Source)
		fmt.Fprintf(&b, "   Score  : %d/100\n", opp.Score)
		if opp.Agency != "" {
			fmt.Fprintf(&b, "   Agency : %s\n", opp.Agency)
		}
		if opp.PostedDate != "" {
			fmt.Fprintf(&b, "   Posted : %s\n", opp.PostedDate)
		}
		if opp.Description != "" {
			fmt.Fprintf(&b, "   %s\n", truncateEllipsis(opp.Description, textDescLen))
		}
		fmt.Fprintf(&b, "   Link   : %s\n\n", opp.URL)
	}

	if len(expiring) > 0 {
		b.WriteString("\nEXPIRING FEDERAL CONTRACTS — Likely Upcoming RFPs\n")
		b.WriteString(strings.Repeat("-", 55))
		b.WriteString("\n")
		b.WriteString("Contracts expiring within 12 months. Agencies typically\n")
		b.WriteString("issue RFPs 3–6 months before expiry.\n\n")

		for i, opp := range expiring {
			fmt.Fprintf(&b, "%d. %s\n", i+1, titleOrUntitled(opp))
			if opp.Agency != "" {
				fmt.Fprintf(&b, "   Agency  : %s\n", opp.Agency)
			}
			if opp.PostedDate != "" {
				fmt.Fprintf(&b, "   Expires : %s\n", opp.PostedDate)
			}
			if opp.Description != "" {
				fmt.Fprintf(&b, "   %s\n", truncateEllipsis(opp.Description, textExpiringDescLen))
			}
			fmt.Fprintf(&b, "   Link    : %s\n\n", opp.URL)
		}
	}

	return b.String()
}
