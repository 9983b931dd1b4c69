package sources

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	colly "github.com/gocolly/colly/v2"

	"github.com/jonesrussell/rfpscout/internal/httpx"
	"github.com/jonesrussell/rfpscout/internal/logger"
	"github.com/jonesrussell/rfpscout/internal/models"
)

// The Central Procurement Office publishes open RFPs as a static HTML table:
// [Document ID (links), Dates, Event Name, Updated]. There is no search, so
// the whole table is fetched and filtered locally.
const (
	tennesseePageURL = "https://www.tn.gov/generalservices/procurement/" +
		"central-procurement-office--cpo-/supplier-information/" +
		"request-for-proposals--rfp--opportunities1.html"
	tennesseeSourceTag = "Tennessee Procurement"
	tennesseeAgency    = "State of Tennessee"

	tennesseeMinCells = 3
)

// Tennessee scrapes the state CPO listing page.
type Tennessee struct {
	// PageURL is overridable for tests.
	PageURL string

	keywords []string
	timeout  time.Duration
	log      logger.Logger
}

// NewTennessee builds the Tennessee CPO adapter. A zero timeout falls back
// to httpx.DefaultTimeout.
func NewTennessee(keywords []string, timeout time.Duration, log logger.Logger) *Tennessee {
	if timeout == 0 {
		timeout = httpx.DefaultTimeout
	}
	return &Tennessee{
		PageURL:  tennesseePageURL,
		keywords: keywords,
		timeout:  timeout,
		log:      log,
	}
}

func (tn *Tennessee) Name() string { return tennesseeSourceTag }

func (tn *Tennessee) Kind() string { return KindHTMLTable }

// Platform is true: the CPO page lists only solicitations.
func (tn *Tennessee) Platform() bool { return true }

// Fetch retrieves the listing page once and keeps keyword-matched rows.
func (tn *Tennessee) Fetch(ctx context.Context) ([]models.Opportunity, error) {
	origin, err := pageOrigin(tn.PageURL)
	if err != nil {
		return nil, err
	}

	keywords := lowerAll(tn.keywords)
	var opps []models.Opportunity

	c := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.UserAgent(httpx.UserAgent),
		colly.IgnoreRobotsTxt(),
		colly.MaxBodySize(httpx.MaxBodyBytes),
	)
	c.SetRequestTimeout(tn.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept",
			"text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.5")
	})

	c.OnHTML("table tr", func(e *colly.HTMLElement) {
		if opp, ok := tn.parseRow(e.DOM, origin, keywords); ok {
			opps = append(opps, opp)
		}
	})

	c.OnError(func(r *colly.Response, visitErr error) {
		tn.log.Warn("Tennessee request failed",
			logger.Int("status", r.StatusCode),
			logger.Error(visitErr),
		)
	})

	if err := c.Visit(tn.PageURL); err != nil {
		if ctx.Err() != nil {
			return opps, ctx.Err()
		}
		tn.log.Warn("Tennessee visit failed", logger.Error(err))
	}

	return opps, nil
}

// parseRow maps one table row: cell 2 is the event name, cell 1 the date
// range, cell 0 holds the document links.
func (tn *Tennessee) parseRow(row *goquery.Selection, origin string, keywords []string) (models.Opportunity, bool) {
	cells := row.Find("td")
	if cells.Length() < tennesseeMinCells {
		return models.Opportunity{}, false
	}

	title := strings.TrimSpace(cells.Eq(2).Text())
	if title == "" {
		return models.Opportunity{}, false
	}

	titleLower := strings.ToLower(title)
	matched := false
	for _, kw := range keywords {
		if strings.Contains(titleLower, kw) {
			matched = true
			break
		}
	}
	if !matched {
		return models.Opportunity{}, false
	}

	href, _ := cells.Eq(0).Find("a[href]").First().Attr("href")
	switch {
	case strings.HasPrefix(href, "/"):
		href = origin + href
	case !strings.HasPrefix(href, "http"):
		// PDF-only rows and fragment links point back at the listing.
		href = tn.PageURL
	}

	dates := strings.TrimSpace(cells.Eq(1).Text())
	description := ""
	if dates != "" {
		description = "Dates: " + dates
	}

	return models.Opportunity{
		Title:       title,
		URL:         href,
		Description: description,
		Source:      tennesseeSourceTag,
		Agency:      tennesseeAgency,
	}, true
}

// pageOrigin returns the scheme://host of a page URL for absolutizing
// root-relative links.
func pageOrigin(page string) (string, error) {
	u, err := url.Parse(page)
	if err != nil {
		return "", err
	}
	return u.Scheme + "://" + u.Host, nil
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
