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

const (
	bidnetBaseURL   = "https://www.bidnetdirect.com"
	bidnetPath      = "/public/solicitations/open"
	bidnetSourceTag = "BidNet Direct"

	// The listing markup has shifted between a plain table and styled item
	// divs; match all shapes seen so far.
	bidnetRowSelector = "table tbody tr, .solicitation-item, .bid-listing"
)

// BidNet scrapes the BidNet Direct public solicitations listing, one page
// per configured keyword. No credential required.
type BidNet struct {
	// BaseURL is overridable for tests.
	BaseURL string

	keywords []string
	delay    time.Duration
	timeout  time.Duration
	log      logger.Logger
}

// NewBidNet builds the BidNet Direct adapter. A zero timeout falls back to
// httpx.DefaultTimeout.
func NewBidNet(keywords []string, delay, timeout time.Duration, log logger.Logger) *BidNet {
	if timeout == 0 {
		timeout = httpx.DefaultTimeout
	}
	return &BidNet{
		BaseURL:  bidnetBaseURL,
		keywords: keywords,
		delay:    delay,
		timeout:  timeout,
		log:      log,
	}
}

func (b *BidNet) Name() string { return bidnetSourceTag }

func (b *BidNet) Kind() string { return KindHTMLTable }

// Platform is true: everything listed on BidNet is a solicitation.
func (b *BidNet) Platform() bool { return true }

// Fetch visits the listing page once per keyword and maps matching rows.
func (b *BidNet) Fetch(ctx context.Context) ([]models.Opportunity, error) {
	var opps []models.Opportunity

	c := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.UserAgent(httpx.UserAgent),
		colly.IgnoreRobotsTxt(),
		colly.MaxBodySize(httpx.MaxBodyBytes),
	)
	c.SetRequestTimeout(b.timeout)
	if err := c.Limit(&colly.LimitRule{DomainGlob: "*", Delay: b.delay, Parallelism: 1}); err != nil {
		return nil, err
	}

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept",
			"text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.5")
	})

	c.OnHTML(bidnetRowSelector, func(e *colly.HTMLElement) {
		if opp, ok := b.parseRow(e.DOM); ok {
			opps = append(opps, opp)
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		b.log.Warn("BidNet request failed",
			logger.String("url", r.Request.URL.String()),
			logger.Int("status", r.StatusCode),
			logger.Error(err),
		)
	})

	for _, kw := range b.keywords {
		listURL := b.BaseURL + bidnetPath + "?keyword=" + url.QueryEscape(kw)
		if err := c.Visit(listURL); err != nil {
			if ctx.Err() != nil {
				return opps, ctx.Err()
			}
			b.log.Warn("BidNet visit failed",
				logger.String("keyword", kw),
				logger.Error(err),
			)
		}
	}

	return opps, nil
}

// parseRow maps one listing row. Rows without cells or an anchor are layout
// chrome, not solicitations.
func (b *BidNet) parseRow(row *goquery.Selection) (models.Opportunity, bool) {
	cells := row.Find("td")
	if cells.Length() == 0 {
		return models.Opportunity{}, false
	}

	link := row.Find("a[href]").First()
	if link.Length() == 0 {
		return models.Opportunity{}, false
	}

	title := strings.TrimSpace(link.Text())
	if title == "" {
		return models.Opportunity{}, false
	}

	href, _ := link.Attr("href")
	if !strings.HasPrefix(href, "http") {
		href = b.BaseURL + href
	}

	var parts []string
	cells.Each(func(_ int, cell *goquery.Selection) {
		text := strings.TrimSpace(cell.Text())
		if text != "" && text != title {
			parts = append(parts, text)
		}
	})

	return models.Opportunity{
		Title:       title,
		URL:         href,
		Description: truncate(strings.Join(parts, " | "), maxDescriptionLen),
		Source:      bidnetSourceTag,
	}, true
}
