package sources

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/rfpscout/internal/httpx"
	"github.com/jonesrussell/rfpscout/internal/logger"
	"github.com/jonesrussell/rfpscout/internal/models"
)

// Several states run procurement on the Infor Public Sector platform
// (formerly BuySpeed / Periscope S2G). All share the same URL pattern:
//
//	public browse:  {base}/page.aspx/en/rfp/request_browse_public
//	AJAX data feed: {base}/ajax.aspx/en/rfp/request_browse_public
//
// The AJAX endpoint returns server-rendered HTML with the full grid.
// Pagination is driven by a hidden form field POSTed back together with
// every other hidden input on the page.
const (
	inforAjaxPath   = "/ajax.aspx/en/rfp/request_browse_public"
	inforBrowsePath = "/page.aspx/en/rfp/request_browse_public"

	inforMaxPageField = "maxpageindexbody_x_grid_grd"
	inforPageField    = "hdnCurrentPageIndexbody_x_grid_grd"

	// walkerPageCap bounds follow-up page requests per portal.
	walkerPageCap = 15

	// Grid cell layout: [edit, bpm code, label, pub begin, commodity,
	// agency, pub end, status, ...].
	inforAgencyCell = 5
	inforDueCell    = 6
)

// InforPortal walks one state portal's solicitation grid.
type InforPortal struct {
	portalName string
	baseURL    string
	keywords   []string
	pagePause  time.Duration
	client     *http.Client
	log        logger.Logger
}

// NewInforPortal builds an adapter for one configured portal.
func NewInforPortal(
	name, baseURL string,
	keywords []string,
	pagePause time.Duration,
	client *http.Client,
	log logger.Logger,
) *InforPortal {
	return &InforPortal{
		portalName: name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		keywords:   keywords,
		pagePause:  pagePause,
		client:     client,
		log:        log,
	}
}

func (p *InforPortal) Name() string { return p.portalName + " Procurement" }

func (p *InforPortal) Kind() string { return KindAjaxGrid }

// Platform is true: the grid lists only solicitations.
func (p *InforPortal) Platform() bool { return true }

// Fetch walks the grid sequentially: GET page 0, then POST the carried
// hidden-input state for pages 1..min(maxPage, walkerPageCap). A failed
// follow-up page stops the walk but keeps what was already parsed.
func (p *InforPortal) Fetch(ctx context.Context) ([]models.Opportunity, error) {
	ajaxURL := p.baseURL + inforAjaxPath

	doc, err := p.getFirstPage(ctx, ajaxURL)
	if err != nil {
		return nil, err
	}

	maxPage := hiddenInt(doc, inforMaxPageField)
	rows := p.parseGrid(doc)
	cursor := hiddenInputs(doc)

	lastPage := min(maxPage, walkerPageCap)
	for page := 1; page <= lastPage; page++ {
		if err := pause(ctx, p.pagePause); err != nil {
			return p.filterRows(rows), err
		}

		cursor[inforPageField] = strconv.Itoa(page)
		doc, err := p.postPage(ctx, ajaxURL, cursor)
		if err != nil {
			if ctx.Err() != nil {
				return p.filterRows(rows), ctx.Err()
			}
			p.log.Warn("Portal page fetch failed, keeping partial results",
				logger.String("portal", p.portalName),
				logger.Int("page", page),
				logger.Error(err),
			)
			break
		}
		rows = append(rows, p.parseGrid(doc)...)
	}

	return p.filterRows(rows), nil
}

func (p *InforPortal) getFirstPage(ctx context.Context, ajaxURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ajaxURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	p.setHeaders(req)
	return p.do(req)
}

func (p *InforPortal) postPage(ctx context.Context, ajaxURL string, cursor map[string]string) (*goquery.Document, error) {
	form := url.Values{}
	for name, value := range cursor {
		form.Set(name, value)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ajaxURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	p.setHeaders(req)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return p.do(req)
}

// setHeaders stamps the browser fingerprint plus the two headers the portal
// requires before it will serve the grid fragment.
func (p *InforPortal) setHeaders(req *http.Request) {
	httpx.SetBrowserHeaders(req)
	req.Header.Set("Referer", p.baseURL+inforBrowsePath)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
}

func (p *InforPortal) do(req *http.Request) (*goquery.Document, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	body, err := httpx.ReadBody(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return doc, nil
}

// parseGrid maps the rows of the grid table (id contains "grd"). The row
// title lives in a screen-reader span prefixed "Edit ".
func (p *InforPortal) parseGrid(doc *goquery.Document) []models.Opportunity {
	grid := doc.Find(`table[id*="grd"]`).First()
	if grid.Length() == 0 {
		return nil
	}

	var opps []models.Opportunity
	grid.Find("tr").Each(func(_ int, row *goquery.Selection) {
		title := ""
		row.Find("span.sr-only").EachWithBreak(func(_ int, span *goquery.Selection) bool {
			text := strings.TrimSpace(span.Text())
			if strings.HasPrefix(text, "Edit ") {
				title = strings.TrimPrefix(text, "Edit ")
				return false
			}
			return true
		})
		if title == "" {
			return
		}

		oppURL := p.baseURL + inforBrowsePath
		if link := row.Find(`a[href*="process_manage_extranet"]`).First(); link.Length() > 0 {
			href, _ := link.Attr("href")
			if strings.HasPrefix(href, "/") {
				href = p.baseURL + href
			}
			oppURL = href
		}

		cells := row.Find("td")
		agency := cellText(cells, inforAgencyCell)
		description := ""
		if due := cellText(cells, inforDueCell); due != "" {
			description = "Due: " + due
		}

		opps = append(opps, models.Opportunity{
			Title:       title,
			URL:         oppURL,
			Description: description,
			Source:      p.Name(),
			Agency:      agency,
		})
	})
	return opps
}

// filterRows keeps rows where any configured keyword appears in the
// lowercased title, description, or agency.
func (p *InforPortal) filterRows(rows []models.Opportunity) []models.Opportunity {
	keywords := lowerAll(p.keywords)
	var matched []models.Opportunity
	for _, opp := range rows {
		haystack := strings.ToLower(opp.Title + " " + opp.Description + " " + opp.Agency)
		for _, kw := range keywords {
			if strings.Contains(haystack, kw) {
				matched = append(matched, opp)
				break
			}
		}
	}
	return matched
}

// hiddenInputs collects every hidden input on the page (name to value);
// this is the pagination cursor POSTed back for follow-up pages.
func hiddenInputs(doc *goquery.Document) map[string]string {
	cursor := make(map[string]string)
	doc.Find(`input[type="hidden"]`).Each(func(_ int, input *goquery.Selection) {
		name, ok := input.Attr("name")
		if !ok || name == "" {
			return
		}
		value, _ := input.Attr("value")
		cursor[name] = value
	})
	return cursor
}

// hiddenInt reads an integer hidden input; absent or malformed means 0.
func hiddenInt(doc *goquery.Document, name string) int {
	value, ok := doc.Find(`input[name="` + name + `"]`).First().Attr("value")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}

func cellText(cells *goquery.Selection, idx int) string {
	if idx >= cells.Length() {
		return ""
	}
	return strings.TrimSpace(cells.Eq(idx).Text())
}
