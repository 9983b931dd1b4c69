package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jonesrussell/rfpscout/internal/httpx"
	"github.com/jonesrussell/rfpscout/internal/logger"
	"github.com/jonesrussell/rfpscout/internal/models"
)

const (
	openGovBaseURL    = "https://procurement.opengov.com"
	openGovSearchPath = "/api/opportunities/search"
	openGovSourceTag  = "OpenGov"
	openGovPerPage    = 25
)

// OpenGov queries the OpenGov Procurement public search API, one request per
// configured keyword. No credential required.
type OpenGov struct {
	// BaseURL is overridable for tests.
	BaseURL string

	keywords   []string
	queryPause time.Duration
	client     *http.Client
	log        logger.Logger
}

// NewOpenGov builds the OpenGov adapter.
func NewOpenGov(keywords []string, queryPause time.Duration, client *http.Client, log logger.Logger) *OpenGov {
	return &OpenGov{
		BaseURL:    openGovBaseURL,
		keywords:   keywords,
		queryPause: queryPause,
		client:     client,
		log:        log,
	}
}

func (o *OpenGov) Name() string { return openGovSourceTag }

func (o *OpenGov) Kind() string { return KindRESTAPI }

// Platform is true: OpenGov hosts only procurement listings.
func (o *OpenGov) Platform() bool { return true }

// openGovResponse covers both envelope shapes the API has served:
// "opportunities" on current deployments, "results" on older ones. The
// fallback applies only when the primary key is absent.
type openGovResponse struct {
	Opportunities []openGovOpportunity `json:"opportunities"`
	Results       []openGovOpportunity `json:"results"`
}

type openGovOpportunity struct {
	Title       string `json:"title"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Permalink   string `json:"permalink"`
	Description string `json:"description"`
	PublishedAt string `json:"published_at"`
	EntityName  string `json:"entity_name"`
}

// Fetch runs every configured keyword. A failed keyword is logged and skipped.
func (o *OpenGov) Fetch(ctx context.Context) ([]models.Opportunity, error) {
	var opps []models.Opportunity
	for i, kw := range o.keywords {
		if i > 0 {
			if err := pause(ctx, o.queryPause); err != nil {
				return opps, err
			}
		}

		results, err := o.search(ctx, kw)
		if err != nil {
			if ctx.Err() != nil {
				return opps, ctx.Err()
			}
			o.log.Warn("OpenGov query failed",
				logger.String("keyword", kw),
				logger.Error(err),
			)
			continue
		}
		opps = append(opps, results...)
	}
	return opps, nil
}

func (o *OpenGov) search(ctx context.Context, keyword string) ([]models.Opportunity, error) {
	params := url.Values{}
	params.Set("q", keyword)
	params.Set("status", "open")
	params.Set("per_page", strconv.Itoa(openGovPerPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		o.BaseURL+openGovSearchPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpx.SetBrowserHeaders(req)

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, err
	}
	body, err := httpx.ReadBody(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var parsed openGovResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	rows := parsed.Opportunities
	if rows == nil {
		rows = parsed.Results
	}

	opps := make([]models.Opportunity, 0, len(rows))
	for _, row := range rows {
		title := row.Title
		if title == "" {
			title = row.Name
		}
		link := row.URL
		if link == "" {
			link = row.Permalink
		}
		if title == "" || link == "" {
			continue
		}
		if !strings.HasPrefix(link, "http") {
			link = o.BaseURL + link
		}
		opps = append(opps, models.Opportunity{
			Title:       strings.TrimSpace(title),
			URL:         link,
			Description: strings.TrimSpace(truncate(row.Description, maxDescriptionLen)),
			Source:      openGovSourceTag,
			PostedDate:  row.PublishedAt,
			Agency:      row.EntityName,
		})
	}
	return opps, nil
}
