package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jonesrussell/rfpscout/internal/httpx"
	"github.com/jonesrussell/rfpscout/internal/logger"
	"github.com/jonesrussell/rfpscout/internal/models"
)

const (
	serperAPIURL     = "https://google.serper.dev/search"
	serperSourceTag  = "Google / Serper"
	serperResultsPer = 20
)

// Serper searches Google via the Serper.dev API, one request per configured
// query, restricted to the lookback window.
type Serper struct {
	// APIURL is overridable for tests.
	APIURL string

	apiKey       string
	queries      []string
	lookbackDays int
	queryPause   time.Duration
	client       *http.Client
	log          logger.Logger
}

// NewSerper builds the Google search adapter.
func NewSerper(
	apiKey string,
	queries []string,
	lookbackDays int,
	queryPause time.Duration,
	client *http.Client,
	log logger.Logger,
) *Serper {
	return &Serper{
		APIURL:       serperAPIURL,
		apiKey:       apiKey,
		queries:      queries,
		lookbackDays: lookbackDays,
		queryPause:   queryPause,
		client:       client,
		log:          log,
	}
}

func (s *Serper) Name() string { return serperSourceTag }

func (s *Serper) Kind() string { return KindSearchAPI }

// Platform is false: Google results include blogs, news, and job boards, so
// records must show procurement language to score.
func (s *Serper) Platform() bool { return false }

type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
	TBS string `json:"tbs"`
}

type serperResponse struct {
	Organic []serperResult `json:"organic"`
}

type serperResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Date    string `json:"date"`
}

// Fetch runs every configured query. A failed query is logged and skipped.
func (s *Serper) Fetch(ctx context.Context) ([]models.Opportunity, error) {
	var opps []models.Opportunity
	for i, query := range s.queries {
		if i > 0 {
			if err := pause(ctx, s.queryPause); err != nil {
				return opps, err
			}
		}

		results, err := s.search(ctx, query)
		if err != nil {
			if ctx.Err() != nil {
				return opps, ctx.Err()
			}
			s.log.Warn("Serper query failed",
				logger.String("query", query),
				logger.Error(err),
			)
			continue
		}
		opps = append(opps, results...)
	}
	return opps, nil
}

func (s *Serper) search(ctx context.Context, query string) ([]models.Opportunity, error) {
	payload, err := json.Marshal(serperRequest{
		Q:   query,
		Num: serperResultsPer,
		TBS: fmt.Sprintf("qdr:d%d", s.lookbackDays),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.APIURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
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

	var parsed serperResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	opps := make([]models.Opportunity, 0, len(parsed.Organic))
	for _, item := range parsed.Organic {
		opps = append(opps, models.Opportunity{
			Title:       strings.TrimSpace(item.Title),
			URL:         strings.TrimSpace(item.Link),
			Description: strings.TrimSpace(item.Snippet),
			Source:      serperSourceTag,
			PostedDate:  item.Date,
		})
	}
	return opps, nil
}
