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
	samAPIURL      = "https://api.sam.gov/opportunities/v2/search"
	samOppURLTmpl  = "https://sam.gov/opp/%s/view"
	samSourceTag   = "SAM.gov"
	samResultLimit = 25
	samDateLayout  = "01/02/2006"
)

// SamGov queries the SAM.gov Opportunities API for federal solicitations
// posted within the lookback window. Requires an API key.
type SamGov struct {
	// APIURL is overridable for tests.
	APIURL string
	// Now is overridable for tests.
	Now func() time.Time

	apiKey       string
	keywords     []string
	lookbackDays int
	queryPause   time.Duration
	client       *http.Client
	log          logger.Logger
}

// NewSamGov builds the SAM.gov adapter.
func NewSamGov(
	apiKey string,
	keywords []string,
	lookbackDays int,
	queryPause time.Duration,
	client *http.Client,
	log logger.Logger,
) *SamGov {
	return &SamGov{
		APIURL:       samAPIURL,
		Now:          time.Now,
		apiKey:       apiKey,
		keywords:     keywords,
		lookbackDays: lookbackDays,
		queryPause:   queryPause,
		client:       client,
		log:          log,
	}
}

func (s *SamGov) Name() string { return samSourceTag }

func (s *SamGov) Kind() string { return KindRESTAPI }

// Platform is true: SAM.gov lists only federal notices.
func (s *SamGov) Platform() bool { return true }

type samResponse struct {
	OpportunitiesData []samOpportunity `json:"opportunitiesData"`
}

type samOpportunity struct {
	NoticeID           string `json:"noticeId"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	PostedDate         string `json:"postedDate"`
	FullParentPathName string `json:"fullParentPathName"`
}

// Fetch runs every configured keyword. A failed keyword is logged and skipped.
func (s *SamGov) Fetch(ctx context.Context) ([]models.Opportunity, error) {
	postedFrom := s.Now().AddDate(0, 0, -s.lookbackDays).Format(samDateLayout)

	var opps []models.Opportunity
	for i, kw := range s.keywords {
		if i > 0 {
			if err := pause(ctx, s.queryPause); err != nil {
				return opps, err
			}
		}

		results, err := s.search(ctx, kw, postedFrom)
		if err != nil {
			if ctx.Err() != nil {
				return opps, ctx.Err()
			}
			s.log.Warn("SAM.gov query failed",
				logger.String("keyword", kw),
				logger.Error(err),
			)
			continue
		}
		opps = append(opps, results...)
	}
	return opps, nil
}

func (s *SamGov) search(ctx context.Context, keyword, postedFrom string) ([]models.Opportunity, error) {
	params := url.Values{}
	params.Set("api_key", s.apiKey)
	params.Set("keywords", keyword)
	params.Set("postedFrom", postedFrom)
	params.Set("limit", strconv.Itoa(samResultLimit))
	params.Set("ptype", "o")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.APIURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

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

	var parsed samResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	opps := make([]models.Opportunity, 0, len(parsed.OpportunitiesData))
	for _, item := range parsed.OpportunitiesData {
		opps = append(opps, models.Opportunity{
			Title:       strings.TrimSpace(item.Title),
			URL:         fmt.Sprintf(samOppURLTmpl, item.NoticeID),
			Description: strings.TrimSpace(truncate(item.Description, maxDescriptionLen)),
			Source:      samSourceTag,
			PostedDate:  item.PostedDate,
			Agency:      item.FullParentPathName,
		})
	}
	return opps, nil
}
