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
	usaSpendingAPIURL    = "https://api.usaspending.gov/api/v2/search/spending_by_award/"
	usaSpendingAwardURL  = "https://www.usaspending.gov/award/%s"
	usaSpendingSourceTag = "USASpending"

	usaSpendingDateLayout = "2006-01-02"
	usaSpendingLimit      = 10

	// expiringWindowDays is how far ahead to look for contract end dates.
	expiringWindowDays = 365
)

// Contract award type codes A-D cover definitive contracts and the common
// IDV-backed orders; grants and loans are out of scope.
var usaSpendingAwardTypes = []string{"A", "B", "C", "D"}

var usaSpendingFields = []string{
	"Award ID",
	"Recipient Name",
	"Description",
	"End Date",
	"Awarding Agency",
	"generated_internal_id",
}

// ExpiringFetcher queries USASpending for federal contracts ending within
// the next year. An expiring contract often precedes a re-compete, so these
// ride along in the digest as a side channel: pre-scored, never competing
// with fresh opportunities. It is not an Adapter; the pipeline invokes it
// separately and failures degrade to an empty result.
type ExpiringFetcher struct {
	// APIURL overrides the production endpoint in tests.
	APIURL string
	// Now supplies the clock; tests pin it.
	Now func() time.Time

	keywords   []string
	queryPause time.Duration
	client     *http.Client
	log        logger.Logger
}

// NewExpiringFetcher builds the side-channel fetcher.
func NewExpiringFetcher(keywords []string, queryPause time.Duration, client *http.Client, log logger.Logger) *ExpiringFetcher {
	return &ExpiringFetcher{
		APIURL:     usaSpendingAPIURL,
		Now:        time.Now,
		keywords:   keywords,
		queryPause: queryPause,
		client:     client,
		log:        log,
	}
}

type usaSpendingPeriod struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	DateType  string `json:"date_type"`
}

type usaSpendingFilters struct {
	Keywords       []string            `json:"keywords"`
	AwardTypeCodes []string            `json:"award_type_codes"`
	TimePeriod     []usaSpendingPeriod `json:"time_period"`
}

type usaSpendingRequest struct {
	Filters usaSpendingFilters `json:"filters"`
	Fields  []string           `json:"fields"`
	Limit   int                `json:"limit"`
	Sort    string             `json:"sort"`
	Order   string             `json:"order"`
}

type usaSpendingAward struct {
	AwardID     string `json:"Award ID"`
	Recipient   string `json:"Recipient Name"`
	Description string `json:"Description"`
	EndDate     string `json:"End Date"`
	Agency      string `json:"Awarding Agency"`
	InternalID  string `json:"generated_internal_id"`
}

type usaSpendingResponse struct {
	Results []usaSpendingAward `json:"results"`
}

// Fetch runs one award search per keyword and flattens the results,
// dropping duplicate awards surfaced by more than one keyword. Failed
// keywords are logged and skipped.
func (f *ExpiringFetcher) Fetch(ctx context.Context) []models.Opportunity {
	var out []models.Opportunity
	seen := make(map[string]struct{})

	for i, keyword := range f.keywords {
		if i > 0 {
			if err := pause(ctx, f.queryPause); err != nil {
				return out
			}
		}

		awards, err := f.search(ctx, keyword)
		if err != nil {
			f.log.Warn("Expiring-contract query failed, skipping keyword",
				logger.String("keyword", keyword),
				logger.Error(err),
			)
			if ctx.Err() != nil {
				return out
			}
			continue
		}

		for _, award := range awards {
			if award.InternalID == "" {
				continue
			}
			awardURL := fmt.Sprintf(usaSpendingAwardURL, award.InternalID)
			if _, dup := seen[awardURL]; dup {
				continue
			}
			seen[awardURL] = struct{}{}

			out = append(out, models.Opportunity{
				Title:       fmt.Sprintf("%s (%s)", award.Recipient, award.AwardID),
				URL:         awardURL,
				Description: truncate(strings.TrimSpace(award.Description), maxDescriptionLen),
				Source:      usaSpendingSourceTag,
				PostedDate:  award.EndDate,
				Agency:      award.Agency,
			})
		}
	}

	return out
}

func (f *ExpiringFetcher) search(ctx context.Context, keyword string) ([]usaSpendingAward, error) {
	today := f.Now()
	payload := usaSpendingRequest{
		Filters: usaSpendingFilters{
			Keywords:       []string{keyword},
			AwardTypeCodes: usaSpendingAwardTypes,
			TimePeriod: []usaSpendingPeriod{{
				StartDate: today.Format(usaSpendingDateLayout),
				EndDate:   today.AddDate(0, 0, expiringWindowDays).Format(usaSpendingDateLayout),
				DateType:  "action_date",
			}},
		},
		Fields: usaSpendingFields,
		Limit:  usaSpendingLimit,
		Sort:   "End Date",
		Order:  "asc",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.APIURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	respBody, err := httpx.ReadBody(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var parsed usaSpendingResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return parsed.Results, nil
}
