package sources_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/rfpscout/internal/logger"
	"github.com/jonesrussell/rfpscout/internal/sources"
)

func newExpiringFetcher(t *testing.T, keywords []string, handler http.HandlerFunc) *sources.ExpiringFetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	fetcher := sources.NewExpiringFetcher(keywords, 0, srv.Client(), logger.NewNop())
	fetcher.APIURL = srv.URL
	fetcher.Now = func() time.Time {
		return time.Date(2026, time.August, 22, 10, 0, 0, 0, time.UTC)
	}
	return fetcher
}

func TestExpiringFetcher_Fetch(t *testing.T) {
	var gotBodies []map[string]any
	fetcher := newExpiringFetcher(t, []string{"case management"},
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			gotBodies = append(gotBodies, body)

			_ = json.NewEncoder(w).Encode(map[string]any{
				"results": []map[string]any{
					{
						"Award ID":              "47QTCA20D00XX",
						"Recipient Name":        "ACME FEDERAL SERVICES",
						"Description":           "  Case management platform support  ",
						"End Date":              "2026-11-30",
						"Awarding Agency":       "General Services Administration",
						"generated_internal_id": "CONT_AWD_100",
					},
					{
						"Award ID":              "W15QKN19C0042",
						"Recipient Name":        "BETA SYSTEMS",
						"Description":           nil,
						"End Date":              "2027-02-15",
						"Awarding Agency":       "Department of the Army",
						"generated_internal_id": "CONT_AWD_200",
					},
					{
						"Award ID":       "NO-INTERNAL-ID",
						"Recipient Name": "GAMMA LLC",
					},
				},
			})
		})

	records := fetcher.Fetch(context.Background())

	require.Len(t, gotBodies, 1)
	filters, ok := gotBodies[0]["filters"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"case management"}, filters["keywords"])
	assert.Equal(t, []any{"A", "B", "C", "D"}, filters["award_type_codes"])
	assert.Equal(t, []any{map[string]any{
		"start_date": "2026-08-22",
		"end_date":   "2027-08-22",
		"date_type":  "action_date",
	}}, filters["time_period"])
	assert.Equal(t, float64(10), gotBodies[0]["limit"])
	assert.Equal(t, "End Date", gotBodies[0]["sort"])
	assert.Equal(t, "asc", gotBodies[0]["order"])
	assert.Contains(t, gotBodies[0]["fields"], "generated_internal_id")

	// The award without an internal id cannot be linked and is dropped.
	require.Len(t, records, 2)
	assert.Equal(t, "ACME FEDERAL SERVICES (47QTCA20D00XX)", records[0].Title)
	assert.Equal(t, "https://www.usaspending.gov/award/CONT_AWD_100", records[0].URL)
	assert.Equal(t, "Case management platform support", records[0].Description)
	assert.Equal(t, "USASpending", records[0].Source)
	assert.Equal(t, "2026-11-30", records[0].PostedDate)
	assert.Equal(t, "General Services Administration", records[0].Agency)
	assert.Equal(t, "BETA SYSTEMS (W15QKN19C0042)", records[1].Title)
	assert.Empty(t, records[1].Description)
}

func TestExpiringFetcher_DeduplicatesAcrossKeywords(t *testing.T) {
	calls := 0
	fetcher := newExpiringFetcher(t, []string{"case management", "grants management"},
		func(w http.ResponseWriter, _ *http.Request) {
			calls++
			_ = json.NewEncoder(w).Encode(map[string]any{
				"results": []map[string]any{{
					"Award ID":              "47QTCA20D00XX",
					"Recipient Name":        "ACME FEDERAL SERVICES",
					"End Date":              "2026-11-30",
					"Awarding Agency":       "General Services Administration",
					"generated_internal_id": "CONT_AWD_100",
				}},
			})
		})

	records := fetcher.Fetch(context.Background())

	assert.Equal(t, 2, calls)
	require.Len(t, records, 1)
	assert.Equal(t, "https://www.usaspending.gov/award/CONT_AWD_100", records[0].URL)
}

func TestExpiringFetcher_FailedKeywordSkipped(t *testing.T) {
	calls := 0
	fetcher := newExpiringFetcher(t, []string{"case management", "permitting"},
		func(w http.ResponseWriter, _ *http.Request) {
			calls++
			if calls == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"results": []map[string]any{{
					"Award ID":              "GS00Q14OADU343",
					"Recipient Name":        "DELTA CONSULTING",
					"End Date":              "2026-12-31",
					"Awarding Agency":       "Department of the Interior",
					"generated_internal_id": "CONT_AWD_300",
				}},
			})
		})

	records := fetcher.Fetch(context.Background())

	assert.Equal(t, 2, calls)
	require.Len(t, records, 1)
	assert.Equal(t, "DELTA CONSULTING (GS00Q14OADU343)", records[0].Title)
}

func TestExpiringFetcher_TotalFailureDegradesToEmpty(t *testing.T) {
	fetcher := newExpiringFetcher(t, []string{"case management"},
		func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

	records := fetcher.Fetch(context.Background())
	assert.Empty(t, records)
}
