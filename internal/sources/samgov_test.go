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

	"github.com/jonesrussell/rfpscout/internal/httpx"
	"github.com/jonesrussell/rfpscout/internal/logger"
	"github.com/jonesrussell/rfpscout/internal/sources"
)

func TestSamGov_Fetch(t *testing.T) {
	var gotQueries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQueries = append(gotQueries, q.Get("keywords"))
		assert.Equal(t, "test-key", q.Get("api_key"))
		assert.Equal(t, "08/20/2026", q.Get("postedFrom"))
		assert.Equal(t, "25", q.Get("limit"))
		assert.Equal(t, "o", q.Get("ptype"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"opportunitiesData": []map[string]any{
				{
					"noticeId":           "abc123",
					"title":              "Case Management Platform",
					"description":        "Agency seeks a cloud case management platform.",
					"postedDate":         "2026-08-21",
					"fullParentPathName": "GENERAL SERVICES ADMINISTRATION",
				},
			},
		})
	}))
	defer srv.Close()

	adapter := sources.NewSamGov("test-key",
		[]string{"case management software", "licensing system"},
		2, 0, httpx.NewClient(0), logger.NewNop())
	adapter.APIURL = srv.URL
	adapter.Now = func() time.Time {
		return time.Date(2026, time.August, 22, 10, 0, 0, 0, time.UTC)
	}

	opps, err := adapter.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"case management software", "licensing system"}, gotQueries)
	require.Len(t, opps, 2)
	assert.Equal(t, "Case Management Platform", opps[0].Title)
	assert.Equal(t, "https://sam.gov/opp/abc123/view", opps[0].URL)
	assert.Equal(t, "SAM.gov", opps[0].Source)
	assert.Equal(t, "2026-08-21", opps[0].PostedDate)
	assert.Equal(t, "GENERAL SERVICES ADMINISTRATION", opps[0].Agency)
}

func TestSamGov_FailedKeywordSkipped(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"opportunitiesData": []map[string]any{
				{"noticeId": "x1", "title": "Survivor"},
			},
		})
	}))
	defer srv.Close()

	adapter := sources.NewSamGov("k", []string{"first", "second"}, 2, 0,
		httpx.NewClient(0), logger.NewNop())
	adapter.APIURL = srv.URL

	opps, err := adapter.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, opps, 1)
	assert.Equal(t, "Survivor", opps[0].Title)
}

func TestSamGov_Metadata(t *testing.T) {
	adapter := sources.NewSamGov("k", nil, 2, 0, httpx.NewClient(0), logger.NewNop())
	assert.Equal(t, "SAM.gov", adapter.Name())
	assert.Equal(t, "rest-api", adapter.Kind())
	assert.True(t, adapter.Platform())
}
