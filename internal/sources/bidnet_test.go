package sources_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/rfpscout/internal/logger"
	"github.com/jonesrussell/rfpscout/internal/sources"
)

const bidnetListingHTML = `<!DOCTYPE html>
<html><body>
<table>
  <tbody>
    <tr>
      <td><a href="/private/solicitation/42">Case Management System RFP</a></td>
      <td>Pima County</td>
      <td>Due 09/15/2026</td>
    </tr>
    <tr>
      <td><a href="https://other.example.com/sol/7">Licensing Platform Modernization</a></td>
      <td>State of Oregon</td>
    </tr>
    <tr>
      <td>No link in this row</td>
      <td>Skipped</td>
    </tr>
  </tbody>
</table>
</body></html>`

func TestBidNet_Fetch(t *testing.T) {
	var keywords []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/public/solicitations/open" {
			http.NotFound(w, r)
			return
		}
		keywords = append(keywords, r.URL.Query().Get("keyword"))
		fmt.Fprint(w, bidnetListingHTML)
	}))
	defer srv.Close()

	adapter := sources.NewBidNet([]string{"case management"}, 0, 0, logger.NewNop())
	adapter.BaseURL = srv.URL

	opps, err := adapter.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"case management"}, keywords)
	require.Len(t, opps, 2)

	assert.Equal(t, "Case Management System RFP", opps[0].Title)
	assert.Equal(t, srv.URL+"/private/solicitation/42", opps[0].URL)
	assert.Equal(t, "Pima County | Due 09/15/2026", opps[0].Description)
	assert.Equal(t, "BidNet Direct", opps[0].Source)

	assert.Equal(t, "Licensing Platform Modernization", opps[1].Title)
	assert.Equal(t, "https://other.example.com/sol/7", opps[1].URL)
	assert.Equal(t, "State of Oregon", opps[1].Description)
}

func TestBidNet_ServerErrorYieldsNoRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	adapter := sources.NewBidNet([]string{"case management"}, 0, 0, logger.NewNop())
	adapter.BaseURL = srv.URL

	opps, err := adapter.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, opps)
}

func TestBidNet_Metadata(t *testing.T) {
	adapter := sources.NewBidNet(nil, 0, 0, logger.NewNop())
	assert.Equal(t, "BidNet Direct", adapter.Name())
	assert.Equal(t, "html-table", adapter.Kind())
	assert.True(t, adapter.Platform())
}
