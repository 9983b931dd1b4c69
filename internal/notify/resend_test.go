package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/rfpscout/internal/digest"
	"github.com/jonesrussell/rfpscout/internal/logger"
	"github.com/jonesrussell/rfpscout/internal/notify"
)

func TestResend_Send(t *testing.T) {
	var (
		gotAuth        string
		gotContentType string
		gotBody        map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_ = json.NewEncoder(w).Encode(map[string]string{"id": "email_01h2xcejqtf"})
	}))
	defer srv.Close()

	notifier := notify.NewResend("re_123", "scout@example.com", "team@example.com",
		srv.Client(), logger.NewNop())
	notifier.APIURL = srv.URL

	id, err := notifier.Send(context.Background(), digest.Digest{
		Subject: "RFP Scout: 2 new opportunities — August 22, 2026",
		HTML:    "<html>body</html>",
		Text:    "body",
	})
	require.NoError(t, err)

	assert.Equal(t, "email_01h2xcejqtf", id)
	assert.Equal(t, "Bearer re_123", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "scout@example.com", gotBody["from"])
	assert.Equal(t, []any{"team@example.com"}, gotBody["to"])
	assert.Equal(t, "RFP Scout: 2 new opportunities — August 22, 2026", gotBody["subject"])
	assert.Equal(t, "<html>body</html>", gotBody["html"])
	assert.Equal(t, "body", gotBody["text"])
}

func TestResend_ErrorCarriesResponseBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"The from address is not verified"}`))
	}))
	defer srv.Close()

	notifier := notify.NewResend("re_123", "scout@example.com", "team@example.com",
		srv.Client(), logger.NewNop())
	notifier.APIURL = srv.URL

	_, err := notifier.Send(context.Background(), digest.Digest{Subject: "s"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "not verified")
}

func TestResend_Configured(t *testing.T) {
	tests := []struct {
		name      string
		apiKey    string
		recipient string
		want      bool
	}{
		{"both set", "re_123", "team@example.com", true},
		{"missing key", "", "team@example.com", false},
		{"missing recipient", "re_123", "", false},
		{"neither", "", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			notifier := notify.NewResend(tc.apiKey, "scout@example.com", tc.recipient,
				http.DefaultClient, logger.NewNop())
			assert.Equal(t, tc.want, notifier.Configured())
		})
	}
}
