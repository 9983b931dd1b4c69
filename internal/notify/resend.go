// Package notify delivers rendered digests through the Resend email API.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jonesrussell/rfpscout/internal/digest"
	"github.com/jonesrussell/rfpscout/internal/httpx"
	"github.com/jonesrussell/rfpscout/internal/logger"
)

const resendAPIURL = "https://api.resend.com/emails"

// Resend sends digests as transactional email. The zero recipient or key
// leaves it unconfigured; callers check Configured before sending.
type Resend struct {
	// APIURL overrides the production endpoint in tests.
	APIURL string

	apiKey    string
	sender    string
	recipient string
	client    *http.Client
	log       logger.Logger
}

// NewResend builds the notifier.
func NewResend(apiKey, sender, recipient string, client *http.Client, log logger.Logger) *Resend {
	return &Resend{
		APIURL:    resendAPIURL,
		apiKey:    apiKey,
		sender:    sender,
		recipient: recipient,
		client:    client,
		log:       log,
	}
}

// Configured reports whether delivery can be attempted.
func (r *Resend) Configured() bool {
	return r.apiKey != "" && r.recipient != ""
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
}

type resendResponse struct {
	ID string `json:"id"`
}

// Send delivers one digest and returns the provider's delivery ID. A non-2xx
// response is an error carrying the response body, which is where Resend
// explains rejections (unverified sender, bad recipient).
func (r *Resend) Send(ctx context.Context, d digest.Digest) (string, error) {
	payload, err := json.Marshal(resendRequest{
		From:    r.sender,
		To:      []string{r.recipient},
		Subject: d.Subject,
		HTML:    d.HTML,
		Text:    d.Text,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.APIURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	r.log.Debug("Sending digest",
		logger.String("from", r.sender),
		logger.String("to", r.recipient),
		logger.String("subject", d.Subject),
	)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send digest: %w", err)
	}
	body, err := httpx.ReadBody(resp)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("resend status %d: %s", resp.StatusCode, body)
	}

	var parsed resendResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return parsed.ID, nil
}
