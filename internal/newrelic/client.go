// Package newrelic posts event batches to the New Relic Events API.
package newrelic

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ignite/consent-relay/internal/pkg/httpretry"
)

// Config holds New Relic Events API configuration
type Config struct {
	BaseURL   string
	AccountID string
	IngestKey string
}

// Client is the New Relic Events API client
type Client struct {
	baseURL    string
	accountID  string
	ingestKey  string
	httpClient httpretry.HTTPDoer
}

// NewClient creates a new Events API client. If httpClient is nil, a
// default http.Client with 30s timeout is used.
func NewClient(config Config, httpClient httpretry.HTTPDoer) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    config.BaseURL,
		accountID:  config.AccountID,
		ingestKey:  config.IngestKey,
		httpClient: httpClient,
	}
}

// SendEvents posts one pre-serialized JSON array of events. The batch is
// atomic from the relay's point of view: the endpoint accepts or rejects it
// whole. A non-2xx status is an error carrying the status and body.
func (c *Client) SendEvents(ctx context.Context, payload []byte) error {
	reqURL := fmt.Sprintf("%s/v1/accounts/%s/events", c.baseURL, c.accountID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", c.ingestKey)
	req.ContentLength = int64(len(payload))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", reqURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("new relic API error (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}
