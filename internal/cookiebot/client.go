package cookiebot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ignite/consent-relay/internal/pkg/httpretry"
)

// Client is the Cookiebot consent-statistics API client
type Client struct {
	baseURL       string
	apiKey        string
	domainGroupID string
	domain        string
	httpClient    httpretry.HTTPDoer
}

// NewClient creates a new Cookiebot API client. If httpClient is nil, a
// default http.Client with 30s timeout is used.
func NewClient(config Config, httpClient httpretry.HTTPDoer) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:       config.BaseURL,
		apiKey:        config.APIKey,
		domainGroupID: config.DomainGroupID,
		domain:        config.Domain,
		httpClient:    httpClient,
	}
}

// statsURL builds the consent-stats endpoint for the given window.
// The API key is a path segment; the domain may contain characters that
// need escaping.
func (c *Client) statsURL(startDate, endDate string) string {
	return fmt.Sprintf("%s/api/v1/%s/json/domaingroup/%s/domain/%s/consent/stats?startdate=%s&enddate=%s",
		c.baseURL, c.apiKey, c.domainGroupID, url.PathEscape(c.domain), startDate, endDate)
}

// FetchStats retrieves consent statistics for the window and returns the
// decoded JSON payload. The envelope shape varies by API vintage; callers
// run the payload through ExtractRows. A non-2xx status or an undecodable
// body is an error; the error carries the status and body so operators can
// see what the API said.
func (c *Client) FetchStats(ctx context.Context, startDate, endDate string) (any, error) {
	reqURL := c.statsURL(startDate, endDate)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", reqURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("cookiebot API error (status %d): %s", resp.StatusCode, string(body))
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("cookiebot returned invalid JSON: %w", err)
	}
	return payload, nil
}
