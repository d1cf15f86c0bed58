// Package etsy is a minimal read-only client for the Etsy v3 API, used by
// the dashboard to show shop listings once the account is connected.
package etsy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const defaultBaseURL = "https://openapi.etsy.com"

// Client fetches shop data with a bearer token obtained through the OAuth
// flow. Failures are returned to the caller, which surfaces them as inline
// error values rather than failing the page.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client. baseURL and httpClient may be empty/nil for
// the production defaults.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// ShopListings fetches the raw listings payload for a shop. The payload is
// passed through as-is for the presentation layer.
func (c *Client) ShopListings(ctx context.Context, accessToken, shopID string) (map[string]interface{}, error) {
	url := fmt.Sprintf("%s/v3/application/shops/%s/listings", c.baseURL, shopID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build listings request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch listings: status %d", resp.StatusCode)
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}
	return payload, nil
}
