// Package geocode wraps a single HTTP call to an external place-name search
// backend, the "geocoding backend" external collaborator consumed through
// one search operation only.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/eburns009/ephemeris-service/internal/apierr"
)

const requestTimeout = 3 * time.Second

// Result is one candidate match for a place-name search.
type Result struct {
	Name    string  `json:"name"`
	LatDeg  float64 `json:"lat_deg"`
	LonDeg  float64 `json:"lon_deg"`
	Country string  `json:"country,omitempty"`
}

// Client calls a single configured search endpoint. A zero-value baseURL
// disables geocoding entirely (Search always returns ErrUnconfigured).
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ErrUnconfigured means no geocode_url was set, so the endpoint is disabled.
var ErrUnconfigured = fmt.Errorf("geocode: no backend configured")

// New builds a Client. An empty baseURL yields a Client whose Search always
// fails with ErrUnconfigured, matching the optional-passthrough design.
func New(baseURL string) *Client {
	return &Client{baseURL: baseURL, httpClient: &http.Client{Timeout: requestTimeout}}
}

// Search performs a single place-name lookup against the configured
// backend. Any transport error or non-2xx response is mapped to
// apierr.ErrGeocodeUnavailable.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	if c.baseURL == "" {
		return nil, ErrUnconfigured
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	u := fmt.Sprintf("%s?q=%s", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", apierr.ErrGeocodeUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apierr.ErrGeocodeUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: backend returned status %d", apierr.ErrGeocodeUnavailable, resp.StatusCode)
	}

	var results []Result
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", apierr.ErrGeocodeUnavailable, err)
	}
	return results, nil
}
