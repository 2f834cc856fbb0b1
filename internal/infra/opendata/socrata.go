// Package opendata queries Socrata (SoQL) open-data endpoints.
package opendata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	domain "github.com/bryanwahyu/pothole-analyzer/internal/domain/reports"
)

// Client implements domain.Source.
type Client struct {
	endpoint string
	appToken string
	client   *http.Client
}

func NewClient(endpoint, appToken string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		appToken: appToken,
		client:   &http.Client{Timeout: timeout},
	}
}

func (c *Client) Fetch(ctx context.Context, q domain.Query) ([]domain.Report, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	params := u.Query()
	if q.Limit > 0 {
		params.Set("$limit", strconv.Itoa(q.Limit))
	}
	if q.Order != "" {
		params.Set("$order", q.Order)
	}
	if q.Where != "" {
		params.Set("$where", q.Where)
	}
	if q.Select != "" {
		params.Set("$select", q.Select)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.appToken != "" {
		req.Header.Set("X-App-Token", c.appToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open data request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("open data returned status: %d", resp.StatusCode)
	}

	var out []domain.Report
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode JSON from the response: %w", err)
	}
	return out, nil
}
