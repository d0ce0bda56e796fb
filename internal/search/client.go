// Package search provides a thin client for the research search API used
// to gather candidate references before proposal generation.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/drydock-dev/drydock/internal/config"
)

const maxResponseBytes = 1 << 20

// Result is a single search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

type searchResponse struct {
	Results []Result `json:"results"`
}

// Client queries the configured search endpoint.
type Client struct {
	endpoint   string
	maxResults int
	httpClient *http.Client
}

// NewClient builds a Client from config. Returns nil when no endpoint is
// configured; callers treat a nil client as "research disabled".
func NewClient(cfg config.SearchConfig) *Client {
	if cfg.Endpoint == "" {
		return nil
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Search runs a query against the endpoint and returns up to the configured
// number of results.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("search: parsing endpoint: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("limit", fmt.Sprintf("%d", c.maxResults))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("search: building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search: endpoint returned status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return nil, fmt.Errorf("search: decoding response: %w", err)
	}

	results := body.Results
	if len(results) > c.maxResults {
		results = results[:c.maxResults]
	}
	return results, nil
}

// ReferenceLines formats results as prompt-ready reference lines.
func ReferenceLines(results []Result) []string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		if r.Title != "" {
			lines = append(lines, fmt.Sprintf("%s - %s", r.Title, r.URL))
		} else {
			lines = append(lines, r.URL)
		}
	}
	return lines
}
