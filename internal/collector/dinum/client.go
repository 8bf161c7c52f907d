// Package dinum queries the DINUM recherche-entreprises API, the primary
// identity source. Free, no API key required.
package dinum

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/HumbledDS/dd-intelligence-assistant/internal/collector"
)

const userAgent = "dd-intelligence-assistant/1.0"

// Client implements collector.Client against recherche-entreprises.api.gouv.fr.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) Source() string { return "dinum" }

// Fetch returns the full company profile for a SIREN: legal identity,
// headcount band, dirigeants and financial ratios where published.
func (c *Client) Fetch(ctx context.Context, siren string) (json.RawMessage, error) {
	results, err := c.search(ctx, siren, 1)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: siren %s", collector.ErrNotFound, siren)
	}
	return results[0], nil
}

// Search looks up companies by name or SIREN and returns the raw result list.
func (c *Client) Search(ctx context.Context, query string, limit int) (json.RawMessage, error) {
	results, err := c.search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	out, err := json.Marshal(results)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", collector.ErrBadPayload, err)
	}
	return out, nil
}

func (c *Client) search(ctx context.Context, query string, limit int) ([]json.RawMessage, error) {
	params := url.Values{
		"q":      {query},
		"limite": {strconv.Itoa(limit)},
	}
	u := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, collector.ClassifyError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", collector.ErrNotFound, query)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", collector.ErrUnavailable, resp.StatusCode)
	}

	var body struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", collector.ErrBadPayload, err)
	}
	return body.Results, nil
}

// CompanyName extracts the display name from a DINUM company payload,
// falling back to the given SIREN when absent.
func CompanyName(payload json.RawMessage, siren string) string {
	var body struct {
		NomComplet string `json:"nom_complet"`
	}
	if err := json.Unmarshal(payload, &body); err == nil && body.NomComplet != "" {
		return body.NomComplet
	}
	return siren
}

var _ collector.Client = (*Client)(nil)
