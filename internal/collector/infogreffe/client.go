// Package infogreffe fetches registry filings and key financial figures
// from the Infogreffe open-data API.
package infogreffe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/HumbledDS/dd-intelligence-assistant/internal/collector"
)

// Client implements collector.Client for Infogreffe financial data.
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

func (c *Client) Source() string { return "infogreffe" }

// Fetch returns published accounts and filings for a SIREN. Many SMEs file
// nothing; that yields an empty array, not an error.
func (c *Client) Fetch(ctx context.Context, siren string) (json.RawMessage, error) {
	params := url.Values{"siren": {siren}}
	u := fmt.Sprintf("%s/entreprises/comptes-annuels?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, collector.ClassifyError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return json.RawMessage("[]"), nil
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
	out, err := json.Marshal(body.Results)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", collector.ErrBadPayload, err)
	}
	return out, nil
}

var _ collector.Client = (*Client)(nil)
