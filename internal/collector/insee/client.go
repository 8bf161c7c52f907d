// Package insee queries the INSEE Sirene API, used as the fallback identity
// source when DINUM is unavailable.
package insee

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/HumbledDS/dd-intelligence-assistant/internal/collector"
)

// Client implements collector.Client against the Sirene V3 API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a Sirene client. apiKey may be empty; the public
// endpoint accepts unauthenticated requests at a lower rate.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) Source() string { return "insee" }

func (c *Client) Fetch(ctx context.Context, siren string) (json.RawMessage, error) {
	u := fmt.Sprintf("%s/siren/%s", c.baseURL, siren)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-INSEE-Api-Key-Integration", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, collector.ClassifyError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: siren %s", collector.ErrNotFound, siren)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", collector.ErrUnavailable, resp.StatusCode)
	}

	var body struct {
		UniteLegale json.RawMessage `json:"uniteLegale"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", collector.ErrBadPayload, err)
	}
	if len(body.UniteLegale) == 0 {
		return nil, fmt.Errorf("%w: siren %s", collector.ErrNotFound, siren)
	}
	return body.UniteLegale, nil
}

var _ collector.Client = (*Client)(nil)
