// Package bodacc fetches official legal announcements (BODACC) for a
// company. Free, via the opendatasoft records API.
package bodacc

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

const defaultLimit = 20

// Client implements collector.Client for BODACC announcements.
type Client struct {
	baseURL string
	limit   int
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		limit:   defaultLimit,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) Source() string { return "bodacc" }

// Fetch returns recent announcements, newest first. A company with no
// announcements yields an empty array, not an error.
func (c *Client) Fetch(ctx context.Context, siren string) (json.RawMessage, error) {
	params := url.Values{
		"where":    {fmt.Sprintf("registre like %q", siren+"%")},
		"limit":    {strconv.Itoa(c.limit)},
		"order_by": {"dateparution desc"},
	}
	u := fmt.Sprintf("%s/catalog/datasets/bodacc-a/records?%s", c.baseURL, params.Encode())

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

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", collector.ErrUnavailable, resp.StatusCode)
	}

	var body struct {
		Records []struct {
			Record struct {
				Fields json.RawMessage `json:"fields"`
			} `json:"record"`
		} `json:"records"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", collector.ErrBadPayload, err)
	}

	fields := make([]json.RawMessage, 0, len(body.Records))
	for _, r := range body.Records {
		if len(r.Record.Fields) > 0 {
			fields = append(fields, r.Record.Fields)
		}
	}
	out, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", collector.ErrBadPayload, err)
	}
	return out, nil
}

var _ collector.Client = (*Client)(nil)
