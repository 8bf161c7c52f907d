// Package news fetches press coverage about a company from NewsAPI.
// The API needs a paid key; without one the client degrades to an empty
// result so the reputation phase simply contributes nothing.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/HumbledDS/dd-intelligence-assistant/internal/collector"
)

const defaultPageSize = 20

// Article is the trimmed-down shape kept from a NewsAPI response.
type Article struct {
	Title       string `json:"title"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
}

// Client implements collector.NewsClient against NewsAPI.
type Client struct {
	baseURL  string
	apiKey   string
	pageSize int
	client   *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		pageSize: defaultPageSize,
		client:   &http.Client{Timeout: timeout},
	}
}

func (c *Client) Source() string { return "news" }

func (c *Client) FetchByName(ctx context.Context, companyName string) (json.RawMessage, error) {
	if c.apiKey == "" {
		slog.Warn("NEWS_API_KEY not set, skipping news collection")
		return json.RawMessage("[]"), nil
	}

	params := url.Values{
		"q":        {fmt.Sprintf("%q", companyName)},
		"language": {"fr"},
		"sortBy":   {"publishedAt"},
		"pageSize": {strconv.Itoa(c.pageSize)},
	}
	u := fmt.Sprintf("%s/everything?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, collector.ClassifyError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", collector.ErrUnavailable, resp.StatusCode)
	}

	var body struct {
		Articles []struct {
			Title  string `json:"title"`
			Source struct {
				Name string `json:"name"`
			} `json:"source"`
			PublishedAt string `json:"publishedAt"`
			Description string `json:"description"`
			URL         string `json:"url"`
		} `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", collector.ErrBadPayload, err)
	}

	articles := make([]Article, 0, len(body.Articles))
	for _, a := range body.Articles {
		articles = append(articles, Article{
			Title:       a.Title,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
			Description: a.Description,
			URL:         a.URL,
		})
	}
	out, err := json.Marshal(articles)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", collector.ErrBadPayload, err)
	}
	return out, nil
}

var _ collector.NewsClient = (*Client)(nil)
