package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const customSearchURL = "https://www.googleapis.com/customsearch/v1"

// Result is one web search hit used as verification context.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Client queries Google Custom Search. Search failures are soft: the
// verification flow works without context, so errors degrade to an
// empty result set.
type Client struct {
	apiKey string
	cx     string
	client *http.Client
	logger *zap.SugaredLogger
}

func NewClient(apiKey, cx string, timeout time.Duration, logger *zap.SugaredLogger) *Client {
	return &Client{
		apiKey: apiKey,
		cx:     cx,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// SearchPlace looks up a place name on the web. Returns nil when the
// client is not configured or the lookup fails.
func (c *Client) SearchPlace(ctx context.Context, query string) []Result {
	if c.apiKey == "" || c.cx == "" {
		c.logger.Warn("search api key or cx missing, skipping real search")
		return nil
	}

	u := fmt.Sprintf("%s?key=%s&cx=%s&q=%s&num=10",
		customSearchURL, c.apiKey, c.cx, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warnw("place search failed", "query", query, "error", err)
		return nil
	}
	defer resp.Body.Close()

	var body struct {
		Items []Result `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logger.Warnw("failed to decode search response", "error", err)
		return nil
	}
	return body.Items
}

// ContextFor formats the top hit into the text block handed to the
// verification prompt. Empty when there are no results.
func ContextFor(results []Result) string {
	if len(results) == 0 {
		return ""
	}
	top := results[0]
	return fmt.Sprintf("Title: %s\nLink: %s\nSnippet: %s", top.Title, top.Link, top.Snippet)
}
