package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError represents a non-2xx answer from the feed.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("feed error %d: %s", e.StatusCode, e.Message)
}

// doRequest performs a GET against the feed URL and returns the body.
func (c *Client) doRequest(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       body,
		}
	}

	return body, nil
}

// FetchCurrentPrice fetches and decodes the current price document.
// A payload that does not decode is returned as an error like any transport failure.
func (c *Client) FetchCurrentPrice(ctx context.Context) (*CurrentPrice, error) {
	body, err := c.doRequest(ctx)
	if err != nil {
		return nil, fmt.Errorf("get current price: %w", err)
	}

	var cp CurrentPrice
	if err := json.Unmarshal(body, &cp); err != nil {
		return nil, fmt.Errorf("unmarshal current price: %w", err)
	}

	c.logger.Debug("fetched current price",
		"updated", cp.Time.Updated,
		"currencies", len(cp.BPI),
	)

	return &cp, nil
}
