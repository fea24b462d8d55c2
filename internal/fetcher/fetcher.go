// Package fetcher provides HTTP document fetching for the source parsers.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxBodyBytes caps the size of a fetched document.
const maxBodyBytes = 5 << 20

// Interface fetches a raw document from a URL.
type Interface interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Client implements Interface using net/http.
type Client struct {
	httpClient *http.Client
	userAgent  string
	retry      RetryPolicy
}

// NewClient creates a document fetcher with the given timeout and user agent.
func NewClient(timeout time.Duration, userAgent string, retry RetryPolicy) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		retry:      retry,
	}
}

// Fetch performs an HTTP GET and returns the response body. Non-2xx
// responses are errors. Attempts are governed by the client's retry policy.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte

	err := c.retry.Do(ctx, func() error {
		fetched, fetchErr := c.fetchOnce(ctx, url)
		if fetchErr != nil {
			return fetchErr
		}
		body = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}

	return body, nil
}

// fetchOnce performs a single GET attempt.
func (c *Client) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("fetcher new request: %w", err)
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, doErr := c.httpClient.Do(req)
	if doErr != nil {
		return nil, fmt.Errorf("fetcher do request: %w", doErr)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("fetcher unexpected status %d for %s", resp.StatusCode, url)
	}

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if readErr != nil {
		return nil, fmt.Errorf("fetcher read body: %w", readErr)
	}

	return body, nil
}
