// Package upstream is the HTTP plumbing shared by the external dictionary
// providers: request construction, a single retry on 5xx or network errors,
// and JSON decoding with status classification.
package upstream

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ErrNotFound is returned when the upstream answers 404.
var ErrNotFound = errors.New("upstream: not found")

const (
	maxBodyBytes     = 4 << 20
	defaultUserAgent = "lexicon (dictionary lookup)"
)

// Client performs GET requests against one upstream API.
type Client struct {
	name       string
	httpClient *http.Client
	retryDelay time.Duration
	userAgent  string
	log        *slog.Logger
}

// Options configures a Client.
type Options struct {
	Timeout    time.Duration
	RetryDelay time.Duration
	HTTPClient *http.Client
	UserAgent  string
}

// NewClient creates a Client. name is used in log lines and errors.
func NewClient(name string, opts Options, logger *slog.Logger) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		name:       name,
		httpClient: hc,
		retryDelay: opts.RetryDelay,
		userAgent:  cmp.Or(opts.UserAgent, defaultUserAgent),
		log:        logger,
	}
}

// GetJSON fetches url and decodes the JSON body into dst.
// A 404 yields ErrNotFound; any other non-2xx status is an error.
func (c *Client) GetJSON(ctx context.Context, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", c.name, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.doWithRetry(ctx, req)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", c.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: unexpected status %d", c.name, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%s: read body: %w", c.name, err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%s: decode json: %w", c.name, err)
	}

	c.log.DebugContext(ctx, "upstream response",
		slog.String("url", url),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)),
	)
	return nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}

	// Don't retry if context is already cancelled.
	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	c.log.WarnContext(ctx, "upstream retry", slog.String("url", req.URL.String()), slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	if c.retryDelay > 0 {
		timer := time.NewTimer(c.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return c.httpClient.Do(req)
}
