package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrBadStatus marks responses whose status code was outside the 2xx range.
var ErrBadStatus = errors.New("fetch: unexpected response status")

// DownloadError is returned when a download has exhausted all retry
// attempts. Err holds the failure of the final attempt.
//
// Use errors.As to extract this error and inspect the URL and cause.
type DownloadError struct {
	URL      string // The URL that was being downloaded
	Attempts int    // Number of attempts made
	Err      error  // The error from the final attempt
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// Options configures the fetch client.
type Options struct {
	// Attempts is the maximum number of attempts per download.
	// Default: 4
	Attempts int

	// Backoff is the delay before the first retry; it doubles after every
	// failed attempt.
	// Default: 1s
	Backoff time.Duration

	// MaxBackoff caps the per-retry delay.
	// Default: 30s
	MaxBackoff time.Duration

	// Timeout for individual requests.
	// Default: 30s
	Timeout time.Duration

	// MaxIdleConnsPerHost sets the maximum idle connections per host.
	// Default: 10
	MaxIdleConnsPerHost int
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Attempts:            4,
		Backoff:             time.Second,
		MaxBackoff:          30 * time.Second,
		Timeout:             30 * time.Second,
		MaxIdleConnsPerHost: 10,
	}
}

// Client is an HTTP client that retries failed downloads with exponential
// backoff.
type Client struct {
	client *http.Client
	opts   Options
}

// NewClient creates a new fetch client with the given options. Zero-valued
// option fields are replaced with their defaults.
func NewClient(opts Options) *Client {
	def := DefaultOptions()
	if opts.Attempts <= 0 {
		opts.Attempts = def.Attempts
	}
	if opts.Backoff <= 0 {
		opts.Backoff = def.Backoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = def.MaxBackoff
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.MaxIdleConnsPerHost <= 0 {
		opts.MaxIdleConnsPerHost = def.MaxIdleConnsPerHost
	}

	transport := &http.Transport{
		MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
		MaxIdleConns:        opts.MaxIdleConnsPerHost * 2,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		opts: opts,
	}
}

// Get downloads url and returns the full response body. Transport errors and
// non-2xx statuses are retried up to Options.Attempts times; the backoff
// before attempt n is Backoff * 2^(n-2), capped at MaxBackoff. After the
// attempt budget is exhausted a *DownloadError is returned.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= c.opts.Attempts; attempt++ {
		if attempt > 1 {
			if err := c.backoff(ctx, attempt); err != nil {
				return nil, err
			}
		}

		data, err := c.get(ctx, url)
		if err != nil {
			lastErr = err
			continue
		}
		return data, nil
	}

	return nil, &DownloadError{URL: url, Attempts: c.opts.Attempts, Err: lastErr}
}

// get performs a single GET attempt.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %s", ErrBadStatus, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}

// delay returns the backoff duration before the given attempt (attempt >= 2).
func (c *Client) delay(attempt int) time.Duration {
	d := c.opts.Backoff * time.Duration(1<<uint(attempt-2))
	if d > c.opts.MaxBackoff {
		d = c.opts.MaxBackoff
	}
	return d
}

// backoff waits for an exponentially increasing duration before the given
// attempt number (attempt >= 2).
func (c *Client) backoff(ctx context.Context, attempt int) error {
	delay := c.delay(attempt)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
