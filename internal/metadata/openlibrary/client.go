// Package openlibrary is a rate-limited, retrying client for the Open
// Library search and works APIs.
package openlibrary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/shelfnote/shelfnote-server/internal/metrics"
	"github.com/shelfnote/shelfnote-server/internal/ratelimit"
)

const (
	defaultBaseURL   = "https://openlibrary.org"
	defaultCoversURL = "https://covers.openlibrary.org"
	defaultRPS       = 1.0
	defaultBurst     = 3
	defaultTimeout   = 20 * time.Second
	defaultRetries   = 3

	defaultLimit = 20
	maxLimit     = 100

	userAgent = "Shelfnote/1.0 (+https://github.com/shelfnote/shelfnote-server)"
)

// Cache stores raw upstream responses by request URL.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
}

// Config configures a Client. Zero values fall back to defaults.
type Config struct {
	BaseURL           string
	CoversURL         string
	RequestsPerSecond float64
	MaxRetries        uint64
	// RetryInterval is the first backoff delay; later delays grow from it.
	RetryInterval time.Duration
}

// Client talks to Open Library.
type Client struct {
	http      *http.Client
	baseURL   string
	coversURL string
	limiter   *ratelimit.KeyedRateLimiter
	cache     Cache
	retries   uint64
	interval  time.Duration
	logger    *slog.Logger
}

// New creates a client. cache may be nil.
func New(cfg Config, cache Cache, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.CoversURL == "" {
		cfg.CoversURL = defaultCoversURL
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRPS
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultRetries
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 500 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		http:      &http.Client{Timeout: defaultTimeout},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		coversURL: cfg.CoversURL,
		limiter:   ratelimit.New(cfg.RequestsPerSecond, defaultBurst),
		cache:     cache,
		retries:   cfg.MaxRetries,
		interval:  cfg.RetryInterval,
		logger:    logger,
	}
}

// CoversURL returns the base URL used for cover images.
func (c *Client) CoversURL() string {
	return c.coversURL
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// get fetches path from the cache or upstream, retrying transient failures
// with exponential backoff. endpoint labels metrics.
func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	if c.cache != nil {
		if body, ok := c.cache.Get(u); ok {
			metrics.CacheLookup(true)
			return body, nil
		}
		metrics.CacheLookup(false)
	}

	var body []byte
	op := func() error {
		var err error
		body, err = c.doRequest(ctx, u)
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.interval
	b.MaxInterval = 10 * c.interval
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, c.retries), ctx)

	err := backoff.RetryNotify(op, policy, func(err error, wait time.Duration) {
		metrics.MetadataRetry()
		c.logger.Warn("retrying metadata request",
			"endpoint", endpoint,
			"error", err,
			"wait", wait,
		)
	})
	if err != nil {
		result := "error"
		if errors.Is(err, ErrNotFound) {
			result = "not_found"
		}
		metrics.MetadataRequest(endpoint, result)
		return nil, err
	}
	metrics.MetadataRequest(endpoint, "ok")

	if c.cache != nil {
		if err := c.cache.Set(u, body); err != nil {
			c.logger.Warn("failed to cache metadata response", "endpoint", endpoint, "error", err)
		}
	}
	return body, nil
}

// doRequest executes one rate-limited GET.
func (c *Client) doRequest(ctx context.Context, rawURL string) ([]byte, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if err := c.limiter.Wait(ctx, parsed.Host); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("openlibrary request", "path", parsed.Path)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &transportError{err: fmt.Errorf("execute request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &transportError{err: fmt.Errorf("read response: %w", err)}
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusBadRequest:
		return nil, ErrBadRequest
	default:
		if resp.StatusCode >= 500 {
			return nil, ErrServer
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	return min(limit, maxLimit)
}
