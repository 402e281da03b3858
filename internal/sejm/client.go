// Package sejm talks to the ELI registry API at api.sejm.gov.pl. The client
// bounds concurrency with a weighted semaphore, retries transient failures
// with exponential backoff, and routes every call through a circuit breaker.
package sejm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"sejmlex/internal/breaker"
	"sejmlex/internal/cache"
	"sejmlex/internal/logging"
	"sejmlex/internal/metrics"
)

const (
	// DefaultBaseURL is the public registry endpoint.
	DefaultBaseURL = "https://api.sejm.gov.pl/eli"

	connectTimeout = 5 * time.Second
	writeTimeout   = 10 * time.Second
	poolTimeout    = 10 * time.Second

	baseBackoff = 1 * time.Second
	maxBackoff  = 10 * time.Second

	// maxBodyBytes caps response reads; act PDFs run to a few MB.
	maxBodyBytes = 32 << 20
)

// Config tunes the registry client.
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	MaxConcurrent int
	MaxRetries    int
	UserAgent     string
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:       DefaultBaseURL,
		Timeout:       30 * time.Second,
		MaxConcurrent: 10,
		MaxRetries:    3,
		UserAgent:     "sejmlex/2.3.0",
	}
}

// Client is the registry API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	maxRetries int

	sem     *semaphore.Weighted
	breaker *breaker.CircuitBreaker
	cache   *cache.TTLCache
	logger  logging.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient builds a client around the given breaker and response cache.
// Zero config fields fall back to the defaults.
func NewClient(config Config, cb *breaker.CircuitBreaker, responseCache *cache.TTLCache, logger logging.Logger) *Client {
	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = defaults.MaxConcurrent
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = defaults.MaxRetries
	}
	if config.UserAgent == "" {
		config.UserAgent = defaults.UserAgent
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: connectTimeout,
		}).DialContext,
		TLSHandshakeTimeout: writeTimeout,
		MaxIdleConnsPerHost: config.MaxConcurrent,
		IdleConnTimeout:     poolTimeout,
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		userAgent:  config.UserAgent,
		maxRetries: config.MaxRetries,
		sem:        semaphore.NewWeighted(int64(config.MaxConcurrent)),
		breaker:    cb,
		cache:      responseCache,
		logger:     logging.OrNop(logger),
		sleep: func(ctx context.Context, d time.Duration) error {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
				return nil
			}
		},
	}
}

// GetJSON fetches a JSON document from the registry. With cacheTTL > 0 the
// decoded document is cached under a key derived from path and the sorted
// query parameters; cacheTTL <= 0 bypasses the cache entirely.
func (c *Client) GetJSON(ctx context.Context, path string, params map[string]string, cacheTTL time.Duration) (any, error) {
	key := cacheKey(path, params)
	if cacheTTL > 0 {
		if value, ok := c.cache.Get(key); ok {
			metrics.CacheHits.Inc()
			c.logger.Debug("cache hit: %s", key)
			return value, nil
		}
		metrics.CacheMisses.Inc()
	}

	body, err := c.get(ctx, path, params, "application/json")
	if err != nil {
		return nil, err
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &APIError{StatusCode: http.StatusOK, Path: path, Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if cacheTTL > 0 {
		c.cache.Set(key, decoded, cacheTTL)
	}
	return decoded, nil
}

// GetText fetches an HTML or plain-text document. Never cached.
func (c *Client) GetText(ctx context.Context, path string) (string, error) {
	body, err := c.get(ctx, path, nil, "text/html")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetBytes fetches a binary document such as an act PDF. Never cached.
func (c *Client) GetBytes(ctx context.Context, path string) ([]byte, error) {
	return c.get(ctx, path, nil, "application/pdf")
}

func cacheKey(path string, params map[string]string) string {
	if len(params) == 0 {
		return "json:" + path + ":"
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	return "json:" + path + ":" + strings.Join(pairs, "&")
}

// get runs one bounded, breaker-guarded, retried request.
func (c *Client) get(ctx context.Context, path string, params map[string]string, accept string) ([]byte, error) {
	defer func() {
		metrics.BreakerState.Set(float64(c.breaker.State()))
	}()

	// Breaker-open rejections must not consume an upstream permit.
	if !c.breaker.CanExecute() {
		metrics.UpstreamRequests.WithLabelValues("rejected").Inc()
		return nil, &APIUnavailableError{Reason: "circuit breaker open"}
	}

	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.sem.Release(1)

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if attempt > 1 {
			delay := backoffDelay(attempt)
			c.logger.Warn("retrying %s in %s (attempt %d/%d): %v", path, delay, attempt, c.maxRetries, lastErr)
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		body, err := c.doRequest(ctx, path, params, accept)
		if err == nil {
			c.breaker.RecordSuccess()
			metrics.UpstreamRequests.WithLabelValues("ok").Inc()
			return body, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, err
		}
		if !isRetryable(err) {
			metrics.UpstreamRequests.WithLabelValues("error").Inc()
			return nil, err
		}
		c.breaker.RecordFailure()
		metrics.UpstreamRequests.WithLabelValues("error").Inc()
	}
	return nil, lastErr
}

func (c *Client) doRequest(ctx context.Context, path string, params map[string]string, accept string) ([]byte, error) {
	u := c.baseURL + "/" + strings.TrimPrefix(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &APIError{Path: path, Message: err.Error()}
	}
	if len(params) > 0 {
		q := req.URL.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeoutErr(err) {
			return nil, &APIUnavailableError{Reason: "request timed out", Err: err}
		}
		return nil, &APIUnavailableError{Reason: "request failed", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, &APIUnavailableError{Reason: "reading response failed", Err: err}
		}
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, &ActNotFoundError{ELI: strings.TrimPrefix(path, "acts/")}
	case resp.StatusCode == http.StatusBadGateway || resp.StatusCode == http.StatusServiceUnavailable:
		return nil, &APIUnavailableError{Reason: fmt.Sprintf("upstream returned %d", resp.StatusCode)}
	default:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Path:       path,
			Message:    strings.TrimSpace(string(snippet)),
		}
	}
}

// isRetryable reports whether the request should be attempted again. 404 and
// other definitive upstream answers are final; timeouts, transport failures
// and 502/503 are worth retrying.
func isRetryable(err error) bool {
	var unavailable *APIUnavailableError
	return errors.As(err, &unavailable)
}

func isTimeoutErr(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func backoffDelay(attempt int) time.Duration {
	delay := baseBackoff << (attempt - 2)
	if delay > maxBackoff {
		delay = maxBackoff
	}
	return delay
}
