// Package nasa is the client for the NASA open APIs. It injects the API key,
// keeps a short-lived per-instance response cache, collapses identical
// in-flight requests and maps upstream failures to apperr kinds.
package nasa

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/cosmoscope/cosmoscope/pkg/apperr"
	"github.com/cosmoscope/cosmoscope/pkg/cache"
	"github.com/cosmoscope/cosmoscope/pkg/config"
	"github.com/cosmoscope/cosmoscope/pkg/models"
)

const (
	defaultBaseURL  = "https://api.nasa.gov"
	defaultAPIKey   = "DEMO_KEY"
	defaultTimeout  = 10 * time.Second
	defaultCacheTTL = 15 * time.Minute

	maxCacheEntries = 1000

	// maxBodyBytes caps how much of an upstream body is read.
	maxBodyBytes = 16 << 20
)

type validator interface {
	Validate() error
}

// Client talks to api.nasa.gov. It is safe for concurrent use.
type Client struct {
	baseURL  string
	apiKey   string
	http     *http.Client
	cache    *cache.Memory
	flight   singleflight.Group
	throttle *rate.Limiter
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for upstream diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithClock overrides the clock used for fallback dates and the cache.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New builds a Client from cfg. Zero values fall back to the public NASA
// endpoint, DEMO_KEY, a 10s timeout and a 15 minute cache.
func New(cfg config.UpstreamConfig, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		logger:  slog.Default(),
		now:     time.Now,
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.apiKey == "" {
		c.apiKey = defaultAPIKey
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c.http = &http.Client{Timeout: timeout}

	if cfg.MaxRPS > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.throttle = rate.NewLimiter(rate.Limit(cfg.MaxRPS), burst)
	}

	for _, o := range opts {
		o(c)
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	c.cache = cache.NewMemory(ttl, cache.WithClock(c.now), cache.WithMaxEntries(maxCacheEntries))
	return c
}

// Sweep drops expired upstream cache entries. It satisfies cache.Sweeper.
func (c *Client) Sweep(ctx context.Context) (int, error) {
	return c.cache.Sweep(ctx)
}

// CacheStats reports the per-instance upstream cache.
func (c *Client) CacheStats(ctx context.Context) (models.CacheStats, error) {
	st, err := c.cache.Stats(ctx)
	st.Backend = "upstream"
	return st, err
}

// ClearCache drops upstream cache entries whose key contains pattern.
func (c *Client) ClearCache(ctx context.Context, pattern string) (int, error) {
	return c.cache.Clear(ctx, pattern)
}

// get fetches endpoint with params, decodes the body into out and validates
// it. Successful bodies are cached under endpoint+params; the API key is
// never part of the key.
//
// Identical misses share one upstream call. The shared call is detached from
// any single caller's cancellation and bounded by the client timeout; each
// caller still returns as soon as its own context is done.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out validator) error {
	key := cache.Key(endpoint, params)

	if body, ok := c.cache.Get(ctx, key); ok {
		if err := decode(body, out); err == nil {
			return nil
		}
	}

	ch := c.flight.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.sharedTimeout())
		defer cancel()
		body, err := c.fetch(fctx, endpoint, params)
		if err != nil {
			return nil, err
		}
		if err := c.decodeBody(endpoint, body, newLike(out)); err != nil {
			return nil, err
		}
		if err := c.cache.Put(fctx, key, body, 0); err != nil {
			c.logger.Warn("upstream cache put failed", "key", key, "error", err)
		}
		return body, nil
	})

	select {
	case <-ctx.Done():
		return classifyTransport(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return res.Err
		}
		return c.decodeBody(endpoint, res.Val.([]byte), out)
	}
}

func (c *Client) sharedTimeout() time.Duration {
	if c.http.Timeout > 0 {
		return c.http.Timeout
	}
	return defaultTimeout
}

// newLike returns a zero value of the type out points to.
func newLike(out validator) validator {
	return reflect.New(reflect.TypeOf(out).Elem()).Interface().(validator)
}

func (c *Client) decodeBody(endpoint string, body []byte, out validator) error {
	if err := decode(body, out); err != nil {
		c.logger.Warn("upstream malformed response", "endpoint", endpoint, "error", err)
		return apperr.Wrap(apperr.KindBadGateway, "upstream returned malformed response", err)
	}
	return nil
}

func decode(body []byte, out validator) error {
	if err := json.Unmarshal(body, out); err != nil {
		return err
	}
	return out.Validate()
}

// fetch performs one upstream GET and returns the 200 body.
func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if c.throttle != nil {
		if err := c.throttle.Wait(ctx); err != nil {
			return nil, apperr.Wrap(apperr.KindTimeout, "upstream request timeout", err)
		}
	}

	q := url.Values{}
	for k, vs := range params {
		q[k] = vs
	}
	q.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "upstream request failed", fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		err = stripKey(err)
		c.logger.Warn("upstream request failed", "endpoint", endpoint, "params", params.Encode(), "error", redact(err, c.apiKey))
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, classifyTransport(stripKey(err))
	}

	c.logger.Debug("upstream request",
		"endpoint", endpoint,
		"params", params.Encode(),
		"status", resp.StatusCode,
		"duration_ms", c.now().Sub(start).Milliseconds(),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode)
	}
	return body, nil
}

// redact strips the API key from transport errors, which embed the URL.
func redact(err error, key string) string {
	msg := err.Error()
	if key == "" {
		return msg
	}
	return strings.ReplaceAll(msg, key, "REDACTED")
}
