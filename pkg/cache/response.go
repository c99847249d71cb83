package cache

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cosmoscope/cosmoscope/pkg/models"
)

const (
	// HeaderCache reports HIT or MISS on cacheable responses.
	HeaderCache = "X-Cache"
	// HeaderDataSource marks responses that must not be cached when set to
	// DataSourceFallback.
	HeaderDataSource   = "X-Data-Source"
	DataSourceFallback = "fallback"
)

// ResponseCache caches successful GET responses keyed by path and query.
type ResponseCache struct {
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

// NewResponseCache wraps store; every put uses ttl.
func NewResponseCache(store Store, ttl time.Duration, logger *slog.Logger) *ResponseCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResponseCache{store: store, ttl: ttl, logger: logger}
}

// Get returns the cached payload for a GET request.
func (c *ResponseCache) Get(ctx context.Context, method, path string, query url.Values) ([]byte, bool) {
	if method != http.MethodGet {
		return nil, false
	}
	return c.store.Get(ctx, Key(path, query))
}

// Put caches payload if status is 200. Store errors are logged, never
// returned.
func (c *ResponseCache) Put(ctx context.Context, path string, query url.Values, status int, payload []byte) {
	if status != http.StatusOK {
		return
	}
	key := Key(path, query)
	if err := c.store.Put(ctx, key, payload, c.ttl); err != nil {
		c.logger.Warn("response cache put failed", "key", key, "error", err)
	}
}

// Clear removes entries containing pattern, or all entries.
func (c *ResponseCache) Clear(ctx context.Context, pattern string) (int, error) {
	return c.store.Clear(ctx, pattern)
}

// Stats returns the underlying store's snapshot.
func (c *ResponseCache) Stats(ctx context.Context) (models.CacheStats, error) {
	return c.store.Stats(ctx)
}

// Middleware serves cached GET responses and stores fresh 200 responses.
func (c *ResponseCache) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		if payload, ok := c.Get(r.Context(), r.Method, r.URL.Path, r.URL.Query()); ok {
			w.Header().Set(HeaderCache, "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(payload)
			return
		}

		w.Header().Set(HeaderCache, "MISS")
		cw := &captureWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(cw, r)

		if w.Header().Get(HeaderDataSource) == DataSourceFallback {
			return
		}
		c.Put(r.Context(), r.URL.Path, r.URL.Query(), cw.status, cw.buf.Bytes())
	})
}

// captureWriter tees the body written by a handler.
type captureWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	buf         bytes.Buffer
}

func (w *captureWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}
