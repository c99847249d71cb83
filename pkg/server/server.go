// Package server exposes the cosmoscope HTTP API.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cosmoscope/cosmoscope/pkg/cache"
	"github.com/cosmoscope/cosmoscope/pkg/config"
	"github.com/cosmoscope/cosmoscope/pkg/models"
	"github.com/cosmoscope/cosmoscope/pkg/ratelimit"
)

// Recorder receives one record per served /api/ request.
type Recorder interface {
	Enqueue(rec models.RequestRecord)
}

// Server is the cosmoscope API server.
type Server struct {
	cfg      *config.Config
	upstream Upstream
	cache    *cache.ResponseCache
	limiter  *ratelimit.Limiter
	recorder Recorder
	keyFn    ratelimit.KeyFunc
	logger   *slog.Logger
	now      func() time.Time
	version  string
	started  time.Time

	mux     *http.ServeMux
	handler http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithResponseCache enables the HTTP response cache on data routes.
func WithResponseCache(c *cache.ResponseCache) Option {
	return func(s *Server) { s.cache = c }
}

// WithLimiter enables per-client rate limiting on /api/ routes.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(s *Server) { s.limiter = l }
}

// WithRecorder enables request tracking.
func WithRecorder(r Recorder) Option {
	return func(s *Server) { s.recorder = r }
}

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithClock overrides the clock used for timestamps and date validation.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithVersion sets the version reported by /health.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// New creates a Server serving data from up.
func New(cfg *config.Config, up Upstream, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		upstream: up,
		logger:   slog.Default(),
		now:      time.Now,
		version:  "dev",
		mux:      http.NewServeMux(),
	}
	for _, o := range opts {
		o(s)
	}
	s.started = s.now()
	s.keyFn = ratelimit.DefaultKeyFunc(cfg.RateLimit.KeyHeader, cfg.RateLimit.TrustXForwardedFor)

	s.routes()
	s.handler = s.recoverer(s.requestID(s.accessLog(s.headers(s.apiLimit(http.HandlerFunc(s.dispatch))))))
	return s
}

func (s *Server) routes() {
	s.mux.Handle("GET /health", s.wrap(s.handleHealth))

	s.data("GET /api/v1/apod", s.handleAPOD)
	s.data("GET /api/v1/apod/range", s.handleAPODRange)
	// Random picks must differ per call.
	s.mux.Handle("GET /api/v1/apod/random", s.wrap(s.handleAPODRandom))

	s.data("GET /api/v1/mars-rovers", s.handleRovers)
	s.data("GET /api/v1/mars-rovers/photos", s.handleMarsPhotos)
	s.data("GET /api/v1/mars-rovers/{rover}/latest", s.handleMarsLatest)
	s.data("GET /api/v1/mars-rovers/{rover}/manifest", s.handleRoverManifest)

	s.data("GET /api/v1/neo/feed", s.handleNEOFeed)
	s.data("GET /api/v1/neo/browse", s.handleNEOBrowse)
	s.data("GET /api/v1/neo/{id}", s.handleNEOLookup)

	s.data("GET /api/v1/epic/{collection}", s.handleEPICImages)
	s.data("GET /api/v1/epic/{collection}/dates", s.handleEPICDates)
	s.data("GET /api/v1/epic/{collection}/position", s.handleEPICPosition)

	s.mux.Handle("GET /api/v1/cache/stats", s.wrap(s.handleCacheStats))
	s.mux.Handle("DELETE /api/v1/cache", s.wrap(s.handleCacheClear))
}

// data registers a cacheable route.
func (s *Server) data(pattern string, h handlerFunc) {
	var handler http.Handler = s.wrap(h)
	if s.cache != nil {
		handler = s.cache.Middleware(handler)
	}
	s.mux.Handle(pattern, handler)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// dispatch routes to the mux, answering unmatched requests with error
// envelopes instead of the mux's plain text bodies.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	if _, pattern := s.mux.Handler(r); pattern == "" {
		s.unmatched(w, r)
		return
	}
	s.mux.ServeHTTP(w, r)
}

// apiLimit applies the rate limiter to /api/ paths only.
func (s *Server) apiLimit(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	limited := ratelimit.Middleware(ratelimit.Options{
		Limiter: s.limiter,
		KeyFn:   s.keyFn,
		Logger:  s.logger,
		Now:     s.now,
	})(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			limited.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ListenAndServe starts the server with graceful shutdown support.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("cosmoscope listening", "addr", s.cfg.Listen, "environment", s.cfg.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		return err
	}
}
