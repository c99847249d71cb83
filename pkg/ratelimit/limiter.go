package ratelimit

import (
	"context"
	"log/slog"
	"math"
	"time"
)

// UnknownKey is the bucket shared by every client without a resolvable address.
const UnknownKey = "unknown"

// Window is the state of one client's current window.
type Window struct {
	Count   int64
	ResetAt time.Time
}

// Store counts hits per key.
type Store interface {
	// Hit counts one request for key, opening a new window of the given
	// length when none is active at now, and returns the updated window.
	Hit(ctx context.Context, key string, window time.Duration, now time.Time) (Window, error)
}

// Result is the decision for one request.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter returns the whole seconds until the window resets, at least 1.
func (r Result) RetryAfter(now time.Time) int {
	secs := int(math.Ceil(r.ResetAt.Sub(now).Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

// Limiter applies a fixed window quota.
type Limiter struct {
	store       Store
	maxRequests int
	window      time.Duration
	now         func() time.Time
	logger      *slog.Logger
}

type Option func(*Limiter)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) { l.logger = logger }
}

// New creates a Limiter allowing maxRequests per window.
func New(store Store, maxRequests int, window time.Duration, opts ...Option) *Limiter {
	l := &Limiter{
		store:       store,
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Limit returns the quota per window.
func (l *Limiter) Limit() int { return l.maxRequests }

// Check counts a request for clientID and decides whether it is allowed.
// A store failure allows the request with the full quota.
func (l *Limiter) Check(ctx context.Context, clientID string) Result {
	if clientID == "" {
		clientID = UnknownKey
	}
	now := l.now()

	w, err := l.store.Hit(ctx, clientID, l.window, now)
	if err != nil {
		l.logger.Warn("rate limit store failed, allowing request", "client", clientID, "error", err)
		return Result{
			Allowed:   true,
			Limit:     l.maxRequests,
			Remaining: l.maxRequests,
			ResetAt:   now.Add(l.window),
		}
	}

	remaining := int64(l.maxRequests) - w.Count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   w.Count <= int64(l.maxRequests),
		Limit:     l.maxRequests,
		Remaining: int(remaining),
		ResetAt:   w.ResetAt,
	}
}
