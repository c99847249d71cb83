package ratelimit

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cosmoscope/cosmoscope/pkg/models"
)

const (
	HeaderLimit     = "X-RateLimit-Limit"
	HeaderRemaining = "X-RateLimit-Remaining"
	HeaderReset     = "X-RateLimit-Reset"
)

// KeyFunc derives the client key of a request.
type KeyFunc func(r *http.Request) string

// Options configures Middleware.
type Options struct {
	Limiter            *Limiter
	KeyFn              KeyFunc
	KeyHeader          string
	TrustXForwardedFor bool
	Logger             *slog.Logger
	Now                func() time.Time
}

// DefaultKeyFunc identifies clients by keyHeader when set and present, then
// by the first X-Forwarded-For hop when trusted, then by the RemoteAddr host.
// Requests with none of these share the UnknownKey bucket.
func DefaultKeyFunc(keyHeader string, trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if keyHeader != "" {
			if v := strings.TrimSpace(r.Header.Get(keyHeader)); v != "" {
				return v
			}
		}

		if trustXFF {
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				first, _, _ := strings.Cut(xff, ",")
				if ip := strings.TrimSpace(first); ip != "" {
					return ip
				}
			}
		}

		addr := strings.TrimSpace(r.RemoteAddr)
		host, _, err := net.SplitHostPort(addr)
		if err == nil && host != "" {
			return host
		}
		if addr != "" {
			return addr
		}
		return UnknownKey
	}
}

// SetHeaders writes the quota headers for res.
func SetHeaders(h http.Header, res Result) {
	h.Set(HeaderLimit, strconv.Itoa(res.Limit))
	h.Set(HeaderRemaining, strconv.Itoa(res.Remaining))
	h.Set(HeaderReset, strconv.FormatInt(res.ResetAt.Unix(), 10))
}

// Middleware enforces opts.Limiter. Quota headers are set before the next
// handler runs; rejected requests get a 429 JSON body with retryAfter.
func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.KeyHeader, opts.TrustXForwardedFor)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	var unknownOnce sync.Once

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opts.KeyFn(r)
			if key == UnknownKey || key == "" {
				unknownOnce.Do(func() {
					opts.Logger.Warn("client address unresolvable, using shared rate limit bucket", "bucket", UnknownKey)
				})
			}

			res := opts.Limiter.Check(r.Context(), key)
			SetHeaders(w.Header(), res)

			if !res.Allowed {
				now := opts.Now()
				retry := res.RetryAfter(now)
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(models.RateLimitEnvelope{
					ErrorEnvelope: models.ErrorEnvelope{
						Error:     true,
						Message:   "too many requests, please try again later",
						Timestamp: models.Timestamp(now),
						Path:      r.URL.Path,
						Method:    r.Method,
					},
					RetryAfter: retry,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
