// Package ratelimit implements a per-client fixed-window request limiter.
//
// A Limiter counts requests per client key in windows of fixed length and
// rejects once the quota of a window is used up. Counters live in a Store:
// MemoryStore for a single process, RedisStore when several instances must
// share one quota. Middleware wires a Limiter into net/http and emits the
// X-RateLimit-* headers on every request.
package ratelimit
