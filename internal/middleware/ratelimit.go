// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter limits requests per client IP with a fixed window counter
// kept in Valkey, so every server instance shares the same budget.
type RateLimiter struct {
	client     *redis.Client
	prefix     string
	limit      int64
	window     time.Duration
	trustProxy bool
}

// LimiterOption configures a RateLimiter.
type LimiterOption func(*RateLimiter)

// WithTrustedProxy keys clients on X-Forwarded-For / X-Real-IP. Only use it
// behind a proxy that overwrites those headers; otherwise any client can
// pick its own key.
func WithTrustedProxy() LimiterOption {
	return func(rl *RateLimiter) { rl.trustProxy = true }
}

// NewRateLimiter creates a rate limiter that allows limit requests per
// window for each client. name namespaces the counters, so separate
// limiters can guard separate routes. Clients are keyed on the connection's
// remote address unless WithTrustedProxy is given.
func NewRateLimiter(client *redis.Client, name string, limit int, window time.Duration, opts ...LimiterOption) *RateLimiter {
	rl := &RateLimiter{
		client: client,
		prefix: "ratelimit:" + name + ":",
		limit:  int64(limit),
		window: window,
	}
	for _, opt := range opts {
		opt(rl)
	}
	return rl
}

// allow counts one request for key and reports whether it is within the
// limit, along with the time until the current window resets. The count
// and its TTL are read in one transaction; a counter found without a TTL
// gets one, so a key can never outlive its window.
func (rl *RateLimiter) allow(ctx context.Context, key string) (bool, time.Duration, error) {
	k := rl.prefix + key

	var incr *redis.IntCmd
	var pttl *redis.DurationCmd
	_, err := rl.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pttl = pipe.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return true, 0, fmt.Errorf("rate limit %s: %w", k, err)
	}

	n, ttl := incr.Val(), pttl.Val()
	if ttl < 0 {
		if err := rl.client.PExpire(ctx, k, rl.window).Err(); err != nil {
			return true, 0, fmt.Errorf("rate limit expire %s: %w", k, err)
		}
		ttl = rl.window
	}
	if n <= rl.limit {
		return true, 0, nil
	}
	return false, ttl, nil
}

// Middleware returns an HTTP middleware that rate-limits by client IP.
// When Valkey is unreachable requests are let through.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, reset, err := rl.allow(r.Context(), clientIP(r, rl.trustProxy))
		if err != nil {
			slog.Warn("rate limiter unavailable", "error", err)
		}
		if !ok {
			secs := int(reset.Round(time.Second) / time.Second)
			if secs < 1 {
				secs = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			writeError(w, http.StatusTooManyRequests, "rate_limited", "Too Many Requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP returns the address requests are counted under. Proxy headers
// are honored only when trustProxy is set.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		// Leftmost X-Forwarded-For entry is the original client.
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			if idx := strings.IndexByte(xff, ','); idx != -1 {
				return strings.TrimSpace(xff[:idx])
			}
			return strings.TrimSpace(xff)
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
