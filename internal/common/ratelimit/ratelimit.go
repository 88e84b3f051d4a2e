// internal/common/ratelimit/ratelimit.go
// Fixed-window rate limiting backed by Redis so counters survive
// horizontal scaling; process-local state would reset per instance.

package ratelimit

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/quickspark/quickspark-backend/internal/common/utils"
)

// Limiter counts requests per key in a rolling fixed window
type Limiter struct {
	client *redis.Client
	max    int
	window time.Duration
	prefix string
}

// NewLimiter creates a rate limiter. A nil client disables limiting,
// which keeps local development working without Redis.
func NewLimiter(client *redis.Client, max int, window time.Duration) *Limiter {
	return &Limiter{
		client: client,
		max:    max,
		window: window,
		prefix: "ratelimit",
	}
}

// Allow reports whether the key may proceed and increments its counter
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.client == nil {
		return true, nil
	}

	redisKey := fmt.Sprintf("%s:%s", l.prefix, key)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}

	// First hit in the window owns the expiry
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}

	return count <= int64(l.max), nil
}

// Middleware limits requests per client IP
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, err := l.Allow(r.Context(), clientIP(r))
		if err != nil {
			// Redis trouble should not take the API down
			next.ServeHTTP(w, r)
			return
		}

		if !allowed {
			utils.ErrorResponse(w, "Too many requests, slow down", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
