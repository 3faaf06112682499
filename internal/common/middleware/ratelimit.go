// internal/common/middleware/ratelimit.go
// Redis-backed fixed-window rate limiting keyed by client IP and route.
// A Redis outage fails open: requests pass through unthrottled.

package middleware

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/vibelyhq/vibely-backend/internal/common/utils"
)

// RateLimiter throttles requests per client address
type RateLimiter struct {
	redis  *redis.Client
	max    int
	window time.Duration
}

// NewRateLimiter creates a rate limiter
func NewRateLimiter(redisClient *redis.Client, max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		max:    max,
		window: window,
	}
}

// Limit is the middleware function
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.redis == nil {
			next.ServeHTTP(w, r)
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", clientIP(r), r.URL.Path)

		count, err := rl.redis.Incr(r.Context(), key).Result()
		if err != nil {
			// Fail open on Redis errors
			log.Printf("rate limiter unavailable: %v", err)
			next.ServeHTTP(w, r)
			return
		}

		if count == 1 {
			rl.redis.Expire(r.Context(), key, rl.window)
		}

		if count > int64(rl.max) {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(rl.window.Seconds())))
			utils.ErrorResponse(w, "Too many requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the caller address, honoring reverse-proxy headers
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
