// internal/common/middleware/cache.go
// Short-TTL Redis response cache for hot GET endpoints (feeds).
// Cache misses and Redis outages fall through to the handler.

package middleware

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
)

// ResponseCache caches GET responses keyed by user and URL
type ResponseCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewResponseCache creates a response cache
func NewResponseCache(redisClient *redis.Client, ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		redis: redisClient,
		ttl:   ttl,
	}
}

// Cache is the middleware function
func (c *ResponseCache) Cache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c.redis == nil || r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		key := c.cacheKey(r)

		if cached, err := c.redis.Get(r.Context(), key).Bytes(); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}

		recorder := &cacheRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(recorder, r)

		// Only successful responses are worth caching
		if recorder.statusCode == http.StatusOK && recorder.body.Len() > 0 {
			if err := c.redis.Set(r.Context(), key, recorder.body.Bytes(), c.ttl).Err(); err != nil {
				log.Printf("response cache write failed: %v", err)
			}
		}
	})
}

// cacheKey scopes cached pages per user so private feeds never leak
func (c *ResponseCache) cacheKey(r *http.Request) string {
	userID, _ := r.Context().Value("userID").(int64)
	return fmt.Sprintf("cache:%d:%s", userID, r.URL.RequestURI())
}

// cacheRecorder tees the response body while it is written
type cacheRecorder struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (cr *cacheRecorder) WriteHeader(code int) {
	cr.statusCode = code
	cr.ResponseWriter.WriteHeader(code)
}

func (cr *cacheRecorder) Write(b []byte) (int, error) {
	cr.body.Write(b)
	return cr.ResponseWriter.Write(b)
}
