package http

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter caps poll creation per user over a rolling day using a Redis
// counter with a TTL. A nil *RateLimiter disables limiting.
type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func NewRateLimiter(client *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl == nil || rl.client == nil {
			next.ServeHTTP(w, r)
			return
		}

		userID, ok := UserIDFrom(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		key := fmt.Sprintf("ratelimit:polls:%s", userID)
		count, err := rl.client.Incr(r.Context(), key).Result()
		if err != nil {
			// Redis being down must not take poll creation with it.
			log.Printf("error incrementing rate limit counter: %v", err)
			next.ServeHTTP(w, r)
			return
		}

		if count == 1 {
			if err := rl.client.Expire(r.Context(), key, rl.window).Err(); err != nil {
				log.Printf("error setting rate limit TTL: %v", err)
			}
		}

		if count > rl.limit {
			retryAfter, _ := rl.client.TTL(r.Context(), key).Result()
			respondJSON(w, http.StatusTooManyRequests, map[string]any{
				"error":       "rate limit exceeded",
				"retry_after": retryAfter.Seconds(),
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
