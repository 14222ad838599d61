package middleware

import (
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimit throttles purchase attempts per caller. Authenticated callers are
// keyed by user id so a hot sale cannot be hammered through one account;
// anonymous traffic falls back to the remote address.
func RateLimit(rdb *redis.Client, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			caller := r.Header.Get("X-User-ID")
			if caller == "" {
				caller = r.RemoteAddr
			}
			key := "rate_limit:" + caller

			current, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			if current == 1 {
				rdb.Expire(ctx, key, window)
			}

			if current > int64(limit) {
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
