package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter shares the fixed window across processes. Same contract as
// the in-memory limiter; used when REDIS_ADDR is configured.
type RedisRateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

func NewRedisRateLimiter(rdb *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		rdb:    rdb,
		limit:  limit,
		window: window,
	}
}

func (rl *RedisRateLimiter) Middleware(keyFn func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)

		if key == "" {
			key = clientIP(c)
		}

		key = "ratelimit:" + key

		ctx := c.Request.Context()

		count, err := rl.rdb.Incr(ctx, key).Result()

		if err != nil {
			// fail open: a limiter outage must not take the API down with it
			c.Next()
			return
		}

		if count == 1 {
			rl.rdb.Expire(ctx, key, rl.window)
		}

		if count > int64(rl.limit) {
			ttl, err := rl.rdb.TTL(ctx, key).Result()

			retryAfter := 0
			if err == nil && ttl > 0 {
				retryAfter = int(ttl.Seconds())
			}

			abortRateLimited(c, retryAfter)
			return
		}

		c.Next()
	}
}
