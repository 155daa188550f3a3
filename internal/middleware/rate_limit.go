package middleware

import (
	"net/http"
	"time"

	"go-oilmill/internal/cache"

	"github.com/gin-gonic/gin"
)

const (
	rateLimitPeriod = 1 * time.Minute
	rateLimitCount  = 5 // per IP, guards the public contact form
)

// RateLimiter throttles a route per client IP using redis. Without redis it
// lets everything through.
func RateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		if cache.RedisClient == nil {
			c.Next()
			return
		}

		key := "rate_limit:" + c.ClientIP()

		count, err := cache.RedisClient.Incr(c.Request.Context(), key).Result()
		if err != nil {
			// Redis trouble should not block visitors
			c.Next()
			return
		}

		if count == 1 {
			cache.RedisClient.Expire(c.Request.Context(), key, rateLimitPeriod)
		}

		if count > rateLimitCount {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}

		c.Next()
	}
}
