package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware applies one token bucket to every route. Bursts of up
// to rps requests pass before the limiter starts rejecting.
func RateLimitMiddleware(rps int) gin.HandlerFunc {
	if rps < 1 {
		rps = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), rps)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			slog.Debug("request rate limited", "path", c.FullPath(), "client", c.ClientIP())
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
