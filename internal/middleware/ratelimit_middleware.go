package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jobnest/jobnest-backend/internal/errors"
	"github.com/jobnest/jobnest-backend/internal/ratelimit"
)

// RateLimitMiddleware admits requests per client IP through limiter and answers 429 with Retry-After otherwise.
func RateLimitMiddleware(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		decision := limiter.Allow(c.Request.Context(), key)

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining()))

		if !decision.Allowed {
			rateLimitDecisions.WithLabelValues("denied").Inc()
			GetLoggerFromContext(c).Warn("Rate limit exceeded", map[string]interface{}{
				"client_ip":   key,
				"count":       decision.Count,
				"retry_after": decision.RetryAfter.String(),
			})
			errors.TooManyRequests(c, decision.RetryAfter)
			return
		}

		rateLimitDecisions.WithLabelValues("allowed").Inc()
		c.Next()
	}
}
