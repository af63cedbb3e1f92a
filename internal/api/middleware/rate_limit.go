package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"voting-service/internal/models"
	"voting-service/internal/services"
)

type RateLimitMiddleware struct {
	redisService *services.RedisService
}

func NewRateLimitMiddleware(redisService *services.RedisService) *RateLimitMiddleware {
	return &RateLimitMiddleware{redisService: redisService}
}

// RateLimitIP limits public routes per client address. The verify endpoint
// sits behind this to blunt brute-force guessing of verification codes.
func (rm *RateLimitMiddleware) RateLimitIP(requests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rm.redisService == nil {
			c.Next()
			return
		}
		clientIP := c.ClientIP()
		key := fmt.Sprintf("rate_limit_ip:%s:%s", clientIP, c.Request.URL.Path)

		allowed, err := rm.redisService.CheckRateLimit(c.Request.Context(), key, requests, window)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Code:    http.StatusInternalServerError,
				Message: "Rate limit check failed",
			})
			c.Abort()
			return
		}
		if !allowed {
			c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
				Code:    http.StatusTooManyRequests,
				Message: "Rate limit exceeded",
				Details: fmt.Sprintf("Too many requests. Limit: %d per %v", requests, window),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
