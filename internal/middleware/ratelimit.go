package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/overruled/mocktrial-backend/internal/logger"
)

// GenerationRateLimit is the single shared token bucket over the three
// generation endpoints. Generation calls cost seconds of backend time, so
// excess requests are shed here with 429 instead of queueing.
type GenerationRateLimit struct {
	log     *logger.Logger
	limiter *rate.Limiter
}

func NewGenerationRateLimit(baseLog *logger.Logger, rps float64, burst int) *GenerationRateLimit {
	return &GenerationRateLimit{
		log:     baseLog.With("middleware", "GenerationRateLimit"),
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (rl *GenerationRateLimit) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiter.Allow() {
			rl.log.Warn("Generation request shed by rate limiter", "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{"message": "too many generation requests, retry later", "code": "rate_limited"},
			})
			return
		}
		c.Next()
	}
}
