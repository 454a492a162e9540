package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ikkim/reviewhub-backend/internal/errors"
)

// WindowCounter increments a fixed-window counter (redis 기반)
type WindowCounter interface {
	IncrWithWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

type RateLimiter struct {
	counter WindowCounter
}

// NewRateLimiter creates the rate limiter. counter may be nil (limits disabled).
func NewRateLimiter(counter WindowCounter) *RateLimiter {
	return &RateLimiter{counter: counter}
}

// Limit은 클라이언트 IP 기준 고정 윈도우 요청 제한 미들웨어를 반환합니다.
// name은 카운터 키 구분용 (예: "login", "register").
// redis 장애 시에는 차단하지 않습니다 (fail-open).
func (rl *RateLimiter) Limit(name string, max int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.counter == nil {
			c.Next()
			return
		}

		log := GetLoggerFromContext(c)
		key := fmt.Sprintf("ratelimit:%s:%s", name, c.ClientIP())

		count, err := rl.counter.IncrWithWindow(c.Request.Context(), key, window)
		if err != nil {
			log.Warn("Rate limit counter failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
			c.Next()
			return
		}

		if count > max {
			log.Warn("Rate limit exceeded", map[string]interface{}{
				"key":   key,
				"count": count,
				"max":   max,
			})
			errors.TooManyRequests(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}
