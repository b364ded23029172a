package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// TimeoutConfig bounds how long a request may run.
type TimeoutConfig struct {
	Duration time.Duration
}

func DefaultTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{
		Duration: 30 * time.Second,
	}
}

// Timeout installs a deadline on the request context. Handlers keep
// running on the request goroutine; database and broker calls observe
// the deadline through ctx and return context.DeadlineExceeded, which
// surfaces as a persistence error. Running handlers on a separate
// goroutine would race them against the deadline writer and put them
// out of reach of Recovery.
func Timeout(config TimeoutConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), config.Duration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
