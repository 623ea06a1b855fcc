package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lexypaul13/DegenTrader-sub000/pkg/metrics"
)

// MetricsMiddleware creates a middleware that tracks request metrics
func MetricsMiddleware(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		collector.RecordRequest()

		c.Next()

		duration := time.Since(startTime)
		success := c.Writer.Status() < 400

		collector.RecordRequestComplete(duration, success)
	}
}
