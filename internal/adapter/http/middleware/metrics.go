package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	tel "taskapp/internal/core/telemetry"
)

const unmatchedRoute = "unmatched"

func MetricsMiddleware(metrics *tel.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		metrics.IncrementActiveConnections(c.Request.Context())
		defer metrics.DecrementActiveConnections(c.Request.Context())

		c.Next()

		// route templates keep label cardinality bounded
		path := c.FullPath()

		if path == "" {
			path = unmatchedRoute
		}

		metrics.RecordRequest(
			c.Request.Context(),
			c.Request.Method,
			path,
			c.Writer.Status(),
			time.Since(start),
		)
	}
}
