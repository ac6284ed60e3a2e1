package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/meridian-lms/backend/pkg/metrics"
)

// Metrics returns middleware that records request counts and latency.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		m.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
