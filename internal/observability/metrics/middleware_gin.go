package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
)

// GinMiddleware records request count and latency per matched route.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
