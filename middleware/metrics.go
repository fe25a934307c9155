package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"ads_platform_backend/metrics"
)

// Metrics records request count, latency and in-flight gauge per route
// template. It must wrap Recovery so that panicking requests are counted
// with the status Recovery writes.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.RequestStarted()
		defer func() {
			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			m.RequestFinished(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
		}()
		c.Next()
	}
}
