package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// UnmatchedRoute labels requests that matched no route, keeping label
// cardinality bounded.
const UnmatchedRoute = "unmatched"

// HTTPRecorder receives one observation per served request
type HTTPRecorder interface {
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
}

// HTTPMetrics records method, route pattern, status and latency of every request
func HTTPMetrics(recorder HTTPRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = UnmatchedRoute
		}
		recorder.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
