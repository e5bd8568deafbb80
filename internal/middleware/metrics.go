package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cozinhecomigo/recipes/backend/internal/metrics"
)

// Metrics records request count and latency labelled by the matched route
// template, so /recipes/1 and /recipes/2 share one series.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		c.Next()

		metrics.RecordHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
