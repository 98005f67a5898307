package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aulanet/aulanet-api/internal/service"
)

// Metrics times every request and feeds the outcome to the metrics
// service. Unmatched routes fall back to the raw URL path so they do
// not collapse into one empty label.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
