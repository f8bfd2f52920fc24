package middlewares

import (
	"strconv"
	"time"

	"github.com/Kariqs/tiendeo-api/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics records request counts and latency per matched route.
func Metrics(m *metrics.ServerMetrics) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(ctx.Request.Method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
		m.LatencyMS.WithLabelValues(ctx.Request.Method, route).Observe(float64(time.Since(start).Milliseconds()))
	}
}
