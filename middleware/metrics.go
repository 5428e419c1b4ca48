package middleware

import (
	"context"
	"time"

	awspkg "bakery-service/pkg/aws"

	"github.com/gin-gonic/gin"
)

// Metrics records request count, latency and error counts per route.
// Recording happens off the request goroutine.
func Metrics(recorder awspkg.MetricsRecorder, serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if recorder == nil || !recorder.IsEnabled() {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()

		// FullPath keeps :id placeholders so dimensions stay bounded
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		dims := map[string]string{
			"Service": serviceName,
			"Method":  c.Request.Method,
			"Path":    path,
			"Status":  statusClass(status),
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = recorder.RecordCount(ctx, awspkg.MetricHTTPRequests, dims)
			_ = recorder.RecordLatency(ctx, awspkg.MetricHTTPLatency, duration, dims)
			if status >= 400 {
				_ = recorder.RecordCount(ctx, awspkg.MetricHTTPErrors, dims)
				if status >= 500 {
					_ = recorder.RecordCount(ctx, awspkg.MetricHTTP5xx, dims)
				} else {
					_ = recorder.RecordCount(ctx, awspkg.MetricHTTP4xx, dims)
				}
			}
		}()
	}
}

func statusClass(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
