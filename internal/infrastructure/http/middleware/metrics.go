package middleware

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/apascualco/reqmetrics/internal/infrastructure/observability"
	"github.com/gin-gonic/gin"
)

// Metrics times every request and, once the handler chain has written the
// response, records it on rec and emits one summary log line.
func Metrics(rec observability.RequestRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		route := c.Request.URL.Path

		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()

		observe(rec, method, route, status, elapsed)

		requestID, _ := c.Get(RequestIDKey)
		attrs := []any{
			"method", method,
			"route", route,
			"status", status,
			"duration_ms", float64(elapsed.Microseconds()) / 1000,
			"request_id", requestID,
		}
		msg := fmt.Sprintf("%s %s %d - %.2fms", method, route, status, float64(elapsed.Microseconds())/1000)

		switch {
		case status >= 500:
			slog.Error(msg, attrs...)
		case status >= 400:
			slog.Warn(msg, attrs...)
		default:
			slog.Info(msg, attrs...)
		}
	}
}

// observe never lets a recorder failure reach the request.
func observe(rec observability.RequestRecorder, method, route string, status int, elapsed time.Duration) {
	defer func() {
		if err := recover(); err != nil {
			slog.Warn("failed to record request metrics",
				"error", err,
				"method", method,
				"route", route,
			)
		}
	}()
	rec.ObserveRequest(method, route, status, elapsed)
}
