package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// TimestampLayout is ISO-8601 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

type StatusResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type ErrorResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp,omitempty"`
}

type HeavyTaskResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Duration  string `json:"duration"`
	Timestamp string `json:"timestamp"`
}

type NotFoundResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		slog.Info("Health check endpoint hit")
		c.JSON(http.StatusOK, StatusResponse{
			Status:    "OK",
			Message:   "Server is healthy",
			Timestamp: now(),
		})
	}
}

// ErrorHandler always fails; it exists to exercise the 5xx metric labels.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		slog.Error("Error endpoint hit")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Status:    "ERROR",
			Message:   "This is a test error route",
			Error:     "Something went wrong!",
			Timestamp: now(),
		})
	}
}

// HeavyTaskHandler simulates a slow backend call. The delay is not cancelled
// when the client goes away.
func HeavyTaskHandler(delay time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		slog.Info("Heavy task endpoint hit", slog.Duration("delay", delay))

		time.Sleep(delay)

		c.JSON(http.StatusOK, HeavyTaskResponse{
			Status:    "OK",
			Message:   fmt.Sprintf("Heavy task completed after %g seconds", delay.Seconds()),
			Duration:  fmt.Sprintf("%dms", delay.Milliseconds()),
			Timestamp: now(),
		})
	}
}

func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, NotFoundResponse{
			Status:  "NOT_FOUND",
			Message: "Route not found",
			Path:    c.Request.URL.Path,
		})
	}
}

func now() string {
	return time.Now().UTC().Format(TimestampLayout)
}
