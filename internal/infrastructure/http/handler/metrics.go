package handler

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// MetricsHandler serves the gatherer in the Prometheus text exposition format.
// Gather or encode failures become a JSON 500 instead of a partial body.
func MetricsHandler(g prometheus.Gatherer) gin.HandlerFunc {
	format := expfmt.NewFormat(expfmt.TypeTextPlain)

	return func(c *gin.Context) {
		body, err := encodeMetrics(g, format)
		if err != nil {
			slog.Error("failed to fetch metrics", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Status:  "ERROR",
				Message: "Failed to fetch metrics",
				Error:   err.Error(),
			})
			return
		}
		c.Data(http.StatusOK, string(format), body)
	}
}

func encodeMetrics(g prometheus.Gatherer, format expfmt.Format) ([]byte, error) {
	mfs, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}

	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, format)
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return nil, fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return buf.Bytes(), nil
}
