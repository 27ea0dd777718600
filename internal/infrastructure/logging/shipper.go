package logging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/grafana/loki-client-go/loki"
	slogloki "github.com/samber/slog-loki/v3"
)

const PushPath = "/loki/api/v1/push"

// streamLabels are the only attributes promoted to Loki stream labels.
// Everything else stays in the console output; per-request values such as
// request ids would explode stream cardinality.
var streamLabels = map[string]bool{
	"job":    true,
	"method": true,
	"status": true,
}

type ShipperConfig struct {
	URL       string
	Job       string
	BatchWait time.Duration
	BatchSize int
	Timeout   time.Duration
}

// Shipper pushes log records to a Loki-compatible aggregator.
type Shipper struct {
	client *loki.Client
	job    string
}

func NewShipper(cfg ShipperConfig) (*Shipper, error) {
	lc, err := loki.NewDefaultConfig(cfg.URL + PushPath)
	if err != nil {
		return nil, fmt.Errorf("loki config: %w", err)
	}
	if cfg.BatchWait > 0 {
		lc.BatchWait = cfg.BatchWait
	}
	if cfg.BatchSize > 0 {
		lc.BatchSize = cfg.BatchSize
	}
	if cfg.Timeout > 0 {
		lc.Timeout = cfg.Timeout
	}

	client, err := loki.New(lc)
	if err != nil {
		return nil, fmt.Errorf("loki client: %w", err)
	}
	return &Shipper{client: client, job: cfg.Job}, nil
}

// Handler returns a slog.Handler whose records carry the static job label.
func (s *Shipper) Handler(level slog.Leveler) slog.Handler {
	h := slogloki.Option{
		Level:       level,
		Client:      s.client,
		ReplaceAttr: keepStreamLabels,
	}.NewLokiHandler()
	return h.WithAttrs([]slog.Attr{slog.String("job", s.job)})
}

// Shutdown flushes pending batches. The client cannot be interrupted, so on
// ctx expiry the flush keeps running in the background and ctx.Err is returned.
func (s *Shipper) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.client.Stop()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func keepStreamLabels(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 || !streamLabels[a.Key] {
		return slog.Attr{}
	}
	return a
}
