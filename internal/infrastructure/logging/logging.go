package logging

import (
	"io"
	"log/slog"

	"github.com/apascualco/reqmetrics/internal/infrastructure/config"
	slogmulti "github.com/samber/slog-multi"
)

// New builds the process logger. Records always go to console; when a log
// aggregator is configured they are also shipped there, and the returned
// Shipper must be shut down to flush them.
func New(cfg *config.Config, console io.Writer) (*slog.Logger, *Shipper, error) {
	level := ParseLevel(cfg.LogLevel)
	consoleHandler := NewConsoleHandler(console, cfg.Env, level)

	url := cfg.LokiURL()
	if url == "" {
		return slog.New(consoleHandler), nil, nil
	}

	shipper, err := NewShipper(ShipperConfig{
		URL:       url,
		Job:       cfg.LokiJob,
		BatchWait: cfg.LokiBatchWait,
		BatchSize: cfg.LokiBatchBytes,
	})
	if err != nil {
		return nil, nil, err
	}

	return slog.New(slogmulti.Fanout(consoleHandler, shipper.Handler(level))), shipper, nil
}

// NewConsoleHandler returns the stdout handler: JSON in production, text otherwise.
func NewConsoleHandler(w io.Writer, env string, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Value.Kind() == slog.KindDuration {
				a.Value = slog.StringValue(a.Value.Duration().String())
			}
			return a
		},
	}

	if env == "production" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
