package main

import (
	"context"
	"errors"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/apascualco/reqmetrics/internal/infrastructure/config"
	"github.com/apascualco/reqmetrics/internal/infrastructure/http"
	"github.com/apascualco/reqmetrics/internal/infrastructure/logging"
	"github.com/apascualco/reqmetrics/internal/infrastructure/observability"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	cfg, err := config.Load(version, commit, buildDate)
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	shipper := setupLogger(cfg)

	s := http.NewServer(cfg, observability.NewRegistry())

	q := make(chan os.Signal, 1)
	signal.Notify(q, syscall.SIGINT, syscall.SIGTERM)

	os.Exit(run(cfg, s, shipper, q))
}

type server interface {
	Run() error
	Shutdown(ctx context.Context) error
}

// run serves until stop fires or the listener fails, then shuts down and
// flushes shipped logs. It returns the process exit code.
func run(cfg *config.Config, s server, shipper *logging.Shipper, stop <-chan os.Signal) int {
	runErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.Int("port", cfg.Port),
			slog.String("env", cfg.Env),
			slog.String("version", cfg.Version),
			slog.String("commit", cfg.Commit),
			slog.String("build_date", cfg.BuildDate),
			slog.Any("routes", []string{"GET /health", "GET /error", "GET /heavy-task", "GET /metrics"}),
		)
		if err := s.Run(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			runErr <- err
		}
	}()

	select {
	case err := <-runErr:
		slog.Error("server error", slog.Any("error", err))
		flushLogs(cfg, shipper)
		return 1
	case <-stop:
	}

	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "server forced to shutdown", slog.Any("error", err))
	}

	slog.Info("server exited")

	if !flushLogs(cfg, shipper) {
		return 1
	}
	return 0
}

func setupLogger(cfg *config.Config) *logging.Shipper {
	logger, shipper, err := logging.New(cfg, os.Stdout)
	if err != nil {
		slog.Error("failed to set up log shipping", slog.Any("error", err))
		os.Exit(1)
	}
	slog.SetDefault(logger)

	if shipper == nil {
		slog.Warn("MY_HOST not set, log shipping disabled")
	} else {
		slog.Info("log shipping enabled",
			slog.String("endpoint", cfg.LokiURL()),
			slog.String("job", cfg.LokiJob),
		)
	}
	return shipper
}

// flushLogs drains the shipper with its own deadline, independent of how long
// the HTTP shutdown took. Failures go to stderr only.
func flushLogs(cfg *config.Config, shipper *logging.Shipper) bool {
	if shipper == nil {
		return true
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.LokiFlushTimeout)
	defer cancel()

	if err := shipper.Shutdown(ctx); err != nil {
		slog.New(logging.NewConsoleHandler(os.Stderr, cfg.Env, slog.LevelError)).
			Error("failed to flush logs", slog.Any("error", err))
		return false
	}
	return true
}
