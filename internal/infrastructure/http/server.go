package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/apascualco/reqmetrics/internal/infrastructure/config"
	"github.com/apascualco/reqmetrics/internal/infrastructure/http/handler"
	"github.com/apascualco/reqmetrics/internal/infrastructure/http/middleware"
	"github.com/apascualco/reqmetrics/internal/infrastructure/observability"
	"github.com/gin-gonic/gin"
)

type Server struct {
	router     *gin.Engine
	config     *config.Config
	httpServer *http.Server
	metrics    *observability.Registry
}

func NewServer(cfg *config.Config, metrics *observability.Registry) *Server {
	slog.Debug("new http server",
		slog.Int("port", cfg.Port),
		slog.Duration("heavy_task_delay", cfg.HeavyTaskDelay),
	)

	s := &Server{
		config:  cfg,
		metrics: metrics,
	}
	s.setupRouter()
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: s.router,
	}
	return s
}

func (s *Server) setupRouter() {
	if s.config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	s.router = gin.New()
	// Trailing-slash redirects are answered before middleware runs; unknown
	// paths must reach NoRoute so they are counted and logged.
	s.router.RedirectTrailingSlash = false
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.Metrics(s.metrics))
	s.router.Use(middleware.Recovery())

	s.router.GET("/metrics", handler.MetricsHandler(s.metrics.Gatherer()))
	s.router.GET("/health", handler.HealthHandler())
	s.router.GET("/error", handler.ErrorHandler())
	s.router.GET("/heavy-task", handler.HeavyTaskHandler(s.config.HeavyTaskDelay))

	s.router.NoRoute(handler.NotFoundHandler())
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
