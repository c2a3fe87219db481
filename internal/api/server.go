// SPDX-License-Identifier: MIT

// Package api serves the reliability engine over HTTP and WebSocket.
//
// Routes:
//
//	POST /process          legacy form {number, array1, array2, show_count, show_labels}
//	POST /api/v1/solve     solve a SolveRequest, returns reliability.Result
//	GET  /api/v1/graph     transition graph as json, dot or mermaid
//	GET  /api/v1/stream    WebSocket: send a SolveRequest, receive one message per chart batch
//	GET  /health           liveness and build info
//	GET  /metrics          Prometheus exposition of the metrics.Registry
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/katalvlaran/ctmc/internal/config"
	"github.com/katalvlaran/ctmc/internal/metrics"
	"github.com/katalvlaran/ctmc/reliability"
)

// Server is the HTTP front of one Engine.
type Server struct {
	echo    *echo.Echo
	engine  *reliability.Engine
	config  *config.Config
	metrics *metrics.Registry
	logger  *slog.Logger

	upgrader websocket.Upgrader
}

// New creates a server instance with middleware and routes installed.
// engine should record into reg.Engine() so its solve series are served at
// /metrics. A nil registry or logger gets a fresh registry or slog.Default().
func New(cfg *config.Config, engine *reliability.Engine, reg *metrics.Registry, logger *slog.Logger) *Server {
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.Server.Debug
	e.HTTPErrorHandler = HTTPErrorHandler
	e.Validator = newRequestValidator()

	s := &Server{
		echo:    e,
		engine:  engine,
		config:  cfg,
		metrics: reg,
		logger:  logger,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())
	s.echo.Use(s.observe)

	if len(s.config.Security.AllowedOrigins) > 0 {
		s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.config.Security.AllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}
	if s.config.Security.BodyLimit != "" {
		s.echo.Use(middleware.BodyLimit(s.config.Security.BodyLimit))
	}
	if s.config.Security.RateLimit > 0 {
		s.echo.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(
			rate.Limit(s.config.Security.RateLimit),
		)))
	}
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.health)
	s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	s.echo.POST("/process", s.legacyProcess)

	v1 := s.echo.Group("/api/v1")
	v1.POST("/solve", s.solve)
	v1.GET("/graph", s.graph)
	v1.GET("/stream", s.stream)
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler { return s.echo }

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         s.config.Server.Addr(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
	}
	s.logger.Info("http server listening", "addr", srv.Addr)
	if err := s.echo.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// solveContext bounds a request-scoped solve by Server.SolveTimeout.
func (s *Server) solveContext(parent context.Context) (context.Context, context.CancelFunc) {
	if s.config.Server.SolveTimeout > 0 {
		return context.WithTimeout(parent, s.config.Server.SolveTimeout)
	}

	return context.WithCancel(parent)
}

// runSolve is the single entry into the engine for every route.
func (s *Server) runSolve(ctx context.Context, req reliability.Request) (*reliability.Result, error) {
	ctx, cancel := s.solveContext(ctx)
	defer cancel()

	return s.engine.Solve(ctx, req)
}
