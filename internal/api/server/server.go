package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lilianna-roll/issuance/internal/api/middleware"
	"github.com/lilianna-roll/issuance/internal/api/rest"
	"github.com/lilianna-roll/issuance/internal/api/shared/executor"
	"github.com/lilianna-roll/issuance/internal/engine"
	"github.com/lilianna-roll/issuance/internal/logger"
	"github.com/lilianna-roll/issuance/internal/metrics"
	"github.com/lilianna-roll/issuance/internal/store"
)

// Config holds the server configuration
type Config struct {
	Debug        bool
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	Auth         middleware.AuthConfig
	// MetricsPath exposes prometheus metrics when set
	MetricsPath string
}

// Server wraps the HTTP server
type Server struct {
	config     Config
	engine     engine.Engine
	store      store.Store
	metrics    *metrics.Metrics
	httpServer *http.Server
}

// New creates a new API server. store may be nil for an in-memory engine.
func New(cfg Config, eng engine.Engine, store store.Store, m *metrics.Metrics) *Server {
	return &Server{
		config:  cfg,
		engine:  eng,
		store:   store,
		metrics: m,
	}
}

// Router builds the gin router with all middleware and routes
func (s *Server) Router() *gin.Engine {
	// Set Gin mode based on debug flag
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Setup middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics(s.metrics))
	router.Use(middleware.SetupCORS())

	// Create shared executor
	exec := executor.NewExecutor(s.engine, s.store, s.metrics)

	// Setup REST routes
	rest.SetupRoutes(router, rest.NewHandler(exec), s.config.Auth)

	if s.config.MetricsPath != "" && s.metrics != nil {
		router.GET(s.config.MetricsPath, gin.WrapH(s.metrics.Handler()))
	}

	return router
}

// Start initializes and starts the HTTP server
func (s *Server) Start() error {
	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	logger.Info("Starting API server",
		zap.String("address", addr),
	)

	// Start server
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down API server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}
