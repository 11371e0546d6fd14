// Package server exposes the pagination engine over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/claimdex/claimdex/pkg/claims/query"
	"github.com/claimdex/claimdex/pkg/config"
	"github.com/claimdex/claimdex/pkg/observability/logger"
	"github.com/claimdex/claimdex/pkg/observability/metrics"
)

// Engine is the slice of the paginator contract the HTTP layer consumes.
type Engine interface {
	FirstPage(ctx context.Context, f query.Filter, pageSize int) (*query.Page, error)
	NextPage(ctx context.Context, f query.Filter, cursor query.Cursor, pageSize int, opts ...query.PageOption) (*query.Page, error)
	PrevPage(ctx context.Context, f query.Filter, cursor query.Cursor, pageSize int, opts ...query.PageOption) (*query.Page, error)
	LastPage(ctx context.Context, f query.Filter, pageSize int) (*query.Page, error)
}

// Pinger reports storage reachability for the readiness endpoint.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// Server is the HTTP API server.
type Server struct {
	httpServer      *http.Server
	engine          Engine
	pinger          Pinger
	log             logger.Logger
	defaultPageSize int
	maxPageSize     int
}

// New builds the server with its routes registered.
func New(cfg config.HTTPConfig, queryCfg config.QueryConfig, eng Engine, pinger Pinger, reg *metrics.Registry, log logger.Logger) (*Server, error) {
	if eng == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if log == nil {
		log = logger.NewNopLogger()
	}

	s := &Server{
		engine:          eng,
		pinger:          pinger,
		log:             log,
		defaultPageSize: queryCfg.DefaultPageSize,
		maxPageSize:     queryCfg.MaxPageSize,
	}
	if s.defaultPageSize < 1 {
		s.defaultPageSize = query.DefaultPageSize
	}
	if s.maxPageSize < s.defaultPageSize {
		s.maxPageSize = query.MaxPageSize
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.observe())

	router.POST("/api/page", s.handlePage)
	router.GET("/healthz", s.handleLiveness)
	router.GET("/readyz", s.handleReadiness)
	if reg != nil {
		router.GET("/metrics", gin.WrapH(reg.Handler()))
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s, nil
}

// Handler returns the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// observe logs each request and records its metrics.
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()
		metrics.RecordHTTPRequest(c.Request.Method, path, status, duration)
		s.log.Debug("request served",
			"method", c.Request.Method, "path", path, "status", status, "duration_ms", duration.Milliseconds())
	}
}

func (s *Server) handleLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleReadiness(c *gin.Context) {
	if s.pinger == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	if err := s.pinger.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
