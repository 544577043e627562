// Package server exposes the assessment service over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/subodh556/AI-Teacher-sub000/internal/assess"
	"github.com/subodh556/AI-Teacher-sub000/internal/config"
	"github.com/subodh556/AI-Teacher-sub000/internal/metrics"
)

// Server is the HTTP API in front of an assess.Service.
type Server struct {
	cfg     config.ServerConfig
	svc     *assess.Service
	metrics *metrics.Metrics
	log     *zap.Logger
	limiter *rateLimiter
	router  *gin.Engine
}

// New builds the router. m may be nil, in which case /metrics is not
// served.
func New(cfg config.ServerConfig, svc *assess.Service, m *metrics.Metrics, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	s := &Server{cfg: cfg, svc: svc, metrics: m, log: log}
	if cfg.RateLimit > 0 {
		s.limiter = newRateLimiter(cfg.RateLimit, cfg.Burst)
	}
	s.router = s.routes()
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	if s.metrics != nil {
		r.Use(s.metrics.Middleware())
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := r.Group("/api")
	if s.limiter != nil {
		api.Use(s.limiter.middleware())
	}
	api.GET("/health", s.health)
	api.GET("/assessments", s.listAssessments)
	api.POST("/assessments", s.importAssessment)
	api.GET("/assessments/:id", s.getAssessment)
	api.POST("/sessions", s.startSession)
	api.GET("/sessions/:id", s.getSession)
	api.DELETE("/sessions/:id", s.endSession)
	api.POST("/sessions/:id/answers", s.submitAnswer)
	api.GET("/sessions/:id/result", s.getResult)
	api.GET("/users/:id/gaps", s.userGaps)
	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests and
// times out the live sessions so their partial results are recorded.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	defer stopCleanup()
	if s.limiter != nil {
		go s.limiter.cleanup(cleanupCtx)
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down http server")
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	if n := s.svc.Shutdown(); n > 0 {
		s.log.Info("ended live sessions", zap.Int("sessions", n))
	}
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
