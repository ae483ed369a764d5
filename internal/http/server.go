// Package http serves fact extraction over HTTP.
package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/factd/internal/extraction"
	"github.com/fyrsmithlabs/factd/internal/logging"
)

// Analyzer is the extraction capability the server exposes.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (extraction.Record, error)
	AnalyzeBatch(ctx context.Context, texts []string) ([]extraction.Record, error)
	EmptyRecord() extraction.Record
	Groups() []string
	TemplateCount() int
}

// Config holds HTTP server configuration.
type Config struct {
	Host            string
	Port            int
	QueryKey        string
	ShutdownTimeout time.Duration
}

const (
	defaultQueryKey        = "text"
	defaultShutdownTimeout = 10 * time.Second
)

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Server provides the extraction endpoints.
type Server struct {
	echo     *echo.Echo
	analyzer atomic.Pointer[analyzerRef]
	logger   *logging.Logger
	config   *Config
	journal  *Journal
	meter    metric.Meter
	metrics  http.Handler
}

type analyzerRef struct {
	Analyzer
}

// Option configures a Server.
type Option func(*Server)

// WithJournal appends every analysis response to j.
func WithJournal(j *Journal) Option {
	return func(s *Server) {
		s.journal = j
	}
}

// WithMeter sets the meter used for HTTP request metrics.
func WithMeter(m metric.Meter) Option {
	return func(s *Server) {
		s.meter = m
	}
}

// WithMetricsHandler replaces the handler served on /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewServer creates a new HTTP server.
func NewServer(analyzer Analyzer, logger *logging.Logger, cfg *Config, opts ...Option) (*Server, error) {
	if analyzer == nil {
		return nil, errors.New("analyzer cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{Host: "0.0.0.0", Port: 5000}
	}
	if cfg.QueryKey == "" {
		cfg.QueryKey = defaultQueryKey
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:    e,
		logger:  logger.Named("http"),
		config:  cfg,
		metrics: promhttp.Handler(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.analyzer.Store(&analyzerRef{analyzer})

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			if !logging.ValidRequestID(id) {
				return
			}
			req := c.Request()
			c.SetRequest(req.WithContext(logging.WithRequestID(req.Context(), id)))
		},
	}))
	e.Use(s.requestLogger())
	e.Use(NewHTTPMetrics(s.meter, s.logger).MetricsMiddleware())

	s.registerRoutes()

	return s, nil
}

// SetAnalyzer swaps the analyzer used by subsequent requests.
func (s *Server) SetAnalyzer(a Analyzer) {
	if a == nil {
		return
	}
	s.analyzer.Store(&analyzerRef{a})
}

func (s *Server) current() Analyzer {
	return s.analyzer.Load().Analyzer
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			s.logger.Info(c.Request().Context(), "http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
			)
			return nil
		}
	}
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/", s.handleQuery)
	s.echo.POST("/", s.handlePost)
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(s.metrics))

	v1 := s.echo.Group("/api/v1")
	v1.POST("/analyze", s.handleAnalyze)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
// It returns http.ErrServerClosed after a clean shutdown.
func (s *Server) Start(ctx context.Context) error {
	addr := s.config.Addr()
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "starting http server", zap.String("addr", addr))
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server start: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return http.ErrServerClosed
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down http server")
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
