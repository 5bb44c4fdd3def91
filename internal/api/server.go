package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"

	mw "github.com/ops4go/phacts/internal/api/middleware"
	"github.com/ops4go/phacts/internal/logger"
	"github.com/ops4go/phacts/internal/observability"
	"github.com/ops4go/phacts/internal/phacts"
)

// Server is the HTTP server for the phacts API.
type Server struct {
	echo    *echo.Echo
	config  *Config
	service *phacts.Service
	metrics *observability.Metrics
	log     logger.Logger

	startTime time.Time
}

// ServerOption is a functional option for configuring the Server.
type ServerOption func(*Server)

// WithMetrics sets the observability metrics for the server.
func WithMetrics(m *observability.Metrics) ServerOption {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithLogger overrides the api module logger.
func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		s.log = l
	}
}

// New creates a server for svc. A nil config uses DefaultConfig.
func New(config *Config, svc *phacts.Service, opts ...ServerOption) (*Server, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, errors.New("api: nil service")
	}

	s := &Server{
		echo:      echo.New(),
		config:    config,
		service:   svc,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = GetLogger()
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Debug = config.Debug

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupMiddleware() {
	s.echo.Use(echomw.Recover())
	s.echo.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	s.echo.Use(mw.NewRequestLoggerWithSkipper(s.log, func(c echo.Context) bool {
		return c.Path() == "/health" || c.Path() == "/metrics"
	}))
	if s.metrics != nil {
		s.echo.Use(mw.NewMetrics(s.metrics.HTTP))
	}
	security := mw.DefaultSecurityConfig()
	if len(s.config.AllowedOrigins) > 0 {
		security.AllowedOrigins = s.config.AllowedOrigins
	}
	s.echo.Use(mw.NewCORS(security))
	s.echo.Use(mw.NewBodyLimit(s.config.BodyLimit))
	s.echo.Use(mw.NewSecureHeaders())
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.handleHealth)

	if s.metrics != nil && s.config.MetricsEnabled && s.config.MetricsListen == "" {
		s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}

	v1 := s.echo.Group("/api/v1")
	v1.GET("/search/:kind", s.handleSearch)
	v1.POST("/annotations/:kind", s.handleAnnotations)
	v1.GET("/map", s.handleMapURI)
	v1.GET("/similar", s.handleSimilar)
	v1.GET("/structure/uri", s.handleStructureURI)
	v1.GET("/settings/endpoint", s.handleGetEndpoint)
	v1.PUT("/settings/endpoint", s.handlePutEndpoint)
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Listen)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully. When a
// separate metrics listener is configured it is run in the same group.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.echo,
		ReadTimeout:       s.config.ReadTimeout,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		IdleTimeout:       s.config.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("api server starting",
			logger.String("address", ln.Addr().String()),
			logger.String("config", s.config.String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if s.metrics != nil && s.config.MetricsEnabled && s.config.MetricsListen != "" {
		endpoint := observability.NewEndpoint(s.config.MetricsListen, s.metrics)
		g.Go(func() error {
			return endpoint.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("stopping api server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Error("api server shutdown error", logger.Error(err))
			return err
		}
		return nil
	})

	return g.Wait()
}

// Uptime returns how long the server has existed.
func (s *Server) Uptime() time.Duration {
	return time.Since(s.startTime)
}
