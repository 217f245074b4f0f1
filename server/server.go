package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/resultkit/component"
	"github.com/kbukum/resultkit/logger"
	"github.com/kbukum/resultkit/server/endpoint"
	"github.com/kbukum/resultkit/server/middleware"
)

const componentName = "http-server"

var _ component.Component = (*Server)(nil)

// Server is an HTTP server backed by Gin, served over HTTP/1.1 and h2c on
// the same port. Additional http.Handler mounts share the listener.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	mux        *http.ServeMux
	h2s        *http2.Server
	config     Config
	log        *logger.Logger
	registry   *prometheus.Registry

	mu       sync.RWMutex
	listener net.Listener
}

// New creates a new Server. No middleware is applied until ApplyMiddleware.
func New(cfg Config, log *logger.Logger) *Server {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	engine := gin.New()
	mux := http.NewServeMux()
	mux.Handle("/", engine)

	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          120 * time.Second,
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      h2c.NewHandler(mux, h2s),
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		engine:     engine,
		mux:        mux,
		h2s:        h2s,
		config:     cfg,
		log:        log.WithComponent("server"),
	}
}

// GinEngine returns the underlying Gin engine for route registration.
func (s *Server) GinEngine() *gin.Engine {
	return s.engine
}

// Handler returns the root handler, including server-level middleware.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Mount mounts an http.Handler at pattern on the root ServeMux, next to Gin.
func (s *Server) Mount(pattern string, handler http.Handler) {
	s.mux.Handle(pattern, handler)
	s.log.Debug("Handler mounted", logger.Fields("pattern", pattern))
}

// ApplyMiddleware installs the standard stack: request logging, CORS and the
// body size limit around every handler, panic recovery and request IDs on the Gin engine.
// Prometheus metrics and gzip are added when configured.
func (s *Server) ApplyMiddleware() error {
	s.engine.Use(middleware.Recovery(s.log), middleware.RequestID())
	if s.config.Metrics.Enabled {
		if err := s.applyMetrics(); err != nil {
			return err
		}
	}
	if s.config.Compression.Enabled {
		s.engine.Use(gzip.Gzip(s.config.Compression.Level,
			gzip.WithExcludedPaths(s.config.Compression.ExcludedPaths)))
	}
	root := middleware.Chain(
		middleware.RequestLogger(s.log),
		middleware.CORS(&s.config.CORS),
		middleware.BodySizeLimit(s.config.MaxBodySize),
	)(s.mux)
	s.httpServer.Handler = h2c.NewHandler(root, s.h2s)
	return nil
}

func (s *Server) applyMetrics() error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return fmt.Errorf("server metrics: %w", err)
	}
	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return fmt.Errorf("server metrics: %w", err)
	}
	m, err := middleware.NewHTTPMetrics(reg)
	if err != nil {
		return fmt.Errorf("server metrics: %w", err)
	}
	s.registry = reg
	s.engine.Use(m.Handler())
	path := s.config.Metrics.Path
	if path == "" {
		path = "/metrics"
	}
	s.engine.GET(path, gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	return nil
}

// Registry returns the Prometheus registry, or nil when metrics are off.
// Callers may register their own collectors on it.
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

// RegisterHealth registers GET /health backed by checker.
func (s *Server) RegisterHealth(serviceName string, checker endpoint.HealthChecker) {
	s.engine.GET("/health", endpoint.Health(serviceName, checker))
}

// RegisterVersion registers GET /version with the running build.
func (s *Server) RegisterVersion() {
	s.engine.GET("/version", endpoint.Version())
}

// Name implements component.Component.
func (s *Server) Name() string { return componentName }

// Start binds the port and begins serving, over TLS when a certificate is
// configured. It returns once the listener is bound; serving continues in a
// goroutine.
func (s *Server) Start(ctx context.Context) error {
	tlsCfg, err := s.config.TLS.Server()
	if err != nil {
		return fmt.Errorf("server tls: %w", err)
	}
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	serve := func() error { return s.httpServer.Serve(listener) }
	if tlsCfg != nil {
		s.httpServer.TLSConfig = tlsCfg
		serve = func() error { return s.httpServer.ServeTLS(listener, "", "") }
	}
	go func() {
		if err := serve(); err != nil && err != http.ErrServerClosed {
			s.log.Error("Server error", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	s.log.Info("HTTP server started", logger.Fields(
		"addr", listener.Addr().String(),
		"tls", tlsCfg != nil,
	))
	return nil
}

// Stop gracefully shuts down the server with a 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error("Server shutdown error", logger.Fields(logger.FieldError, err.Error()))
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.mu.Lock()
	s.listener = nil
	s.mu.Unlock()

	s.log.Info("HTTP server shut down")
	return nil
}

// Health implements component.Component.
func (s *Server) Health(ctx context.Context) component.Health {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return component.Health{Name: componentName, Status: component.StatusUnhealthy, Message: "not listening"}
	}
	return component.Health{Name: componentName, Status: component.StatusHealthy}
}

// Addr returns the bound address once started, otherwise the configured one.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}
