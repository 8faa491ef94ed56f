// Package api serves the catalog query and sync trigger endpoints over gin.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pruthviraj-chavan/happytools1/internal/logger"
)

// Default timeout values for the HTTP server.
const (
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 10 * time.Minute
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultCORSMaxAge      = 12 * time.Hour
)

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host            string
	Port            int
	Debug           bool
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	ServiceName     string
	ServiceVersion  string
}

// SetDefaults fills unset fields.
func (c *ServerConfig) SetDefaults() {
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	// Sync endpoints hold the connection for the whole run.
	if c.WriteTimeout == 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = DefaultIdleTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"*"}
	}
}

// Server owns the HTTP listener for the API.
type Server struct {
	handler *gin.Engine
	http    *http.Server
	log     logger.Logger
	cfg     ServerConfig
}

// NewServer assembles the middleware chain, lets register add the service routes and
// prepares an http.Server with the configured timeouts.
func NewServer(cfg ServerConfig, log logger.Logger, register func(*gin.Engine)) *Server {
	cfg.SetDefaults()

	mode := gin.ReleaseMode
	if cfg.Debug {
		mode = gin.DebugMode
	}
	gin.SetMode(mode)

	engine := NewRouter(log, cfg.CORSOrigins)
	if register != nil {
		register(engine)
	}

	return &Server{
		handler: engine,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:           engine,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
		log: log,
		cfg: cfg,
	}
}

// NewRouter returns an engine with panic recovery, request ids, access logging and CORS,
// in that order.
func NewRouter(log logger.Logger, corsOrigins []string) *gin.Engine {
	engine := gin.New()
	engine.Use(
		RecoveryMiddleware(log),
		RequestIDLoggerMiddleware(log),
		LoggerMiddleware(log),
		CORSMiddleware(corsOrigins),
	)
	return engine
}

// Handler exposes the routed engine, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves until ctx is done, then drains open connections for at most the
// shutdown timeout. It returns nil after a clean drain.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.http.Addr, err)
	}
	s.log.Info("HTTP server listening",
		logger.String("address", ln.Addr().String()),
		logger.String("service", s.cfg.ServiceName),
		logger.String("version", s.cfg.ServiceVersion),
	)

	served := make(chan error, 1)
	go func() { served <- s.http.Serve(ln) }()

	select {
	case err = <-served:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("Draining HTTP connections", logger.Duration("timeout", s.cfg.ShutdownTimeout))
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()

	if err = s.http.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("drain http connections: %w", err)
	}
	<-served
	s.log.Info("HTTP server stopped")
	return nil
}
