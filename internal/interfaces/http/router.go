// Package http assembles the gin engine and runs the HTTP server of the sample application.
package http

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/turtacn/sample-app/internal/config"
	"github.com/turtacn/sample-app/internal/interfaces/http/handlers"
	"github.com/turtacn/sample-app/pkg/constants"
	"github.com/turtacn/sample-app/pkg/logger"
)

// RouterDependencies holds everything NewRouter mounts.
type RouterDependencies struct {
	Config          *config.ServerConfig
	MetricsPath     string
	Logger          logger.Logger
	GreetingHandler *handlers.GreetingHandler
	MetricsHandler  *handlers.MetricsHandler
	HealthHandler   *handlers.HealthHandler
	Middleware      []gin.HandlerFunc
}

// NewRouter builds the gin engine with all routes mounted.
func NewRouter(deps RouterDependencies) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(deps.Middleware...)

	if deps.Config.CORSEnabled {
		origins := deps.Config.AllowedOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		engine.Use(cors.New(cors.Config{
			AllowOrigins:  origins,
			AllowMethods:  []string{http.MethodGet, http.MethodOptions},
			AllowHeaders:  []string{"Origin", "Content-Type", constants.HeaderRequestID},
			ExposeHeaders: []string{constants.HeaderRequestID},
			MaxAge:        12 * time.Hour,
		}))
	}

	metricsPath := deps.MetricsPath
	if metricsPath == "" {
		metricsPath = constants.DefaultMetricsPath
	}

	engine.GET("/", deps.GreetingHandler.Greet)
	engine.GET(metricsPath, deps.MetricsHandler.Metrics)
	engine.GET("/health/live", deps.HealthHandler.LivenessCheck)
	engine.GET("/health/ready", deps.HealthHandler.ReadinessCheck)

	if deps.Config.PprofEnabled {
		pprof.Register(engine)
	}

	engine.NoRoute(handlers.NotFound)
	return engine
}

// Server runs the HTTP listener.
type Server struct {
	cfg    *config.ServerConfig
	logger logger.Logger
	server *http.Server

	mu       sync.Mutex
	listener net.Listener
}

// NewServer creates a server for handler bound to cfg's address.
func NewServer(cfg *config.ServerConfig, handler http.Handler, log logger.Logger) *Server {
	return &Server{
		cfg:    cfg,
		logger: log,
		server: &http.Server{
			Addr:           cfg.Addr(),
			Handler:        handler,
			ReadTimeout:    time.Duration(cfg.ReadTimeout) * time.Second,
			WriteTimeout:   time.Duration(cfg.WriteTimeout) * time.Second,
			IdleTimeout:    time.Duration(cfg.IdleTimeout) * time.Second,
			MaxHeaderBytes: 1 << 20, // 1MB
		},
	}
}

// Listen binds the configured address.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	port := s.cfg.Port
	if tcpAddr, ok := ln.Addr().(*net.TCPAddr); ok {
		port = tcpAddr.Port
	}
	s.logger.Info(context.Background(), "Sample app listening on port "+strconv.Itoa(port), logger.Fields{
		"address": ln.Addr().String(),
	})
	return nil
}

// Serve accepts connections until Shutdown. It returns nil after a graceful shutdown.
func (s *Server) Serve() error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		return fmt.Errorf("server is not listening")
	}
	if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Start binds the address and serves until Shutdown.
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "Shutting down HTTP server")
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Error(ctx, "Server forced to shutdown", err)
		return err
	}
	s.logger.Info(ctx, "HTTP server stopped")
	return nil
}
