package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/turtacn/sample-app/internal/config"
	"github.com/turtacn/sample-app/internal/infrastructure/monitoring"
	httpapi "github.com/turtacn/sample-app/internal/interfaces/http"
	"github.com/turtacn/sample-app/internal/interfaces/http/handlers"
	"github.com/turtacn/sample-app/pkg/logger"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Logger for startup
	startupLogger, err := monitoring.NewZapLogger(&config.LogConfig{Level: "info"})
	if err != nil {
		log.Fatalf("Failed to create startup logger: %v", err)
	}

	// Load config
	loader := config.NewLoader(startupLogger)
	cfg, err := loader.Load()
	if err != nil {
		startupLogger.Fatal(context.Background(), "Failed to load config", err)
	}

	// Initialize logger
	appLogger, err := monitoring.NewZapLogger(&cfg.Log)
	if err != nil {
		startupLogger.Fatal(context.Background(), "Failed to create logger", err)
	}
	appLogger = appLogger.WithFields(logger.Fields{"service": cfg.App.Name})

	loader.Watch(func(updated *config.Config) {
		if err := appLogger.SetLevel(updated.Log.Level); err != nil {
			appLogger.Warn(context.Background(), "Ignoring invalid log level", logger.Fields{"level": updated.Log.Level})
			return
		}
		appLogger.Info(context.Background(), "Log level updated", logger.Fields{"level": updated.Log.Level})
	})

	if err := run(cfg, appLogger); err != nil {
		appLogger.Fatal(context.Background(), "Sample app stopped with error", err)
	}
}

func run(cfg *config.Config, appLogger logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize tracing
	tracing, err := monitoring.NewTracingManager(&cfg.Tracing, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() { _ = tracing.Shutdown(context.Background()) }()

	// Initialize metrics
	metrics, err := monitoring.NewMetrics(&cfg.Metrics)
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	router := httpapi.NewRouter(httpapi.RouterDependencies{
		Config:          &cfg.Server,
		MetricsPath:     cfg.Metrics.Path,
		Logger:          appLogger,
		GreetingHandler: handlers.NewGreetingHandler(cfg.App.Greeting, metrics, appLogger),
		MetricsHandler:  handlers.NewMetricsHandler(metrics.Handler()),
		HealthHandler:   handlers.NewHealthHandler(metrics.Gatherer(), cfg.Health.CacheDuration(), appLogger),
		Middleware: []gin.HandlerFunc{
			handlers.RecoveryMiddleware(appLogger),
			handlers.RequestIDMiddleware(appLogger),
			handlers.TracingMiddleware(tracing.Tracer()),
			handlers.LoggingMiddleware(appLogger),
		},
	})
	server := httpapi.NewServer(&cfg.Server, router, appLogger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace())
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
