package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"notice/cmd"
	"notice/internal/adapters/out/postgres"
	"notice/internal/tracing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

const serviceName = "notice"

func main() {
	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	shutdownTracer := func(context.Context) error { return nil }
	if configs.TracingEnabled {
		shutdownTracer, err = tracing.InitTracer(serviceName, os.Stdout)
		if err != nil {
			log.Fatalf("Error initializing tracer: %v", err)
		}
	}

	gormDB := openStore(configs, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app, err := cmd.NewCompositionRoot(configs, gormDB, registry, logger)
	if err != nil {
		log.Fatalf("Error building application: %v", err)
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}

	e := newWebServer(app, registry)
	go func() {
		if startErr := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); startErr != nil &&
			!errors.Is(startErr, http.ErrServerClosed) {
			log.Fatalf("Error starting web server: %v", startErr)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down", "timeout", configs.ShutdownTimeout.String())
	ctx, cancel := context.WithTimeout(context.Background(), configs.ShutdownTimeout)
	defer cancel()

	if err = e.Shutdown(ctx); err != nil {
		logger.Error("Web server shutdown failed", "error", err)
	}
	jobManager.StopAll()
	if err = app.Shutdown(ctx); err != nil {
		logger.Error("Application shutdown incomplete", "error", err)
	}
	if err = shutdownTracer(context.Background()); err != nil {
		logger.Error("Tracer shutdown failed", "error", err)
	}
	closeStore(gormDB, logger)
}

// openStore migrates and connects to PostgreSQL, or returns nil for the
// in-memory store.
func openStore(configs cmd.Config, logger *slog.Logger) *gorm.DB {
	if configs.StoreDriver == cmd.StoreDriverMemory {
		logger.Warn("Using in-memory store; state is lost on restart")
		return nil
	}

	dsn := configs.PostgresDSN()
	if err := postgres.Migrate(dsn); err != nil {
		log.Fatalf("Error applying migrations: %v", err)
	}

	gormDB, err := postgres.Open(dsn)
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	return gormDB
}

func closeStore(gormDB *gorm.DB, logger *slog.Logger) {
	if gormDB == nil {
		return
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return
	}
	if err = sqlDB.Close(); err != nil {
		logger.Error("Database close failed", "error", err)
	}
}

func newWebServer(app *cmd.CompositionRoot, registry *prometheus.Registry) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	app.CreateServer().RegisterRoutes(e)
	return e
}
