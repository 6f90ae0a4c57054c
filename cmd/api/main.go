package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"tabgate/internal/config"
	"tabgate/internal/database"
	"tabgate/internal/database/migration"
	"tabgate/internal/engine"
	handlers "tabgate/internal/http/handler"
	"tabgate/internal/http/middleware"
	"tabgate/internal/logging"
	tracing "tabgate/internal/otel"
	"tabgate/internal/repository"
	"tabgate/internal/repository/postgres"
	"tabgate/internal/service"
	"tabgate/internal/storage"
)

// @title			Tabgate API
// @version		1.0
// @description	Ingestion and orchestration gateway for tabular datasets.
// @BasePath		/
func main() {
	cfg := config.Load()
	log := logging.New(os.Stdout, cfg.Location(), cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server_exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.AppConfig, log *slog.Logger) error {
	shutdownTracing, err := tracing.Init(ctx, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing_shutdown_failed", "error", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	store, err := storage.NewLocal(cfg.Upload.Dir)
	if err != nil {
		return fmt.Errorf("prepare upload dir: %w", err)
	}

	// The ledger and the mirror are optional. Nil values disable them.
	var (
		db     *sql.DB
		ledger repository.UploadRepository
		mirror storage.Mirror
	)
	if cfg.Database.Enabled() {
		db, err = database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect ledger database: %w", err)
		}
		defer db.Close()

		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			return fmt.Errorf("migrate ledger database: %w", err)
		}
		ledger = postgres.NewUploadPostgres(db)
	}
	if cfg.MinIO.Enabled() {
		mirror, err = storage.NewMinIO(cfg.MinIO)
		if err != nil {
			return fmt.Errorf("init upload mirror: %w", err)
		}
	}

	engineMetrics, err := engine.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("register engine metrics: %w", err)
	}
	eng := engine.New(cfg.Engine, engine.WithMetrics(engineMetrics))

	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("register http metrics: %w", err)
	}

	app := newApp(cfg, log, reg, httpMetrics, handlers.Dependencies{
		Uploads:  service.NewUploadService(store, mirror, ledger),
		Analysis: service.NewAnalysisService(store, eng),
		Cleaning: service.NewCleaningService(store, eng),
		Training: service.NewTrainingService(store, eng),
		Engine:   eng,
		DB:       db,
	})

	log.Info("server_starting",
		"port", cfg.Port,
		"env", cfg.Env,
		"engine_url", cfg.Engine.BaseURL,
		"upload_dir", store.Root(),
		"ledger_enabled", db != nil,
		"mirror_enabled", mirror != nil,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := app.Listen(":" + cfg.Port); err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("server_stopping", "timeout", cfg.ShutdownTimeout.String())
		return app.ShutdownWithTimeout(cfg.ShutdownTimeout)
	})
	return g.Wait()
}

// newApp builds the Fiber app with the global middleware chain, /metrics and all API routes.
func newApp(cfg *config.AppConfig, log *slog.Logger, reg *prometheus.Registry, httpMetrics *middleware.PrometheusMiddleware, deps handlers.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               handlers.ServiceName,
		BodyLimit:             cfg.Upload.MaxBytes,
		ErrorHandler:          handlers.ErrorHandler(cfg.IsProduction()),
		DisableStartupMessage: true,
	})

	// Outermost first. Logger resolves chain errors through ErrorHandler, so
	// the metrics and span around it observe the final status.
	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(httpMetrics.Handler())
	app.Use(middleware.Logger(log))
	app.Use(recover.New(recover.Config{EnableStackTrace: !cfg.IsProduction()}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, deps)
	return app
}
