package main

import (
	"context"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"urudzbenik/internal/config"
	"urudzbenik/internal/database"
	"urudzbenik/internal/database/migration"
	handlers "urudzbenik/internal/http/handler"
	"urudzbenik/internal/http/middleware"
	"urudzbenik/internal/logger"
	"urudzbenik/internal/otel"
	"urudzbenik/internal/registry"
	"urudzbenik/internal/repository/postgres"
	"urudzbenik/internal/service"
	"urudzbenik/internal/storage"
)

func main() {
	// Configuration comes from environment variables (.env auto-loaded if present).
	cfg := config.Load()

	log := logger.New()
	defer log.Sync()

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	store, err := newStorage(cfg.Storage)
	if err != nil {
		log.Fatal("failed to initialize storage", zap.Error(err))
	}

	docRepo := postgres.NewDocumentPostgres(db)
	alloc := registry.NewAllocator(docRepo)
	docSvc := service.NewDocumentService(store, docRepo, alloc, log)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// Headroom over the attachment ceiling for multipart framing and fields.
		BodyLimit: handlers.MaxPDFSize + 1<<20,
	})

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal("failed to register metrics", zap.Error(err))
	}

	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, db, docSvc)

	addr := ":" + cfg.Port
	log.Info("listening", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

// newStorage picks the attachment backend: a plain directory on disk by
// default, or a MinIO bucket when STORAGE_BACKEND=minio.
func newStorage(cfg config.StorageConfig) (storage.Storage, error) {
	if cfg.Backend == "minio" {
		return storage.NewMinIO(cfg.MinIO)
	}
	return storage.NewLocal(cfg.Dir)
}
