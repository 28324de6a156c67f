// @title SolarHub API
// @version 1.0
// @description Solar installation applications, savings estimates and installer matching.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "solarhub/docs"
	"solarhub/internal/auth"
	"solarhub/internal/config"
	"solarhub/internal/handler"
	"solarhub/internal/logger"
	"solarhub/internal/notify/noop"
	"solarhub/internal/notify/relay"
	"solarhub/internal/offer"
	"solarhub/internal/port"
	"solarhub/internal/pubsub/memory"
	redisfeed "solarhub/internal/pubsub/redis"
	"solarhub/internal/repository/postgres"
	"solarhub/internal/router"
	"solarhub/internal/savings"
	"solarhub/internal/service"
	s3storage "solarhub/internal/storage/s3"
	"solarhub/internal/stream"
	"solarhub/internal/tariff"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zl := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = zl.Sync() }()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	appRepo := postgres.NewApplicationRepo(db)
	projectRepo := postgres.NewProjectRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	checks := map[string]handler.Pinger{"database": appRepo.Ping}

	// Change feed: Redis when configured, otherwise in-process.
	var feed port.ChangeFeed
	if cfg.Redis.Addr != "" {
		rdb := redisfeed.NewClient(&cfg.Redis)
		defer rdb.Close()
		feed = redisfeed.NewFeed(rdb)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		zl.Info("change feed: redis", zap.String("addr", cfg.Redis.Addr))
	} else {
		feed = memory.NewFeed()
		zl.Info("change feed: in-memory")
	}

	tariffs := tariff.NewModel()
	if cfg.Tariff.File != "" {
		tariffs, err = tariff.LoadFile(cfg.Tariff.File)
		if err != nil {
			return fmt.Errorf("failed to load tariff file: %w", err)
		}
		zl.Info("tariff override loaded", zap.String("file", cfg.Tariff.File))
	}

	var notifier port.Notifier
	switch cfg.Notifier.Provider {
	case "relay":
		notifier = relay.NewRelayNotifier(cfg.Notifier.RelayURL, cfg.Notifier.Timeout)
		zl.Info("notifier: relay", zap.String("url", cfg.Notifier.RelayURL))
	default:
		notifier = noop.NewNoopNotifier(zl)
		zl.Info("notifier: noop")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Notification pipeline
	bus := service.NewEventBus(cfg.Events.BufferSize, zl)
	worker := service.NewNotificationWorker(bus, notifier, service.NotificationConfig{
		Concurrency: cfg.Notifier.Concurrency,
		Timeout:     cfg.Notifier.Timeout,
	}, zl)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(context.Background())
	}()

	// Initialize services
	tracker := service.NewUploadTracker()
	uploadSvc := service.NewUploadService(s3Client, tracker, cfg.S3, cfg.Upload, zl)
	appSvc := service.NewApplicationService(appRepo, feed, bus, tracker, uploadSvc, zl)
	projectSvc := service.NewProjectService(projectRepo, appRepo, zl)
	estimateSvc := service.NewEstimateService(appRepo, savings.NewProjector(tariffs), offer.NewGenerator(nil))

	hub := stream.NewHub()
	validator := auth.NewHMACValidator(cfg.JWT)

	// Initialize handlers
	handlers := router.Handlers{
		Application: handler.NewApplicationHandler(appSvc, estimateSvc, tariffs),
		Project:     handler.NewProjectHandler(projectSvc),
		Upload:      handler.NewUploadHandler(uploadSvc, maxUploadBody(cfg.Upload)),
		Estimate:    handler.NewEstimateHandler(estimateSvc),
		Workflow:    handler.NewWorkflowHandler(),
		Stream:      handler.NewStreamHandler(ctx, appSvc, hub, cfg.CORS.AllowedOrigins, zl),
		Health:      handler.NewHealthHandler(checks),
	}

	// Setup router
	r := router.Setup(validator, handlers, cfg.CORS.AllowedOrigins, zl)

	srv := &http.Server{
		Addr:        cfg.Server.Port,
		Handler:     r,
		ReadTimeout: cfg.Server.ReadTimeout,
		// WriteTimeout is not applied to hijacked WebSocket connections.
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		zl.Info("server starting", zap.String("addr", cfg.Server.Port), zap.String("environment", cfg.Server.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("http server shutdown failed", zap.Error(err))
	}

	// Closing the bus lets the worker drain queued events and in-flight sends.
	bus.Close()
	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		zl.Warn("notification worker did not finish before timeout")
	}

	zl.Info("server stopped")
	return nil
}

// maxUploadBody bounds a multipart request to the configured file count at
// the per-file limit plus form overhead.
func maxUploadBody(u config.UploadConfig) int64 {
	return u.MaxFileSizeBytes()*int64(u.MaxFiles) + 1<<20
}
