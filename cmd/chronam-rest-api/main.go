// cmd/chronam-rest-api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "github.com/chronam/ocrdump-service/internal/api/rest/v1"
	"github.com/chronam/ocrdump-service/internal/app"
	"github.com/chronam/ocrdump-service/internal/domain/batches"
	"github.com/chronam/ocrdump-service/internal/domain/dumps"
	"github.com/chronam/ocrdump-service/internal/infrastructure/connector"
	"github.com/chronam/ocrdump-service/internal/infrastructure/persistence"
	"github.com/chronam/ocrdump-service/internal/infrastructure/storage"
	"github.com/chronam/ocrdump-service/internal/pkg/config"
	"github.com/chronam/ocrdump-service/internal/pkg/logger"
	"github.com/gin-contrib/cors"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse configuration; without CONFIG_PATH the defaults and environment apply
	appConfig, err := config.LoadAppConfig(os.Getenv(config.EnvConfigPath))
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	// Initialize logger
	if err := logger.InitLogger(&appConfig.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log, err := logger.GetLogger()
	if err != nil {
		return fmt.Errorf("failed to get logger: %w", err)
	}

	// Initialize application dependencies
	services, err := initializeDependencies(appConfig, log)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	// Setup and start server with graceful shutdown
	return startServerWithGracefulShutdown(appConfig, services, log)
}

type appServices struct {
	batch   batches.BatchService
	ocrDump dumps.OcrDumpService
}

// initializeDependencies sets up all application components
func initializeDependencies(cfg *config.AppConfig, log logger.Logger) (*appServices, error) {
	// Initialize database
	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}

	// Run migrations
	if err := persistence.Migrate(db); err != nil {
		return nil, err
	}
	log.Info("Database migrations completed successfully")

	// Initialize repositories
	batchRepo, err := persistence.NewGormBatchRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create batch repository: %w", err)
	}

	ocrDumpRepo, err := persistence.NewGormOcrDumpRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create ocr dump repository: %w", err)
	}

	// Initialize dump storage
	fs := afero.NewOsFs()
	dumpStorage, err := storage.NewDumpStorage(fs, cfg.Dumps.StorageDir, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create dump storage: %w", err)
	}

	// Initialize the optional remote mirror
	dumpConnector, err := initializeDumpConnector(context.Background(), cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize connector: %w", err)
	}

	// Initialize services
	ocrDumpService, err := app.NewOcrDumpService(batchRepo, ocrDumpRepo, dumpStorage, fs, dumpConnector, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create ocr dump service: %w", err)
	}

	batchService, err := app.NewBatchService(batchRepo, ocrDumpService, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create batch service: %w", err)
	}

	log.Info("Application services initialized successfully")
	return &appServices{
		batch:   batchService,
		ocrDump: ocrDumpService,
	}, nil
}

// initializeDumpConnector returns nil when no blob connector is configured
func initializeDumpConnector(ctx context.Context, cfg *config.AppConfig, log logger.Logger) (dumps.DumpConnector, error) {
	if cfg.BlobConnector == nil {
		log.Info("No blob connector configured, ocr dumps are kept on local storage only")
		return nil, nil
	}
	if cfg.BlobConnector.CloudProvider != config.AzureCloudProvider {
		return nil, fmt.Errorf("unsupported cloud provider: %s (only Azure is supported)", cfg.BlobConnector.CloudProvider)
	}

	dumpConnector, err := connector.NewAzureDumpConnector(ctx, cfg.BlobConnector, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure dump connector: %w", err)
	}

	log.Info("Azure dump connector initialized successfully")
	return dumpConnector, nil
}

// startServerWithGracefulShutdown starts the HTTP server and handles graceful shutdown
func startServerWithGracefulShutdown(cfg *config.AppConfig, services *appServices, log logger.Logger) error {
	// Setup router
	r := gin.Default()

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "Content-Disposition", "ETag"},
		MaxAge:        12 * time.Hour,
	}))

	// Setup API routes
	v1.SetupRoutes(r, services.batch, services.ocrDump, cfg.Dumps.BaseURL)

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attack
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting server on port ", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or server error
	select {
	case err := <-serverErrors:
		return err
	case sig := <-quit:
		log.Info("Received signal, initiating graceful shutdown", "signal", sig.String())
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	log.Info("Shutting down server...")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
