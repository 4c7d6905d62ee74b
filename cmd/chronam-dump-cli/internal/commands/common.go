package commands

import (
	"context"
	"fmt"

	"github.com/chronam/ocrdump-service/internal/app"
	"github.com/chronam/ocrdump-service/internal/domain/batches"
	"github.com/chronam/ocrdump-service/internal/domain/dumps"
	"github.com/chronam/ocrdump-service/internal/infrastructure/connector"
	"github.com/chronam/ocrdump-service/internal/infrastructure/persistence"
	"github.com/chronam/ocrdump-service/internal/infrastructure/storage"
	"github.com/chronam/ocrdump-service/internal/pkg/config"
	"github.com/chronam/ocrdump-service/internal/pkg/logger"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// CommandHandler wires the services used by every sub-command. Dependencies
// are built on first use, after the --config flag has been parsed.
type CommandHandler struct {
	fs afero.Fs

	config         *config.AppConfig
	logger         logger.Logger
	db             *gorm.DB
	batchService   batches.BatchService
	ocrDumpService dumps.OcrDumpService
}

// NewCommandHandler returns a handler reading batches and writing dumps on the OS filesystem
func NewCommandHandler() *CommandHandler {
	return &CommandHandler{fs: afero.NewOsFs()}
}

// setup loads the configuration and builds the services once
func (h *CommandHandler) setup(cmd *cobra.Command) error {
	if h.db != nil {
		return nil
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("invalid config flag: %w", err)
	}

	cfg, err := config.LoadAppConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	log, err := setupLogger(&cfg.Logger)
	if err != nil {
		return err
	}

	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to create db connection: %w", err)
	}
	if err := persistence.Migrate(db); err != nil {
		return err
	}

	batchRepo, err := persistence.NewGormBatchRepository(db, log)
	if err != nil {
		return fmt.Errorf("failed to create batch repository: %w", err)
	}
	ocrDumpRepo, err := persistence.NewGormOcrDumpRepository(db, log)
	if err != nil {
		return fmt.Errorf("failed to create ocr dump repository: %w", err)
	}

	dumpStorage, err := storage.NewDumpStorage(h.fs, cfg.Dumps.StorageDir, log)
	if err != nil {
		return fmt.Errorf("failed to create dump storage: %w", err)
	}

	var dumpConnector dumps.DumpConnector
	if cfg.BlobConnector != nil {
		dumpConnector, err = connector.NewAzureDumpConnector(commandContext(cmd), cfg.BlobConnector, log)
		if err != nil {
			return fmt.Errorf("failed to create Azure dump connector: %w", err)
		}
	}

	ocrDumpService, err := app.NewOcrDumpService(batchRepo, ocrDumpRepo, dumpStorage, h.fs, dumpConnector, log)
	if err != nil {
		return fmt.Errorf("failed to create ocr dump service: %w", err)
	}
	batchService, err := app.NewBatchService(batchRepo, ocrDumpService, log)
	if err != nil {
		return fmt.Errorf("failed to create batch service: %w", err)
	}

	h.config = cfg
	h.logger = log
	h.db = db
	h.batchService = batchService
	h.ocrDumpService = ocrDumpService
	return nil
}

// Close releases the database connection
func (h *CommandHandler) Close() error {
	if h.db == nil {
		return nil
	}
	err := persistence.CloseDB(h.db)
	h.db = nil
	return err
}

func setupLogger(settings *config.LoggerSettings) (logger.Logger, error) {
	if err := logger.InitLogger(settings); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	loggerInstance, err := logger.GetLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to get logger instance: %w", err)
	}

	return loggerInstance, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
