//go:build integration
// +build integration

package app

import (
	"path/filepath"
	"testing"

	"github.com/chronam/ocrdump-service/internal/domain/batches"
	"github.com/chronam/ocrdump-service/internal/domain/dumps"
	"github.com/chronam/ocrdump-service/internal/infrastructure/persistence"
	"github.com/chronam/ocrdump-service/internal/infrastructure/storage"
	"github.com/chronam/ocrdump-service/internal/pkg/testutil"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// TestServices holds all application services and dependencies for testing
type TestServices struct {
	BatchService   batches.BatchService
	OcrDumpService dumps.OcrDumpService
	Storage        dumps.DumpStorage

	// BatchDir holds the OCR XML files of test batches
	BatchDir string

	DBContext *persistence.TestContext
}

// SetupTestServices wires the services on a temporary SQLite database and
// temporary directories, without a remote connector
func SetupTestServices(t *testing.T) *TestServices {
	t.Helper()

	logger := testutil.SetupTestLogger(t)
	dbContext := persistence.SetupTestDB(t)

	fs := afero.NewOsFs()
	dumpStorage, err := storage.NewDumpStorage(fs, filepath.Join(t.TempDir(), "ocr"), logger)
	require.NoError(t, err, "Failed to create dump storage")

	ocrDumpService, err := NewOcrDumpService(dbContext.BatchRepo, dbContext.OcrDumpRepo, dumpStorage, fs, nil, logger)
	require.NoError(t, err, "Failed to create ocr dump service")

	batchService, err := NewBatchService(dbContext.BatchRepo, ocrDumpService, logger)
	require.NoError(t, err, "Failed to create batch service")

	return &TestServices{
		BatchService:   batchService,
		OcrDumpService: ocrDumpService,
		Storage:        dumpStorage,
		BatchDir:       t.TempDir(),
		DBContext:      dbContext,
	}
}
