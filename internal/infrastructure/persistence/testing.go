//go:build integration
// +build integration

package persistence

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/chronam/ocrdump-service/internal/domain/batches"
	"github.com/chronam/ocrdump-service/internal/domain/dumps"
	"github.com/chronam/ocrdump-service/internal/pkg/config"
	"github.com/chronam/ocrdump-service/internal/pkg/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Test constants
const (
	TestLCCN      = "sn83030214"
	TestTitleName = "New-York Tribune"
	TestBatchName = "batch_uuml_thys_ver01"
)

var testTitleSeq atomic.Int64

// TestContext holds test database and repositories
type TestContext struct {
	DB          *gorm.DB
	BatchRepo   batches.BatchRepository
	OcrDumpRepo dumps.OcrDumpRepository
}

// SetupTestDB initializes a migrated SQLite database in a temporary directory
// with automatic cleanup
func SetupTestDB(t *testing.T) *TestContext {
	t.Helper()

	settings := config.DatabaseSettings{
		Type: config.SqliteDbType,
		DSN:  filepath.Join(t.TempDir(), "chronam.db"),
	}

	db, err := NewDBConnection(settings)
	require.NoError(t, err, "Failed to create database connection")

	t.Cleanup(func() {
		_ = CloseDB(db)
	})

	err = Migrate(db)
	require.NoError(t, err, "Failed to migrate schema")

	logger := testutil.SetupTestLogger(t)

	batchRepo, err := NewGormBatchRepository(db, logger)
	require.NoError(t, err, "Failed to create batch repository")

	ocrDumpRepo, err := NewGormOcrDumpRepository(db, logger)
	require.NoError(t, err, "Failed to create ocr dump repository")

	return &TestContext{
		DB:          db,
		BatchRepo:   batchRepo,
		OcrDumpRepo: ocrDumpRepo,
	}
}

// TestPageXML returns the OCR XML written for a test page
func TestPageXML(sequence int) []byte {
	return []byte(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<alto xmlns="http://schema.ccs-gmbh.com/ALTO"><Layout><Page ID="P%d"><String CONTENT="page %d"/></Page></Layout></alto>
`, sequence, sequence))
}

// TestPageText returns the OCR text stored for a test page
func TestPageText(sequence int) string {
	return fmt.Sprintf("Lorem ipsum dolor sit amet, page %d.\n", sequence)
}

// CreateTestBatch stores a batch of one issue with the given number of pages.
// The OCR XML files of the pages are written below storageDir.
func CreateTestBatch(t *testing.T, repo batches.BatchRepository, storageDir, name string, pageCount int) *batches.Batch {
	t.Helper()
	ctx := context.Background()

	title := &batches.Title{ID: uuid.NewString(), LCCN: fmt.Sprintf("sn%08d", 83030000+testTitleSeq.Add(1)), Name: TestTitleName}
	require.NoError(t, repo.CreateTitle(ctx, title))

	batch := &batches.Batch{
		ID:              uuid.NewString(),
		Name:            name,
		StoragePath:     filepath.Join(storageDir, name),
		DateTimeCreated: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, batch))

	issue := &batches.Issue{
		ID:         uuid.NewString(),
		BatchID:    batch.ID,
		TitleID:    title.ID,
		DateIssued: time.Date(1854, time.July, 8, 0, 0, 0, 0, time.UTC),
		Edition:    1,
	}
	require.NoError(t, repo.CreateIssue(ctx, issue))

	for seq := 1; seq <= pageCount; seq++ {
		ocrFilename := fmt.Sprintf("data/%04d.xml", seq)
		err := testutil.CreateTestFile(filepath.Join(batch.StoragePath, filepath.FromSlash(ocrFilename)), TestPageXML(seq))
		require.NoError(t, err)

		page := &batches.Page{
			ID:          uuid.NewString(),
			IssueID:     issue.ID,
			Sequence:    seq,
			OCRFilename: ocrFilename,
		}
		ocr := &batches.OCR{PageID: page.ID, Text: TestPageText(seq)}
		require.NoError(t, repo.CreatePage(ctx, page, ocr))
	}

	batch.PageCount = int64(pageCount)
	return batch
}

// CreateTestDump returns a valid dump row for batch
func CreateTestDump(t *testing.T, batch *batches.Batch, sequence int) *dumps.OcrDump {
	t.Helper()

	return &dumps.OcrDump{
		ID:              uuid.NewString(),
		Sequence:        sequence,
		Name:            dumps.NameForBatch(batch.Name),
		Sha1:            "da39a3ee5e6b4b0d3255bfef95601890afd80709",
		Size:            1024,
		DateTimeCreated: time.Now().UTC(),
		BatchID:         batch.ID,
		BatchName:       batch.Name,
	}
}
