//go:build integration
// +build integration

package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/chronam/ocrdump-service/internal/domain/batches"
	"github.com/chronam/ocrdump-service/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchSqliteRepository_GetByName(t *testing.T) {
	ctx := SetupTestDB(t)
	batch := CreateTestBatch(t, ctx.BatchRepo, t.TempDir(), TestBatchName, 3)

	fetched, err := ctx.BatchRepo.GetByName(context.Background(), TestBatchName)
	require.NoError(t, err)
	assert.Equal(t, batch.ID, fetched.ID)
	assert.Equal(t, batch.StoragePath, fetched.StoragePath)
	assert.Equal(t, int64(3), fetched.PageCount)
}

func TestBatchSqliteRepository_GetByName_NotFound(t *testing.T) {
	ctx := SetupTestDB(t)

	_, err := ctx.BatchRepo.GetByName(context.Background(), "batch_missing_ver01")
	require.Error(t, err)
	assert.ErrorIs(t, err, batches.ErrBatchNotFound)
}

func TestBatchSqliteRepository_Create_InvalidBatch(t *testing.T) {
	ctx := SetupTestDB(t)

	err := ctx.BatchRepo.Create(context.Background(), &batches.Batch{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestBatchSqliteRepository_List(t *testing.T) {
	ctx := SetupTestDB(t)
	root := t.TempDir()
	CreateTestBatch(t, ctx.BatchRepo, root, "batch_b_ver01", 2)
	CreateTestBatch(t, ctx.BatchRepo, root, "batch_a_ver01", 1)
	CreateTestBatch(t, ctx.BatchRepo, root, "batch_c_ver01", 0)

	list, err := ctx.BatchRepo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "batch_a_ver01", list[0].Name)
	assert.Equal(t, int64(1), list[0].PageCount)
	assert.Equal(t, int64(2), list[1].PageCount)
	assert.Equal(t, int64(0), list[2].PageCount)
}

func TestBatchSqliteRepository_Pages(t *testing.T) {
	ctx := SetupTestDB(t)
	batch := CreateTestBatch(t, ctx.BatchRepo, t.TempDir(), TestBatchName, 3)

	pages, err := ctx.BatchRepo.Pages(context.Background(), batch.ID)
	require.NoError(t, err)
	require.Len(t, pages, 3)

	for i, page := range pages {
		assert.Equal(t, i+1, page.Sequence)
		assert.Equal(t, 1, page.Edition)
		assert.Equal(t, 1854, page.DateIssued.Year())
		assert.Equal(t, TestPageText(i+1), page.Text)
		assert.Equal(t, batch.StoragePath, filepath.Dir(filepath.Dir(page.OCRFilePath)))
		assert.FileExists(t, page.OCRFilePath)
	}
	assert.Equal(t, "1854/07/08/ed-1/seq-1/", pages[0].RelativeDir()[len(pages[0].LCCN)+1:])
}

func TestBatchSqliteRepository_DeleteByID(t *testing.T) {
	ctx := SetupTestDB(t)
	root := t.TempDir()
	batch := CreateTestBatch(t, ctx.BatchRepo, root, TestBatchName, 2)
	other := CreateTestBatch(t, ctx.BatchRepo, root, "batch_other_ver01", 1)

	dump := CreateTestDump(t, batch, 1)
	require.NoError(t, ctx.OcrDumpRepo.Create(context.Background(), dump))

	err := ctx.BatchRepo.DeleteByID(context.Background(), batch.ID)
	require.NoError(t, err)

	_, err = ctx.BatchRepo.GetByName(context.Background(), TestBatchName)
	assert.ErrorIs(t, err, batches.ErrBatchNotFound)

	var count int64
	require.NoError(t, ctx.DB.Model(&models.OcrDumpModel{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, ctx.DB.Model(&models.IssueModel{}).Where("batch_id = ?", batch.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, ctx.DB.Model(&models.PageModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	require.NoError(t, ctx.DB.Model(&models.OCRModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	remaining, err := ctx.BatchRepo.GetByName(context.Background(), other.Name)
	require.NoError(t, err)
	assert.Equal(t, int64(1), remaining.PageCount)
}

func TestBatchSqliteRepository_DeleteByID_NotFound(t *testing.T) {
	ctx := SetupTestDB(t)

	err := ctx.BatchRepo.DeleteByID(context.Background(), "8f0e4c2a-3f0b-4d7e-9d1a-0a4f3b2c1d0e")
	assert.ErrorIs(t, err, batches.ErrBatchNotFound)
}
