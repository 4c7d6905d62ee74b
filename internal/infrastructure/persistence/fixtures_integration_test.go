//go:build integration
// +build integration

package persistence

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chronam/ocrdump-service/internal/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixtureLoader_Load(t *testing.T) {
	ctx := SetupTestDB(t)
	root := t.TempDir()

	loader, err := NewFixtureLoader(ctx.DB, testutil.SetupTestLogger(t), root)
	require.NoError(t, err)

	f, err := os.Open(filepath.Join("testdata", "uuml_thys_sample.json"))
	require.NoError(t, err)
	defer f.Close()

	stats, err := loader.Load(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, 1, stats[FixtureTitle])
	assert.Equal(t, 1, stats[FixtureBatch])
	assert.Equal(t, 2, stats[FixtureIssue])
	assert.Equal(t, 3, stats[FixturePage])
	assert.Equal(t, 3, stats[FixtureOCR])

	batch, err := ctx.BatchRepo.GetByName(context.Background(), "batch_uuml_thys_ver01")
	require.NoError(t, err)
	assert.Equal(t, int64(3), batch.PageCount)
	assert.Equal(t, filepath.Join(root, "batch_uuml_thys_ver01"), batch.StoragePath)
	assert.Equal(t, 2009, batch.DateTimeCreated.Year())

	pages, err := ctx.BatchRepo.Pages(context.Background(), batch.ID)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, "sn83045604/1854/07/08/ed-1/seq-1/", pages[0].RelativeDir())
	assert.Equal(t, "sn83045604/1854/07/15/ed-1/seq-1/", pages[2].RelativeDir())
	assert.Equal(t, "Anzeigen.", pages[1].Text)
	assert.Equal(t,
		filepath.Join(root, "batch_uuml_thys_ver01", "sn83045604", "print", "1854070801", "0001.xml"),
		pages[0].OCRFilePath)
}

func TestFixtureLoader_Load_SplitFiles(t *testing.T) {
	ctx := SetupTestDB(t)

	titles := `[{"model": "core.title", "pk": "sn83030214", "fields": {"name": "New-York Tribune"}}]`
	batch := `[
	  {"model": "core.batch", "pk": "batch_dlc_jamaica_ver01", "fields": {"storage_path": "/data/batches/batch_dlc_jamaica_ver01"}},
	  {"model": "core.issue", "pk": 10, "fields": {"title": "sn83030214", "batch": "batch_dlc_jamaica_ver01", "date_issued": "1900-01-01"}}
	]`

	first, err := NewFixtureLoader(ctx.DB, testutil.SetupTestLogger(t), t.TempDir())
	require.NoError(t, err)
	_, err = first.Load(context.Background(), strings.NewReader(titles))
	require.NoError(t, err)

	second, err := NewFixtureLoader(ctx.DB, testutil.SetupTestLogger(t), t.TempDir())
	require.NoError(t, err)
	stats, err := second.Load(context.Background(), strings.NewReader(batch))
	require.NoError(t, err)
	assert.Equal(t, 1, stats[FixtureIssue])

	fetched, err := ctx.BatchRepo.GetByName(context.Background(), "batch_dlc_jamaica_ver01")
	require.NoError(t, err)
	assert.Equal(t, "/data/batches/batch_dlc_jamaica_ver01", fetched.StoragePath)
}

func TestFixtureLoader_Load_UnknownReference(t *testing.T) {
	ctx := SetupTestDB(t)

	loader, err := NewFixtureLoader(ctx.DB, testutil.SetupTestLogger(t), t.TempDir())
	require.NoError(t, err)

	_, err = loader.Load(context.Background(), strings.NewReader(
		`[{"model": "core.page", "pk": 1, "fields": {"issue": 99, "sequence": 1, "ocr_filename": "0001.xml"}}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown issue 99")
}

func TestFixtureLoader_Load_InvalidJSON(t *testing.T) {
	ctx := SetupTestDB(t)

	loader, err := NewFixtureLoader(ctx.DB, testutil.SetupTestLogger(t), t.TempDir())
	require.NoError(t, err)

	_, err = loader.Load(context.Background(), strings.NewReader("{"))
	assert.Error(t, err)
}
