//go:build integration
// +build integration

package app

import (
	"archive/tar"
	"context"
	"crypto/sha1" // #nosec G505
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chronam/ocrdump-service/internal/domain/batches"
	"github.com/chronam/ocrdump-service/internal/domain/dumps"
	"github.com/chronam/ocrdump-service/internal/infrastructure/persistence"
	"github.com/chronam/ocrdump-service/internal/infrastructure/persistence/models"
	"github.com/chronam/ocrdump-service/internal/pkg/archive"
	"github.com/chronam/ocrdump-service/internal/pkg/testutil"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPageCount = 56

func TestOcrDumpService_NewFromBatch(t *testing.T) {
	services := SetupTestServices(t)
	ctx := context.Background()

	persistence.CreateTestBatch(t, services.DBContext.BatchRepo, services.BatchDir, persistence.TestBatchName, testPageCount)

	batch, err := services.BatchService.GetByName(ctx, persistence.TestBatchName)
	require.NoError(t, err)
	assert.Equal(t, int64(testPageCount), batch.PageCount)

	t0 := time.Now()
	dump, err := services.OcrDumpService.NewFromBatch(ctx, batch.Name)
	require.NoError(t, err)

	assert.Equal(t, persistence.TestBatchName, dump.BatchName)
	assert.Equal(t, batch.ID, dump.BatchID)
	assert.Equal(t, "batch_uuml_thys_ver01.tar.bz2", dump.Name)
	assert.Equal(t, filepath.Join(services.Storage.Dir(), "batch_uuml_thys_ver01.tar.bz2"), dump.Path(services.Storage.Dir()))
	assert.Equal(t, 1, dump.Sequence)

	content, err := os.ReadFile(dump.Path(services.Storage.Dir()))
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), dump.Size)

	sum := sha1.Sum(content) // #nosec G401
	assert.Equal(t, hex.EncodeToString(sum[:]), dump.Sha1)

	f, err := os.Open(dump.Path(services.Storage.Dir()))
	require.NoError(t, err)
	defer f.Close()

	members, err := archive.Members(f)
	require.NoError(t, err)
	require.Len(t, members, testPageCount*dumps.MembersPerPage)

	assert.True(t, strings.HasSuffix(members[0].Name, "/1854/07/08/ed-1/seq-1/ocr.txt"), members[0].Name)
	assert.True(t, strings.HasSuffix(members[1].Name, "/1854/07/08/ed-1/seq-1/ocr.xml"), members[1].Name)
	assert.Equal(t, int64(len(persistence.TestPageText(1))), members[0].Size)
	assert.Equal(t, int64(len(persistence.TestPageXML(1))), members[1].Size)
	assert.Equal(t, byte(tar.TypeReg), members[1].Typeflag)
	assert.Less(t, members[0].ModTime.Sub(t0), 2*time.Second)
	assert.Less(t, t0.Sub(members[0].ModTime), 2*time.Second)

	require.NoError(t, services.OcrDumpService.Verify(ctx, dump.Name))

	// deleting the batch removes the dump row and the dump file
	path := dump.Path(services.Storage.Dir())
	require.NoError(t, services.BatchService.DeleteByName(ctx, batch.Name))

	var count int64
	require.NoError(t, services.DBContext.DB.Model(&models.BatchModel{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, services.DBContext.DB.Model(&models.OcrDumpModel{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.NoFileExists(t, path)
}

func TestOcrDumpService_NewFromBatch_Twice(t *testing.T) {
	services := SetupTestServices(t)
	ctx := context.Background()
	persistence.CreateTestBatch(t, services.DBContext.BatchRepo, services.BatchDir, persistence.TestBatchName, 2)

	_, err := services.OcrDumpService.NewFromBatch(ctx, persistence.TestBatchName)
	require.NoError(t, err)

	_, err = services.OcrDumpService.NewFromBatch(ctx, persistence.TestBatchName)
	assert.ErrorIs(t, err, dumps.ErrDumpExists)
}

func TestOcrDumpService_NewFromBatch_MissingXML(t *testing.T) {
	services := SetupTestServices(t)
	ctx := context.Background()
	batch := persistence.CreateTestBatch(t, services.DBContext.BatchRepo, services.BatchDir, persistence.TestBatchName, 2)

	require.NoError(t, os.Remove(filepath.Join(batch.StoragePath, "data", "0002.xml")))

	_, err := services.OcrDumpService.NewFromBatch(ctx, persistence.TestBatchName)
	require.Error(t, err)

	entries, err := os.ReadDir(services.Storage.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = services.OcrDumpService.GetByBatchID(ctx, batch.ID)
	assert.ErrorIs(t, err, dumps.ErrDumpNotFound)
}

func TestOcrDumpService_DumpMissingAndOpen(t *testing.T) {
	services := SetupTestServices(t)
	ctx := context.Background()
	persistence.CreateTestBatch(t, services.DBContext.BatchRepo, services.BatchDir, "batch_a_ver01", 1)
	persistence.CreateTestBatch(t, services.DBContext.BatchRepo, services.BatchDir, "batch_b_ver01", 2)

	_, err := services.OcrDumpService.NewFromBatch(ctx, "batch_a_ver01")
	require.NoError(t, err)

	created, err := services.OcrDumpService.DumpMissing(ctx)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "batch_b_ver01.tar.bz2", created[0].Name)
	assert.Equal(t, 2, created[0].Sequence)

	rc, dump, err := services.OcrDumpService.Open(ctx, "batch_b_ver01.tar.bz2")
	require.NoError(t, err)
	defer rc.Close()

	size, sum, err := archive.Checksum(rc)
	require.NoError(t, err)
	assert.Equal(t, dump.Size, size)
	assert.Equal(t, dump.Sha1, sum)

	list, err := services.OcrDumpService.List(ctx, dumps.NewOcrDumpQuery())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestOcrDumpService_Verify_Tampered(t *testing.T) {
	services := SetupTestServices(t)
	ctx := context.Background()
	persistence.CreateTestBatch(t, services.DBContext.BatchRepo, services.BatchDir, persistence.TestBatchName, 1)

	dump, err := services.OcrDumpService.NewFromBatch(ctx, persistence.TestBatchName)
	require.NoError(t, err)

	f, err := os.OpenFile(dump.Path(services.Storage.Dir()), os.O_APPEND|os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = io.WriteString(f, "trailing garbage")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	err = services.OcrDumpService.Verify(ctx, dump.Name)
	var integrityErr *dumps.IntegrityError
	require.ErrorAs(t, err, &integrityErr)
	assert.Equal(t, dump.Size+int64(len("trailing garbage")), integrityErr.ActualSize)
}

func TestBatchService_DeleteByName_WithoutDump(t *testing.T) {
	services := SetupTestServices(t)
	ctx := context.Background()
	persistence.CreateTestBatch(t, services.DBContext.BatchRepo, services.BatchDir, persistence.TestBatchName, 1)

	require.NoError(t, services.BatchService.DeleteByName(ctx, persistence.TestBatchName))

	_, err := services.BatchService.GetByName(ctx, persistence.TestBatchName)
	assert.ErrorIs(t, err, batches.ErrBatchNotFound)
}

// gatedFs holds the first Open until release is closed
type gatedFs struct {
	afero.Fs
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedFs) Open(name string) (afero.File, error) {
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	return g.Fs.Open(name)
}

func TestOcrDumpService_NewFromBatch_Concurrent(t *testing.T) {
	services := SetupTestServices(t)
	ctx := context.Background()

	persistence.CreateTestBatch(t, services.DBContext.BatchRepo, services.BatchDir, persistence.TestBatchName, 3)

	source := &gatedFs{
		Fs:      afero.NewOsFs(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	service, err := NewOcrDumpService(services.DBContext.BatchRepo, services.DBContext.OcrDumpRepo,
		services.Storage, source, nil, testutil.SetupTestLogger(t))
	require.NoError(t, err)

	type result struct {
		dump *dumps.OcrDump
		err  error
	}
	first := make(chan result, 1)
	second := make(chan result, 1)

	go func() {
		dump, err := service.NewFromBatch(ctx, persistence.TestBatchName)
		first <- result{dump, err}
	}()
	<-source.entered

	go func() {
		dump, err := service.NewFromBatch(ctx, persistence.TestBatchName)
		second <- result{dump, err}
	}()

	// let the second request reach the batch lock before the first one writes
	time.Sleep(100 * time.Millisecond)
	close(source.release)

	a := <-first
	b := <-second

	require.NoError(t, a.err)
	require.Error(t, b.err)
	assert.ErrorIs(t, b.err, dumps.ErrDumpExists)

	row, err := services.DBContext.OcrDumpRepo.GetByName(ctx, a.dump.Name)
	require.NoError(t, err)
	assert.Equal(t, a.dump.Sha1, row.Sha1)

	_, err = os.Stat(row.Path(services.Storage.Dir()))
	require.NoError(t, err)
	require.NoError(t, service.Verify(ctx, row.Name))
}
