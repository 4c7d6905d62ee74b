package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/chronam/ocrdump-service/internal/domain/batches"
	"github.com/chronam/ocrdump-service/internal/domain/dumps"
	"github.com/chronam/ocrdump-service/internal/pkg/archive"
	"github.com/chronam/ocrdump-service/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// ocrDumpService implements the OcrDumpService interface
type ocrDumpService struct {
	batchRepository batches.BatchRepository
	dumpRepository  dumps.OcrDumpRepository
	storage         dumps.DumpStorage
	sourceFs        afero.Fs
	dumpConnector   dumps.DumpConnector
	logger          logger.Logger
	now             func() time.Time

	// serializes NewFromBatch per batch name
	batchLocks *keyedMutex
}

// NewOcrDumpService creates a new instance of OcrDumpService. OCR XML files of
// pages are read from sourceFs. dumpConnector may be nil, in which case dumps
// are kept on local storage only.
func NewOcrDumpService(
	batchRepository batches.BatchRepository,
	dumpRepository dumps.OcrDumpRepository,
	storage dumps.DumpStorage,
	sourceFs afero.Fs,
	dumpConnector dumps.DumpConnector,
	logger logger.Logger,
) (dumps.OcrDumpService, error) {
	if batchRepository == nil || dumpRepository == nil || storage == nil || sourceFs == nil {
		return nil, fmt.Errorf("ocr dump service requires repositories, storage and a source filesystem")
	}

	return &ocrDumpService{
		batchRepository: batchRepository,
		dumpRepository:  dumpRepository,
		storage:         storage,
		sourceFs:        sourceFs,
		dumpConnector:   dumpConnector,
		logger:          logger,
		now:             time.Now,
		batchLocks:      newKeyedMutex(),
	}, nil
}

// NewFromBatch writes <batch>.tar.bz2 with the OCR text and OCR XML of every
// page of the batch and records its size and sha1.
func (s *ocrDumpService) NewFromBatch(ctx context.Context, batchName string) (*dumps.OcrDump, error) {
	batch, err := s.batchRepository.GetByName(ctx, batchName)
	if err != nil {
		return nil, err
	}

	unlock := s.batchLocks.Lock(batch.Name)
	defer unlock()

	_, err = s.dumpRepository.GetByBatchID(ctx, batch.ID)
	if err == nil {
		return nil, fmt.Errorf("batch %s: %w", batch.Name, dumps.ErrDumpExists)
	}
	if !errors.Is(err, dumps.ErrDumpNotFound) {
		return nil, err
	}

	pages, err := s.batchRepository.Pages(ctx, batch.ID)
	if err != nil {
		return nil, err
	}

	name := dumps.NameForBatch(batch.Name)
	started := s.now()

	size, sha1, err := s.writeArchive(ctx, name, pages, started)
	if err != nil {
		return nil, fmt.Errorf("failed to write ocr dump %s: %w", name, err)
	}

	sequence, err := s.dumpRepository.NextSequence(ctx)
	if err != nil {
		s.discard(name)
		return nil, err
	}

	dump := &dumps.OcrDump{
		ID:              uuid.NewString(),
		Sequence:        sequence,
		Name:            name,
		Sha1:            sha1,
		Size:            size,
		DateTimeCreated: started.UTC(),
		BatchID:         batch.ID,
		BatchName:       batch.Name,
	}
	if err := s.dumpRepository.Create(ctx, dump); err != nil {
		s.discard(name)
		return nil, err
	}

	s.logger.Info("Created ocr dump", "name", dump.Name, "pages", len(pages), "size", dump.Size, "sha1", dump.Sha1)

	s.mirror(ctx, dump)
	return dump, nil
}

func (s *ocrDumpService) writeArchive(ctx context.Context, name string, pages []*batches.PageOCR, mtime time.Time) (int64, string, error) {
	staged, err := s.storage.Create(name)
	if err != nil {
		return 0, "", err
	}

	writer, err := archive.NewWriter(staged)
	if err != nil {
		_ = staged.Abort()
		return 0, "", err
	}

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			_ = staged.Abort()
			return 0, "", err
		}
		if err := s.addPage(writer, page, mtime); err != nil {
			_ = staged.Abort()
			return 0, "", err
		}
	}

	if err := writer.Close(); err != nil {
		_ = staged.Abort()
		return 0, "", err
	}
	if err := staged.Commit(); err != nil {
		return 0, "", err
	}

	return writer.Size(), writer.Sha1(), nil
}

func (s *ocrDumpService) addPage(writer *archive.Writer, page *batches.PageOCR, mtime time.Time) error {
	dir := page.RelativeDir()

	if err := writer.AddBytes(dir+dumps.TextMemberName, []byte(page.Text), mtime); err != nil {
		return err
	}

	file, err := s.sourceFs.Open(page.OCRFilePath)
	if err != nil {
		return fmt.Errorf("failed to open ocr xml %s: %w", page.OCRFilePath, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat ocr xml %s: %w", page.OCRFilePath, err)
	}

	return writer.AddReader(dir+dumps.XMLMemberName, info.Size(), file, mtime)
}

// discard removes an archive committed by the current NewFromBatch call whose
// row could not be written. Commit never replaces an existing file, so the
// file under name is owned by that call.
func (s *ocrDumpService) discard(name string) {
	if err := s.storage.Remove(name); err != nil {
		s.logger.Error("Failed to remove orphaned ocr dump", "name", name, "error", err.Error())
	}
}

// mirror copies a finished dump to the remote connector. Failures are logged only.
func (s *ocrDumpService) mirror(ctx context.Context, dump *dumps.OcrDump) {
	if s.dumpConnector == nil {
		return
	}

	file, err := s.storage.Open(dump.Name)
	if err != nil {
		s.logger.Warn("Failed to open ocr dump for mirroring", "name", dump.Name, "error", err.Error())
		return
	}
	defer file.Close()

	if err := s.dumpConnector.Upload(ctx, dump.Name, file); err != nil {
		s.logger.Warn("Failed to mirror ocr dump", "name", dump.Name, "error", err.Error())
	}
}

// DumpMissing creates dumps for every batch without one. A failing batch does
// not stop the others; the failures are returned joined.
func (s *ocrDumpService) DumpMissing(ctx context.Context) ([]*dumps.OcrDump, error) {
	batchList, err := s.batchRepository.List(ctx)
	if err != nil {
		return nil, err
	}

	var created []*dumps.OcrDump
	var errs []error
	for _, batch := range batchList {
		if err := ctx.Err(); err != nil {
			return created, err
		}

		_, err := s.dumpRepository.GetByBatchID(ctx, batch.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, dumps.ErrDumpNotFound) {
			errs = append(errs, err)
			continue
		}

		dump, err := s.NewFromBatch(ctx, batch.Name)
		if err != nil {
			s.logger.Error("Failed to dump batch", "batch", batch.Name, "error", err.Error())
			errs = append(errs, err)
			continue
		}
		created = append(created, dump)
	}

	return created, errors.Join(errs...)
}

func (s *ocrDumpService) List(ctx context.Context, query *dumps.OcrDumpQuery) ([]*dumps.OcrDump, error) {
	return s.dumpRepository.List(ctx, query)
}

func (s *ocrDumpService) GetByName(ctx context.Context, name string) (*dumps.OcrDump, error) {
	return s.dumpRepository.GetByName(ctx, name)
}

func (s *ocrDumpService) GetByBatchID(ctx context.Context, batchID string) (*dumps.OcrDump, error) {
	return s.dumpRepository.GetByBatchID(ctx, batchID)
}

// Open streams the local archive, falling back to the remote copy when the
// local file is missing
func (s *ocrDumpService) Open(ctx context.Context, name string) (io.ReadCloser, *dumps.OcrDump, error) {
	dump, err := s.dumpRepository.GetByName(ctx, name)
	if err != nil {
		return nil, nil, err
	}

	file, err := s.storage.Open(dump.Name)
	if err == nil {
		return file, dump, nil
	}
	if !errors.Is(err, os.ErrNotExist) || s.dumpConnector == nil {
		return nil, nil, err
	}

	s.logger.Warn("Local ocr dump missing, reading remote copy", "name", dump.Name)
	remote, err := s.dumpConnector.Download(ctx, dump.Name)
	if err != nil {
		return nil, nil, err
	}
	return remote, dump, nil
}

func (s *ocrDumpService) Verify(ctx context.Context, name string) error {
	dump, err := s.dumpRepository.GetByName(ctx, name)
	if err != nil {
		return err
	}

	file, err := s.storage.Open(dump.Name)
	if err != nil {
		return err
	}
	defer file.Close()

	buf := bufio.NewReader(file)
	header, err := buf.Peek(3)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read ocr dump %s: %w", dump.Name, err)
	}
	if c := archive.DetectCompression(header); c != archive.Bzip2 {
		return fmt.Errorf("ocr dump %s is a %s archive, expected tar.bz2", dump.Name, c.Extension())
	}

	size, sha1, err := archive.Checksum(buf)
	if err != nil {
		return err
	}
	if size != dump.Size || sha1 != dump.Sha1 {
		return &dumps.IntegrityError{
			Name:         dump.Name,
			ExpectedSha1: dump.Sha1,
			ActualSha1:   sha1,
			ExpectedSize: dump.Size,
			ActualSize:   size,
		}
	}

	s.logger.Info("Verified ocr dump ", dump.Name)
	return nil
}

// DeleteByName removes the dump row first, then the local file and the remote copy
func (s *ocrDumpService) DeleteByName(ctx context.Context, name string) error {
	dump, err := s.dumpRepository.GetByName(ctx, name)
	if err != nil {
		return err
	}

	if err := s.dumpRepository.DeleteByID(ctx, dump.ID); err != nil {
		return err
	}

	if err := s.storage.Remove(dump.Name); err != nil {
		return err
	}

	if s.dumpConnector != nil {
		if err := s.dumpConnector.Delete(ctx, dump.Name); err != nil {
			return err
		}
	}

	s.logger.Info("Deleted ocr dump ", dump.Name)
	return nil
}
