package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/chronam/ocrdump-service/internal/domain/batches"
	"github.com/chronam/ocrdump-service/internal/domain/dumps"
	"github.com/chronam/ocrdump-service/internal/pkg/logger"
)

// batchService implements the BatchService interface
type batchService struct {
	batchRepository batches.BatchRepository
	dumpService     dumps.OcrDumpService
	logger          logger.Logger
}

// NewBatchService creates a new instance of BatchService
func NewBatchService(batchRepository batches.BatchRepository, dumpService dumps.OcrDumpService, logger logger.Logger) (batches.BatchService, error) {
	if batchRepository == nil || dumpService == nil {
		return nil, fmt.Errorf("batch service requires a batch repository and an ocr dump service")
	}

	return &batchService{
		batchRepository: batchRepository,
		dumpService:     dumpService,
		logger:          logger,
	}, nil
}

func (s *batchService) List(ctx context.Context) ([]*batches.Batch, error) {
	return s.batchRepository.List(ctx)
}

func (s *batchService) GetByName(ctx context.Context, name string) (*batches.Batch, error) {
	return s.batchRepository.GetByName(ctx, name)
}

// DeleteByName deletes the OCR dump of the batch (row, file and remote copy)
// and then the batch with its issues, pages and OCR text.
func (s *batchService) DeleteByName(ctx context.Context, name string) error {
	batch, err := s.batchRepository.GetByName(ctx, name)
	if err != nil {
		return err
	}

	dump, err := s.dumpService.GetByBatchID(ctx, batch.ID)
	switch {
	case err == nil:
		if err := s.dumpService.DeleteByName(ctx, dump.Name); err != nil {
			return fmt.Errorf("failed to delete ocr dump of batch %s: %w", batch.Name, err)
		}
	case !errors.Is(err, dumps.ErrDumpNotFound):
		return err
	}

	if err := s.batchRepository.DeleteByID(ctx, batch.ID); err != nil {
		return err
	}

	s.logger.Info("Deleted batch ", batch.Name)
	return nil
}
