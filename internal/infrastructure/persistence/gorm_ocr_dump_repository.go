package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/chronam/ocrdump-service/internal/domain/dumps"
	"github.com/chronam/ocrdump-service/internal/infrastructure/persistence/models"
	"github.com/chronam/ocrdump-service/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormOcrDumpRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormOcrDumpRepository creates a new GORM-based OcrDumpRepository implementation
func NewGormOcrDumpRepository(db *gorm.DB, logger logger.Logger) (dumps.OcrDumpRepository, error) {
	return &gormOcrDumpRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormOcrDumpRepository) Create(ctx context.Context, dump *dumps.OcrDump) error {
	if err := dump.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	var existing int64
	if err := r.db.WithContext(ctx).Model(&models.OcrDumpModel{}).
		Where("batch_id = ? OR name = ?", dump.BatchID, dump.Name).
		Count(&existing).Error; err != nil {
		return fmt.Errorf("failed to check existing ocr dump: %w", err)
	}
	if existing > 0 {
		return fmt.Errorf("ocr dump %s: %w", dump.Name, dumps.ErrDumpExists)
	}

	model := &models.OcrDumpModel{}
	model.FromDomain(dump)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create ocr dump: %w", err)
	}

	r.logger.Info("Created ocr dump ", dump.Name)
	return nil
}

func (r *gormOcrDumpRepository) first(ctx context.Context, query string, arg string) (*dumps.OcrDump, error) {
	var model models.OcrDumpModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("ocr dump %s: %w", arg, dumps.ErrDumpNotFound)
		}
		return nil, fmt.Errorf("failed to fetch ocr dump: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormOcrDumpRepository) GetByName(ctx context.Context, name string) (*dumps.OcrDump, error) {
	return r.first(ctx, "name = ?", name)
}

func (r *gormOcrDumpRepository) GetByBatchID(ctx context.Context, batchID string) (*dumps.OcrDump, error) {
	return r.first(ctx, "batch_id = ?", batchID)
}

func (r *gormOcrDumpRepository) List(ctx context.Context, query *dumps.OcrDumpQuery) ([]*dumps.OcrDump, error) {
	if query == nil {
		query = dumps.NewOcrDumpQuery()
	}
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	order := "date_time_created desc, sequence desc"
	if query.SortOrder == dumps.SortAsc {
		order = "date_time_created asc, sequence asc"
	}

	dbQuery := r.db.WithContext(ctx).Model(&models.OcrDumpModel{}).Order(order)
	if query.Limit > 0 {
		dbQuery = dbQuery.Limit(query.Limit)
	}
	if query.Offset > 0 {
		dbQuery = dbQuery.Offset(query.Offset)
	}

	var modelList []*models.OcrDumpModel
	if err := dbQuery.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch ocr dumps: %w", err)
	}

	domainList := make([]*dumps.OcrDump, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}
	return domainList, nil
}

func (r *gormOcrDumpRepository) NextSequence(ctx context.Context) (int, error) {
	var next int
	err := r.db.WithContext(ctx).
		Model(&models.OcrDumpModel{}).
		Select("COALESCE(MAX(sequence), 0) + 1").
		Row().
		Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to compute next ocr dump sequence: %w", err)
	}
	return next, nil
}

func (r *gormOcrDumpRepository) DeleteByID(ctx context.Context, dumpID string) error {
	result := r.db.WithContext(ctx).Where("id = ?", dumpID).Delete(&models.OcrDumpModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete ocr dump: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("ocr dump %s: %w", dumpID, dumps.ErrDumpNotFound)
	}

	r.logger.Info("Deleted ocr dump with id ", dumpID)
	return nil
}
