package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chronam/ocrdump-service/internal/domain/batches"
	"github.com/chronam/ocrdump-service/internal/infrastructure/persistence/models"
	"github.com/chronam/ocrdump-service/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormBatchRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormBatchRepository creates a new GORM-based BatchRepository implementation
func NewGormBatchRepository(db *gorm.DB, logger logger.Logger) (batches.BatchRepository, error) {
	return &gormBatchRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormBatchRepository) CreateTitle(ctx context.Context, title *batches.Title) error {
	if err := title.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.TitleModel{}
	model.FromDomain(title)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create title: %w", err)
	}
	return nil
}

func (r *gormBatchRepository) Create(ctx context.Context, batch *batches.Batch) error {
	if err := batch.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.BatchModel{}
	model.FromDomain(batch)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create batch: %w", err)
	}

	r.logger.Info("Created batch ", batch.Name)
	return nil
}

func (r *gormBatchRepository) CreateIssue(ctx context.Context, issue *batches.Issue) error {
	if err := issue.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.IssueModel{}
	model.FromDomain(issue)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create issue: %w", err)
	}
	return nil
}

func (r *gormBatchRepository) CreatePage(ctx context.Context, page *batches.Page, ocr *batches.OCR) error {
	if err := page.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if ocr != nil {
		if err := ocr.Validate(); err != nil {
			return fmt.Errorf("validation error: %w", err)
		}
		if ocr.PageID != page.ID {
			return fmt.Errorf("validation error: ocr belongs to page %s, not %s", ocr.PageID, page.ID)
		}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := &models.PageModel{}
		model.FromDomain(page)
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to create page: %w", err)
		}

		if ocr != nil {
			ocrModel := &models.OCRModel{}
			ocrModel.FromDomain(ocr)
			if err := tx.Create(ocrModel).Error; err != nil {
				return fmt.Errorf("failed to create ocr text: %w", err)
			}
		}
		return nil
	})
}

func (r *gormBatchRepository) pageCount(ctx context.Context, batchID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PageModel{}).
		Joins("JOIN issues ON issues.id = pages.issue_id").
		Where("issues.batch_id = ?", batchID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return count, nil
}

func (r *gormBatchRepository) GetByName(ctx context.Context, name string) (*batches.Batch, error) {
	var model models.BatchModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("batch %s: %w", name, batches.ErrBatchNotFound)
		}
		return nil, fmt.Errorf("failed to fetch batch: %w", err)
	}

	batch := model.ToDomain()
	count, err := r.pageCount(ctx, batch.ID)
	if err != nil {
		return nil, err
	}
	batch.PageCount = count

	return batch, nil
}

func (r *gormBatchRepository) List(ctx context.Context) ([]*batches.Batch, error) {
	var modelList []*models.BatchModel
	if err := r.db.WithContext(ctx).Order("name asc").Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch batches: %w", err)
	}

	type pageCountRow struct {
		BatchID string
		Pages   int64
	}
	var counts []pageCountRow
	err := r.db.WithContext(ctx).
		Model(&models.PageModel{}).
		Select("issues.batch_id AS batch_id, COUNT(pages.id) AS pages").
		Joins("JOIN issues ON issues.id = pages.issue_id").
		Group("issues.batch_id").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}

	pagesByBatch := make(map[string]int64, len(counts))
	for _, c := range counts {
		pagesByBatch[c.BatchID] = c.Pages
	}

	domainList := make([]*batches.Batch, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
		domainList[i].PageCount = pagesByBatch[model.ID]
	}
	return domainList, nil
}

type pageOCRRow struct {
	LCCN        string    `gorm:"column:lccn"`
	DateIssued  time.Time `gorm:"column:date_issued"`
	Edition     int       `gorm:"column:edition"`
	Sequence    int       `gorm:"column:sequence"`
	OCRFilename string    `gorm:"column:ocr_filename"`
	StoragePath string    `gorm:"column:storage_path"`
	Text        *string   `gorm:"column:text"`
}

func (r *gormBatchRepository) Pages(ctx context.Context, batchID string) ([]*batches.PageOCR, error) {
	var rows []pageOCRRow
	err := r.db.WithContext(ctx).
		Table("pages").
		Select("titles.lccn, issues.date_issued, issues.edition, pages.sequence, pages.ocr_filename, batches.storage_path, ocr_texts.text").
		Joins("JOIN issues ON issues.id = pages.issue_id").
		Joins("JOIN batches ON batches.id = issues.batch_id").
		Joins("JOIN titles ON titles.id = issues.title_id").
		Joins("LEFT JOIN ocr_texts ON ocr_texts.page_id = pages.id").
		Where("issues.batch_id = ?", batchID).
		Order("titles.lccn, issues.date_issued, issues.edition, pages.sequence").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pages of batch %s: %w", batchID, err)
	}

	pages := make([]*batches.PageOCR, len(rows))
	for i, row := range rows {
		page := &batches.PageOCR{
			LCCN:        row.LCCN,
			DateIssued:  row.DateIssued,
			Edition:     row.Edition,
			Sequence:    row.Sequence,
			OCRFilePath: batches.ResolveOCRPath(row.StoragePath, row.OCRFilename),
		}
		if row.Text != nil {
			page.Text = *row.Text
		}
		pages[i] = page
	}
	return pages, nil
}

// DeleteByID removes the batch and its issues, pages, OCR text and dump row
// in one transaction. Children are deleted explicitly so the cascade holds on
// databases without foreign key enforcement.
func (r *gormBatchRepository) DeleteByID(ctx context.Context, batchID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var issueIDs []string
		if err := tx.Model(&models.IssueModel{}).Where("batch_id = ?", batchID).Pluck("id", &issueIDs).Error; err != nil {
			return fmt.Errorf("failed to list issues: %w", err)
		}

		var pageIDs []string
		if len(issueIDs) > 0 {
			if err := tx.Model(&models.PageModel{}).Where("issue_id IN ?", issueIDs).Pluck("id", &pageIDs).Error; err != nil {
				return fmt.Errorf("failed to list pages: %w", err)
			}
		}

		if len(pageIDs) > 0 {
			if err := tx.Where("page_id IN ?", pageIDs).Delete(&models.OCRModel{}).Error; err != nil {
				return fmt.Errorf("failed to delete ocr texts: %w", err)
			}
			if err := tx.Where("id IN ?", pageIDs).Delete(&models.PageModel{}).Error; err != nil {
				return fmt.Errorf("failed to delete pages: %w", err)
			}
		}

		if err := tx.Where("batch_id = ?", batchID).Delete(&models.IssueModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete issues: %w", err)
		}
		if err := tx.Where("batch_id = ?", batchID).Delete(&models.OcrDumpModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete ocr dump: %w", err)
		}

		result := tx.Where("id = ?", batchID).Delete(&models.BatchModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete batch: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("batch %s: %w", batchID, batches.ErrBatchNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Info("Deleted batch with id ", batchID)
	return nil
}
