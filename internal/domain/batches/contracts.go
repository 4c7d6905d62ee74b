package batches

import "context"

// BatchRepository defines the persistence operations for batches and their pages
type BatchRepository interface {
	// CreateTitle adds a title
	CreateTitle(ctx context.Context, title *Title) error
	// Create adds a batch
	Create(ctx context.Context, batch *Batch) error
	// CreateIssue adds an issue of a batch
	CreateIssue(ctx context.Context, issue *Issue) error
	// CreatePage adds a page and, when ocr is not nil, its OCR text
	CreatePage(ctx context.Context, page *Page, ocr *OCR) error
	// GetByName retrieves a batch with its page count
	GetByName(ctx context.Context, name string) (*Batch, error)
	// List lists all batches ordered by name
	List(ctx context.Context) ([]*Batch, error)
	// Pages returns the OCR read model of every page of a batch, in archive order
	Pages(ctx context.Context, batchID string) ([]*PageOCR, error)
	// DeleteByID deletes a batch together with its issues, pages and OCR
	DeleteByID(ctx context.Context, batchID string) error
}

// BatchService exposes batches to the API and CLI
type BatchService interface {
	// List retrieves all batches
	List(ctx context.Context) ([]*Batch, error)
	// GetByName retrieves a batch by name
	GetByName(ctx context.Context, name string) (*Batch, error)
	// DeleteByName deletes a batch and everything derived from it, including its OCR dump file
	DeleteByName(ctx context.Context, name string) error
}
