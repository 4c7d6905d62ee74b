package v1

import (
	"time"

	"github.com/chronam/ocrdump-service/internal/domain/batches"
	"github.com/chronam/ocrdump-service/internal/domain/dumps"
	"github.com/chronam/ocrdump-service/internal/pkg/validators"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Message string `json:"message"`
}

// BatchResponse describes a batch
type BatchResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	PageCount       int64     `json:"page_count"`
	DateTimeCreated time.Time `json:"created"`
}

// NewBatchResponse converts a batch into its response
func NewBatchResponse(batch *batches.Batch) BatchResponse {
	return BatchResponse{
		ID:              batch.ID,
		Name:            batch.Name,
		PageCount:       batch.PageCount,
		DateTimeCreated: batch.DateTimeCreated,
	}
}

// OcrDumpResponse describes an OCR dump
type OcrDumpResponse struct {
	ID              string    `json:"id"`
	Sequence        int       `json:"sequence"`
	Name            string    `json:"name"`
	Sha1            string    `json:"sha1"`
	Size            int64     `json:"size"`
	DateTimeCreated time.Time `json:"created"`
	BatchName       string    `json:"batch"`
}

// NewOcrDumpResponse converts a dump into its response
func NewOcrDumpResponse(dump *dumps.OcrDump) OcrDumpResponse {
	return OcrDumpResponse{
		ID:              dump.ID,
		Sequence:        dump.Sequence,
		Name:            dump.Name,
		Sha1:            dump.Sha1,
		Size:            dump.Size,
		DateTimeCreated: dump.DateTimeCreated,
		BatchName:       dump.BatchName,
	}
}

// OcrFeedItem is one entry of the ocr.json feed
type OcrFeedItem struct {
	Name    string    `json:"name"`
	URL     string    `json:"url"`
	Size    int64     `json:"size"`
	Sha1    string    `json:"sha1"`
	Created time.Time `json:"created"`
}

// OcrFeedResponse lists every dump available for download, newest first
type OcrFeedResponse struct {
	OCR []OcrFeedItem `json:"ocr"`
}

// ListDumpsRequest holds the query parameters of GET /dumps
type ListDumpsRequest struct {
	Limit     int    `form:"limit" validate:"omitempty,gt=0,max=1000"`
	Offset    int    `form:"offset" validate:"omitempty,gte=0"`
	SortOrder string `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// Validate for validating ListDumpsRequest struct
func (r *ListDumpsRequest) Validate() error {
	return validators.ValidateStruct(r)
}

// ToQuery converts the request into a dump query
func (r *ListDumpsRequest) ToQuery() *dumps.OcrDumpQuery {
	query := dumps.NewOcrDumpQuery()
	query.Limit = r.Limit
	query.Offset = r.Offset
	if r.SortOrder != "" {
		query.SortOrder = r.SortOrder
	}
	return query
}
