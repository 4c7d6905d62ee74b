package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/chronam/ocrdump-service/internal/domain/batches"
	"github.com/chronam/ocrdump-service/internal/domain/dumps"

	"github.com/gin-gonic/gin"
)

// BatchHandler defines the interface for handling batch-related operations
type BatchHandler interface {
	List(ctx *gin.Context)
	GetByName(ctx *gin.Context)
	DeleteByName(ctx *gin.Context)
	CreateDump(ctx *gin.Context)
}

type batchHandler struct {
	batchService   batches.BatchService
	ocrDumpService dumps.OcrDumpService
}

// NewBatchHandler creates a new BatchHandler
func NewBatchHandler(batchService batches.BatchService, ocrDumpService dumps.OcrDumpService) BatchHandler {
	return &batchHandler{
		batchService:   batchService,
		ocrDumpService: ocrDumpService,
	}
}

// List fetches all batches
func (handler *batchHandler) List(ctx *gin.Context) {
	batchList, err := handler.batchService.List(ctx)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Message: fmt.Sprintf("list query failed: %v", err)})
		return
	}

	listResponse := []BatchResponse{}
	for _, batch := range batchList {
		listResponse = append(listResponse, NewBatchResponse(batch))
	}

	ctx.JSON(http.StatusOK, listResponse)
}

// GetByName fetches a batch by name
func (handler *batchHandler) GetByName(ctx *gin.Context) {
	name := ctx.Param("name")

	batch, err := handler.batchService.GetByName(ctx, name)
	if err != nil {
		writeError(ctx, err, fmt.Sprintf("batch %s", name))
		return
	}

	ctx.JSON(http.StatusOK, NewBatchResponse(batch))
}

// DeleteByName deletes a batch together with its OCR dump
func (handler *batchHandler) DeleteByName(ctx *gin.Context) {
	name := ctx.Param("name")

	if err := handler.batchService.DeleteByName(ctx, name); err != nil {
		writeError(ctx, err, fmt.Sprintf("could not delete batch %s", name))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// CreateDump writes the OCR dump of a batch
func (handler *batchHandler) CreateDump(ctx *gin.Context) {
	name := ctx.Param("name")

	dump, err := handler.ocrDumpService.NewFromBatch(ctx, name)
	if err != nil {
		writeError(ctx, err, fmt.Sprintf("could not dump batch %s", name))
		return
	}

	ctx.JSON(http.StatusCreated, NewOcrDumpResponse(dump))
}

// writeError maps domain errors to status codes
func writeError(ctx *gin.Context, err error, prefix string) {
	status := http.StatusInternalServerError
	var integrityErr *dumps.IntegrityError

	switch {
	case errors.Is(err, batches.ErrBatchNotFound), errors.Is(err, dumps.ErrDumpNotFound):
		status = http.StatusNotFound
	case errors.Is(err, dumps.ErrDumpExists):
		status = http.StatusConflict
	case errors.As(err, &integrityErr):
		status = http.StatusUnprocessableEntity
	}

	ctx.JSON(status, ErrorResponse{Message: fmt.Sprintf("%s: %v", prefix, err)})
}
