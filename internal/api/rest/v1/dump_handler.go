package v1

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/chronam/ocrdump-service/internal/domain/dumps"

	"github.com/gin-gonic/gin"
)

// DumpContentType is the media type of served dump archives
const DumpContentType = "application/x-bzip2"

// DumpHandler defines the interface for handling OCR dump operations
type DumpHandler interface {
	List(ctx *gin.Context)
	GetByName(ctx *gin.Context)
	DownloadByName(ctx *gin.Context)
	DeleteByName(ctx *gin.Context)
	Feed(ctx *gin.Context)
}

type dumpHandler struct {
	ocrDumpService dumps.OcrDumpService
	baseURL        string
}

// NewDumpHandler creates a new DumpHandler. Feed links are built on baseURL,
// or on the request host when baseURL is empty.
func NewDumpHandler(ocrDumpService dumps.OcrDumpService, baseURL string) DumpHandler {
	return &dumpHandler{
		ocrDumpService: ocrDumpService,
		baseURL:        strings.TrimRight(baseURL, "/"),
	}
}

// List fetches dump metadata optionally with query parameters
func (handler *dumpHandler) List(ctx *gin.Context) {
	var request ListDumpsRequest
	if err := ctx.ShouldBindQuery(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid query: %v", err)})
		return
	}
	if err := request.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	dumpList, err := handler.ocrDumpService.List(ctx, request.ToQuery())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Message: fmt.Sprintf("list query failed: %v", err)})
		return
	}

	listResponse := []OcrDumpResponse{}
	for _, dump := range dumpList {
		listResponse = append(listResponse, NewOcrDumpResponse(dump))
	}

	ctx.JSON(http.StatusOK, listResponse)
}

// GetByName fetches dump metadata by name
func (handler *dumpHandler) GetByName(ctx *gin.Context) {
	name := ctx.Param("name")

	dump, err := handler.ocrDumpService.GetByName(ctx, name)
	if err != nil {
		writeError(ctx, err, fmt.Sprintf("ocr dump %s", name))
		return
	}

	ctx.JSON(http.StatusOK, NewOcrDumpResponse(dump))
}

// DownloadByName streams the dump archive
func (handler *dumpHandler) DownloadByName(ctx *gin.Context) {
	name := ctx.Param("name")

	file, dump, err := handler.ocrDumpService.Open(ctx, name)
	if err != nil {
		writeError(ctx, err, fmt.Sprintf("could not download ocr dump %s", name))
		return
	}
	defer file.Close()

	ctx.DataFromReader(http.StatusOK, dump.Size, DumpContentType, file, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", dump.Name),
		"ETag":                fmt.Sprintf("%q", dump.Sha1),
	})
}

// DeleteByName deletes a dump row, its file and remote copy
func (handler *dumpHandler) DeleteByName(ctx *gin.Context) {
	name := ctx.Param("name")

	if err := handler.ocrDumpService.DeleteByName(ctx, name); err != nil {
		writeError(ctx, err, fmt.Sprintf("could not delete ocr dump %s", name))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Feed lists every dump with its download link, newest first
func (handler *dumpHandler) Feed(ctx *gin.Context) {
	dumpList, err := handler.ocrDumpService.List(ctx, dumps.NewOcrDumpQuery())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Message: fmt.Sprintf("list query failed: %v", err)})
		return
	}

	base := handler.baseURL
	if base == "" {
		scheme := "http"
		if ctx.Request.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + ctx.Request.Host
	}

	feed := OcrFeedResponse{OCR: []OcrFeedItem{}}
	for _, dump := range dumpList {
		feed.OCR = append(feed.OCR, OcrFeedItem{
			Name:    dump.Name,
			URL:     base + BasePath + "/dumps/" + url.PathEscape(dump.Name) + "/file",
			Size:    dump.Size,
			Sha1:    dump.Sha1,
			Created: dump.DateTimeCreated,
		})
	}

	ctx.JSON(http.StatusOK, feed)
}
