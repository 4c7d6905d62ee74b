package v1

import (
	"github.com/chronam/ocrdump-service/internal/domain/batches"
	"github.com/chronam/ocrdump-service/internal/domain/dumps"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up all the API routes for version 1.
func SetupRoutes(r *gin.Engine,
	batchService batches.BatchService,
	ocrDumpService dumps.OcrDumpService,
	baseURL string) {

	v1 := r.Group(BasePath) // lookup in version file

	// Batches Routes
	batchHandler := NewBatchHandler(batchService, ocrDumpService)
	v1.GET("/batches", batchHandler.List)
	v1.GET("/batches/:name", batchHandler.GetByName)
	v1.DELETE("/batches/:name", batchHandler.DeleteByName)
	v1.POST("/batches/:name/dump", batchHandler.CreateDump)

	// Dumps Routes
	dumpHandler := NewDumpHandler(ocrDumpService, baseURL)
	v1.GET("/dumps", dumpHandler.List)
	v1.GET("/dumps/:name", dumpHandler.GetByName)
	v1.GET("/dumps/:name/file", dumpHandler.DownloadByName)
	v1.DELETE("/dumps/:name", dumpHandler.DeleteByName)
	v1.GET("/ocr.json", dumpHandler.Feed)
}
