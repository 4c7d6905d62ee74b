package dumps

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/chronam/ocrdump-service/internal/pkg/validators"
)

// ArchiveExtension is appended to the batch name to form the dump name
const ArchiveExtension = ".tar.bz2"

// Archive member names written for every page
const (
	TextMemberName = "ocr.txt"
	XMLMemberName  = "ocr.xml"
)

// MembersPerPage is the number of archive members written for each page
const MembersPerPage = 2

// OcrDump entity
type OcrDump struct {
	ID              string    `validate:"required,uuid4"`
	Sequence        int       `validate:"required,min=1"`
	Name            string    `validate:"required,min=9,max=255"`
	Sha1            string    `validate:"required,len=40,hexadecimal,lowercase"`
	Size            int64     `validate:"required,min=1"`
	DateTimeCreated time.Time `validate:"required"`
	BatchID         string    `validate:"required,uuid4"`
	BatchName       string    `validate:"required"`
}

// Validate for validating OcrDump struct
func (d *OcrDump) Validate() error {
	return validators.ValidateStruct(d)
}

// Path returns the location of the dump file inside storageDir
func (d *OcrDump) Path(storageDir string) string {
	return filepath.Join(storageDir, d.Name)
}

// NameForBatch returns the dump file name of a batch
func NameForBatch(batchName string) string {
	return batchName + ArchiveExtension
}

// Sort orders for OcrDumpQuery
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// OcrDumpQuery filters and paginates dump listings, ordered by creation time
type OcrDumpQuery struct {
	Limit     int    `validate:"omitempty,gt=0"`
	Offset    int    `validate:"omitempty,gte=0"`
	SortOrder string `validate:"omitempty,oneof=asc desc"`
}

// NewOcrDumpQuery returns a query listing the newest dumps first
func NewOcrDumpQuery() *OcrDumpQuery {
	return &OcrDumpQuery{SortOrder: SortDesc}
}

// Validate for validating OcrDumpQuery struct
func (q *OcrDumpQuery) Validate() error {
	if q.Limit < 0 || q.Offset < 0 {
		return fmt.Errorf("validation failed: limit and offset must not be negative")
	}
	return validators.ValidateStruct(q)
}
