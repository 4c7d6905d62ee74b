package batches

import (
	"fmt"
	"path"
	"path/filepath"
	"time"

	"github.com/chronam/ocrdump-service/internal/pkg/validators"
)

// Title is a newspaper title identified by its LCCN
type Title struct {
	ID   string `validate:"required,uuid4"`
	LCCN string `validate:"required,lccn"`
	Name string `validate:"required,min=1,max=255"`
}

// Validate for validating Title struct
func (t *Title) Validate() error {
	return validators.ValidateStruct(t)
}

// Batch is a unit of digitized newspaper pages delivered together
type Batch struct {
	ID              string    `validate:"required,uuid4"`
	Name            string    `validate:"required,min=1,max=255"`
	StoragePath     string    `validate:"required"`
	DateTimeCreated time.Time `validate:"required"`
	// PageCount is filled by reads, never persisted
	PageCount int64 `validate:"-"`
}

// Validate for validating Batch struct
func (b *Batch) Validate() error {
	return validators.ValidateStruct(b)
}

// Issue is one edition of a title on a given date, delivered in a batch
type Issue struct {
	ID         string    `validate:"required,uuid4"`
	BatchID    string    `validate:"required,uuid4"`
	TitleID    string    `validate:"required,uuid4"`
	DateIssued time.Time `validate:"required"`
	Edition    int       `validate:"required,min=1"`
}

// Validate for validating Issue struct
func (i *Issue) Validate() error {
	return validators.ValidateStruct(i)
}

// Page is a scanned page of an issue. OCRFilename is relative to the batch storage path.
type Page struct {
	ID          string `validate:"required,uuid4"`
	IssueID     string `validate:"required,uuid4"`
	Sequence    int    `validate:"required,min=1"`
	OCRFilename string `validate:"required"`
}

// Validate for validating Page struct
func (p *Page) Validate() error {
	return validators.ValidateStruct(p)
}

// OCR holds the plain text extracted from a page
type OCR struct {
	PageID string `validate:"required,uuid4"`
	Text   string
}

// Validate for validating OCR struct
func (o *OCR) Validate() error {
	return validators.ValidateStruct(o)
}

// PageOCR is the read model the dump is built from: one row per page,
// ordered by LCCN, issue date, edition and sequence.
type PageOCR struct {
	LCCN        string
	DateIssued  time.Time
	Edition     int
	Sequence    int
	OCRFilePath string
	Text        string
}

// RelativeDir returns the archive directory of the page:
// <lccn>/<yyyy>/<mm>/<dd>/ed-<edition>/seq-<sequence>/
func (p *PageOCR) RelativeDir() string {
	return path.Join(
		p.LCCN,
		fmt.Sprintf("%04d", p.DateIssued.Year()),
		fmt.Sprintf("%02d", int(p.DateIssued.Month())),
		fmt.Sprintf("%02d", p.DateIssued.Day()),
		fmt.Sprintf("ed-%d", p.Edition),
		fmt.Sprintf("seq-%d", p.Sequence),
	) + "/"
}

// ResolveOCRPath joins a page's OCR filename onto the batch storage path
func ResolveOCRPath(storagePath, ocrFilename string) string {
	if filepath.IsAbs(ocrFilename) {
		return ocrFilename
	}
	return filepath.Join(storagePath, filepath.FromSlash(ocrFilename))
}
