package models

import (
	"time"

	"github.com/chronam/ocrdump-service/internal/domain/batches"
)

// TitleModel is the GORM database model for newspaper titles
type TitleModel struct {
	ID   string `gorm:"primaryKey;type:uuid"`
	LCCN string `gorm:"column:lccn;not null;uniqueIndex;type:varchar(25)"`
	Name string `gorm:"not null;type:varchar(255)"`
}

// TableName specifies the table name for GORM
func (TitleModel) TableName() string {
	return "titles"
}

// ToDomain converts GORM model to domain entity
func (m *TitleModel) ToDomain() *batches.Title {
	return &batches.Title{ID: m.ID, LCCN: m.LCCN, Name: m.Name}
}

// FromDomain converts domain entity to GORM model
func (m *TitleModel) FromDomain(t *batches.Title) {
	m.ID = t.ID
	m.LCCN = t.LCCN
	m.Name = t.Name
}

// BatchModel is the GORM database model for batches.
// Deleting a batch cascades to its issues and its OCR dump.
type BatchModel struct {
	ID              string        `gorm:"primaryKey;type:uuid"`
	Name            string        `gorm:"not null;uniqueIndex;type:varchar(255)"`
	StoragePath     string        `gorm:"not null;type:varchar(1024)"`
	DateTimeCreated time.Time     `gorm:"not null"`
	Issues          []IssueModel  `gorm:"foreignKey:BatchID;constraint:OnDelete:CASCADE"`
	OcrDump         *OcrDumpModel `gorm:"foreignKey:BatchID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (BatchModel) TableName() string {
	return "batches"
}

// ToDomain converts GORM model to domain entity
func (m *BatchModel) ToDomain() *batches.Batch {
	return &batches.Batch{
		ID:              m.ID,
		Name:            m.Name,
		StoragePath:     m.StoragePath,
		DateTimeCreated: m.DateTimeCreated,
	}
}

// FromDomain converts domain entity to GORM model
func (m *BatchModel) FromDomain(b *batches.Batch) {
	m.ID = b.ID
	m.Name = b.Name
	m.StoragePath = b.StoragePath
	m.DateTimeCreated = b.DateTimeCreated
}

// IssueModel is the GORM database model for issues
type IssueModel struct {
	ID         string      `gorm:"primaryKey;type:uuid"`
	BatchID    string      `gorm:"not null;index;type:uuid"`
	TitleID    string      `gorm:"not null;index;type:uuid"`
	DateIssued time.Time   `gorm:"not null"`
	Edition    int         `gorm:"not null"`
	Pages      []PageModel `gorm:"foreignKey:IssueID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (IssueModel) TableName() string {
	return "issues"
}

// ToDomain converts GORM model to domain entity
func (m *IssueModel) ToDomain() *batches.Issue {
	return &batches.Issue{
		ID:         m.ID,
		BatchID:    m.BatchID,
		TitleID:    m.TitleID,
		DateIssued: m.DateIssued,
		Edition:    m.Edition,
	}
}

// FromDomain converts domain entity to GORM model
func (m *IssueModel) FromDomain(i *batches.Issue) {
	m.ID = i.ID
	m.BatchID = i.BatchID
	m.TitleID = i.TitleID
	m.DateIssued = i.DateIssued
	m.Edition = i.Edition
}

// PageModel is the GORM database model for pages
type PageModel struct {
	ID          string    `gorm:"primaryKey;type:uuid"`
	IssueID     string    `gorm:"not null;index;type:uuid"`
	Sequence    int       `gorm:"not null"`
	OCRFilename string    `gorm:"column:ocr_filename;not null;type:varchar(1024)"`
	OCR         *OCRModel `gorm:"foreignKey:PageID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (PageModel) TableName() string {
	return "pages"
}

// ToDomain converts GORM model to domain entity
func (m *PageModel) ToDomain() *batches.Page {
	return &batches.Page{
		ID:          m.ID,
		IssueID:     m.IssueID,
		Sequence:    m.Sequence,
		OCRFilename: m.OCRFilename,
	}
}

// FromDomain converts domain entity to GORM model
func (m *PageModel) FromDomain(p *batches.Page) {
	m.ID = p.ID
	m.IssueID = p.IssueID
	m.Sequence = p.Sequence
	m.OCRFilename = p.OCRFilename
}

// OCRModel is the GORM database model for the extracted text of a page
type OCRModel struct {
	PageID string `gorm:"primaryKey;type:uuid"`
	Text   string `gorm:"type:text"`
}

// TableName specifies the table name for GORM
func (OCRModel) TableName() string {
	return "ocr_texts"
}

// ToDomain converts GORM model to domain entity
func (m *OCRModel) ToDomain() *batches.OCR {
	return &batches.OCR{PageID: m.PageID, Text: m.Text}
}

// FromDomain converts domain entity to GORM model
func (m *OCRModel) FromDomain(o *batches.OCR) {
	m.PageID = o.PageID
	m.Text = o.Text
}
