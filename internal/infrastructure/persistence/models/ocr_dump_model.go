package models

import (
	"time"

	"github.com/chronam/ocrdump-service/internal/domain/dumps"
)

// OcrDumpModel is the GORM database model for OCR dumps. BatchID is unique:
// a batch has at most one dump.
type OcrDumpModel struct {
	ID              string    `gorm:"primaryKey;type:uuid"`
	Sequence        int       `gorm:"not null;uniqueIndex"`
	Name            string    `gorm:"not null;uniqueIndex;type:varchar(255)"`
	Sha1            string    `gorm:"column:sha1;not null;type:varchar(40)"`
	Size            int64     `gorm:"not null"`
	DateTimeCreated time.Time `gorm:"not null;index"`
	BatchID         string    `gorm:"not null;uniqueIndex;type:uuid"`
	BatchName       string    `gorm:"not null;type:varchar(255)"`
}

// TableName specifies the table name for GORM
func (OcrDumpModel) TableName() string {
	return "ocr_dumps"
}

// ToDomain converts GORM model to domain entity
func (m *OcrDumpModel) ToDomain() *dumps.OcrDump {
	return &dumps.OcrDump{
		ID:              m.ID,
		Sequence:        m.Sequence,
		Name:            m.Name,
		Sha1:            m.Sha1,
		Size:            m.Size,
		DateTimeCreated: m.DateTimeCreated,
		BatchID:         m.BatchID,
		BatchName:       m.BatchName,
	}
}

// FromDomain converts domain entity to GORM model
func (m *OcrDumpModel) FromDomain(d *dumps.OcrDump) {
	m.ID = d.ID
	m.Sequence = d.Sequence
	m.Name = d.Name
	m.Sha1 = d.Sha1
	m.Size = d.Size
	m.DateTimeCreated = d.DateTimeCreated
	m.BatchID = d.BatchID
	m.BatchName = d.BatchName
}

// All returns every model in migration order
func All() []interface{} {
	return []interface{}{
		&TitleModel{},
		&BatchModel{},
		&IssueModel{},
		&PageModel{},
		&OCRModel{},
		&OcrDumpModel{},
	}
}
