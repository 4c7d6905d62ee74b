//go:build unit
// +build unit

package batches

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageOCR_RelativeDir(t *testing.T) {
	page := &PageOCR{
		LCCN:       "sn83030214",
		DateIssued: time.Date(1854, time.July, 8, 0, 0, 0, 0, time.UTC),
		Edition:    1,
		Sequence:   12,
	}

	assert.Equal(t, "sn83030214/1854/07/08/ed-1/seq-12/", page.RelativeDir())
}

func TestResolveOCRPath(t *testing.T) {
	assert.Equal(t, "/batches/batch_a/data/0001.xml", ResolveOCRPath("/batches/batch_a", "data/0001.xml"))
	assert.Equal(t, "/elsewhere/0001.xml", ResolveOCRPath("/batches/batch_a", "/elsewhere/0001.xml"))
}

func TestBatch_Validate(t *testing.T) {
	valid := Batch{
		ID:              uuid.NewString(),
		Name:            "batch_uuml_thys_ver01",
		StoragePath:     "/batches/batch_uuml_thys_ver01",
		DateTimeCreated: time.Now(),
	}
	require.NoError(t, valid.Validate())

	missingName := valid
	missingName.Name = ""
	assert.Error(t, missingName.Validate())

	badID := valid
	badID.ID = "not-a-uuid"
	assert.Error(t, badID.Validate())

	noStorage := valid
	noStorage.StoragePath = ""
	assert.Error(t, noStorage.Validate())
}

func TestTitle_Validate(t *testing.T) {
	assert.NoError(t, (&Title{ID: uuid.NewString(), LCCN: "sn83030214", Name: "New-York Tribune"}).Validate())
	assert.Error(t, (&Title{ID: uuid.NewString(), LCCN: "tribune", Name: "New-York Tribune"}).Validate())
}

func TestIssueAndPage_Validate(t *testing.T) {
	issue := Issue{
		ID:         uuid.NewString(),
		BatchID:    uuid.NewString(),
		TitleID:    uuid.NewString(),
		DateIssued: time.Date(1854, time.July, 8, 0, 0, 0, 0, time.UTC),
		Edition:    1,
	}
	assert.NoError(t, issue.Validate())

	issue.Edition = 0
	assert.Error(t, issue.Validate())

	page := Page{ID: uuid.NewString(), IssueID: uuid.NewString(), Sequence: 1, OCRFilename: "data/0001.xml"}
	assert.NoError(t, page.Validate())

	page.Sequence = 0
	assert.Error(t, page.Validate())

	assert.NoError(t, (&OCR{PageID: uuid.NewString()}).Validate())
	assert.Error(t, (&OCR{PageID: "1"}).Validate())
}
