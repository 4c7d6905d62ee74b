package dumps

import (
	"errors"
	"fmt"
)

var (
	// ErrDumpNotFound is returned when no dump matches the lookup
	ErrDumpNotFound = errors.New("ocr dump not found")
	// ErrDumpExists is returned when a batch already has a dump
	ErrDumpExists = errors.New("ocr dump already exists")
)

// IntegrityError reports a stored dump whose bytes no longer match its row
type IntegrityError struct {
	Name         string
	ExpectedSha1 string
	ActualSha1   string
	ExpectedSize int64
	ActualSize   int64
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("ocr dump %s failed verification: sha1 %s != %s, size %d != %d",
		e.Name, e.ActualSha1, e.ExpectedSha1, e.ActualSize, e.ExpectedSize)
}
