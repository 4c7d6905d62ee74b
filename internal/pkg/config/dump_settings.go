package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// DefaultDumpStorageDir is used when no storage directory is configured
const DefaultDumpStorageDir = "/var/lib/chronam/ocr"

// DumpSettings configures where OCR dumps are written and how they are linked
type DumpSettings struct {
	// StorageDir is the directory holding the <batch>.tar.bz2 files
	StorageDir string `yaml:"storage_dir" validate:"required"`
	// BaseURL prefixes download links in the dump feed
	BaseURL string `yaml:"base_url" validate:"omitempty,url"`
}

// Validate checks the dump settings
func (s *DumpSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for DumpSettings: %w", err)
	}
	return nil
}
