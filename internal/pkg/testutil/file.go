package testutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// CreateTestFile writes content to fileName, creating parent directories
func CreateTestFile(fileName string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(fileName), 0755); err != nil {
		return fmt.Errorf("failed to create test directory: %w", err)
	}
	if err := os.WriteFile(fileName, content, 0600); err != nil {
		return fmt.Errorf("failed to create test file: %w", err)
	}
	return nil
}
