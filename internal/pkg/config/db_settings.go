package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Supported database types
const (
	SqliteDbType   = "sqlite"
	PostgresDbType = "postgres"
)

// DatabaseSettings describes how to reach the metadata database.
// For PostgreSQL, Name is created on first connect when set.
type DatabaseSettings struct {
	Type string `yaml:"type" validate:"required,oneof=sqlite postgres"`
	DSN  string `yaml:"dsn"`
	Name string `yaml:"name" validate:"omitempty,max=63"`
}

// Validate checks the database settings
func (s *DatabaseSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for DatabaseSettings: %w", err)
	}

	if s.Type == PostgresDbType && s.DSN == "" {
		return fmt.Errorf("dsn is required for %s databases", s.Type)
	}

	return nil
}
