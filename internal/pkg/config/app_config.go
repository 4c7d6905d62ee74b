package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment variables overriding file settings
const (
	EnvConfigPath     = "CONFIG_PATH"
	EnvDumpStorageDir = "OCR_DUMP_STORAGE"
	EnvDatabaseDSN    = "DATABASE_DSN"
	EnvPort           = "PORT"
)

// AppConfig is the complete configuration shared by the REST API and the CLI
type AppConfig struct {
	Port          string                 `yaml:"port" validate:"omitempty,numeric"`
	Database      DatabaseSettings       `yaml:"database"`
	Logger        LoggerSettings         `yaml:"logger"`
	Dumps         DumpSettings           `yaml:"dumps"`
	BlobConnector *BlobConnectorSettings `yaml:"blob_connector,omitempty"`
}

// DefaultAppConfig returns a configuration usable without a config file:
// a local sqlite database and console logging.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Port: "8080",
		Database: DatabaseSettings{
			Type: SqliteDbType,
			DSN:  "chronam.db",
		},
		Logger: LoggerSettings{
			LogLevel: LogLevelInfo,
			LogType:  LogTypeConsole,
		},
		Dumps: DumpSettings{
			StorageDir: DefaultDumpStorageDir,
		},
	}
}

// LoadAppConfig reads the YAML file at path on top of DefaultAppConfig,
// applies environment overrides and validates the result.
// An empty path skips the file.
func LoadAppConfig(path string) (*AppConfig, error) {
	cfg := DefaultAppConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) applyEnv() {
	if v := os.Getenv(EnvDumpStorageDir); v != "" {
		c.Dumps.StorageDir = v
	}
	if v := os.Getenv(EnvDatabaseDSN); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		c.Port = v
	}
}

// Validate checks every section of the configuration
func (c *AppConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validation failed for AppConfig: %w", err)
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Logger.Validate(); err != nil {
		return err
	}
	if err := c.Dumps.Validate(); err != nil {
		return err
	}
	if c.BlobConnector != nil {
		if err := c.BlobConnector.Validate(); err != nil {
			return err
		}
	}
	return nil
}
