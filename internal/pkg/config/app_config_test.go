//go:build unit
// +build unit

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadAppConfig_Defaults(t *testing.T) {
	t.Setenv(EnvDumpStorageDir, "")
	t.Setenv(EnvDatabaseDSN, "")
	t.Setenv(EnvPort, "")

	cfg, err := LoadAppConfig("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, SqliteDbType, cfg.Database.Type)
	assert.Equal(t, DefaultDumpStorageDir, cfg.Dumps.StorageDir)
	assert.Nil(t, cfg.BlobConnector)
}

func TestLoadAppConfig_FromFile(t *testing.T) {
	t.Setenv(EnvDumpStorageDir, "")
	t.Setenv(EnvDatabaseDSN, "")
	t.Setenv(EnvPort, "")

	path := writeConfig(t, `
port: "9090"
database:
  type: postgres
  dsn: "user=postgres password=postgres host=localhost port=5432 sslmode=disable"
  name: chronam
logger:
  log_level: debug
  log_type: console
dumps:
  storage_dir: /srv/ocr
  base_url: https://chroniclingamerica.example.org
blob_connector:
  cloud_provider: azure
  connection_string: "UseDevelopmentStorage=true"
  container_name: ocr-dumps
`)

	cfg, err := LoadAppConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, PostgresDbType, cfg.Database.Type)
	assert.Equal(t, "chronam", cfg.Database.Name)
	assert.Equal(t, LogLevelDebug, cfg.Logger.LogLevel)
	assert.Equal(t, "/srv/ocr", cfg.Dumps.StorageDir)
	require.NotNil(t, cfg.BlobConnector)
	assert.Equal(t, "ocr-dumps", cfg.BlobConnector.ContainerName)
}

func TestLoadAppConfig_EnvOverrides(t *testing.T) {
	t.Setenv(EnvDumpStorageDir, "/tmp/test_ocr_dumps")
	t.Setenv(EnvDatabaseDSN, "override.db")
	t.Setenv(EnvPort, "7070")

	path := writeConfig(t, `
dumps:
  storage_dir: /srv/ocr
`)

	cfg, err := LoadAppConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/test_ocr_dumps", cfg.Dumps.StorageDir)
	assert.Equal(t, "override.db", cfg.Database.DSN)
	assert.Equal(t, "7070", cfg.Port)
}

func TestLoadAppConfig_Errors(t *testing.T) {
	t.Setenv(EnvDumpStorageDir, "")
	t.Setenv(EnvDatabaseDSN, "")
	t.Setenv(EnvPort, "")

	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "database: [unterminated"},
		{"invalid log level", "logger:\n  log_level: loud\n  log_type: console\n"},
		{"invalid connector", "blob_connector:\n  cloud_provider: gcp\n"},
		{"invalid base url", "dumps:\n  storage_dir: /srv/ocr\n  base_url: not a url\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadAppConfig(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := LoadAppConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
