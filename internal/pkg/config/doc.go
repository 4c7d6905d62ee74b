// Package config provides functionality for loading and managing application configuration.
//
// Settings are read from a YAML file, selectively overridden from the
// environment, and validated before use. Every settings struct exposes a
// Validate method so callers can check partial configurations as well.
package config
