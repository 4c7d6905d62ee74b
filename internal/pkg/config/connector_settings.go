package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// AzureCloudProvider represents Microsoft Azure cloud provider
const AzureCloudProvider = "azure"

// BlobConnectorSettings configures the remote mirror for finished dumps
type BlobConnectorSettings struct {
	CloudProvider    string `yaml:"cloud_provider" validate:"required,oneof=azure"`
	ConnectionString string `yaml:"connection_string" validate:"required"`
	ContainerName    string `yaml:"container_name" validate:"required,min=3,max=63"`
}

// Validate checks the connector settings
func (s *BlobConnectorSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for BlobConnectorSettings: %w", err)
	}
	return nil
}
