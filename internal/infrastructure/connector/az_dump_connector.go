package connector

import (
	"context"
	"fmt"
	"io"

	"github.com/chronam/ocrdump-service/internal/domain/dumps"
	"github.com/chronam/ocrdump-service/internal/pkg/config"
	"github.com/chronam/ocrdump-service/internal/pkg/logger"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// azureDumpConnector stores dump archives as blobs in an Azure Storage container
type azureDumpConnector struct {
	client        *azblob.Client
	containerName string
	logger        logger.Logger
}

// NewAzureDumpConnector creates a DumpConnector for the configured container,
// creating the container when it does not exist yet
func NewAzureDumpConnector(ctx context.Context, settings *config.BlobConnectorSettings, logger logger.Logger) (dumps.DumpConnector, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	client, err := azblob.NewClientFromConnectionString(settings.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure Blob client: %w", err)
	}

	_, err = client.CreateContainer(ctx, settings.ContainerName, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return nil, fmt.Errorf("failed to create container %s: %w", settings.ContainerName, err)
	}

	return &azureDumpConnector{
		client:        client,
		containerName: settings.ContainerName,
		logger:        logger,
	}, nil
}

func (c *azureDumpConnector) Upload(ctx context.Context, name string, r io.Reader) error {
	_, err := c.client.UploadStream(ctx, c.containerName, name, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upload blob %s: %w", name, err)
	}

	c.logger.Info("Uploaded ocr dump ", name, " to container ", c.containerName)
	return nil
}

func (c *azureDumpConnector) Download(ctx context.Context, name string) (io.ReadCloser, error) {
	resp, err := c.client.DownloadStream(ctx, c.containerName, name, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, fmt.Errorf("blob %s: %w", name, dumps.ErrDumpNotFound)
		}
		return nil, fmt.Errorf("failed to download blob %s: %w", name, err)
	}
	return resp.Body, nil
}

func (c *azureDumpConnector) Delete(ctx context.Context, name string) error {
	_, err := c.client.DeleteBlob(ctx, c.containerName, name, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			c.logger.Debug("Remote copy already absent", "name", name)
			return nil
		}
		return fmt.Errorf("failed to delete blob %s: %w", name, err)
	}

	c.logger.Info("Deleted ocr dump ", name, " from container ", c.containerName)
	return nil
}
