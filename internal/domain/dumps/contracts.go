package dumps

import (
	"context"
	"io"
	"os"
)

// OcrDumpService creates, serves and removes OCR dumps
type OcrDumpService interface {
	// NewFromBatch writes the dump archive of a batch and records it.
	// It fails with ErrDumpExists when the batch already has a dump.
	NewFromBatch(ctx context.Context, batchName string) (*OcrDump, error)
	// DumpMissing creates a dump for every batch that has none
	DumpMissing(ctx context.Context) ([]*OcrDump, error)
	// List retrieves dump metadata considering the query
	List(ctx context.Context, query *OcrDumpQuery) ([]*OcrDump, error)
	// GetByName retrieves dump metadata by dump name
	GetByName(ctx context.Context, name string) (*OcrDump, error)
	// GetByBatchID retrieves the dump of a batch
	GetByBatchID(ctx context.Context, batchID string) (*OcrDump, error)
	// Open streams the archive of a dump; the caller closes the reader
	Open(ctx context.Context, name string) (io.ReadCloser, *OcrDump, error)
	// Verify recomputes the sha1 and size of the stored archive
	Verify(ctx context.Context, name string) error
	// DeleteByName deletes the dump row, its file and any remote copy
	DeleteByName(ctx context.Context, name string) error
}

// OcrDumpRepository defines the interface for OcrDump persistence
type OcrDumpRepository interface {
	// Create adds a new OcrDump to the database
	Create(ctx context.Context, dump *OcrDump) error
	// GetByName retrieves an OcrDump by name
	GetByName(ctx context.Context, name string) (*OcrDump, error)
	// GetByBatchID retrieves the OcrDump of a batch
	GetByBatchID(ctx context.Context, batchID string) (*OcrDump, error)
	// List lists OcrDumps with optional pagination
	List(ctx context.Context, query *OcrDumpQuery) ([]*OcrDump, error)
	// NextSequence returns the sequence number for the next dump
	NextSequence(ctx context.Context) (int, error)
	// DeleteByID deletes an OcrDump by ID
	DeleteByID(ctx context.Context, dumpID string) error
}

// StagedFile is a dump file being written. Nothing is visible under the
// final name until Commit succeeds.
type StagedFile interface {
	io.Writer
	// Commit closes the file and moves it to its final name. It fails with
	// ErrDumpExists when a file of that name is already committed.
	Commit() error
	// Abort closes and removes the partial file
	Abort() error
}

// DumpStorage stores dump files in a directory
type DumpStorage interface {
	// Dir returns the storage directory
	Dir() string
	// Path returns the final location of a dump file
	Path(name string) string
	// Create stages a new dump file
	Create(name string) (StagedFile, error)
	// Open opens a committed dump file
	Open(name string) (io.ReadCloser, error)
	// Stat describes a committed dump file
	Stat(name string) (os.FileInfo, error)
	// Remove deletes a dump file; removing a missing file is not an error
	Remove(name string) error
}

// DumpConnector mirrors finished dumps to remote storage
type DumpConnector interface {
	// Upload copies a dump to remote storage under name
	Upload(ctx context.Context, name string, r io.Reader) error
	// Download streams a remote copy; the caller closes the reader
	Download(ctx context.Context, name string) (io.ReadCloser, error)
	// Delete removes a remote copy; a missing copy is not an error
	Delete(ctx context.Context, name string) error
}
