//go:build unit
// +build unit

package app

import (
	"context"
	"io"

	"github.com/chronam/ocrdump-service/internal/domain/batches"
	"github.com/chronam/ocrdump-service/internal/domain/dumps"

	"github.com/stretchr/testify/mock"
)

type MockBatchRepository struct {
	mock.Mock
}

func (m *MockBatchRepository) CreateTitle(ctx context.Context, title *batches.Title) error {
	args := m.Called(ctx, title)
	return args.Error(0)
}

func (m *MockBatchRepository) Create(ctx context.Context, batch *batches.Batch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockBatchRepository) CreateIssue(ctx context.Context, issue *batches.Issue) error {
	args := m.Called(ctx, issue)
	return args.Error(0)
}

func (m *MockBatchRepository) CreatePage(ctx context.Context, page *batches.Page, ocr *batches.OCR) error {
	args := m.Called(ctx, page, ocr)
	return args.Error(0)
}

func (m *MockBatchRepository) GetByName(ctx context.Context, name string) (*batches.Batch, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*batches.Batch), args.Error(1)
}

func (m *MockBatchRepository) List(ctx context.Context) ([]*batches.Batch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*batches.Batch), args.Error(1)
}

func (m *MockBatchRepository) Pages(ctx context.Context, batchID string) ([]*batches.PageOCR, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*batches.PageOCR), args.Error(1)
}

func (m *MockBatchRepository) DeleteByID(ctx context.Context, batchID string) error {
	args := m.Called(ctx, batchID)
	return args.Error(0)
}

type MockOcrDumpRepository struct {
	mock.Mock
}

func (m *MockOcrDumpRepository) Create(ctx context.Context, dump *dumps.OcrDump) error {
	args := m.Called(ctx, dump)
	return args.Error(0)
}

func (m *MockOcrDumpRepository) GetByName(ctx context.Context, name string) (*dumps.OcrDump, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dumps.OcrDump), args.Error(1)
}

func (m *MockOcrDumpRepository) GetByBatchID(ctx context.Context, batchID string) (*dumps.OcrDump, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dumps.OcrDump), args.Error(1)
}

func (m *MockOcrDumpRepository) List(ctx context.Context, query *dumps.OcrDumpQuery) ([]*dumps.OcrDump, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dumps.OcrDump), args.Error(1)
}

func (m *MockOcrDumpRepository) NextSequence(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockOcrDumpRepository) DeleteByID(ctx context.Context, dumpID string) error {
	args := m.Called(ctx, dumpID)
	return args.Error(0)
}

type MockDumpConnector struct {
	mock.Mock
}

func (m *MockDumpConnector) Upload(ctx context.Context, name string, r io.Reader) error {
	args := m.Called(ctx, name, r)
	return args.Error(0)
}

func (m *MockDumpConnector) Download(ctx context.Context, name string) (io.ReadCloser, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockDumpConnector) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

type MockOcrDumpService struct {
	mock.Mock
}

func (m *MockOcrDumpService) NewFromBatch(ctx context.Context, batchName string) (*dumps.OcrDump, error) {
	args := m.Called(ctx, batchName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dumps.OcrDump), args.Error(1)
}

func (m *MockOcrDumpService) DumpMissing(ctx context.Context) ([]*dumps.OcrDump, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dumps.OcrDump), args.Error(1)
}

func (m *MockOcrDumpService) List(ctx context.Context, query *dumps.OcrDumpQuery) ([]*dumps.OcrDump, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dumps.OcrDump), args.Error(1)
}

func (m *MockOcrDumpService) GetByName(ctx context.Context, name string) (*dumps.OcrDump, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dumps.OcrDump), args.Error(1)
}

func (m *MockOcrDumpService) GetByBatchID(ctx context.Context, batchID string) (*dumps.OcrDump, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dumps.OcrDump), args.Error(1)
}

func (m *MockOcrDumpService) Open(ctx context.Context, name string) (io.ReadCloser, *dumps.OcrDump, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*dumps.OcrDump), args.Error(2)
}

func (m *MockOcrDumpService) Verify(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockOcrDumpService) DeleteByName(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
