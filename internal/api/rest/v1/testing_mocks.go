//go:build unit
// +build unit

package v1

import (
	"context"
	"io"

	"github.com/chronam/ocrdump-service/internal/domain/batches"
	"github.com/chronam/ocrdump-service/internal/domain/dumps"

	"github.com/stretchr/testify/mock"
)

// MockBatchService is a mock implementation of BatchService
type MockBatchService struct {
	mock.Mock
}

func (m *MockBatchService) List(ctx context.Context) ([]*batches.Batch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*batches.Batch), args.Error(1)
}

func (m *MockBatchService) GetByName(ctx context.Context, name string) (*batches.Batch, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*batches.Batch), args.Error(1)
}

func (m *MockBatchService) DeleteByName(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// MockOcrDumpService is a mock implementation of OcrDumpService
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
