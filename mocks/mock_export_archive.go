package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"supplyplan/internal/port"
)

// MockExportArchive is a mock implementation of port.ExportArchive.
type MockExportArchive struct {
	mock.Mock
}

func (m *MockExportArchive) Put(ctx context.Context, name string, body io.Reader, contentType string) (*port.ArchivedObject, error) {
	args := m.Called(ctx, name, body, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.ArchivedObject), args.Error(1)
}

func (m *MockExportArchive) PresignedURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockExportArchive) List(ctx context.Context) ([]port.ArchivedObject, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.ArchivedObject), args.Error(1)
}

func (m *MockExportArchive) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
