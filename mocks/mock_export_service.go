package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"supplyplan/internal/port"
	"supplyplan/internal/service"
)

// MockExportService is a mock implementation of service.ExportService.
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) XLSX(ctx context.Context, year int) (*service.ExportFile, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportFile), args.Error(1)
}

func (m *MockExportService) CSV(ctx context.Context, year int) (*service.ExportFile, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportFile), args.Error(1)
}

func (m *MockExportService) Archive(ctx context.Context, year int) (*service.ArchivedExport, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ArchivedExport), args.Error(1)
}

func (m *MockExportService) ListArchive(ctx context.Context) ([]port.ArchivedObject, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.ArchivedObject), args.Error(1)
}
