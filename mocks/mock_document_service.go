package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"supplyplan/internal/domain"
	"supplyplan/internal/service"
)

// MockDocumentService is a mock implementation of service.DocumentService.
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) ParseFile(ctx context.Context, input service.ParseFileInput, opts service.ParseOptions) (*service.ParseResult, error) {
	args := m.Called(ctx, input, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ParseResult), args.Error(1)
}

func (m *MockDocumentService) ParseText(ctx context.Context, input service.ParseTextInput, opts service.ParseOptions) (*service.ParseResult, error) {
	args := m.Called(ctx, input, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ParseResult), args.Error(1)
}

func (m *MockDocumentService) Preview(input service.ParseTextInput) *domain.ParsedDocument {
	args := m.Called(input)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.ParsedDocument)
}

func (m *MockDocumentService) Get(ctx context.Context, sourceID string) (*domain.Document, error) {
	args := m.Called(ctx, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, year, offset, limit int) ([]domain.Document, int, error) {
	args := m.Called(ctx, year, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Document), args.Int(1), args.Error(2)
}

func (m *MockDocumentService) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
