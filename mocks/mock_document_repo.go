package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"supplyplan/internal/domain"
)

// MockDocumentRepo is a mock implementation of port.DocumentRepository.
type MockDocumentRepo struct {
	mock.Mock
}

func (m *MockDocumentRepo) Upsert(ctx context.Context, doc *domain.Document) (bool, error) {
	args := m.Called(ctx, doc)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRepo) GetBySource(ctx context.Context, sourceID string) (*domain.Document, error) {
	args := m.Called(ctx, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepo) ListByYear(ctx context.Context, year, offset, limit int) ([]domain.Document, int, error) {
	args := m.Called(ctx, year, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Document), args.Int(1), args.Error(2)
}

func (m *MockDocumentRepo) ListWithPlans(ctx context.Context, year int) ([]domain.Document, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentRepo) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
