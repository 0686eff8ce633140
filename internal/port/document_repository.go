package port

import (
	"context"

	"supplyplan/internal/domain"
)

// DocumentRepository defines the contract for extraction result persistence.
type DocumentRepository interface {
	// Upsert stores doc keyed by SourceID, replacing its plans. It reports
	// whether a document with the same SourceID already existed.
	Upsert(ctx context.Context, doc *domain.Document) (existed bool, err error)
	GetBySource(ctx context.Context, sourceID string) (*domain.Document, error)
	ListByYear(ctx context.Context, year, offset, limit int) ([]domain.Document, int, error)
	// ListWithPlans returns every document of year with its plans loaded,
	// ordered by SourceID.
	ListWithPlans(ctx context.Context, year int) ([]domain.Document, error)
	DeleteAll(ctx context.Context) error
}
