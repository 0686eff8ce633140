package dbrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"supplyplan/internal/domain"
	"supplyplan/internal/port"
)

const documentColumns = `id, source_id, agreement_number, agreement_state, year, year_defaulted,
	buyers, allowed_deviation, deviations, validation_errors, content_hash, created_at, updated_at`

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new sqlx-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db}
}

type planRow struct {
	DocumentID uuid.UUID `db:"document_id"`
	Position   int       `db:"position"`
	domain.PlanEntry
}

func (r *documentRepo) Upsert(ctx context.Context, doc *domain.Document) (existed bool, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("documentRepo.Upsert begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current struct {
		ID        uuid.UUID `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}
	err = tx.GetContext(ctx, &current,
		tx.Rebind("SELECT id, created_at FROM documents WHERE source_id = ?"), doc.SourceID)
	switch {
	case err == nil:
		existed = true
	case errors.Is(err, sql.ErrNoRows):
		err = nil
	default:
		return false, fmt.Errorf("documentRepo.Upsert lookup: %w", err)
	}

	now := time.Now().UTC()
	doc.UpdatedAt = now
	if existed {
		doc.ID = current.ID
		doc.CreatedAt = current.CreatedAt
		_, err = tx.ExecContext(ctx, tx.Rebind(`UPDATE documents SET
			agreement_number = ?, agreement_state = ?, year = ?, year_defaulted = ?,
			buyers = ?, allowed_deviation = ?, deviations = ?, validation_errors = ?,
			content_hash = ?, updated_at = ?
		 WHERE id = ?`),
			doc.AgreementNumber, doc.AgreementState, doc.Year, doc.YearDefaulted,
			string(doc.Buyers), doc.AllowedDeviation, string(doc.Deviations), string(doc.ValidationErrors),
			doc.ContentHash, doc.UpdatedAt, doc.ID)
		if err != nil {
			return false, fmt.Errorf("documentRepo.Upsert update: %w", err)
		}
		if _, err = tx.ExecContext(ctx,
			tx.Rebind("DELETE FROM document_plans WHERE document_id = ?"), doc.ID); err != nil {
			return false, fmt.Errorf("documentRepo.Upsert clear plans: %w", err)
		}
	} else {
		if doc.ID == uuid.Nil {
			doc.ID = uuid.New()
		}
		doc.CreatedAt = now
		_, err = tx.ExecContext(ctx, tx.Rebind(`INSERT INTO documents (`+documentColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			doc.ID, doc.SourceID, doc.AgreementNumber, doc.AgreementState, doc.Year, doc.YearDefaulted,
			string(doc.Buyers), doc.AllowedDeviation, string(doc.Deviations), string(doc.ValidationErrors),
			doc.ContentHash, doc.CreatedAt, doc.UpdatedAt)
		if err != nil {
			return false, fmt.Errorf("documentRepo.Upsert insert: %w", err)
		}
	}

	insertPlan := tx.Rebind(`INSERT INTO document_plans
		(document_id, position, month, year, quantity, buyer, product, deviation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	for i, p := range doc.Plans {
		if _, err = tx.ExecContext(ctx, insertPlan,
			doc.ID, i, p.Month, p.Year, p.Quantity, p.Buyer, p.Product, p.Deviation); err != nil {
			return false, fmt.Errorf("documentRepo.Upsert plan %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("documentRepo.Upsert commit: %w", err)
	}
	return existed, nil
}

func (r *documentRepo) GetBySource(ctx context.Context, sourceID string) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.GetContext(ctx, &doc,
		r.db.Rebind("SELECT "+documentColumns+" FROM documents WHERE source_id = ?"), sourceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetBySource: %w", err)
	}
	docs := []domain.Document{doc}
	if err := r.loadPlans(ctx, docs); err != nil {
		return nil, fmt.Errorf("documentRepo.GetBySource: %w", err)
	}
	return &docs[0], nil
}

func (r *documentRepo) ListByYear(ctx context.Context, year, offset, limit int) ([]domain.Document, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		r.db.Rebind("SELECT COUNT(*) FROM documents WHERE year = ?"), year)
	if err != nil {
		return nil, 0, fmt.Errorf("documentRepo.ListByYear count: %w", err)
	}

	var docs []domain.Document
	err = r.db.SelectContext(ctx, &docs,
		r.db.Rebind(`SELECT `+documentColumns+` FROM documents WHERE year = ?
		 ORDER BY source_id LIMIT ? OFFSET ?`),
		year, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("documentRepo.ListByYear: %w", err)
	}
	return docs, total, nil
}

func (r *documentRepo) ListWithPlans(ctx context.Context, year int) ([]domain.Document, error) {
	var docs []domain.Document
	err := r.db.SelectContext(ctx, &docs,
		r.db.Rebind("SELECT "+documentColumns+" FROM documents WHERE year = ? ORDER BY source_id"), year)
	if err != nil {
		return nil, fmt.Errorf("documentRepo.ListWithPlans: %w", err)
	}
	if err := r.loadPlans(ctx, docs); err != nil {
		return nil, fmt.Errorf("documentRepo.ListWithPlans: %w", err)
	}
	return docs, nil
}

func (r *documentRepo) DeleteAll(ctx context.Context) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("documentRepo.DeleteAll begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM document_plans"); err != nil {
		return fmt.Errorf("documentRepo.DeleteAll plans: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return fmt.Errorf("documentRepo.DeleteAll: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("documentRepo.DeleteAll commit: %w", err)
	}
	return nil
}

// loadPlans fills Plans on each document in docs, preserving entry order.
func (r *documentRepo) loadPlans(ctx context.Context, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(docs))
	index := make(map[uuid.UUID]int, len(docs))
	for i := range docs {
		ids[i] = docs[i].ID
		index[docs[i].ID] = i
		docs[i].Plans = []domain.PlanEntry{}
	}

	query, args, err := sqlx.In(`SELECT document_id, position, month, year, quantity, buyer, product, deviation
		FROM document_plans WHERE document_id IN (?) ORDER BY document_id, position`, ids)
	if err != nil {
		return fmt.Errorf("building plan query: %w", err)
	}
	var rows []planRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("loading plans: %w", err)
	}
	for _, row := range rows {
		i := index[row.DocumentID]
		docs[i].Plans = append(docs[i].Plans, row.PlanEntry)
	}
	return nil
}
