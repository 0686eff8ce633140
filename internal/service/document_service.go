package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"supplyplan/internal/domain"
	"supplyplan/internal/extract"
	"supplyplan/internal/port"
)

// ParseOptions controls how a parsed document is reconciled with storage.
type ParseOptions struct {
	// Year is the plan year being collected. Documents stating another year
	// are skipped.
	Year int
	// Update re-parses and overwrites documents that are already stored.
	Update bool
}

// ParseFileInput identifies a source file on disk.
type ParseFileInput struct {
	Path     string
	SourceID string
}

// ParseTextInput carries an already extracted document.
type ParseTextInput struct {
	SourceID string
	Text     string
	Tables   [][][]string
}

// ParseResult is the outcome of processing one document.
type ParseResult struct {
	SourceID string                 `json:"source_id"`
	Outcome  domain.ParseOutcome    `json:"outcome"`
	Status   string                 `json:"status"`
	Document *domain.ParsedDocument `json:"document"`
}

// DocumentService defines the document processing contract.
type DocumentService interface {
	ParseFile(ctx context.Context, input ParseFileInput, opts ParseOptions) (*ParseResult, error)
	ParseText(ctx context.Context, input ParseTextInput, opts ParseOptions) (*ParseResult, error)
	Preview(input ParseTextInput) *domain.ParsedDocument
	Get(ctx context.Context, sourceID string) (*domain.Document, error)
	List(ctx context.Context, year, offset, limit int) ([]domain.Document, int, error)
	Reset(ctx context.Context) error
}

type documentService struct {
	docRepo   port.DocumentRepository
	extractor port.TextExtractor
	parser    *extract.Parser
	logger    *zap.Logger
}

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(
	docRepo port.DocumentRepository,
	extractor port.TextExtractor,
	parser *extract.Parser,
	logger *zap.Logger,
) DocumentService {
	return &documentService{
		docRepo:   docRepo,
		extractor: extractor,
		parser:    parser,
		logger:    logger,
	}
}

func (s *documentService) ParseFile(ctx context.Context, input ParseFileInput, opts ParseOptions) (*ParseResult, error) {
	if err := validateYear(opts.Year); err != nil {
		return nil, err
	}
	sourceID := input.SourceID
	if sourceID == "" {
		sourceID = input.Path
	}

	existing, err := s.lookup(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if existing != nil && !opts.Update {
		return s.unchanged(existing)
	}

	text, err := s.extractor.Extract(ctx, input.Path)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", input.Path, err)
	}
	return s.process(ctx, ParseTextInput{SourceID: sourceID, Text: text.Text, Tables: text.Tables}, existing != nil, opts)
}

func (s *documentService) ParseText(ctx context.Context, input ParseTextInput, opts ParseOptions) (*ParseResult, error) {
	if err := validateYear(opts.Year); err != nil {
		return nil, err
	}
	if input.Text == "" {
		return nil, domain.ErrEmptyDocument
	}
	existing, err := s.lookup(ctx, input.SourceID)
	if err != nil {
		return nil, err
	}
	if existing != nil && !opts.Update {
		return s.unchanged(existing)
	}
	return s.process(ctx, input, existing != nil, opts)
}

// Preview parses without touching storage.
func (s *documentService) Preview(input ParseTextInput) *domain.ParsedDocument {
	return s.parser.Parse(extract.Input{SourceID: input.SourceID, Text: input.Text, Tables: input.Tables})
}

func (s *documentService) Get(ctx context.Context, sourceID string) (*domain.Document, error) {
	return s.docRepo.GetBySource(ctx, sourceID)
}

func (s *documentService) List(ctx context.Context, year, offset, limit int) ([]domain.Document, int, error) {
	if err := validateYear(year); err != nil {
		return nil, 0, err
	}
	return s.docRepo.ListByYear(ctx, year, offset, limit)
}

func (s *documentService) Reset(ctx context.Context) error {
	if err := s.docRepo.DeleteAll(ctx); err != nil {
		return err
	}
	s.logger.Info("documentService: storage cleared")
	return nil
}

func (s *documentService) lookup(ctx context.Context, sourceID string) (*domain.Document, error) {
	doc, err := s.docRepo.GetBySource(ctx, sourceID)
	if errors.Is(err, domain.ErrDocumentNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up %s: %w", sourceID, err)
	}
	return doc, nil
}

func (s *documentService) unchanged(existing *domain.Document) (*ParseResult, error) {
	parsed, err := existing.Parsed()
	if err != nil {
		return nil, fmt.Errorf("decoding stored %s: %w", existing.SourceID, err)
	}
	return &ParseResult{
		SourceID: existing.SourceID,
		Outcome:  domain.OutcomeUnchanged,
		Status:   extract.FormatOutcome(domain.OutcomeUnchanged, len(parsed.ValidationErrors)),
		Document: parsed,
	}, nil
}

func (s *documentService) process(ctx context.Context, input ParseTextInput, existed bool, opts ParseOptions) (*ParseResult, error) {
	parsed := s.parser.Parse(extract.Input{SourceID: input.SourceID, Text: input.Text, Tables: input.Tables})

	if parsed.YearDefaulted {
		parsed = withYear(parsed, opts.Year)
	} else if parsed.Year != opts.Year {
		s.logger.Info("documentService: skipping document of another year",
			zap.String("source", input.SourceID),
			zap.Int("document_year", parsed.Year),
			zap.Int("year", opts.Year),
		)
		return &ParseResult{
			SourceID: input.SourceID,
			Outcome:  domain.OutcomeSkipped,
			Status:   extract.FormatOutcome(domain.OutcomeSkipped, len(parsed.ValidationErrors)),
			Document: parsed,
		}, nil
	}

	doc, err := domain.NewDocument(parsed, contentHash(input))
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", input.SourceID, err)
	}
	stored, err := s.docRepo.Upsert(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("storing %s: %w", input.SourceID, err)
	}
	existed = existed || stored

	outcome := extract.Outcome(existed, opts.Update)
	s.logger.Info("documentService: document parsed",
		zap.String("source", input.SourceID),
		zap.String("outcome", string(outcome)),
		zap.String("agreement", parsed.AgreementNumber.String()),
		zap.Int("plans", len(parsed.MonthlyPlans)),
		zap.Int("errors", len(parsed.ValidationErrors)),
	)
	return &ParseResult{
		SourceID: input.SourceID,
		Outcome:  outcome,
		Status:   extract.FormatStatus(parsed.ValidationErrors, existed, opts.Update),
		Document: parsed,
	}, nil
}

// withYear moves a document whose year could not be read into the requested
// year.
func withYear(parsed *domain.ParsedDocument, year int) *domain.ParsedDocument {
	if parsed.Year == year {
		return parsed
	}
	c := parsed.Clone()
	c.Year = year
	for i := range c.MonthlyPlans {
		c.MonthlyPlans[i].Year = year
	}
	return c
}

// contentHash fingerprints the extracted text and tables.
func contentHash(input ParseTextInput) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(input.Text))
	for _, t := range input.Tables {
		for _, row := range t {
			for _, c := range row {
				h.Write([]byte{0x1f})
				h.Write([]byte(c))
			}
			h.Write([]byte{0x1e})
		}
		h.Write([]byte{0x1d})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func validateYear(year int) error {
	if year < extract.MinYear || year > extract.MaxYear {
		return domain.ErrInvalidYear
	}
	return nil
}
