package service

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"supplyplan/internal/csvexport"
	"supplyplan/internal/domain"
	"supplyplan/internal/port"
	"supplyplan/internal/xlsxexport"
)

// Content types of the generated reports.
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv; charset=utf-8"
)

// ExportFile is a rendered report.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ArchivedExport is a report stored in the export archive.
type ArchivedExport struct {
	Object port.ArchivedObject `json:"object"`
	URL    string              `json:"url"`
}

// ExportService defines the report export contract.
type ExportService interface {
	XLSX(ctx context.Context, year int) (*ExportFile, error)
	CSV(ctx context.Context, year int) (*ExportFile, error)
	Archive(ctx context.Context, year int) (*ArchivedExport, error)
	ListArchive(ctx context.Context) ([]port.ArchivedObject, error)
}

type exportService struct {
	docRepo  port.DocumentRepository
	archive  port.ExportArchive // nil when no bucket is configured
	linkRoot string
	now      func() time.Time
	logger   *zap.Logger
}

// NewExportService creates a new ExportService. archive may be nil. When
// linkRoot is set, XLSX rows link to linkRoot joined with the source ID.
func NewExportService(docRepo port.DocumentRepository, archive port.ExportArchive, linkRoot string, logger *zap.Logger) ExportService {
	return NewExportServiceWithClock(docRepo, archive, linkRoot, logger, time.Now)
}

// NewExportServiceWithClock is NewExportService with an explicit clock for
// report dates and file names.
func NewExportServiceWithClock(docRepo port.DocumentRepository, archive port.ExportArchive, linkRoot string, logger *zap.Logger, now func() time.Time) ExportService {
	return &exportService{
		docRepo:  docRepo,
		archive:  archive,
		linkRoot: linkRoot,
		now:      now,
		logger:   logger,
	}
}

func (s *exportService) XLSX(ctx context.Context, year int) (*ExportFile, error) {
	docs, err := s.load(ctx, year)
	if err != nil {
		return nil, err
	}

	now := s.now()
	report := xlsxexport.Report{Year: year, Generated: now}
	for i := range docs {
		parsed, err := docs[i].Parsed()
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", docs[i].SourceID, err)
		}
		report.Rows = append(report.Rows, xlsxexport.RowFromDocument(parsed, s.link(docs[i].SourceID)))
	}

	var buf bytes.Buffer
	if err := xlsxexport.Write(&buf, report); err != nil {
		return nil, err
	}
	s.logger.Info("exportService: xlsx rendered", zap.Int("year", year), zap.Int("documents", len(docs)))
	return &ExportFile{
		Filename:    xlsxexport.BuildFilename(year, now),
		ContentType: ContentTypeXLSX,
		Data:        buf.Bytes(),
	}, nil
}

func (s *exportService) CSV(ctx context.Context, year int) (*ExportFile, error) {
	docs, err := s.load(ctx, year)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(csvexport.BOM)
	w := csvexport.NewWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	if err := w.WriteDocuments(docs); err != nil {
		return nil, fmt.Errorf("writing csv rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return &ExportFile{
		Filename:    csvexport.BuildFilename("plans", year, s.now()),
		ContentType: ContentTypeCSV,
		Data:        buf.Bytes(),
	}, nil
}

func (s *exportService) Archive(ctx context.Context, year int) (*ArchivedExport, error) {
	if s.archive == nil {
		return nil, domain.ErrStorageDisabled
	}
	file, err := s.XLSX(ctx, year)
	if err != nil {
		return nil, err
	}

	name := path.Join(fmt.Sprint(year), file.Filename)
	obj, err := s.archive.Put(ctx, name, bytes.NewReader(file.Data), file.ContentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	obj.Size = int64(len(file.Data))

	url, err := s.archive.PresignedURL(ctx, obj.Key)
	if err != nil {
		return nil, fmt.Errorf("presigning %s: %w", obj.Key, err)
	}
	s.logger.Info("exportService: export archived", zap.String("key", obj.Key), zap.Int64("size", obj.Size))
	return &ArchivedExport{Object: *obj, URL: url}, nil
}

func (s *exportService) ListArchive(ctx context.Context) ([]port.ArchivedObject, error) {
	if s.archive == nil {
		return nil, domain.ErrStorageDisabled
	}
	return s.archive.List(ctx)
}

func (s *exportService) load(ctx context.Context, year int) ([]domain.Document, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	docs, err := s.docRepo.ListWithPlans(ctx, year)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, domain.ErrExportEmpty
	}
	return docs, nil
}

func (s *exportService) link(sourceID string) string {
	if s.linkRoot == "" {
		return ""
	}
	return filepath.Join(s.linkRoot, filepath.FromSlash(sourceID))
}
