package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"supplyplan/internal/domain"
	"supplyplan/internal/extract"
)

// BatchConfig holds settings for parsing a directory of agreements.
type BatchConfig struct {
	Concurrency int
	// DocTimeout bounds a single document. Zero means no limit.
	DocTimeout time.Duration
}

// BatchItem is the result for one file of a batch.
type BatchItem struct {
	Path     string
	SourceID string
	Result   *ParseResult
	Err      error
}

// Status returns the short status tag for the item.
func (i BatchItem) Status() string {
	if i.Err != nil {
		return extract.FormatOutcome(domain.OutcomeFailed, 0) + ": " + i.Err.Error()
	}
	return i.Result.Status
}

// Outcome returns the item's outcome, failed when processing errored.
func (i BatchItem) Outcome() domain.ParseOutcome {
	if i.Err != nil {
		return domain.OutcomeFailed
	}
	return i.Result.Outcome
}

// BatchReport collects the results of a batch in file order.
type BatchReport struct {
	Items []BatchItem
}

// Counts tallies items per outcome.
func (r *BatchReport) Counts() map[domain.ParseOutcome]int {
	counts := make(map[domain.ParseOutcome]int)
	for _, it := range r.Items {
		counts[it.Outcome()]++
	}
	return counts
}

// BatchParser parses every supported file under a directory with bounded
// parallelism.
type BatchParser struct {
	docService DocumentService
	supports   func(path string) bool
	cfg        BatchConfig
	logger     *zap.Logger
}

// NewBatchParser creates a BatchParser. supports filters discovered files.
func NewBatchParser(docService DocumentService, supports func(path string) bool, cfg BatchConfig, logger *zap.Logger) *BatchParser {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &BatchParser{
		docService: docService,
		supports:   supports,
		cfg:        cfg,
		logger:     logger,
	}
}

// DiscoverFiles walks root recursively and returns the supported files in
// lexical order.
func DiscoverFiles(root string, supports func(path string) bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !supports(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// Run parses the files under root. onItem, when set, is called once per
// finished file; calls are serialized but arrive in completion order. The
// returned report is in file order. Run stops scheduling new files when ctx
// is canceled and returns the context error.
func (b *BatchParser) Run(ctx context.Context, root string, opts ParseOptions, onItem func(BatchItem)) (*BatchReport, error) {
	if err := validateYear(opts.Year); err != nil {
		return nil, err
	}
	files, err := DiscoverFiles(root, b.supports)
	if err != nil {
		return nil, err
	}

	b.logger.Info("batchParser: started",
		zap.String("root", root),
		zap.Int("files", len(files)),
		zap.Int("year", opts.Year),
		zap.Bool("update", opts.Update),
		zap.Int("concurrency", b.cfg.Concurrency),
	)

	report := &BatchReport{Items: make([]BatchItem, len(files))}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Concurrency)
	for i, path := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			item := b.parseOne(gctx, root, path, opts)
			report.Items[i] = item
			if onItem != nil {
				mu.Lock()
				onItem(item)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		b.logger.Warn("batchParser: canceled", zap.Error(err))
		return trimUnfinished(report), err
	}

	counts := report.Counts()
	b.logger.Info("batchParser: finished",
		zap.Int("added", counts[domain.OutcomeAdded]),
		zap.Int("updated", counts[domain.OutcomeUpdated]),
		zap.Int("unchanged", counts[domain.OutcomeUnchanged]),
		zap.Int("skipped", counts[domain.OutcomeSkipped]),
		zap.Int("failed", counts[domain.OutcomeFailed]),
	)
	return report, nil
}

func (b *BatchParser) parseOne(ctx context.Context, root, path string, opts ParseOptions) BatchItem {
	item := BatchItem{Path: path, SourceID: SourceID(root, path)}

	docCtx := ctx
	if b.cfg.DocTimeout > 0 {
		var cancel context.CancelFunc
		docCtx, cancel = context.WithTimeout(ctx, b.cfg.DocTimeout)
		defer cancel()
	}

	item.Result, item.Err = b.docService.ParseFile(docCtx, ParseFileInput{Path: path, SourceID: item.SourceID}, opts)
	if item.Err != nil {
		if errors.Is(item.Err, context.DeadlineExceeded) {
			item.Err = fmt.Errorf("timed out after %s: %w", b.cfg.DocTimeout, item.Err)
		}
		b.logger.Warn("batchParser: document failed", zap.String("path", path), zap.Error(item.Err))
	}
	return item
}

// SourceID returns path relative to root with forward slashes, or path
// itself when it is not under root.
func SourceID(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func trimUnfinished(r *BatchReport) *BatchReport {
	out := &BatchReport{}
	for _, it := range r.Items {
		if it.Path != "" {
			out.Items = append(out.Items, it)
		}
	}
	return out
}
