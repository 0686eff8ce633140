package service_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"supplyplan/internal/domain"
	"supplyplan/internal/service"
	"supplyplan/mocks"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, n := range names {
		p := filepath.Join(root, filepath.FromSlash(n))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
}

func txtOnly(path string) bool {
	return strings.HasSuffix(path, ".txt")
}

func TestDiscoverFiles_RecursiveSortedFiltered(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "b.txt", "a/z.txt", "a/c.doc", "0.txt")

	files, err := service.DiscoverFiles(root, txtOnly)
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		rel = append(rel, service.SourceID(root, f))
	}
	assert.Equal(t, []string{"0.txt", "a/z.txt", "b.txt"}, rel)
}

func TestDiscoverFiles_MissingRoot(t *testing.T) {
	_, err := service.DiscoverFiles(filepath.Join(t.TempDir(), "nope"), txtOnly)
	assert.Error(t, err)
}

func TestBatchParser_Run(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	writeFiles(t, root, "a.txt", "sub/b.txt", "c.txt", "skip.pdf")

	docSvc := new(mocks.MockDocumentService)
	opts := service.ParseOptions{Year: 2025}
	docSvc.On("ParseFile", mock.Anything, service.ParseFileInput{Path: filepath.Join(root, "a.txt"), SourceID: "a.txt"}, opts).
		Return(&service.ParseResult{SourceID: "a.txt", Outcome: domain.OutcomeAdded, Status: "добавлен"}, nil)
	docSvc.On("ParseFile", mock.Anything, service.ParseFileInput{Path: filepath.Join(root, "c.txt"), SourceID: "c.txt"}, opts).
		Return(&service.ParseResult{SourceID: "c.txt", Outcome: domain.OutcomeUnchanged, Status: "пропущен (уже в базе)"}, nil)
	docSvc.On("ParseFile", mock.Anything, service.ParseFileInput{Path: filepath.Join(root, "sub", "b.txt"), SourceID: "sub/b.txt"}, opts).
		Return(nil, domain.ErrUnsupportedFileType)

	var seen atomic.Int32
	bp := service.NewBatchParser(docSvc, txtOnly, service.BatchConfig{Concurrency: 2}, zap.NewNop())
	report, err := bp.Run(context.Background(), root, opts, func(service.BatchItem) { seen.Add(1) })

	require.NoError(t, err)
	require.Len(t, report.Items, 3)
	assert.Equal(t, "a.txt", report.Items[0].SourceID)
	assert.Equal(t, "c.txt", report.Items[1].SourceID)
	assert.Equal(t, "sub/b.txt", report.Items[2].SourceID)
	assert.Equal(t, "добавлен", report.Items[0].Status())
	assert.Equal(t, domain.OutcomeFailed, report.Items[2].Outcome())
	assert.True(t, strings.HasPrefix(report.Items[2].Status(), "ошибка: "))
	assert.EqualValues(t, 3, seen.Load())

	counts := report.Counts()
	assert.Equal(t, 1, counts[domain.OutcomeAdded])
	assert.Equal(t, 1, counts[domain.OutcomeUnchanged])
	assert.Equal(t, 1, counts[domain.OutcomeFailed])
	docSvc.AssertExpectations(t)
}

func TestBatchParser_DocTimeout(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	writeFiles(t, root, "slow.txt")

	docSvc := new(mocks.MockDocumentService)
	docSvc.On("ParseFile", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.DeadlineExceeded)

	bp := service.NewBatchParser(docSvc, txtOnly, service.BatchConfig{Concurrency: 1, DocTimeout: 20 * time.Millisecond}, zap.NewNop())
	report, err := bp.Run(context.Background(), root, service.ParseOptions{Year: 2025}, nil)

	require.NoError(t, err)
	require.Len(t, report.Items, 1)
	assert.ErrorIs(t, report.Items[0].Err, context.DeadlineExceeded)
	assert.Contains(t, report.Items[0].Err.Error(), "timed out")
}

func TestBatchParser_Canceled(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	writeFiles(t, root, "a.txt", "b.txt")

	docSvc := new(mocks.MockDocumentService)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bp := service.NewBatchParser(docSvc, txtOnly, service.BatchConfig{Concurrency: 1}, zap.NewNop())
	report, err := bp.Run(ctx, root, service.ParseOptions{Year: 2025}, nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Items)
	docSvc.AssertNotCalled(t, "ParseFile", mock.Anything, mock.Anything, mock.Anything)
}

func TestBatchParser_InvalidYear(t *testing.T) {
	bp := service.NewBatchParser(new(mocks.MockDocumentService), txtOnly, service.BatchConfig{}, zap.NewNop())
	_, err := bp.Run(context.Background(), t.TempDir(), service.ParseOptions{Year: 3000}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidYear)
}
