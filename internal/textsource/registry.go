// Package textsource turns source documents into plain text and raw tables
// for the extraction engine.
package textsource

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"supplyplan/internal/domain"
	"supplyplan/internal/port"
)

// Registry dispatches extraction by file extension.
type Registry struct {
	byExt map[string]port.TextExtractor
}

// NewRegistry returns a registry with the built-in extractors. Only the
// extensions listed in allowed are enabled; an empty list enables all.
func NewRegistry(allowed []string) *Registry {
	builtin := map[domain.FileType]port.TextExtractor{
		domain.FileTypeTXT:  NewTXTExtractor(),
		domain.FileTypeHTML: NewHTMLExtractor(),
		domain.FileTypePDF:  NewPDFExtractor(),
	}
	enabled := make(map[string]bool)
	for _, ext := range allowed {
		enabled[normalizeExt(ext)] = true
	}

	r := &Registry{byExt: make(map[string]port.TextExtractor)}
	for ext, ft := range domain.AllowedExtensions {
		if len(enabled) > 0 && !enabled[ext] {
			continue
		}
		r.byExt[ext] = builtin[ft]
	}
	return r
}

// Register adds or replaces the extractor for ext.
func (r *Registry) Register(ext string, e port.TextExtractor) {
	r.byExt[normalizeExt(ext)] = e
}

// Supports reports whether path has an enabled extension.
func (r *Registry) Supports(path string) bool {
	_, ok := r.byExt[normalizeExt(filepath.Ext(path))]
	return ok
}

// Extensions returns the enabled extensions, sorted, without dots.
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Extract implements port.TextExtractor.
func (r *Registry) Extract(ctx context.Context, path string) (*port.ExtractedText, error) {
	ext := normalizeExt(filepath.Ext(path))
	e, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFileType, ext)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.Extract(ctx, path)
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
