package port

import "context"

// ExtractedText is the plain text of a source document plus any tables the
// format exposes natively. Tables is nil when the format has none.
type ExtractedText struct {
	Text   string
	Tables [][][]string
}

// TextExtractor converts a source document into text and raw tables.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (*ExtractedText, error)
}
