package textsource

import (
	"context"
	"fmt"
	"os"
	"strings"

	"supplyplan/internal/port"
)

type txtExtractor struct{}

// NewTXTExtractor returns an extractor for plain-text agreements. Lines
// containing ";" are read as rows of one semicolon-separated table.
func NewTXTExtractor() port.TextExtractor {
	return txtExtractor{}
}

func (txtExtractor) Extract(_ context.Context, path string) (*port.ExtractedText, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("txtExtractor.Extract: %w", err)
	}
	text, err := DecodeText(data)
	if err != nil {
		return nil, fmt.Errorf("txtExtractor.Extract decode: %w", err)
	}
	text = normalizeNewlines(text)

	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, ";") {
			continue
		}
		cells := strings.Split(line, ";")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		rows = append(rows, cells)
	}

	out := &port.ExtractedText{Text: text}
	if len(rows) >= 2 {
		out.Tables = [][][]string{rows}
	}
	return out, nil
}
