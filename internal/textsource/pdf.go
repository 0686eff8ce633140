package textsource

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"supplyplan/internal/port"
)

// rowTolerance is the vertical distance under which glyphs share a line.
const rowTolerance = 2.0

type pdfExtractor struct{}

// NewPDFExtractor returns an extractor for text-layer PDFs. Lines are rebuilt
// from glyph positions; wide horizontal gaps become double spaces so table
// columns survive as text. No raw tables are produced.
func NewPDFExtractor() port.TextExtractor {
	return pdfExtractor{}
}

type pdfLine struct {
	y     float64
	texts []pdf.Text
}

func (pdfExtractor) Extract(ctx context.Context, path string) (*port.ExtractedText, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pdfExtractor.Extract: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, line := range groupLines(p.Content().Text) {
			sb.WriteString(joinLine(line.texts))
			sb.WriteByte('\n')
		}
	}
	return &port.ExtractedText{Text: cleanLines(sb.String())}, nil
}

func groupLines(texts []pdf.Text) []pdfLine {
	var lines []pdfLine
	for _, t := range texts {
		placed := false
		for i := range lines {
			if math.Abs(lines[i].y-t.Y) < rowTolerance {
				lines[i].texts = append(lines[i].texts, t)
				placed = true
				break
			}
		}
		if !placed {
			lines = append(lines, pdfLine{y: t.Y, texts: []pdf.Text{t}})
		}
	}
	// PDF y grows upwards.
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].y > lines[j].y })
	for _, l := range lines {
		sort.SliceStable(l.texts, func(i, j int) bool { return l.texts[i].X < l.texts[j].X })
	}
	return lines
}

func joinLine(texts []pdf.Text) string {
	var sb strings.Builder
	prevEnd := math.NaN()
	for _, t := range texts {
		if !math.IsNaN(prevEnd) {
			gap := t.X - prevEnd
			switch {
			case gap > 2*math.Max(t.FontSize, 1):
				sb.WriteString("  ")
			case gap > 0.25*math.Max(t.FontSize, 1):
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(t.S)
		prevEnd = t.X + t.W
	}
	return strings.Join(strings.FieldsFunc(sb.String(), func(r rune) bool { return r == '\n' }), " ")
}
