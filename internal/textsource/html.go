package textsource

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"supplyplan/internal/port"
)

// blockTags end a line of text when they close.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true, "table": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// cellTags are separated by a tab so table text stays splittable.
var cellTags = map[string]bool{"td": true, "th": true}

type htmlExtractor struct{}

// NewHTMLExtractor returns an extractor for agreements saved as HTML, as Word
// does with "Save as web page". Every <table> becomes a raw table.
func NewHTMLExtractor() port.TextExtractor {
	return htmlExtractor{}
}

func (htmlExtractor) Extract(_ context.Context, path string) (*port.ExtractedText, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("htmlExtractor.Extract: %w", err)
	}
	return ParseHTML(data)
}

// ParseHTML extracts text and tables from an HTML document.
func ParseHTML(data []byte) (*port.ExtractedText, error) {
	src, err := DecodeText(data)
	if err != nil {
		return nil, fmt.Errorf("htmlExtractor decode: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("htmlExtractor parse: %w", err)
	}
	doc.Find("script, style, head").Remove()

	var tables [][][]string
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		var rows [][]string
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var cells []string
			tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, strings.TrimSpace(cell.Text()))
			})
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
		})
		if len(rows) > 0 {
			tables = append(tables, rows)
		}
	})

	var sb strings.Builder
	writeText(&sb, doc.Find("body"))
	if sb.Len() == 0 {
		writeText(&sb, doc.Selection)
	}
	return &port.ExtractedText{Text: cleanLines(sb.String()), Tables: tables}, nil
}

func writeText(sb *strings.Builder, sel *goquery.Selection) {
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		if name == "#text" {
			sb.WriteString(strings.Join(strings.Fields(s.Text()), " "))
			sb.WriteByte(' ')
			return
		}
		writeText(sb, s)
		switch {
		case blockTags[name]:
			sb.WriteByte('\n')
		case cellTags[name]:
			sb.WriteByte('\t')
		}
	})
}

func cleanLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		l = strings.TrimRight(strings.TrimLeft(l, " "), " \t")
		if l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
