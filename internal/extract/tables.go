package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// Table is a grid of cells. Row 0 is the header row.
type Table [][]string

// Header returns the header row, or nil for an empty table.
func (t Table) Header() []string {
	if len(t) == 0 {
		return nil
	}
	return t[0]
}

var cellSeparator = regexp.MustCompile(`[|\t;]+|\s{2,}`)

// NormalizeTables prepares raw tables supplied by the text collaborator.
// Tables with fewer than two rows are dropped, cells are whitespace-collapsed
// and rows are padded to the widest row.
func NormalizeTables(raw [][][]string) []Table {
	var out []Table
	for _, rt := range raw {
		if len(rt) < 2 {
			continue
		}
		t := make(Table, len(rt))
		for i, row := range rt {
			cells := make([]string, len(row))
			for j, c := range row {
				cells[j] = NormalizeCell(c)
			}
			t[i] = cells
		}
		out = append(out, pad(t))
	}
	return out
}

// TablesFromText recovers a plan table from plain text. Lines that carry
// digits or a month name and split into at least two cells are table rows.
// The first non-table line after the first table row ends the table; the
// non-empty line right before the first row becomes the header.
func TablesFromText(block string) []Table {
	var (
		header  []string
		rows    [][]string
		started bool
		prev    string
	)
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cells := SplitCells(line)
		if isTableRow(line, cells) {
			if !started {
				started = true
				if prev != "" {
					header = SplitCells(prev)
				}
			}
			rows = append(rows, cells)
			continue
		}
		if started {
			break
		}
		prev = line
	}
	if len(rows) == 0 {
		return nil
	}
	if header == nil {
		header = []string{}
	}
	t := append(Table{header}, rows...)
	return []Table{pad(t)}
}

// SplitCells splits a text line into cells on pipes, tabs, semicolons and
// runs of two or more spaces. Empty cells are dropped.
func SplitCells(line string) []string {
	var cells []string
	for _, c := range cellSeparator.Split(line, -1) {
		if c = NormalizeCell(c); c != "" {
			cells = append(cells, c)
		}
	}
	return cells
}

func isTableRow(line string, cells []string) bool {
	if len(cells) < 2 {
		return false
	}
	return strings.ContainsFunc(line, unicode.IsDigit) || hasFullMonthName(line)
}

func pad(t Table) Table {
	width := 0
	for _, row := range t {
		if len(row) > width {
			width = len(row)
		}
	}
	for i, row := range t {
		for len(row) < width {
			row = append(row, "")
		}
		t[i] = row
	}
	return t
}
