package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"supplyplan/internal/domain"
)

// totalTolerance is the absolute difference under which the last numeric
// column is taken as the row total.
var totalTolerance = decimal.RequireFromString("0.01")

var (
	parenthetical = regexp.MustCompile(`\([^)]*\)`)
	tonnesWord    = regexp.MustCompile(`(?i)тонн\p{L}*`)
	tonnesAbbrev  = regexp.MustCompile(`(?i)(^|[\s,])т\.?(\s|$)`)
)

// PlanBuilder turns a plan table into monthly entries.
type PlanBuilder struct {
	Mode domain.PlanMode
}

type numericCell struct {
	col   int
	value decimal.Decimal
}

// Build converts the data rows of t into plan entries for year. Rows whose
// first cell is not a month of year are skipped.
func (b PlanBuilder) Build(t Table, year int, buyer, deviation string) []domain.PlanEntry {
	if len(t) < 2 {
		return nil
	}
	header := t.Header()

	var out []domain.PlanEntry
	for _, row := range t[1:] {
		if len(row) == 0 {
			continue
		}
		month, ok := ParseMonth(row[0], year)
		if !ok || month < 1 || month > 12 {
			continue
		}

		var cells []numericCell
		for j := 1; j < len(row); j++ {
			if q := ParseQuantity(row[j]); q.Valid {
				cells = append(cells, numericCell{col: j, value: q.Decimal})
			}
		}
		if IsTotalColumn(values(cells)) {
			cells = cells[:len(cells)-1]
		}
		if len(cells) == 0 {
			continue
		}

		entry := domain.PlanEntry{Month: month, Year: year, Buyer: buyer, Deviation: deviation}
		if b.Mode == domain.PlanModePerProduct {
			for _, c := range cells {
				e := entry
				e.Quantity = decimal.NewNullDecimal(c.value)
				e.Product = productLabel(header, c.col)
				out = append(out, e)
			}
			continue
		}
		sum := decimal.Zero
		for _, c := range cells {
			sum = sum.Add(c.value)
		}
		entry.Quantity = decimal.NewNullDecimal(sum)
		out = append(out, entry)
	}
	return out
}

// IsTotalColumn reports whether the last value of a row duplicates the sum of
// the others: the sum is non-zero and either differs by less than 0.01 or all
// values are whole and the truncated sums agree.
func IsTotalColumn(vals []decimal.Decimal) bool {
	if len(vals) < 2 {
		return false
	}
	last := vals[len(vals)-1]
	sum := decimal.Zero
	for _, v := range vals[:len(vals)-1] {
		sum = sum.Add(v)
	}
	if sum.IsZero() {
		return false
	}
	if sum.Sub(last).Abs().LessThan(totalTolerance) {
		return true
	}
	for _, v := range vals {
		if !v.Equal(v.Truncate(0)) {
			return false
		}
	}
	return sum.IntPart() == last.IntPart()
}

func values(cells []numericCell) []decimal.Decimal {
	out := make([]decimal.Decimal, len(cells))
	for i, c := range cells {
		out[i] = c.value
	}
	return out
}

func productLabel(header []string, col int) string {
	if col < len(header) {
		s := parenthetical.ReplaceAllString(header[col], " ")
		s = tonnesWord.ReplaceAllString(s, " ")
		s = tonnesAbbrev.ReplaceAllString(s, "$1$2")
		s = strings.Trim(NormalizeCell(s), " ,.;:")
		if s != "" {
			return s
		}
	}
	return fmt.Sprintf("Продукт %d", col)
}
