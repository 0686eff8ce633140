package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	digitRun   = regexp.MustCompile(`\d+`)
	nonNumeric = regexp.MustCompile(`[^\d,.\-]`)
	fullDate   = regexp.MustCompile(`(?:^|\D)\d{1,2}[./](\d{1,2})[./]\d{4}(?:\D|$)`)
)

// ParseMonth parses the date cell of a plan row. It accepts full month names,
// abbreviations, bare numbers 1-12 (also "03.2025" style) and full
// "dd.mm.yyyy" dates, where the middle component is the month. A 4-digit
// year embedded in the cell must equal year, otherwise the row is rejected.
func ParseMonth(cell string, year int) (int, bool) {
	s := strings.ToLower(strings.TrimSpace(cell))
	if s == "" {
		return 0, false
	}

	runs := digitRun.FindAllString(s, -1)
	for _, r := range runs {
		if isYearToken(r) && r != strconv.Itoa(year) {
			return 0, false
		}
	}

	if m, ok := MonthFromName(s); ok {
		return m, true
	}

	if m := fullDate.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		if n >= 1 && n <= 12 {
			return n, true
		}
		return 0, false
	}

	for _, r := range runs {
		if len(r) > 2 {
			continue
		}
		n, _ := strconv.Atoi(r)
		if n >= 1 && n <= 12 {
			return n, true
		}
	}
	return 0, false
}

func isYearToken(s string) bool {
	return len(s) == 4 && strings.HasPrefix(s, "20")
}

// ParseQuantity parses a numeric cell. Everything except digits, comma, dot
// and minus is dropped and comma is treated as the decimal separator.
// Empty or unparsable cells yield a null quantity.
func ParseQuantity(cell string) decimal.NullDecimal {
	s := nonNumeric.ReplaceAllString(cell, "")
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.Trim(s, ".")
	if s == "" || s == "-" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// NormalizeCell collapses whitespace and line breaks inside a cell.
func NormalizeCell(cell string) string {
	return strings.Join(strings.Fields(cell), " ")
}
