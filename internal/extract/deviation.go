package extract

import (
	"regexp"
	"strings"

	"supplyplan/internal/domain"
)

var deviationNumber = regexp.MustCompile(`(\d+(?:[.,]\d+)?)(?:\s?(%|\p{L}+\.?))?`)

// ExtractDeviations returns the numeric tokens of a deviation clause in text
// order, each with its attached percent sign or unit word.
func ExtractDeviations(block string) []string {
	var out []string
	for _, m := range deviationNumber.FindAllStringSubmatch(block, -1) {
		out = append(out, m[1]+unitSuffix(m[2]))
	}
	return out
}

func unitSuffix(unit string) string {
	u := strings.TrimSuffix(strings.ToLower(unit), ".")
	switch {
	case u == "":
		return ""
	case u == "%", strings.HasPrefix(u, "процент"):
		return "%"
	case u == "т", strings.HasPrefix(u, "тонн"):
		return " т"
	case u == "кг", strings.HasPrefix(u, "килограм"):
		return " кг"
	case strings.HasPrefix(u, "шт"):
		return " шт"
	}
	return ""
}

// DistributeDeviations spreads the deviation values over tables plan tables.
// The result always has exactly tables elements.
//
//	no values      - empty deviations and a validation error
//	one value      - the value applies to every table
//	equal counts   - one-to-one
//	more values    - the last tables values, each flagged for manual review
//	fewer values   - the last value is repeated for the remaining tables
func DistributeDeviations(vals []string, tables int) ([]domain.Deviation, []string) {
	if tables < 0 {
		tables = 0
	}
	out := make([]domain.Deviation, tables)
	switch {
	case len(vals) == 0:
		return out, []string{MsgNoDeviation}
	case len(vals) > tables && tables > 0:
		tail := vals[len(vals)-tables:]
		for i := range out {
			out[i] = domain.Deviation{Value: tail[i], ManualReview: true}
		}
		return out, []string{MsgDeviationReview}
	}
	for i := range out {
		if i < len(vals) {
			out[i].Value = vals[i]
		} else {
			out[i].Value = vals[len(vals)-1]
		}
	}
	return out, nil
}
