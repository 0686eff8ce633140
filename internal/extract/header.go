package extract

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

var (
	agreementLine = regexp.MustCompile(`(?i)^\s*дополнительное\s+соглашение\s*(?:№|no\.?|#)?\s*(\S+)`)
	yearToken     = regexp.MustCompile(`20\d{2}`)
)

// Year bounds accepted from the agreement text.
const (
	MinYear = 2000
	MaxYear = 2100
)

// AgreementNumber finds the number in the first line that starts with
// "ДОПОЛНИТЕЛЬНОЕ СОГЛАШЕНИЕ". The token must contain a digit.
func AgreementNumber(text string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		m := agreementLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		num := strings.TrimFunc(m[1], func(r rune) bool {
			return isQuote(r) || unicode.IsSpace(r) || r == ',' || r == ';'
		})
		num = strings.TrimPrefix(num, "№")
		if strings.ContainsFunc(num, unicode.IsDigit) {
			return num, true
		}
		return "", false
	}
	return "", false
}

// DetectYear takes the last 20xx year mentioned in the year clause. When
// none is found or it falls outside [MinYear, MaxYear] the current year is
// returned with defaulted set.
func DetectYear(block string, found bool, now time.Time) (year int, defaulted bool) {
	if found {
		if tokens := yearToken.FindAllString(block, -1); len(tokens) > 0 {
			last := tokens[len(tokens)-1]
			y := int(last[2]-'0')*10 + int(last[3]-'0') + 2000
			if y >= MinYear && y <= MaxYear {
				return y, false
			}
		}
	}
	return now.Year(), true
}
