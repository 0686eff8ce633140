package extract

import (
	"regexp"
	"sync"
	"unicode"
	"unicode/utf8"
)

var markerCache sync.Map

func markerPattern(marker string) *regexp.Regexp {
	if re, ok := markerCache.Load(marker); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(marker))
	markerCache.Store(marker, re)
	return re
}

// Clause returns the text strictly between the first occurrence of start and
// the first occurrence of end after it. An empty start means the beginning of
// the text, an empty end means its end. ok is false when a marker is missing,
// which is distinct from a present but empty clause.
//
// Markers do not match inside words or numbers: "01.02.2025" and "2.15"
// contain no "1." or "2." marker, and "II." contains no "I.".
func Clause(text, start, end string) (string, bool) {
	from := 0
	if start != "" {
		_, e, ok := findMarker(text, start, 0)
		if !ok {
			return "", false
		}
		from = e
	}
	to := len(text)
	if end != "" {
		s, _, ok := findMarker(text, end, from)
		if !ok {
			return "", false
		}
		to = s
	}
	return text[from:to], true
}

func findMarker(text, marker string, from int) (start, end int, ok bool) {
	first, _ := utf8.DecodeRuneInString(marker)
	word := unicode.IsLetter(first) || unicode.IsDigit(first)
	for _, loc := range markerPattern(marker).FindAllStringIndex(text[from:], -1) {
		s, e := from+loc[0], from+loc[1]
		if word && s > 0 {
			r, _ := utf8.DecodeLastRuneInString(text[:s])
			if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' {
				continue
			}
		}
		if unicode.IsDigit(first) && e < len(text) {
			r, _ := utf8.DecodeRuneInString(text[e:])
			if unicode.IsDigit(r) {
				continue
			}
		}
		return s, e, true
	}
	return 0, 0, false
}
