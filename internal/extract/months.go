package extract

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

// monthForms lists nominative, genitive and prepositional month names.
var monthForms = [12][]string{
	{"январь", "января", "январе", "january"},
	{"февраль", "февраля", "феврале", "february"},
	{"март", "марта", "марте", "march"},
	{"апрель", "апреля", "апреле", "april"},
	{"май", "мая", "мае", "may"},
	{"июнь", "июня", "июне", "june"},
	{"июль", "июля", "июле", "july"},
	{"август", "августа", "августе", "august"},
	{"сентябрь", "сентября", "сентябре", "september"},
	{"октябрь", "октября", "октябре", "october"},
	{"ноябрь", "ноября", "ноябре", "november"},
	{"декабрь", "декабря", "декабре", "december"},
}

// monthAbbrevs are matched as token prefixes ("янв.", "Сент", "dec").
var monthAbbrevs = [12][]string{
	{"янв", "jan"},
	{"фев", "feb"},
	{"мар", "mar"},
	{"апр", "apr"},
	{"май", "may"},
	{"июн", "jun"},
	{"июл", "jul"},
	{"авг", "aug"},
	{"сен", "sep"},
	{"окт", "oct"},
	{"ноя", "nov"},
	{"дек", "dec"},
}

var monthStems = buildMonthStems()

func buildMonthStems() map[string]int {
	stems := make(map[string]int)
	for i, forms := range monthForms {
		for _, f := range forms {
			stems[f] = i + 1
			stems[stem(f)] = i + 1
		}
	}
	return stems
}

func stem(word string) string {
	s, err := snowball.Stem(word, "russian", true)
	if err != nil || s == "" {
		return word
	}
	return s
}

func letterTokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

func monthFromFullName(tokens []string) (int, bool) {
	for _, tok := range tokens {
		if m, ok := monthStems[tok]; ok {
			return m, true
		}
		if m, ok := monthStems[stem(tok)]; ok {
			return m, true
		}
	}
	return 0, false
}

// hasFullMonthName reports whether s mentions a month by its full name.
func hasFullMonthName(s string) bool {
	_, ok := monthFromFullName(letterTokens(s))
	return ok
}

// MonthFromName recognizes a month written as a full name or an abbreviation.
func MonthFromName(s string) (int, bool) {
	tokens := letterTokens(s)
	if m, ok := monthFromFullName(tokens); ok {
		return m, true
	}
	for _, tok := range tokens {
		for i, abbrevs := range monthAbbrevs {
			for _, a := range abbrevs {
				if strings.HasPrefix(tok, a) {
					return i + 1, true
				}
			}
		}
	}
	return 0, false
}
