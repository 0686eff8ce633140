package extract

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultLegalForms are the legal-entity designators that introduce a party name.
var DefaultLegalForms = []string{
	"ООО",
	"АО",
	"ОАО",
	"ПАО",
	"ИП",
	"Общество с ограниченной ответственностью",
	"Акционерное общество",
	"Публичное акционерное общество",
	"Индивидуальный предприниматель",
}

// DefaultExcludedNames are phrases that disqualify a candidate buyer name:
// the supplier's own company and role placeholders.
var DefaultExcludedNames = []string{
	"Холдинг Плюс",
	"«Покупатель»",
	"«Поставщик»",
}

// MaxBuyerNameLength bounds a plausible buyer name, in runes.
const MaxBuyerNameLength = 200

// BuyerExtractor pulls buyer names out of the agreement preamble.
type BuyerExtractor struct {
	span     *regexp.Regexp
	leading  *regexp.Regexp
	excluded []string
}

// NewBuyerExtractor compiles the extractor for the given legal forms and
// exclusion phrases.
func NewBuyerExtractor(legalForms, excluded []string) (*BuyerExtractor, error) {
	forms := make([]string, 0, len(legalForms))
	for _, f := range legalForms {
		if f = strings.TrimSpace(f); f != "" {
			forms = append(forms, regexp.QuoteMeta(f))
		}
	}
	if len(forms) == 0 {
		return nil, errors.New("extract: at least one legal form is required")
	}
	// Longest alternatives first so full forms win over abbreviations.
	sort.SliceStable(forms, func(i, j int) bool { return len(forms[i]) > len(forms[j]) })
	alt := strings.Join(forms, "|")

	span, err := regexp.Compile(`(?i)[^\p{L}](?:` + alt + `)([^\p{L},\n][^,\n]*?)(?:,|\n|именуем|\sв\s+лице|$)`)
	if err != nil {
		return nil, err
	}
	leading, err := regexp.Compile(`(?i)^(?:` + alt + `)(?:[^\p{L}]|$)`)
	if err != nil {
		return nil, err
	}

	ex := make([]string, 0, len(excluded))
	for _, e := range excluded {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			ex = append(ex, e)
		}
	}
	return &BuyerExtractor{span: span, leading: leading, excluded: ex}, nil
}

// Extract returns the buyer names found in preamble in first-seen order.
// An empty result is valid.
func (b *BuyerExtractor) Extract(preamble string) []string {
	text := "\n" + mergeQuotedLines(preamble)

	var buyers []string
	seen := make(map[string]bool)
	// Each search resumes at the terminator of the previous name, so a party
	// starting right after a comma or line break is still matched.
	for pos := 0; pos < len(text); {
		loc := b.span.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		raw := text[pos+loc[2] : pos+loc[3]]
		pos += loc[3]
		if i := strings.LastIndex(raw, "("); i >= 0 {
			raw = raw[i+1:]
		}
		name := b.clean(raw)
		if name == "" || utf8.RuneCountInString(name) > MaxBuyerNameLength {
			continue
		}
		if b.isExcluded(raw) || b.isExcluded(name) {
			continue
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		buyers = append(buyers, name)
	}
	return buyers
}

func (b *BuyerExtractor) clean(s string) string {
	s = trimName(NormalizeCell(s))
	if loc := b.leading.FindStringIndex(s); loc != nil {
		s = trimName(s[loc[1]:])
	}
	return trimName(stripQuotes(s))
}

func (b *BuyerExtractor) isExcluded(s string) bool {
	lower := strings.ToLower(s)
	for _, e := range b.excluded {
		if strings.Contains(lower, e) {
			return true
		}
	}
	return false
}

func trimName(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '_' || r == ')'
	})
}

func isQuote(r rune) bool {
	switch r {
	case '"', '«', '»', '“', '”', '„', '\'':
		return true
	}
	return false
}

// stripQuotes removes quotes wrapping the whole name. Inner quotes such as
// in «Завод «Прогресс»» keep their pair.
func stripQuotes(s string) string {
	trimmed := strings.TrimFunc(s, isQuote)
	if !strings.ContainsFunc(trimmed, isQuote) {
		return trimmed
	}
	first, fs := utf8.DecodeRuneInString(s)
	last, ls := utf8.DecodeLastRuneInString(s)
	if isQuote(first) && isQuote(last) && len(s) > fs+ls {
		return s[fs : len(s)-ls]
	}
	return s
}

// mergeQuotedLines replaces line breaks inside quoted spans with spaces so a
// name wrapped across lines is matched as one.
func mergeQuotedLines(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	depth := 0
	straight := false
	for _, r := range s {
		switch r {
		case '«', '“':
			depth++
		case '»', '”':
			if depth > 0 {
				depth--
			}
		case '"':
			straight = !straight
		case '\n', '\r':
			if depth > 0 || straight {
				r = ' '
			}
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
