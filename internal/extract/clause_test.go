package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"supplyplan/internal/extract"
)

func TestClause(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		start     string
		end       string
		want      string
		wantFound bool
	}{
		{"between markers", "преамбула 1. первый 2. второй", "1.", "2.", " первый ", true},
		{"preamble", "стороны 1. первый", "", "1.", "стороны ", true},
		{"to end of text", "1. первый", "1.", "", " первый", true},
		{"present but empty", "1. 2.", "1.", "2.", " ", true},
		{"missing start", "только текст 2.", "1.", "2.", "", false},
		{"missing end", "1. только начало", "1.", "2.", "", false},
		{"end before start is ignored", "2. ранее 1. текст 2. далее", "1.", "2.", " текст ", true},
		{"dates are not markers", "от 01.02.2025 1. текст 2.", "1.", "2.", " текст ", true},
		{"decimals are not markers", "1. доля 1.5 и 2.5 2. далее", "1.", "2.", " доля 1.5 и 2.5 ", true},
		{"roman markers inside longer numerals", "II. ранее I. текст II. далее", "I.", "II.", " текст ", true},
		{"case insensitive word marker", "Вступление РАЗДЕЛ текст Конец", "раздел", "конец", " текст ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extract.Clause(tt.text, tt.start, tt.end)
			assert.Equal(t, tt.wantFound, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
