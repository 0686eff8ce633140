package extract_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"supplyplan/internal/extract"
)

func TestAgreementNumber(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{"numero sign", "ДОПОЛНИТЕЛЬНОЕ СОГЛАШЕНИЕ № 15\nк договору", "15", true},
		{"glued and composite", "  Дополнительное соглашение №7/2025 к договору", "7/2025", true},
		{"latin No", "ДОПОЛНИТЕЛЬНОЕ СОГЛАШЕНИЕ No 12-А", "12-А", true},
		{"quoted", "ДОПОЛНИТЕЛЬНОЕ СОГЛАШЕНИЕ «3»", "3", true},
		{"later line", "г. Москва\nДОПОЛНИТЕЛЬНОЕ  СОГЛАШЕНИЕ # 4", "4", true},
		{"no number", "ДОПОЛНИТЕЛЬНОЕ СОГЛАШЕНИЕ к договору поставки", "", false},
		{"no header", "Договор поставки № 5", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extract.AgreementNumber(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectYear(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		block         string
		found         bool
		want          int
		wantDefaulted bool
	}{
		{"last year wins", " с 2024 по 2025 год", true, 2025, false},
		{"no year in clause", " план поставок", true, 2026, true},
		{"clause missing", "", false, 2026, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, defaulted := extract.DetectYear(tt.block, tt.found, now)
			assert.Equal(t, tt.want, year)
			assert.Equal(t, tt.wantDefaulted, defaulted)
		})
	}
}
