package extract_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplyplan/internal/domain"
	"supplyplan/internal/extract"
)

func decs(vals ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vals))
	for i, v := range vals {
		out[i] = decimal.RequireFromString(v)
	}
	return out
}

func TestIsTotalColumn(t *testing.T) {
	tests := []struct {
		name string
		vals []decimal.Decimal
		want bool
	}{
		{"exact total", decs("10", "20", "30"), true},
		{"within tolerance", decs("10.004", "10"), true},
		{"whole values truncated equal", decs("3", "4", "7"), true},
		{"not a total", decs("10", "20", "31"), false},
		{"fractional values differ", decs("10.5", "10.7"), false},
		{"zero sum", decs("0", "0", "0"), false},
		{"single value", decs("100"), false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extract.IsTotalColumn(tt.vals))
		})
	}
}

func TestPlanBuilder_Build(t *testing.T) {
	table := extract.Table{
		{"Месяц", "Цемент", "Щебень (фракция 5-20)", ""},
		{"Январь 2025", "10", "20", "30"},
		{"Февраль", "1,5", "", ""},
		{"Март 2024", "99", "99", ""},
		{"Итого", "11,5", "20", "31,5"},
		{"Апрель", "", "", ""},
		{},
	}

	t.Run("summed", func(t *testing.T) {
		got := extract.PlanBuilder{Mode: domain.PlanModeSummed}.Build(table, 2025, "Альфа", "5%")

		require.Len(t, got, 2)
		assert.Equal(t, 1, got[0].Month)
		assert.Equal(t, "30", got[0].Quantity.Decimal.String())
		assert.Equal(t, 2, got[1].Month)
		assert.Equal(t, "1.5", got[1].Quantity.Decimal.String())
		for _, e := range got {
			assert.Equal(t, 2025, e.Year)
			assert.Equal(t, "Альфа", e.Buyer)
			assert.Equal(t, "5%", e.Deviation)
			assert.True(t, e.Quantity.Valid)
		}
	})

	t.Run("per product", func(t *testing.T) {
		got := extract.PlanBuilder{Mode: domain.PlanModePerProduct}.Build(table, 2025, "", "")

		require.Len(t, got, 3)
		assert.Equal(t, "Цемент", got[0].Product)
		assert.Equal(t, "Щебень", got[1].Product)
		assert.Equal(t, "Цемент", got[2].Product)
		assert.Equal(t, 2, got[2].Month)
	})

	t.Run("missing header falls back to column labels", func(t *testing.T) {
		got := extract.PlanBuilder{Mode: domain.PlanModePerProduct}.Build(extract.Table{
			{},
			{"Май", "7", "8"},
		}, 2025, "", "")

		require.Len(t, got, 2)
		assert.Equal(t, "Продукт 1", got[0].Product)
		assert.Equal(t, "Продукт 2", got[1].Product)
	})

	t.Run("header only", func(t *testing.T) {
		assert.Empty(t, extract.PlanBuilder{}.Build(extract.Table{{"Месяц"}}, 2025, "", ""))
	})
}
