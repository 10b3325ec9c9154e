package currencyutils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "1234.56", "1234.56"},
		{"negative", "-1234.56", "-1234.56"},
		{"rand prefix", "R 1,234.56", "1234.56"},
		{"zar code", "ZAR 500.00", "500.00"},
		{"swiss apostrophes", "CHF 1'234.56", "1234.56"},
		{"euro symbol european format", "€1.234,56", "1234.56"},
		{"dollar thousands", "$12,345.00", "12345.00"},
		{"comma decimal separator", "1234,56", "1234.56"},
		{"comma thousands only", "12,345", "12345.00"},
		{"parentheses stripped not negated", "(500.00)", "500.00"},
		{"whitespace", "  42.00  ", "42.00"},
		{"garbage yields zero", "garbage", "0.00"},
		{"empty yields zero", "", "0.00"},
		{"symbols only yields zero", "R", "0.00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeAmount(tc.input).StringFixed(2))
		})
	}
}

func TestStandardize(t *testing.T) {
	assert.Equal(t, "1234.56", Standardize("R 1,234.56"))
	assert.Equal(t, "1234.56", Standardize("1.234,56"))
	assert.Equal(t, "500.00", Standardize("(500.00)"))
}

func TestFormatFixed(t *testing.T) {
	assert.Equal(t, "15000.00", FormatFixed(decimal.NewFromInt(15000)))
	assert.Equal(t, "0.10", FormatFixed(decimal.RequireFromString("0.1")))
}

func TestIsNegative(t *testing.T) {
	assert.True(t, IsNegative(decimal.NewFromInt(-1)))
	assert.False(t, IsNegative(decimal.Zero))
	assert.False(t, IsNegative(decimal.NewFromInt(1)))
}
