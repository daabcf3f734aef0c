package utils_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/pesoplan/pesoplan_backend/internal/utils"
)

func TestRoundToCentavo(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"exact two decimals", "100.25", "100.25"},
		{"half rounds away from zero", "100.005", "100.01"},
		{"below half rounds down", "100.004", "100"},
		{"negative half rounds away from zero", "-100.005", "-100.01"},
		{"negative below half rounds toward zero", "-100.004", "-100"},
		{"sub-centavo drift collapses", "0.001", "0"},
		{"integer unchanged", "500", "500"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			input := decimal.RequireFromString(tc.input)
			expected := decimal.RequireFromString(tc.expected)
			assert.True(t, utils.RoundToCentavo(input).Equal(expected),
				"RoundToCentavo(%s) = %s, want %s", tc.input, utils.RoundToCentavo(input), tc.expected)
		})
	}
}

func TestRoundToCentavo_Idempotent(t *testing.T) {
	input := decimal.RequireFromString("123.456789")
	once := utils.RoundToCentavo(input)
	twice := utils.RoundToCentavo(once)
	assert.True(t, once.Equal(twice))
}

func TestFormatCentavo(t *testing.T) {
	assert.Equal(t, "100.00", utils.FormatCentavo(decimal.NewFromInt(100)))
	assert.Equal(t, "0.50", utils.FormatCentavo(decimal.RequireFromString("0.5")))
	assert.Equal(t, "-12.35", utils.FormatCentavo(decimal.RequireFromString("-12.345")))
}
