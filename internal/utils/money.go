package utils

import (
	"github.com/shopspring/decimal"

	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
)

// RoundToCentavo rounds a money amount to 2 decimal places, half away from
// zero: 100.005 -> 100.01, 100.004 -> 100.00. Idempotent. Every balance and
// amount is passed through this before persisting so no sub-cent drift can
// accumulate.
func RoundToCentavo(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(domain.CurrencyPrecision)
}

// FormatCentavo renders an amount with exactly 2 decimal places, e.g. for
// CSV export.
func FormatCentavo(amount decimal.Decimal) string {
	return RoundToCentavo(amount).StringFixed(domain.CurrencyPrecision)
}
