package domain

import "github.com/shopspring/decimal"

// MonthlySummary aggregates cash flow for one calendar month.
type MonthlySummary struct {
	Month   string          `json:"month"` // "2026-08"
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// CashFlowReport is the per-month breakdown plus the current total balance
// across the user's active accounts.
type CashFlowReport struct {
	Months       []MonthlySummary `json:"months"`
	TotalBalance decimal.Decimal  `json:"totalBalance"`
}
