package dto

import (
	"github.com/shopspring/decimal"

	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
)

// SummaryParams defines query parameters for the cash flow report.
type SummaryParams struct {
	From *string `form:"from"` // RFC3339; defaults to 6 months back
	To   *string `form:"to"`   // RFC3339; defaults to now
}

// SummaryResponse is the cash flow report wire form.
type SummaryResponse struct {
	Months       []domain.MonthlySummary `json:"months"`
	TotalBalance decimal.Decimal         `json:"totalBalance"`
	Currency     string                  `json:"currency"`
}
