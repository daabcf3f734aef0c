package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
)

// ReportingRepository runs read-only aggregations for the reports API.
type ReportingRepository interface {
	// MonthlyCashFlow aggregates income and expense per calendar month over
	// the given range.
	MonthlyCashFlow(ctx context.Context, userID string, from, to time.Time) ([]domain.MonthlySummary, error)

	// TotalActiveBalance sums balances across the user's active accounts.
	TotalActiveBalance(ctx context.Context, userID string) (decimal.Decimal, error)
}
