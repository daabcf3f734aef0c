package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
	portsrepo "github.com/pesoplan/pesoplan_backend/internal/core/ports/repositories"
	"github.com/pesoplan/pesoplan_backend/internal/models"
)

// PgxReportingRepository runs read-only aggregations for the reports API.
type PgxReportingRepository struct {
	BaseRepository
}

func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// MonthlyCashFlow aggregates income and expense per calendar month. Transfers
// move money between the user's own accounts and are excluded.
func (r *PgxReportingRepository) MonthlyCashFlow(ctx context.Context, userID string, from, to time.Time) ([]domain.MonthlySummary, error) {
	query := `
		SELECT to_char(date_trunc('month', occurred_at), 'YYYY-MM') AS month,
		       COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0) AS income,
		       COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0) AS expense
		FROM transactions
		WHERE user_id = $1 AND type <> 'transfer' AND occurred_at >= $2 AND occurred_at <= $3
		GROUP BY 1
		ORDER BY 1;
	`
	rows, err := r.Pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly cash flow for user %s: %w", userID, err)
	}
	defer rows.Close()

	summaries := []domain.MonthlySummary{}
	for rows.Next() {
		var s domain.MonthlySummary
		if err := rows.Scan(&s.Month, &s.Income, &s.Expense); err != nil {
			return nil, fmt.Errorf("failed to scan cash flow row: %w", err)
		}
		s.Net = s.Income.Sub(s.Expense)
		summaries = append(summaries, s)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating cash flow rows: %w", rows.Err())
	}
	return summaries, nil
}

// TotalActiveBalance sums balances across the user's active accounts.
func (r *PgxReportingRepository) TotalActiveBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(balance), 0)
		FROM accounts
		WHERE user_id = $1 AND status = $2;
	`
	var total decimal.Decimal
	err := r.Pool.QueryRow(ctx, query, userID, models.AccountStatus(domain.AccountStatusActive)).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum active balances for user %s: %w", userID, err)
	}
	return total, nil
}
