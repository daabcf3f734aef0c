package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
)

// GoalRepository persists savings goals.
type GoalRepository interface {
	SaveGoal(ctx context.Context, goal domain.Goal) error

	FindGoalByID(ctx context.Context, goalID string) (*domain.Goal, error)

	ListGoals(ctx context.Context, userID string, includeFinished bool) ([]domain.Goal, error)

	UpdateGoal(ctx context.Context, goal domain.Goal) error

	// CancelGoal marks the goal cancelled (goals are never physically removed).
	CancelGoal(ctx context.Context, userID, goalID, updatedBy string, now time.Time) error

	// ApplyContribution debits the funding account and credits the goal in
	// one database transaction, flipping the goal to completed when the
	// target is reached. A non-credit account whose balance would go
	// negative rejects the contribution with ErrValidation. Returns the
	// updated goal and funding account.
	ApplyContribution(ctx context.Context, userID, goalID, accountID string, amount decimal.Decimal, now time.Time) (*domain.Goal, *domain.Account, error)
}
