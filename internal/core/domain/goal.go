package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalPriority orders goals in the UI.
type GoalPriority string

const (
	GoalPriorityLow    GoalPriority = "low"
	GoalPriorityMedium GoalPriority = "medium"
	GoalPriorityHigh   GoalPriority = "high"
)

// GoalStatus is the lifecycle state of a savings goal.
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusCancelled GoalStatus = "cancelled"
)

// Goal is a savings target funded by contributions drawn from accounts.
// Progress figures (percentage, remaining, overdue) are derived on the way
// out and never persisted.
type Goal struct {
	GoalID        string          `json:"goalID"`
	UserID        string          `json:"userID"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	TargetDate    *time.Time      `json:"targetDate,omitempty"`
	Priority      GoalPriority    `json:"priority"`
	Status        GoalStatus      `json:"status"`
	AuditFields
}

// Percentage returns goal progress in the range [0, 100].
func (g Goal) Percentage() decimal.Decimal {
	if g.TargetAmount.IsZero() {
		return decimal.Zero
	}
	pct := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100))
	hundred := decimal.NewFromInt(100)
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct.Round(CurrencyPrecision)
}

// Remaining returns how much is still needed to reach the target, never negative.
func (g Goal) Remaining() decimal.Decimal {
	rem := g.TargetAmount.Sub(g.CurrentAmount)
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}

// IsOverdue reports whether the target date has passed without completion.
func (g Goal) IsOverdue(now time.Time) bool {
	return g.TargetDate != nil && g.Status == GoalStatusActive && now.After(*g.TargetDate)
}
