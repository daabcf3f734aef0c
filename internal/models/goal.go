package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is the database representation of a savings goal row.
type Goal struct {
	GoalID        string          `db:"goal_id"`
	UserID        string          `db:"user_id"`
	Name          string          `db:"name"`
	TargetAmount  decimal.Decimal `db:"target_amount"`
	CurrentAmount decimal.Decimal `db:"current_amount"`
	TargetDate    *time.Time      `db:"target_date"` // nullable
	Priority      string          `db:"priority"`
	Status        string          `db:"status"`
	AuditFields
}
