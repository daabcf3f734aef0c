package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
)

// CreateGoalRequest defines the data needed to create a savings goal.
type CreateGoalRequest struct {
	Name         string              `json:"name" binding:"required,min=2,max=100"`
	TargetAmount decimal.Decimal     `json:"targetAmount" binding:"required"`
	TargetDate   *time.Time          `json:"targetDate"`
	Priority     domain.GoalPriority `json:"priority" binding:"omitempty,oneof=low medium high"`
}

// UpdateGoalRequest defines the patch for editing a goal.
type UpdateGoalRequest struct {
	Name         *string              `json:"name" binding:"omitempty,min=2,max=100"`
	TargetAmount *decimal.Decimal     `json:"targetAmount"`
	TargetDate   *time.Time           `json:"targetDate"`
	Priority     *domain.GoalPriority `json:"priority" binding:"omitempty,oneof=low medium high"`
}

// ContributeRequest moves money from an account into a goal.
type ContributeRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// GoalResponse is the wire form of a goal, with progress figures derived
// from the raw fields at response time.
type GoalResponse struct {
	GoalID        string              `json:"goalID"`
	Name          string              `json:"name"`
	TargetAmount  decimal.Decimal     `json:"targetAmount"`
	CurrentAmount decimal.Decimal     `json:"currentAmount"`
	TargetDate    *time.Time          `json:"targetDate,omitempty"`
	Priority      domain.GoalPriority `json:"priority"`
	Status        domain.GoalStatus   `json:"status"`
	Percentage    decimal.Decimal     `json:"percentage"`
	Remaining     decimal.Decimal     `json:"remaining"`
	IsOverdue     bool                `json:"isOverdue"`
	CreatedAt     time.Time           `json:"createdAt"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
}

// ToGoalResponse converts a domain.Goal to its wire form.
func ToGoalResponse(g *domain.Goal) GoalResponse {
	return GoalResponse{
		GoalID:        g.GoalID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		TargetDate:    g.TargetDate,
		Priority:      g.Priority,
		Status:        g.Status,
		Percentage:    g.Percentage(),
		Remaining:     g.Remaining(),
		IsOverdue:     g.IsOverdue(time.Now()),
		CreatedAt:     g.CreatedAt,
		LastUpdatedAt: g.LastUpdatedAt,
	}
}

// ToListGoalResponse converts a slice of goals.
func ToListGoalResponse(goals []domain.Goal) []GoalResponse {
	res := make([]GoalResponse, len(goals))
	for i, g := range goals {
		res[i] = ToGoalResponse(&g)
	}
	return res
}

// ContributeResponse returns the updated goal and funding account.
type ContributeResponse struct {
	Goal    GoalResponse    `json:"goal"`
	Account AccountResponse `json:"account"`
}
