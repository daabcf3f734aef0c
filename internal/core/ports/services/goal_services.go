package services

import (
	"context"

	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
	"github.com/pesoplan/pesoplan_backend/internal/dto"
)

// GoalSvcFacade manages savings goals and their contributions.
type GoalSvcFacade interface {
	CreateGoal(ctx context.Context, userID string, req dto.CreateGoalRequest) (*domain.Goal, error)

	GetGoalByID(ctx context.Context, userID, goalID string) (*domain.Goal, error)

	ListGoals(ctx context.Context, userID string, includeFinished bool) ([]domain.Goal, error)

	UpdateGoal(ctx context.Context, userID, goalID string, req dto.UpdateGoalRequest) (*domain.Goal, error)

	CancelGoal(ctx context.Context, userID, goalID string) error

	// ContributeToGoal moves money from an owned account into the goal.
	ContributeToGoal(ctx context.Context, userID, goalID string, req dto.ContributeRequest, meta RequestMeta) (*domain.Goal, *domain.Account, error)
}
