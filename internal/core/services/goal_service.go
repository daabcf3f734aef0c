package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pesoplan/pesoplan_backend/internal/apperrors"
	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
	portsrepo "github.com/pesoplan/pesoplan_backend/internal/core/ports/repositories"
	portssvc "github.com/pesoplan/pesoplan_backend/internal/core/ports/services"
	"github.com/pesoplan/pesoplan_backend/internal/dto"
	"github.com/pesoplan/pesoplan_backend/internal/utils"
)

// GoalService manages savings goals and their contributions.
type GoalService struct {
	BaseService
	goalRepo    portsrepo.GoalRepository
	accountRepo portsrepo.AccountRepositoryFacade
	auditLogger portssvc.AuditLoggerSvc
}

// NewGoalService creates the goal service.
func NewGoalService(goalRepo portsrepo.GoalRepository, accountRepo portsrepo.AccountRepositoryFacade, auditLogger portssvc.AuditLoggerSvc) *GoalService {
	return &GoalService{
		goalRepo:    goalRepo,
		accountRepo: accountRepo,
		auditLogger: auditLogger,
	}
}

var _ portssvc.GoalSvcFacade = (*GoalService)(nil)

func (s *GoalService) findOwnedGoal(ctx context.Context, userID, goalID string) (*domain.Goal, error) {
	goal, err := s.goalRepo.FindGoalByID(ctx, goalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find goal", slog.String("goal_id", goalID))
		}
		return nil, err
	}
	if goal.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return goal, nil
}

// CreateGoal validates and persists a new savings goal.
func (s *GoalService) CreateGoal(ctx context.Context, userID string, req dto.CreateGoalRequest) (*domain.Goal, error) {
	target := utils.RoundToCentavo(req.TargetAmount)
	if !target.IsPositive() {
		return nil, fmt.Errorf("%w: goal target amount must be positive", apperrors.ErrValidation)
	}

	priority := req.Priority
	if priority == "" {
		priority = domain.GoalPriorityMedium
	}

	now := time.Now().UTC()
	goal := domain.Goal{
		GoalID:       uuid.NewString(),
		UserID:       userID,
		Name:         strings.TrimSpace(req.Name),
		TargetAmount: target,
		TargetDate:   req.TargetDate,
		Priority:     priority,
		Status:       domain.GoalStatusActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.goalRepo.SaveGoal(ctx, goal); err != nil {
		s.LogError(ctx, err, "Failed to save goal", slog.String("goal_id", goal.GoalID))
		return nil, err
	}

	s.LogInfo(ctx, "Goal created", slog.String("goal_id", goal.GoalID))
	return &goal, nil
}

// GetGoalByID retrieves a goal owned by userID.
func (s *GoalService) GetGoalByID(ctx context.Context, userID, goalID string) (*domain.Goal, error) {
	return s.findOwnedGoal(ctx, userID, goalID)
}

// ListGoals retrieves the user's goals, high priority first.
func (s *GoalService) ListGoals(ctx context.Context, userID string, includeFinished bool) ([]domain.Goal, error) {
	goals, err := s.goalRepo.ListGoals(ctx, userID, includeFinished)
	if err != nil {
		s.LogError(ctx, err, "Failed to list goals")
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return goals, nil
}

// UpdateGoal applies a validated patch to an active goal.
func (s *GoalService) UpdateGoal(ctx context.Context, userID, goalID string, req dto.UpdateGoalRequest) (*domain.Goal, error) {
	goal, err := s.findOwnedGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	if goal.Status != domain.GoalStatusActive {
		return nil, fmt.Errorf("%w: goal %s is not active", apperrors.ErrConflict, goalID)
	}

	if req.Name != nil {
		goal.Name = strings.TrimSpace(*req.Name)
	}
	if req.TargetAmount != nil {
		target := utils.RoundToCentavo(*req.TargetAmount)
		if !target.IsPositive() {
			return nil, fmt.Errorf("%w: goal target amount must be positive", apperrors.ErrValidation)
		}
		goal.TargetAmount = target
	}
	if req.TargetDate != nil {
		goal.TargetDate = req.TargetDate
	}
	if req.Priority != nil {
		goal.Priority = *req.Priority
	}
	// Raising the target can reopen progress math; reaching it flips to
	// completed even without a new contribution.
	if goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount) {
		goal.Status = domain.GoalStatusCompleted
	}

	now := time.Now().UTC()
	goal.LastUpdatedAt = now
	goal.LastUpdatedBy = userID

	if err := s.goalRepo.UpdateGoal(ctx, *goal); err != nil {
		s.LogError(ctx, err, "Failed to update goal", slog.String("goal_id", goalID))
		return nil, err
	}
	return goal, nil
}

// CancelGoal marks an active goal cancelled.
func (s *GoalService) CancelGoal(ctx context.Context, userID, goalID string) error {
	if _, err := s.findOwnedGoal(ctx, userID, goalID); err != nil {
		return err
	}
	now := time.Now().UTC()
	if err := s.goalRepo.CancelGoal(ctx, userID, goalID, userID, now); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to cancel goal", slog.String("goal_id", goalID))
		}
		return err
	}
	s.LogInfo(ctx, "Goal cancelled", slog.String("goal_id", goalID))
	return nil
}

// ContributeToGoal moves money from an owned, active account into the goal.
func (s *GoalService) ContributeToGoal(ctx context.Context, userID, goalID string, req dto.ContributeRequest, meta portssvc.RequestMeta) (*domain.Goal, *domain.Account, error) {
	amount := utils.RoundToCentavo(req.Amount)
	if !amount.IsPositive() {
		return nil, nil, fmt.Errorf("%w: contribution amount must be positive", apperrors.ErrValidation)
	}

	if _, err := s.findOwnedGoal(ctx, userID, goalID); err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	goal, account, err := s.goalRepo.ApplyContribution(ctx, userID, goalID, req.AccountID, amount, now)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrValidation) && !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to apply contribution", slog.String("goal_id", goalID))
		}
		return nil, nil, err
	}

	s.LogInfo(ctx, "Goal contribution applied",
		slog.String("goal_id", goalID),
		slog.String("account_id", req.AccountID),
		slog.String("amount", amount.String()),
	)
	s.auditLogger.LogGoalContribution(ctx, userID, *goal, account.Name, amount, meta)
	return goal, account, nil
}
