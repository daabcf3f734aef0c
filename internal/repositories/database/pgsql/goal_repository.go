package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pesoplan/pesoplan_backend/internal/apperrors"
	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
	portsrepo "github.com/pesoplan/pesoplan_backend/internal/core/ports/repositories"
	"github.com/pesoplan/pesoplan_backend/internal/models"
	"github.com/pesoplan/pesoplan_backend/internal/utils/mapping"
)

const goalColumns = `goal_id, user_id, name, target_amount, current_amount, target_date, priority, status, created_at, created_by, last_updated_at, last_updated_by`

// PgxGoalRepository persists savings goals.
type PgxGoalRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

func newPgxGoalRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.GoalRepository {
	return &PgxGoalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.GoalRepository = (*PgxGoalRepository)(nil)

func scanGoal(row rowScanner) (models.Goal, error) {
	var m models.Goal
	var targetDate sql.NullTime
	err := row.Scan(
		&m.GoalID,
		&m.UserID,
		&m.Name,
		&m.TargetAmount,
		&m.CurrentAmount,
		&targetDate,
		&m.Priority,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.Goal{}, err
	}
	if targetDate.Valid {
		t := targetDate.Time
		m.TargetDate = &t
	}
	return m, nil
}

// SaveGoal inserts a new goal.
func (r *PgxGoalRepository) SaveGoal(ctx context.Context, goal domain.Goal) error {
	m := mapping.ToModelGoal(goal)

	query := `
		INSERT INTO goals (` + goalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.GoalID,
		m.UserID,
		m.Name,
		m.TargetAmount,
		m.CurrentAmount,
		m.TargetDate,
		m.Priority,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: goal with ID %s already exists", apperrors.ErrDuplicate, m.GoalID)
		}
		return fmt.Errorf("failed to save goal %s: %w", m.GoalID, err)
	}
	return nil
}

// FindGoalByID retrieves a goal by ID.
func (r *PgxGoalRepository) FindGoalByID(ctx context.Context, goalID string) (*domain.Goal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM goals
		WHERE goal_id = $1;
	`
	m, err := scanGoal(r.Pool.QueryRow(ctx, query, goalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find goal by ID %s: %w", goalID, err)
	}
	goal := mapping.ToDomainGoal(m)
	return &goal, nil
}

// ListGoals retrieves the user's goals, high priority first. Completed and
// cancelled goals appear only when includeFinished is set.
func (r *PgxGoalRepository) ListGoals(ctx context.Context, userID string, includeFinished bool) ([]domain.Goal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM goals
		WHERE user_id = $1 AND (status = $2 OR $3)
		ORDER BY CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, created_at, goal_id;
	`
	rows, err := r.Pool.Query(ctx, query, userID, string(domain.GoalStatusActive), includeFinished)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals for user %s: %w", userID, err)
	}
	defer rows.Close()

	goals := []domain.Goal{}
	for rows.Next() {
		m, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal row for user %s: %w", userID, err)
		}
		goals = append(goals, mapping.ToDomainGoal(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating goal rows for user %s: %w", userID, rows.Err())
	}
	return goals, nil
}

// UpdateGoal replaces the mutable fields of a goal.
func (r *PgxGoalRepository) UpdateGoal(ctx context.Context, goal domain.Goal) error {
	m := mapping.ToModelGoal(goal)

	query := `
		UPDATE goals
		SET name = $2, target_amount = $3, current_amount = $4, target_date = $5, priority = $6, status = $7, last_updated_at = $8, last_updated_by = $9
		WHERE goal_id = $1 AND user_id = $10;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.GoalID,
		m.Name,
		m.TargetAmount,
		m.CurrentAmount,
		m.TargetDate,
		m.Priority,
		m.Status,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update goal %s: %w", m.GoalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CancelGoal marks the goal cancelled. Already-finished goals are rejected.
func (r *PgxGoalRepository) CancelGoal(ctx context.Context, userID, goalID, updatedBy string, now time.Time) error {
	query := `
		UPDATE goals
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE goal_id = $1 AND user_id = $2 AND status = $6;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		goalID,
		userID,
		string(domain.GoalStatusCancelled),
		now,
		updatedBy,
		string(domain.GoalStatusActive),
	)
	if err != nil {
		return fmt.Errorf("failed to cancel goal %s: %w", goalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindGoalByID(ctx, goalID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("%w: goal %s is not active", apperrors.ErrConflict, goalID)
	}
	return nil
}

// ApplyContribution debits the funding account and credits the goal in one
// database transaction. Non-credit accounts cannot be overdrawn by a
// contribution. The goal flips to completed when the target amount is
// reached.
func (r *PgxGoalRepository) ApplyContribution(ctx context.Context, userID, goalID, accountID string, amount decimal.Decimal, now time.Time) (*domain.Goal, *domain.Account, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck

	goalQuery := `
		SELECT ` + goalColumns + `
		FROM goals
		WHERE goal_id = $1 AND user_id = $2
		FOR UPDATE;
	`
	m, err := scanGoal(tx.QueryRow(ctx, goalQuery, goalID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to load goal %s for contribution: %w", goalID, err)
	}
	if m.Status != string(domain.GoalStatusActive) {
		return nil, nil, fmt.Errorf("%w: goal %s is not active", apperrors.ErrConflict, goalID)
	}

	lockedAccounts, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, []string{accountID})
	if err != nil {
		return nil, nil, err
	}
	acc := lockedAccounts[accountID]
	if acc.UserID != userID {
		return nil, nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	if !acc.IsActive() {
		return nil, nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, accountID)
	}
	if !acc.IsCredit() && acc.Balance.LessThan(amount) {
		return nil, nil, fmt.Errorf("%w: account %s has insufficient funds for this contribution", apperrors.ErrValidation, accountID)
	}

	newCurrent := m.CurrentAmount.Add(amount)
	status := m.Status
	if newCurrent.GreaterThanOrEqual(m.TargetAmount) {
		status = string(domain.GoalStatusCompleted)
	}
	updateQuery := `
		UPDATE goals
		SET current_amount = $2, status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE goal_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery, goalID, newCurrent, status, now, userID); err != nil {
		return nil, nil, fmt.Errorf("failed to apply contribution to goal %s: %w", goalID, err)
	}

	balanceChanges := map[string]decimal.Decimal{accountID: amount.Neg()}
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, userID, now); err != nil {
		return nil, nil, err
	}

	updatedAccounts, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, []string{accountID})
	if err != nil {
		return nil, nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}

	m.CurrentAmount = newCurrent
	m.Status = status
	m.LastUpdatedAt = now
	m.LastUpdatedBy = userID
	goal := mapping.ToDomainGoal(m)
	updatedAcc := updatedAccounts[accountID]
	return &goal, &updatedAcc, nil
}
