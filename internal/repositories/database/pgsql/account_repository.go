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
	"github.com/pesoplan/pesoplan_backend/internal/utils"
	"github.com/pesoplan/pesoplan_backend/internal/utils/mapping"
)

const accountColumns = `account_id, user_id, name, account_type, balance, currency, color, is_default, status, institution_name, description, created_at, created_by, last_updated_at, last_updated_by`

// PgxAccountRepository persists accounts and enforces the single-default
// invariant at the storage layer. Every write that can move the default flag
// runs inside one transaction that first locks the user's account rows, so a
// reader can never observe zero or two defaults among active accounts.
type PgxAccountRepository struct {
	BaseRepository
}

func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryWithTx {
	return &PgxAccountRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryWithTx = (*PgxAccountRepository)(nil)

// rowScanner covers pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (models.Account, error) {
	var m models.Account
	var institution, description sql.NullString
	err := row.Scan(
		&m.AccountID,
		&m.UserID,
		&m.Name,
		&m.AccountType,
		&m.Balance,
		&m.Currency,
		&m.Color,
		&m.IsDefault,
		&m.Status,
		&institution,
		&description,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.Account{}, err
	}
	m.InstitutionName = institution.String
	m.Description = description.String
	return m, nil
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// lockUserAccounts takes row locks on every account the user owns. All
// default-flag writers go through this first, which serializes them per user.
func (r *PgxAccountRepository) lockUserAccounts(ctx context.Context, tx pgx.Tx, userID string) error {
	query := `
		SELECT account_id FROM accounts
		WHERE user_id = $1
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to lock accounts for user %s: %w", userID, err)
	}
	rows.Close()
	return rows.Err()
}

func (r *PgxAccountRepository) clearDefaultFlag(ctx context.Context, tx pgx.Tx, userID, updatedBy string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_default = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE user_id = $1 AND is_default = TRUE;
	`
	if _, err := tx.Exec(ctx, query, userID, now, updatedBy); err != nil {
		return fmt.Errorf("failed to clear default flag for user %s: %w", userID, err)
	}
	return nil
}

// oldestActiveAccountID returns the promotion candidate: the earliest-created
// active account, with account_id as the tiebreaker. Accounts listed in
// excludeID are skipped.
func (r *PgxAccountRepository) oldestActiveAccountID(ctx context.Context, tx pgx.Tx, userID string, excludeID string) (*string, error) {
	query := `
		SELECT account_id FROM accounts
		WHERE user_id = $1 AND status = $2 AND account_id <> $3
		ORDER BY created_at, account_id
		LIMIT 1;
	`
	var accountID string
	err := tx.QueryRow(ctx, query, userID, models.AccountStatus(domain.AccountStatusActive), excludeID).Scan(&accountID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find promotion candidate for user %s: %w", userID, err)
	}
	return &accountID, nil
}

// SaveAccount inserts a new account. When the account is flagged default, any
// current default of the same user is demoted in the same transaction.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck

	if err := r.lockUserAccounts(ctx, tx, m.UserID); err != nil {
		return err
	}

	if m.IsDefault {
		if err := r.clearDefaultFlag(ctx, tx, m.UserID, m.CreatedBy, m.CreatedAt); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err = tx.Exec(ctx, query,
		m.AccountID,
		m.UserID,
		m.Name,
		m.AccountType,
		m.Balance,
		m.Currency,
		m.Color,
		m.IsDefault,
		m.Status,
		nullIfEmpty(m.InstitutionName),
		nullIfEmpty(m.Description),
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, m.AccountID)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}

	return r.Commit(ctx, tx)
}

// FindAccountByID retrieves an account by its ID regardless of status.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = $1;
	`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// ListAccounts retrieves the user's accounts in creation order. Inactive
// accounts appear only when includeInactive is set.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, userID string, includeInactive bool) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1 AND (status = $2 OR $3)
		ORDER BY created_at, account_id;
	`
	rows, err := r.Pool.Query(ctx, query, userID, models.AccountStatus(domain.AccountStatusActive), includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for user %s: %w", userID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row for user %s: %w", userID, err)
		}
		accounts = append(accounts, mapping.ToDomainAccount(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating account rows for user %s: %w", userID, rows.Err())
	}
	return accounts, nil
}

// UpdateAccount replaces the mutable fields of an account. Promotion to
// default demotes the current default in the same transaction.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck

	if err := r.lockUserAccounts(ctx, tx, m.UserID); err != nil {
		return err
	}

	if m.IsDefault {
		if err := r.clearDefaultFlag(ctx, tx, m.UserID, m.LastUpdatedBy, m.LastUpdatedAt); err != nil {
			return err
		}
	}

	query := `
		UPDATE accounts
		SET name = $2, account_type = $3, balance = $4, color = $5, is_default = $6, institution_name = $7, description = $8, last_updated_at = $9, last_updated_by = $10
		WHERE account_id = $1 AND user_id = $11;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.AccountID,
		m.Name,
		m.AccountType,
		m.Balance,
		m.Color,
		m.IsDefault,
		nullIfEmpty(m.InstitutionName),
		nullIfEmpty(m.Description),
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update account %s: %w", m.AccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

// DeactivateAccount soft-deletes the account. The user's last active account
// cannot be deleted. If the victim held the default flag, the oldest remaining
// active account is promoted in the same transaction and its ID is returned.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, userID, accountID, updatedBy string, now time.Time) (*string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck

	if err := r.lockUserAccounts(ctx, tx, userID); err != nil {
		return nil, err
	}

	var wasDefault bool
	selectQuery := `
		SELECT is_default FROM accounts
		WHERE account_id = $1 AND user_id = $2 AND status = $3;
	`
	err = tx.QueryRow(ctx, selectQuery, accountID, userID, models.AccountStatus(domain.AccountStatusActive)).Scan(&wasDefault)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load account %s for deactivation: %w", accountID, err)
	}

	// Re-checked under the row locks so concurrent deletes cannot both pass
	// the service-level guard and leave the user with no active accounts.
	var activeCount int
	countQuery := `
		SELECT COUNT(*) FROM accounts
		WHERE user_id = $1 AND status = $2;
	`
	if err := tx.QueryRow(ctx, countQuery, userID, models.AccountStatus(domain.AccountStatusActive)).Scan(&activeCount); err != nil {
		return nil, fmt.Errorf("failed to count active accounts for user %s: %w", userID, err)
	}
	if activeCount <= 1 {
		return nil, fmt.Errorf("%w: cannot delete the last active account", apperrors.ErrConflict)
	}

	updateQuery := `
		UPDATE accounts
		SET status = $3, is_default = FALSE, last_updated_at = $4, last_updated_by = $5
		WHERE account_id = $1 AND user_id = $2;
	`
	if _, err := tx.Exec(ctx, updateQuery, accountID, userID, models.AccountStatus(domain.AccountStatusInactive), now, updatedBy); err != nil {
		return nil, fmt.Errorf("failed to deactivate account %s: %w", accountID, err)
	}

	var promotedID *string
	if wasDefault {
		promotedID, err = r.oldestActiveAccountID(ctx, tx, userID, accountID)
		if err != nil {
			return nil, err
		}
		if promotedID != nil {
			if err := r.setDefaultFlagInTx(ctx, tx, userID, *promotedID, updatedBy, now); err != nil {
				return nil, err
			}
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return promotedID, nil
}

func (r *PgxAccountRepository) setDefaultFlagInTx(ctx context.Context, tx pgx.Tx, userID, accountID, updatedBy string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_default = TRUE, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1 AND user_id = $2 AND status = $5;
	`
	cmdTag, err := tx.Exec(ctx, query, accountID, userID, now, updatedBy, models.AccountStatus(domain.AccountStatusActive))
	if err != nil {
		return fmt.Errorf("failed to set default flag on account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetDefaultAccount atomically moves the default flag to the target account.
// Setting the flag on the account that already holds it is a no-op that still
// succeeds.
func (r *PgxAccountRepository) SetDefaultAccount(ctx context.Context, userID, accountID, updatedBy string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck

	if err := r.lockUserAccounts(ctx, tx, userID); err != nil {
		return err
	}
	if err := r.clearDefaultFlag(ctx, tx, userID, updatedBy, now); err != nil {
		return err
	}
	if err := r.setDefaultFlagInTx(ctx, tx, userID, accountID, updatedBy, now); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// EnsureDefaultAccount repairs the default flag for a user: when active
// accounts exist but none is default, the oldest active one is promoted.
// Returns the resulting default's ID, or nil when the user has no active
// accounts.
func (r *PgxAccountRepository) EnsureDefaultAccount(ctx context.Context, userID, updatedBy string, now time.Time) (*string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck

	if err := r.lockUserAccounts(ctx, tx, userID); err != nil {
		return nil, err
	}

	query := `
		SELECT account_id FROM accounts
		WHERE user_id = $1 AND status = $2 AND is_default = TRUE
		LIMIT 1;
	`
	var currentDefault string
	err = tx.QueryRow(ctx, query, userID, models.AccountStatus(domain.AccountStatusActive)).Scan(&currentDefault)
	if err == nil {
		if err := r.Commit(ctx, tx); err != nil {
			return nil, err
		}
		return &currentDefault, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up default account for user %s: %w", userID, err)
	}

	candidate, err := r.oldestActiveAccountID(ctx, tx, userID, "")
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		if err := r.Commit(ctx, tx); err != nil {
			return nil, err
		}
		return nil, nil
	}

	// A stale default flag on an inactive account is cleared as part of the
	// repair.
	if err := r.clearDefaultFlag(ctx, tx, userID, updatedBy, now); err != nil {
		return nil, err
	}
	if err := r.setDefaultFlagInTx(ctx, tx, userID, *candidate, updatedBy, now); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return candidate, nil
}

// FindAccountsByIDsForUpdate retrieves accounts by IDs and locks the rows.
// Must be called within a transaction.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs for update: %w", err)
	}
	defer rows.Close()

	accountsMap := make(map[string]domain.Account)
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked account row: %w", err)
		}
		accountsMap[m.AccountID] = mapping.ToDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked account rows: %w", err)
	}

	if len(accountsMap) != len(accountIDs) {
		missing := []string{}
		for _, id := range accountIDs {
			if _, found := accountsMap[id]; !found {
				missing = append(missing, id)
			}
		}
		return nil, fmt.Errorf("%w: could not find or lock all requested accounts, missing: %v", apperrors.ErrNotFound, missing)
	}
	return accountsMap, nil
}

// UpdateAccountBalancesInTx applies balance deltas within a transaction.
// Deltas are rounded to centavo precision before applying.
func (r *PgxAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	if len(balanceChanges) == 0 {
		return nil
	}

	query := `
		UPDATE accounts
		SET balance = COALESCE(balance, 0) + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`
	batch := &pgx.Batch{}
	accountIDs := make([]string, 0, len(balanceChanges))
	for accountID, delta := range balanceChanges {
		if delta.IsZero() {
			continue
		}
		batch.Queue(query, accountID, utils.RoundToCentavo(delta), now, userID)
		accountIDs = append(accountIDs, accountID)
	}
	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to update balance for account %s: %w", accountIDs[i], err)
			}
		} else if ct.RowsAffected() == 0 && batchErr == nil {
			batchErr = fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrNotFound, accountIDs[i])
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close balance update batch: %w", err)
	}
	return batchErr
}
