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

const transactionColumns = `transaction_id, user_id, account_id, counterparty_account_id, type, amount, category, description, occurred_at, created_at, created_by, last_updated_at, last_updated_by`

// PgxTransactionRepository persists money movements. Balance effects are
// applied through the account repository within the same database
// transaction, after locking the affected account rows.
type PgxTransactionRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

func newPgxTransactionRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.TransactionRepository {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

func (t *PgxTransactionRepository) affectedAccountIDs(txn domain.Transaction) []string {
	ids := []string{txn.AccountID}
	if txn.Type == domain.TransactionTransfer && txn.CounterpartyAccountID != "" {
		ids = append(ids, txn.CounterpartyAccountID)
	}
	return ids
}

// SaveTransaction inserts the transaction and applies its balance deltas in
// one database transaction. The affected accounts are returned with their
// post-save balances.
func (t *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) (map[string]domain.Account, error) {
	m := mapping.ToModelTransaction(txn)

	tx, err := t.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer t.Rollback(ctx, tx) //nolint:errcheck

	accountIDs := t.affectedAccountIDs(txn)
	lockedAccounts, err := t.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return nil, err
	}
	for _, acc := range lockedAccounts {
		if acc.UserID != txn.UserID {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, acc.AccountID)
		}
		if !acc.IsActive() {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, acc.AccountID)
		}
	}

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, query,
		m.TransactionID,
		m.UserID,
		m.AccountID,
		nullIfEmpty(m.CounterpartyAccountID),
		m.Type,
		m.Amount,
		nullIfEmpty(m.Category),
		nullIfEmpty(m.Description),
		m.OccurredAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: transaction with ID %s already exists", apperrors.ErrDuplicate, m.TransactionID)
		}
		return nil, fmt.Errorf("failed to save transaction %s: %w", m.TransactionID, err)
	}

	balanceChanges := make(map[string]decimal.Decimal, len(accountIDs))
	for _, id := range accountIDs {
		balanceChanges[id] = txn.SignedAmountFor(id)
	}
	if err := t.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, txn.UserID, txn.LastUpdatedAt); err != nil {
		return nil, err
	}

	updated, err := t.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return nil, err
	}

	if err := t.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return updated, nil
}

func scanTransaction(row rowScanner) (models.Transaction, error) {
	var m models.Transaction
	var counterparty, category, description sql.NullString
	err := row.Scan(
		&m.TransactionID,
		&m.UserID,
		&m.AccountID,
		&counterparty,
		&m.Type,
		&m.Amount,
		&category,
		&description,
		&m.OccurredAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.Transaction{}, err
	}
	m.CounterpartyAccountID = counterparty.String
	m.Category = category.String
	m.Description = description.String
	return m, nil
}

// FindTransactionByID retrieves a transaction by ID.
func (t *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE transaction_id = $1;
	`
	m, err := scanTransaction(t.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

// ListTransactions returns the filtered page, newest occurrence first, plus
// the total matching count.
func (t *PgxTransactionRepository) ListTransactions(ctx context.Context, userID string, filter portsrepo.TransactionFilter) ([]domain.Transaction, int64, error) {
	conditions := "user_id = $1"
	args := []any{userID}

	if filter.AccountID != "" {
		args = append(args, filter.AccountID)
		conditions += fmt.Sprintf(" AND (account_id = $%d OR counterparty_account_id = $%d)", len(args), len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions += fmt.Sprintf(" AND occurred_at >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions += fmt.Sprintf(" AND occurred_at <= $%d", len(args))
	}

	var total int64
	if err := t.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE `+conditions+`;`, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions for user %s: %w", userID, err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 25
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions
		WHERE %s
		ORDER BY occurred_at DESC, transaction_id DESC
		LIMIT $%d OFFSET $%d;
	`, transactionColumns, conditions, len(args)-1, len(args))

	rows, err := t.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query transactions for user %s: %w", userID, err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, mapping.ToDomainTransaction(m))
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("error iterating transaction rows: %w", rows.Err())
	}
	return txns, total, nil
}

// DeleteTransaction removes the transaction and reverses its balance effect
// in one database transaction. The removed transaction is returned so the
// caller can log it.
func (t *PgxTransactionRepository) DeleteTransaction(ctx context.Context, userID, transactionID, deletedBy string, now time.Time) (*domain.Transaction, error) {
	tx, err := t.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer t.Rollback(ctx, tx) //nolint:errcheck

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE transaction_id = $1 AND user_id = $2
		FOR UPDATE;
	`
	m, err := scanTransaction(tx.QueryRow(ctx, query, transactionID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load transaction %s for deletion: %w", transactionID, err)
	}
	txn := mapping.ToDomainTransaction(m)

	accountIDs := t.affectedAccountIDs(txn)
	if _, err := t.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID); err != nil {
		return nil, fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}

	// Reverse the original effect.
	balanceChanges := make(map[string]decimal.Decimal, len(accountIDs))
	for _, id := range accountIDs {
		balanceChanges[id] = txn.SignedAmountFor(id).Neg()
	}
	if err := t.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, deletedBy, now); err != nil {
		return nil, err
	}

	if err := t.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &txn, nil
}
