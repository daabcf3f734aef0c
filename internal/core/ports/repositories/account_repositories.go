package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves all accounts for a user in insertion order.
	// Inactive accounts are included only when includeInactive is set.
	ListAccounts(ctx context.Context, userID string, includeInactive bool) ([]domain.Account, error)
}

// AccountWriter defines invariant-preserving write operations for account
// data. Every operation that touches the default flag runs as a single
// database transaction with row locks on the user's accounts, so the
// single-default invariant can never be observed broken by a concurrent
// writer.
type AccountWriter interface {
	// SaveAccount persists a new account. When account.IsDefault is set the
	// user's other accounts are demoted inside the same transaction.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount replaces the mutable fields of an existing account.
	// Promotion to default demotes siblings inside the same transaction.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount soft-deletes the account. Deleting the user's last
	// active account fails with ErrConflict; the count runs under the same
	// row locks as the delete. When the victim was the default, the oldest
	// remaining active account is promoted inside the same transaction and
	// its ID is returned.
	DeactivateAccount(ctx context.Context, userID, accountID, updatedBy string, now time.Time) (newDefaultAccountID *string, err error)

	// SetDefaultAccount atomically clears the default flag across the user's
	// accounts and sets it on the target. Idempotent.
	SetDefaultAccount(ctx context.Context, userID, accountID, updatedBy string, now time.Time) error

	// EnsureDefaultAccount repairs the single-default invariant: if the user
	// has active accounts and none is default, the oldest is promoted.
	// Returns the default account's ID, or nil when the user has no active
	// accounts. Idempotent.
	EnsureDefaultAccount(ctx context.Context, userID, updatedBy string, now time.Time) (*string, error)
}

// AccountBalanceSupport defines operations used by the transaction and goal
// repositories to adjust balances atomically.
type AccountBalanceSupport interface {
	// FindAccountsByIDsForUpdate selects accounts and locks the rows for
	// update. Must be called within a transaction.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalancesInTx applies deltas to account balances within a
	// transaction. Deltas are rounded to centavo precision before applying.
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountBalanceSupport
}

// AccountRepositoryWithTx extends the facade with transaction management.
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	TransactionManager
}
