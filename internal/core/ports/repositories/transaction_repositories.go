package repositories

import (
	"context"
	"time"

	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
)

// TransactionFilter narrows a transaction listing.
type TransactionFilter struct {
	AccountID string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// TransactionRepository persists money movements. Saving and deleting a
// transaction adjusts the affected account balances inside one database
// transaction with row locks, mirroring the account repository's locking
// discipline.
type TransactionRepository interface {
	// SaveTransaction persists the transaction and applies its balance
	// deltas atomically. Returns the resulting balances keyed by account ID.
	SaveTransaction(ctx context.Context, txn domain.Transaction) (map[string]domain.Account, error)

	// FindTransactionByID retrieves a transaction by ID.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns the filtered page (newest occurred_at first)
	// plus the total matching count.
	ListTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]domain.Transaction, int64, error)

	// DeleteTransaction removes the transaction and reverses its balance
	// effect atomically.
	DeleteTransaction(ctx context.Context, userID, transactionID, deletedBy string, now time.Time) (*domain.Transaction, error)
}
