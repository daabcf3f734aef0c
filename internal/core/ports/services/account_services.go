package services

import (
	"context"

	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
	"github.com/pesoplan/pesoplan_backend/internal/dto"
)

// AccountReaderSvc defines read operations for account data.
type AccountReaderSvc interface {
	// GetAccountByID retrieves an account owned by userID. Foreign accounts
	// surface as not-found.
	GetAccountByID(ctx context.Context, userID, accountID string) (*domain.Account, error)

	// ListAccounts retrieves the user's accounts in insertion order.
	ListAccounts(ctx context.Context, userID string, includeInactive bool) ([]domain.Account, error)
}

// AccountWriterSvc defines validated, invariant-preserving write operations.
type AccountWriterSvc interface {
	// CreateAccount validates and persists a new account. A user's first
	// account is always created as the default.
	CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error)

	// UpdateAccount applies a validated patch to an owned account.
	UpdateAccount(ctx context.Context, userID, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)

	// DeleteAccount soft-deletes an owned account, promoting a replacement
	// default when required. Deleting the last active account fails.
	DeleteAccount(ctx context.Context, userID, accountID string) (newDefaultAccountID *string, err error)

	// SetDefaultAccount reassigns the user's default account. Idempotent.
	SetDefaultAccount(ctx context.Context, userID, accountID string) (*domain.Account, error)

	// EnsureDefaultAccount self-heals the single-default invariant.
	EnsureDefaultAccount(ctx context.Context, userID string) (*string, error)

	// CashIn deposits funds into an owned account and records the matching
	// income transaction.
	CashIn(ctx context.Context, userID, accountID string, req dto.CashInRequest) (*domain.Account, error)
}

// AccountSvcFacade combines all account service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
