package services_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/pesoplan/pesoplan_backend/internal/apperrors"
	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
	portsrepo "github.com/pesoplan/pesoplan_backend/internal/core/ports/repositories"
	portssvc "github.com/pesoplan/pesoplan_backend/internal/core/ports/services"
)

// fakeAccountRepo is an in-memory account repository mirroring the SQL
// repository's transactional semantics: every write that touches the default
// flag is applied as one atomic step, deletes cannot remove the last active
// account, and promotion picks the oldest surviving active account in
// creation order. It lets tests drive real operation sequences through the
// service and observe the resulting state.
type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	order    []string
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[string]*domain.Account{}}
}

var _ portsrepo.AccountRepositoryWithTx = (*fakeAccountRepo)(nil)

// demoteOthersLocked clears the default flag on every account of the user
// except keepID. Callers must hold the mutex.
func (f *fakeAccountRepo) demoteOthersLocked(userID, keepID string) {
	for _, acc := range f.accounts {
		if acc.UserID == userID && acc.AccountID != keepID {
			acc.IsDefault = false
		}
	}
}

// activeIDsLocked returns the user's active account IDs in creation order.
func (f *fakeAccountRepo) activeIDsLocked(userID string) []string {
	var ids []string
	for _, id := range f.order {
		acc := f.accounts[id]
		if acc.UserID == userID && acc.Status == domain.AccountStatusActive {
			ids = append(ids, id)
		}
	}
	return ids
}

func (f *fakeAccountRepo) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *acc
	return &cp, nil
}

func (f *fakeAccountRepo) ListAccounts(ctx context.Context, userID string, includeInactive bool) ([]domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Account
	for _, id := range f.order {
		acc := f.accounts[id]
		if acc.UserID != userID {
			continue
		}
		if !includeInactive && acc.Status != domain.AccountStatusActive {
			continue
		}
		out = append(out, *acc)
	}
	return out, nil
}

func (f *fakeAccountRepo) SaveAccount(ctx context.Context, account domain.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.accounts[account.AccountID]; exists {
		return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
	}
	if account.IsDefault {
		f.demoteOthersLocked(account.UserID, account.AccountID)
	}
	cp := account
	f.accounts[account.AccountID] = &cp
	f.order = append(f.order, account.AccountID)
	return nil
}

func (f *fakeAccountRepo) UpdateAccount(ctx context.Context, account domain.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[account.AccountID]; !ok {
		return apperrors.ErrNotFound
	}
	if account.IsDefault {
		f.demoteOthersLocked(account.UserID, account.AccountID)
	}
	cp := account
	f.accounts[account.AccountID] = &cp
	return nil
}

func (f *fakeAccountRepo) DeactivateAccount(ctx context.Context, userID, accountID, updatedBy string, now time.Time) (*string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.accounts[accountID]
	if !ok || acc.UserID != userID || acc.Status != domain.AccountStatusActive {
		return nil, apperrors.ErrNotFound
	}
	if len(f.activeIDsLocked(userID)) <= 1 {
		return nil, fmt.Errorf("%w: cannot delete the last active account", apperrors.ErrConflict)
	}

	wasDefault := acc.IsDefault
	acc.Status = domain.AccountStatusInactive
	acc.IsDefault = false
	acc.LastUpdatedAt = now
	acc.LastUpdatedBy = updatedBy

	if !wasDefault {
		return nil, nil
	}
	remaining := f.activeIDsLocked(userID)
	if len(remaining) == 0 {
		return nil, nil
	}
	promoted := remaining[0]
	f.accounts[promoted].IsDefault = true
	f.accounts[promoted].LastUpdatedAt = now
	f.accounts[promoted].LastUpdatedBy = updatedBy
	return &promoted, nil
}

func (f *fakeAccountRepo) SetDefaultAccount(ctx context.Context, userID, accountID, updatedBy string, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.accounts[accountID]
	if !ok || acc.UserID != userID || acc.Status != domain.AccountStatusActive {
		return apperrors.ErrNotFound
	}
	f.demoteOthersLocked(userID, accountID)
	acc.IsDefault = true
	acc.LastUpdatedAt = now
	acc.LastUpdatedBy = updatedBy
	return nil
}

func (f *fakeAccountRepo) EnsureDefaultAccount(ctx context.Context, userID, updatedBy string, now time.Time) (*string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	active := f.activeIDsLocked(userID)
	if len(active) == 0 {
		return nil, nil
	}
	for _, id := range active {
		if f.accounts[id].IsDefault {
			return &id, nil
		}
	}
	promoted := active[0]
	f.accounts[promoted].IsDefault = true
	f.accounts[promoted].LastUpdatedAt = now
	f.accounts[promoted].LastUpdatedBy = updatedBy
	return &promoted, nil
}

func (f *fakeAccountRepo) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := f.accounts[id]; ok {
			out[id] = *acc
		}
	}
	return out, nil
}

func (f *fakeAccountRepo) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, delta := range balanceChanges {
		acc, ok := f.accounts[id]
		if !ok || acc.UserID != userID {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		acc.Balance = acc.Balance.Add(delta)
		acc.LastUpdatedAt = now
	}
	return nil
}

func (f *fakeAccountRepo) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }

func (f *fakeAccountRepo) Commit(ctx context.Context, tx pgx.Tx) error { return nil }

func (f *fakeAccountRepo) Rollback(ctx context.Context, tx pgx.Tx) error { return nil }

// noopAuditLogger discards all audit entries. Used where a test exercises
// repository state rather than audit emission.
type noopAuditLogger struct{}

var _ portssvc.AuditLoggerSvc = noopAuditLogger{}

func (noopAuditLogger) LogAccountCreated(context.Context, string, domain.Account, portssvc.RequestMeta) {
}

func (noopAuditLogger) LogAccountUpdated(context.Context, string, domain.Account, domain.Account, portssvc.RequestMeta) {
}

func (noopAuditLogger) LogCashIn(context.Context, string, domain.Account, decimal.Decimal, string, portssvc.RequestMeta) {
}

func (noopAuditLogger) LogAccountDeleted(context.Context, string, domain.Account, *string, portssvc.RequestMeta) {
}

func (noopAuditLogger) LogBalanceChange(context.Context, string, domain.Account, decimal.Decimal, decimal.Decimal, string, portssvc.RequestMeta) {
}

func (noopAuditLogger) LogTransaction(context.Context, string, domain.Transaction, string, bool, portssvc.RequestMeta) {
}

func (noopAuditLogger) LogGoalContribution(context.Context, string, domain.Goal, string, decimal.Decimal, portssvc.RequestMeta) {
}
