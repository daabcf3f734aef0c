package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pesoplan/pesoplan_backend/internal/apperrors"
	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
	portsrepo "github.com/pesoplan/pesoplan_backend/internal/core/ports/repositories"
	portssvc "github.com/pesoplan/pesoplan_backend/internal/core/ports/services"
	"github.com/pesoplan/pesoplan_backend/internal/dto"
	"github.com/pesoplan/pesoplan_backend/internal/middleware"
	"github.com/pesoplan/pesoplan_backend/internal/utils"
)

// defaultAccountColor is applied when a create request omits the color.
const defaultAccountColor = "#2196F3"

// AccountService implements account lifecycle operations. It owns the
// single-default invariant together with the account repository: the service
// decides which account should be default, the repository makes the flag
// move atomically.
type AccountService struct {
	BaseService
	accountRepo     portsrepo.AccountRepositoryWithTx
	transactionRepo portsrepo.TransactionRepository
	auditLogger     portssvc.AuditLoggerSvc
}

// NewAccountService creates the account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryWithTx, transactionRepo portsrepo.TransactionRepository, auditLogger portssvc.AuditLoggerSvc) *AccountService {
	return &AccountService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		auditLogger:     auditLogger,
	}
}

var _ portssvc.AccountSvcFacade = (*AccountService)(nil)

// findOwnedAccount fetches an account and obscures foreign ownership as
// not-found.
func (s *AccountService) findOwnedAccount(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	if account.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

// GetAccountByID retrieves an account owned by userID.
func (s *AccountService) GetAccountByID(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	return s.findOwnedAccount(ctx, userID, accountID)
}

// ListAccounts retrieves the user's accounts in creation order.
func (s *AccountService) ListAccounts(ctx context.Context, userID string, includeInactive bool) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, userID, includeInactive)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// validateCreditBalance enforces that credit accounts never carry a positive
// balance; debt is represented as a negative number.
func validateCreditBalance(accountType domain.AccountType, balance decimal.Decimal) error {
	if accountType == domain.AccountTypeCredit && balance.IsPositive() {
		return fmt.Errorf("%w: credit account balance must be zero or negative", apperrors.ErrValidation)
	}
	return nil
}

// CreateAccount validates and persists a new account. A user's first active
// account is always created as the default, regardless of the request flag.
func (s *AccountService) CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	name := strings.TrimSpace(req.Name)
	if err := utils.ValidateAccountName(name); err != nil {
		return nil, err
	}
	if !domain.ValidAccountType(req.AccountType) {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}

	balance := utils.RoundToCentavo(req.Balance)
	if err := validateCreditBalance(req.AccountType, balance); err != nil {
		return nil, err
	}

	existing, err := s.accountRepo.ListAccounts(ctx, userID, false)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts before create")
		return nil, fmt.Errorf("failed to check existing accounts: %w", err)
	}

	isDefault := req.IsDefault
	if len(existing) == 0 {
		isDefault = true
	}

	color := req.Color
	if color == "" {
		color = defaultAccountColor
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		UserID:          userID,
		Name:            name,
		AccountType:     req.AccountType,
		Balance:         balance,
		Currency:        domain.DefaultCurrency,
		Color:           color,
		IsDefault:       isDefault,
		Status:          domain.AccountStatusActive,
		InstitutionName: req.InstitutionName,
		Description:     req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("account_id", account.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.Bool("is_default", account.IsDefault))
	s.auditLogger.LogAccountCreated(ctx, userID, account, middleware.GetRequestMetaFromCtx(ctx))
	return &account, nil
}

// UpdateAccount applies a validated patch to an owned, active account.
// Requesting is_default = false on the current default is ignored; the flag
// only moves by promoting another account.
func (s *AccountService) UpdateAccount(ctx context.Context, userID, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	oldAcc, err := s.findOwnedAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	if !oldAcc.IsActive() {
		return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, accountID)
	}

	updated := *oldAcc

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := utils.ValidateAccountName(name); err != nil {
			return nil, err
		}
		updated.Name = name
	}
	if req.AccountType != nil {
		if !domain.ValidAccountType(*req.AccountType) {
			return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, *req.AccountType)
		}
		updated.AccountType = *req.AccountType
	}
	if req.Balance != nil {
		updated.Balance = utils.RoundToCentavo(*req.Balance)
	}
	if err := validateCreditBalance(updated.AccountType, updated.Balance); err != nil {
		return nil, err
	}
	if req.Color != nil {
		updated.Color = *req.Color
	}
	if req.InstitutionName != nil {
		updated.InstitutionName = *req.InstitutionName
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.IsDefault != nil && *req.IsDefault {
		updated.IsDefault = true
	}

	now := time.Now().UTC()
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, updated); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}

	meta := middleware.GetRequestMetaFromCtx(ctx)
	s.auditLogger.LogAccountUpdated(ctx, userID, *oldAcc, updated, meta)
	if req.Balance != nil && !oldAcc.Balance.Equal(updated.Balance) {
		s.auditLogger.LogBalanceChange(ctx, userID, updated, oldAcc.Balance, updated.Balance, "manual balance edit", meta)
	}
	return &updated, nil
}

// DeleteAccount soft-deletes an owned account. The last active account cannot
// be deleted; when the victim was the default, the oldest remaining active
// account is promoted and its ID returned.
func (s *AccountService) DeleteAccount(ctx context.Context, userID, accountID string) (*string, error) {
	account, err := s.findOwnedAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive() {
		return nil, apperrors.ErrNotFound
	}

	active, err := s.accountRepo.ListAccounts(ctx, userID, false)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts before delete")
		return nil, fmt.Errorf("failed to check remaining accounts: %w", err)
	}
	if len(active) <= 1 {
		return nil, fmt.Errorf("%w: cannot delete the last active account", apperrors.ErrConflict)
	}

	// The repository re-checks the remaining-active count under its row
	// locks, so a concurrent delete surfaces here as ErrConflict too.
	now := time.Now().UTC()
	promotedID, err := s.accountRepo.DeactivateAccount(ctx, userID, accountID, userID, now)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID), slog.Bool("was_default", account.IsDefault))
	s.auditLogger.LogAccountDeleted(ctx, userID, *account, promotedID, middleware.GetRequestMetaFromCtx(ctx))
	return promotedID, nil
}

// SetDefaultAccount reassigns the user's default account. Setting the current
// default again succeeds without effect.
func (s *AccountService) SetDefaultAccount(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	account, err := s.findOwnedAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive() {
		return nil, fmt.Errorf("%w: cannot make an inactive account the default", apperrors.ErrValidation)
	}
	if account.IsDefault {
		return account, nil
	}

	now := time.Now().UTC()
	if err := s.accountRepo.SetDefaultAccount(ctx, userID, accountID, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to set default account", slog.String("account_id", accountID))
		return nil, err
	}

	updated := *account
	updated.IsDefault = true
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = userID

	s.LogInfo(ctx, "Default account changed", slog.String("account_id", accountID))
	s.auditLogger.LogAccountUpdated(ctx, userID, *account, updated, middleware.GetRequestMetaFromCtx(ctx))
	return &updated, nil
}

// EnsureDefaultAccount repairs the single-default invariant for the user.
// Returns the resulting default account ID, or nil when the user has no
// active accounts.
func (s *AccountService) EnsureDefaultAccount(ctx context.Context, userID string) (*string, error) {
	now := time.Now().UTC()
	defaultID, err := s.accountRepo.EnsureDefaultAccount(ctx, userID, userID, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to ensure default account")
		return nil, err
	}
	if defaultID != nil {
		s.LogDebug(ctx, "Default account verified", slog.String("account_id", *defaultID))
	}
	return defaultID, nil
}

// CashIn deposits funds into an owned account, recording the matching income
// transaction so reports and history stay consistent.
func (s *AccountService) CashIn(ctx context.Context, userID, accountID string, req dto.CashInRequest) (*domain.Account, error) {
	amount := utils.RoundToCentavo(req.Amount)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: cash-in amount must be positive", apperrors.ErrValidation)
	}

	account, err := s.findOwnedAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive() {
		return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, accountID)
	}
	if account.IsCredit() && account.Balance.Add(amount).IsPositive() {
		return nil, fmt.Errorf("%w: cash-in would overpay the credit account", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        userID,
		AccountID:     accountID,
		Type:          domain.TransactionIncome,
		Amount:        amount,
		Category:      "cash_in",
		Description:   req.Source,
		OccurredAt:    now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	updatedAccounts, err := s.transactionRepo.SaveTransaction(ctx, txn)
	if err != nil {
		s.LogError(ctx, err, "Failed to record cash-in", slog.String("account_id", accountID))
		return nil, err
	}
	updated := updatedAccounts[accountID]

	s.LogInfo(ctx, "Cash-in recorded", slog.String("account_id", accountID), slog.String("amount", amount.String()))
	s.auditLogger.LogCashIn(ctx, userID, updated, amount, req.Source, middleware.GetRequestMetaFromCtx(ctx))
	return &updated, nil
}
