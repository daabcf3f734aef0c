package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pesoplan/pesoplan_backend/internal/apperrors"
	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
	portsrepo "github.com/pesoplan/pesoplan_backend/internal/core/ports/repositories"
	portssvc "github.com/pesoplan/pesoplan_backend/internal/core/ports/services"
	"github.com/pesoplan/pesoplan_backend/internal/dto"
	"github.com/pesoplan/pesoplan_backend/internal/utils"
)

// TransactionService records and lists money movements. Balance effects are
// applied by the repository inside one database transaction.
type TransactionService struct {
	BaseService
	transactionRepo portsrepo.TransactionRepository
	accountRepo     portsrepo.AccountRepositoryFacade
	auditLogger     portssvc.AuditLoggerSvc
}

// NewTransactionService creates the transaction service.
func NewTransactionService(transactionRepo portsrepo.TransactionRepository, accountRepo portsrepo.AccountRepositoryFacade, auditLogger portssvc.AuditLoggerSvc) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		auditLogger:     auditLogger,
	}
}

var _ portssvc.TransactionSvcFacade = (*TransactionService)(nil)

// CreateTransaction validates and persists a money movement.
func (s *TransactionService) CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest, meta portssvc.RequestMeta) (*domain.Transaction, error) {
	amount := utils.RoundToCentavo(req.Amount)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: transaction amount must be positive", apperrors.ErrValidation)
	}
	if !domain.ValidTransactionType(req.Type) {
		return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, req.Type)
	}

	counterparty := ""
	if req.Type == domain.TransactionTransfer {
		if req.CounterpartyAccountID == nil || *req.CounterpartyAccountID == "" {
			return nil, fmt.Errorf("%w: transfers require a counterparty account", apperrors.ErrValidation)
		}
		counterparty = *req.CounterpartyAccountID
		if counterparty == req.AccountID {
			return nil, fmt.Errorf("%w: cannot transfer an account to itself", apperrors.ErrValidation)
		}
	} else if req.CounterpartyAccountID != nil && *req.CounterpartyAccountID != "" {
		return nil, fmt.Errorf("%w: counterparty account is only valid for transfers", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	occurredAt := now
	if req.OccurredAt != nil {
		occurredAt = req.OccurredAt.UTC()
	}

	txn := domain.Transaction{
		TransactionID:         uuid.NewString(),
		UserID:                userID,
		AccountID:             req.AccountID,
		CounterpartyAccountID: counterparty,
		Type:                  req.Type,
		Amount:                amount,
		Category:              req.Category,
		Description:           req.Description,
		OccurredAt:            occurredAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	updatedAccounts, err := s.transactionRepo.SaveTransaction(ctx, txn)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to save transaction", slog.String("account_id", req.AccountID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Transaction recorded",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("type", string(txn.Type)),
		slog.String("amount", amount.String()),
	)
	s.auditLogger.LogTransaction(ctx, userID, txn, updatedAccounts[txn.AccountID].Name, false, meta)
	for _, acc := range updatedAccounts {
		delta := txn.SignedAmountFor(acc.AccountID)
		s.auditLogger.LogBalanceChange(ctx, userID, acc, acc.Balance.Sub(delta), acc.Balance, string(txn.Type)+" transaction", meta)
	}
	return &txn, nil
}

// ListTransactions returns the filtered page plus the total matching count.
func (s *TransactionService) ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	filter := portsrepo.TransactionFilter{
		AccountID: params.AccountID,
		Limit:     params.Limit,
		Offset:    params.Offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = 25
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if params.From != nil {
		from, err := time.Parse(time.RFC3339, *params.From)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid 'from' timestamp", apperrors.ErrValidation)
		}
		filter.From = &from
	}
	if params.To != nil {
		to, err := time.Parse(time.RFC3339, *params.To)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid 'to' timestamp", apperrors.ErrValidation)
		}
		filter.To = &to
	}

	txns, total, err := s.transactionRepo.ListTransactions(ctx, userID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions")
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	out := make([]dto.TransactionResponse, len(txns))
	for i := range txns {
		out[i] = dto.ToTransactionResponse(&txns[i])
	}
	return &dto.ListTransactionsResponse{
		Transactions: out,
		TotalCount:   total,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	}, nil
}

// DeleteTransaction removes a transaction and reverses its balance effect.
func (s *TransactionService) DeleteTransaction(ctx context.Context, userID, transactionID string, meta portssvc.RequestMeta) error {
	now := time.Now().UTC()
	txn, err := s.transactionRepo.DeleteTransaction(ctx, userID, transactionID, userID, now)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		}
		return err
	}

	accountName := txn.AccountID
	if acc, err := s.accountRepo.FindAccountByID(ctx, txn.AccountID); err == nil {
		accountName = acc.Name
	}

	s.LogInfo(ctx, "Transaction deleted", slog.String("transaction_id", transactionID))
	s.auditLogger.LogTransaction(ctx, userID, *txn, accountName, true, meta)
	return nil
}
