package services

import (
	"context"

	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
	"github.com/pesoplan/pesoplan_backend/internal/dto"
)

// TransactionSvcFacade records and lists money movements.
type TransactionSvcFacade interface {
	CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest, meta RequestMeta) (*domain.Transaction, error)

	ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	DeleteTransaction(ctx context.Context, userID, transactionID string, meta RequestMeta) error
}
