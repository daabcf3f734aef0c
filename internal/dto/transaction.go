package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
)

// CreateTransactionRequest records a money movement against an account.
// CounterpartyAccountID is required for transfers and rejected otherwise.
type CreateTransactionRequest struct {
	AccountID             string                 `json:"accountID" binding:"required"`
	CounterpartyAccountID *string                `json:"counterpartyAccountID"`
	Type                  domain.TransactionType `json:"type" binding:"required,oneof=income expense transfer"`
	Amount                decimal.Decimal        `json:"amount" binding:"required"`
	Category              string                 `json:"category" binding:"omitempty,max=100"`
	Description           string                 `json:"description" binding:"omitempty,max=500"`
	OccurredAt            *time.Time             `json:"occurredAt"`
}

// TransactionResponse is the wire form of a transaction.
type TransactionResponse struct {
	TransactionID         string                 `json:"transactionID"`
	AccountID             string                 `json:"accountID"`
	CounterpartyAccountID string                 `json:"counterpartyAccountID,omitempty"`
	Type                  domain.TransactionType `json:"type"`
	Amount                decimal.Decimal        `json:"amount"`
	Category              string                 `json:"category,omitempty"`
	Description           string                 `json:"description,omitempty"`
	OccurredAt            time.Time              `json:"occurredAt"`
	CreatedAt             time.Time              `json:"createdAt"`
}

// ToTransactionResponse converts a domain.Transaction to its wire form.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		TransactionID: txn.TransactionID,
		AccountID:     txn.AccountID,
		Type:          txn.Type,
		Amount:        txn.Amount,
		Category:      txn.Category,
		Description:   txn.Description,
		OccurredAt:    txn.OccurredAt,
		CreatedAt:     txn.CreatedAt,
	}
	resp.CounterpartyAccountID = txn.CounterpartyAccountID
	return resp
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	AccountID string  `form:"accountID"`
	From      *string `form:"from"` // RFC3339
	To        *string `form:"to"`   // RFC3339
	Limit     int     `form:"limit,default=25"`
	Offset    int     `form:"offset,default=0"`
}

// ListTransactionsResponse is a page of transactions plus the total count.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	TotalCount   int64                 `json:"totalCount"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}
