package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a transaction relative to its account.
type TransactionType string

const (
	TransactionIncome   TransactionType = "income"
	TransactionExpense  TransactionType = "expense"
	TransactionTransfer TransactionType = "transfer"
)

// ValidTransactionType reports whether t is a known transaction type.
func ValidTransactionType(t TransactionType) bool {
	switch t {
	case TransactionIncome, TransactionExpense, TransactionTransfer:
		return true
	}
	return false
}

// Transaction is a single money movement against an account. Transfers carry
// the destination in CounterpartyAccountID; the stored Amount is always
// positive and the sign is derived from the type when applying balances.
type Transaction struct {
	TransactionID         string          `json:"transactionID"`
	UserID                string          `json:"userID"`
	AccountID             string          `json:"accountID"`
	CounterpartyAccountID string          `json:"counterpartyAccountID,omitempty"` // transfers only
	Type                  TransactionType `json:"type"`
	Amount                decimal.Decimal `json:"amount"`
	Category              string          `json:"category,omitempty"`
	Description           string          `json:"description,omitempty"`
	OccurredAt            time.Time       `json:"occurredAt"`
	AuditFields
}

// SignedAmountFor returns the balance delta this transaction applies to the
// given account. Income adds, expense subtracts, transfers subtract from the
// source and add to the counterparty.
func (t Transaction) SignedAmountFor(accountID string) decimal.Decimal {
	switch t.Type {
	case TransactionIncome:
		return t.Amount
	case TransactionExpense:
		return t.Amount.Neg()
	case TransactionTransfer:
		if accountID == t.CounterpartyAccountID {
			return t.Amount
		}
		return t.Amount.Neg()
	}
	return decimal.Zero
}
