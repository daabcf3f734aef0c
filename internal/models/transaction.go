package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the database representation of a money movement row.
type Transaction struct {
	TransactionID         string          `db:"transaction_id"`
	UserID                string          `db:"user_id"`
	AccountID             string          `db:"account_id"`
	CounterpartyAccountID string          `db:"counterparty_account_id"` // nullable
	Type                  string          `db:"type"`
	Amount                decimal.Decimal `db:"amount"`
	Category              string          `db:"category"`    // nullable
	Description           string          `db:"description"` // nullable
	OccurredAt            time.Time       `db:"occurred_at"`
	AuditFields
}
