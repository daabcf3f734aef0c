package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType classifies a user's account.
type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeCash       AccountType = "cash"
	AccountTypeOther      AccountType = "other"
)

// ValidAccountType reports whether t is one of the known account types.
func ValidAccountType(t AccountType) bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeCredit,
		AccountTypeInvestment, AccountTypeCash, AccountTypeOther:
		return true
	}
	return false
}

// AccountStatus is the lifecycle state of an account. Accounts are never
// physically removed; deletion marks them inactive so historical transactions
// keep their references.
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive"
)

// Account represents a bank/cash/credit ledger owned by a single user.
//
// Invariants maintained by the account repository and service:
//   - per user, at most one active account has IsDefault set, and exactly one
//     when the user has at least one active account
//   - credit accounts carry a non-positive balance (debt is negative)
//   - Balance is always stored rounded to centavo precision
type Account struct {
	AccountID       string          `json:"accountID"`
	UserID          string          `json:"userID"`
	Name            string          `json:"name"`
	AccountType     AccountType     `json:"accountType"`
	Balance         decimal.Decimal `json:"balance"`
	Currency        string          `json:"currency"` // always DefaultCurrency
	Color           string          `json:"color"`    // hex, e.g. "#2e7d32"
	IsDefault       bool            `json:"isDefault"`
	Status          AccountStatus   `json:"status"`
	InstitutionName string          `json:"institutionName,omitempty"`
	Description     string          `json:"description,omitempty"`
	AuditFields
}

// IsActive reports whether the account is usable for new transactions.
func (a Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// IsCredit reports whether the account is a credit-type ledger.
func (a Account) IsCredit() bool {
	return a.AccountType == AccountTypeCredit
}
