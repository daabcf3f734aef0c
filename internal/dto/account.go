package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
// Currency is not accepted: the system runs on a single fixed currency.
type CreateAccountRequest struct {
	Name            string             `json:"name" binding:"required"`
	AccountType     domain.AccountType `json:"accountType" binding:"required,oneof=checking savings credit investment cash other"`
	Balance         decimal.Decimal    `json:"balance"`
	Color           string             `json:"color" binding:"omitempty,hexcolor"`
	IsDefault       bool               `json:"isDefault"`
	InstitutionName string             `json:"institutionName" binding:"omitempty,max=100"`
	Description     string             `json:"description" binding:"omitempty,max=500"`
}

// UpdateAccountRequest defines the patch for editing an account. Pointers
// distinguish "not provided" from zero values.
type UpdateAccountRequest struct {
	Name            *string             `json:"name"`
	AccountType     *domain.AccountType `json:"accountType" binding:"omitempty,oneof=checking savings credit investment cash other"`
	Balance         *decimal.Decimal    `json:"balance"`
	Color           *string             `json:"color" binding:"omitempty,hexcolor"`
	IsDefault       *bool               `json:"isDefault"`
	InstitutionName *string             `json:"institutionName" binding:"omitempty,max=100"`
	Description     *string             `json:"description" binding:"omitempty,max=500"`
}

// AccountResponse is the wire form of an account.
type AccountResponse struct {
	AccountID       string             `json:"accountID"`
	Name            string             `json:"name"`
	AccountType     domain.AccountType `json:"accountType"`
	Balance         decimal.Decimal    `json:"balance"`
	Currency        string             `json:"currency"`
	Color           string             `json:"color"`
	IsDefault       bool               `json:"isDefault"`
	Status          domain.AccountStatus `json:"status"`
	InstitutionName string             `json:"institutionName,omitempty"`
	Description     string             `json:"description,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	LastUpdatedAt   time.Time          `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to its wire form.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		Balance:         acc.Balance,
		Currency:        acc.Currency,
		Color:           acc.Color,
		IsDefault:       acc.IsDefault,
		Status:          acc.Status,
		InstitutionName: acc.InstitutionName,
		Description:     acc.Description,
		CreatedAt:       acc.CreatedAt,
		LastUpdatedAt:   acc.LastUpdatedAt,
	}
}

// ToListAccountResponse converts a slice of accounts.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	IncludeInactive bool `form:"includeInactive,default=false"`
}

// ListAccountsResponse wraps the account list.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// DeleteAccountResponse reports the outcome of a soft-delete, including the
// automatically promoted default (if the deleted account was the default) so
// the client can reconcile without a refetch.
type DeleteAccountResponse struct {
	AccountID           string  `json:"accountID"`
	NewDefaultAccountID *string `json:"newDefaultAccountID,omitempty"`
}

// EnsureDefaultResponse reports the default account after a repair run.
type EnsureDefaultResponse struct {
	DefaultAccountID *string `json:"defaultAccountID"`
}

// CashInRequest adds funds to an account.
type CashInRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Source string          `json:"source" binding:"omitempty,max=200"`
}
