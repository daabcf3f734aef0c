package models

import (
	"github.com/shopspring/decimal"
)

// AccountType mirrors domain.AccountType for the accounts table enum column.
type AccountType string

// AccountStatus mirrors domain.AccountStatus.
type AccountStatus string

// Account is the database representation of a user account row.
type Account struct {
	AccountID       string          `db:"account_id"`
	UserID          string          `db:"user_id"`
	Name            string          `db:"name"`
	AccountType     AccountType     `db:"account_type"`
	Balance         decimal.Decimal `db:"balance"`
	Currency        string          `db:"currency"`
	Color           string          `db:"color"`
	IsDefault       bool            `db:"is_default"`
	Status          AccountStatus   `db:"status"`
	InstitutionName string          `db:"institution_name"` // nullable
	Description     string          `db:"description"`      // nullable
	AuditFields
}
