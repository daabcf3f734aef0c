package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ActivityType enumerates the events recorded in the activity log.
type ActivityType string

const (
	ActivityAccountCreated       ActivityType = "account_created"
	ActivityAccountUpdated       ActivityType = "account_updated"
	ActivityAccountCashIn        ActivityType = "account_cash_in"
	ActivityAccountDeleted       ActivityType = "account_deleted"
	ActivityAccountBalanceChange ActivityType = "account_balance_change"
	ActivityTransactionCreated   ActivityType = "transaction_created"
	ActivityTransactionDeleted   ActivityType = "transaction_deleted"
	ActivityGoalContribution     ActivityType = "goal_contribution_added"
)

// AccountActivityTypes is the default, broad set of activity types returned
// when an account history query does not name specific types.
var AccountActivityTypes = []ActivityType{
	ActivityAccountCreated,
	ActivityAccountUpdated,
	ActivityAccountCashIn,
	ActivityAccountDeleted,
	ActivityAccountBalanceChange,
	ActivityTransactionCreated,
	ActivityTransactionDeleted,
	ActivityGoalContribution,
}

// Severity grades an activity log entry.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// FieldChange records a single field-level difference between the old and new
// state of an entity, rendered as "Field: old → new" in descriptions.
type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// AuditDetail is the typed payload attached to an audit record. Each activity
// type carries its own detail struct rather than a loose string map, so the
// log stays queryable and the account reference is an explicit column.
type AuditDetail interface {
	ActivityType() ActivityType
}

// AccountCreatedDetail is the payload for account_created entries.
type AccountCreatedDetail struct {
	AccountName    string          `json:"accountName"`
	AccountType    AccountType     `json:"accountType"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	IsDefault      bool            `json:"isDefault"`
}

func (AccountCreatedDetail) ActivityType() ActivityType { return ActivityAccountCreated }

// AccountUpdatedDetail is the payload for account_updated entries.
type AccountUpdatedDetail struct {
	AccountName string        `json:"accountName"`
	Changes     []FieldChange `json:"changes"`
}

func (AccountUpdatedDetail) ActivityType() ActivityType { return ActivityAccountUpdated }

// CashInDetail is the payload for account_cash_in entries.
type CashInDetail struct {
	AccountName string          `json:"accountName"`
	Amount      decimal.Decimal `json:"amount"`
	Source      string          `json:"source,omitempty"`
}

func (CashInDetail) ActivityType() ActivityType { return ActivityAccountCashIn }

// AccountDeletedDetail is the payload for account_deleted entries.
type AccountDeletedDetail struct {
	AccountName         string  `json:"accountName"`
	WasDefault          bool    `json:"wasDefault"`
	PromotedToDefaultID *string `json:"promotedToDefaultID,omitempty"`
}

func (AccountDeletedDetail) ActivityType() ActivityType { return ActivityAccountDeleted }

// BalanceChangeDetail is the payload for account_balance_change entries.
type BalanceChangeDetail struct {
	AccountName string          `json:"accountName"`
	OldBalance  decimal.Decimal `json:"oldBalance"`
	NewBalance  decimal.Decimal `json:"newBalance"`
	Reason      string          `json:"reason,omitempty"`
}

func (BalanceChangeDetail) ActivityType() ActivityType { return ActivityAccountBalanceChange }

// TransactionDetail is the payload for transaction_created and
// transaction_deleted entries.
type TransactionDetail struct {
	Type        ActivityType    `json:"-"`
	AccountName string          `json:"accountName"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category,omitempty"`
	Kind        TransactionType `json:"kind"`
}

func (d TransactionDetail) ActivityType() ActivityType {
	if d.Type == ActivityTransactionDeleted {
		return ActivityTransactionDeleted
	}
	return ActivityTransactionCreated
}

// GoalContributionDetail is the payload for goal_contribution_added entries.
type GoalContributionDetail struct {
	GoalID      string          `json:"goalID"`
	GoalName    string          `json:"goalName"`
	AccountName string          `json:"accountName"`
	Amount      decimal.Decimal `json:"amount"`
}

func (GoalContributionDetail) ActivityType() ActivityType { return ActivityGoalContribution }

// AuditRecord is an immutable activity log entry. Records are append-only:
// they are written after the mutation they describe commits and are never
// updated or deleted. The log is diagnostic, not a source of truth; invariant
// repair goes through the account repository, never through log replay.
type AuditRecord struct {
	AuditID     string       `json:"auditID"`
	UserID      string       `json:"userID"`
	AccountID   string       `json:"accountID,omitempty"` // indexed, may be empty for non-account events
	Type        ActivityType `json:"activityType"`
	Description string       `json:"description"`
	Detail      AuditDetail  `json:"detail,omitempty"`
	Severity    Severity     `json:"severity"`
	IPAddress   string       `json:"ipAddress,omitempty"`
	UserAgent   string       `json:"userAgent,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// AuditRecordFilter narrows an activity log query.
type AuditRecordFilter struct {
	AccountID string
	Types     []ActivityType
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}
