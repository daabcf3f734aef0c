package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
	"github.com/pesoplan/pesoplan_backend/internal/dto"
)

// RequestMeta carries the client attribution recorded on audit entries.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// AuditLoggerSvc appends activity log entries. All Log methods are
// best-effort: failures are logged locally and swallowed so they can never
// fail the business mutation they describe.
type AuditLoggerSvc interface {
	LogAccountCreated(ctx context.Context, userID string, account domain.Account, meta RequestMeta)

	// LogAccountUpdated records a field-level diff between the old and new
	// account state.
	LogAccountUpdated(ctx context.Context, userID string, oldAcc, newAcc domain.Account, meta RequestMeta)

	LogCashIn(ctx context.Context, userID string, account domain.Account, amount decimal.Decimal, source string, meta RequestMeta)

	LogAccountDeleted(ctx context.Context, userID string, account domain.Account, promotedID *string, meta RequestMeta)

	LogBalanceChange(ctx context.Context, userID string, account domain.Account, oldBalance, newBalance decimal.Decimal, reason string, meta RequestMeta)

	LogTransaction(ctx context.Context, userID string, txn domain.Transaction, accountName string, deleted bool, meta RequestMeta)

	LogGoalContribution(ctx context.Context, userID string, goal domain.Goal, accountName string, amount decimal.Decimal, meta RequestMeta)
}

// AuditQuerySvc retrieves and exports account history.
type AuditQuerySvc interface {
	// GetAccountHistory returns the filtered, paginated activity log page
	// with the total matching count.
	GetAccountHistory(ctx context.Context, userID string, params dto.AuditHistoryParams) (*dto.AuditHistoryResponse, error)

	// ExportAccountHistory serializes the filtered history to CSV with the
	// fixed column set Date, Activity Type, Description, Account Name,
	// Amount, Source/Reason, IP Address, User Agent.
	ExportAccountHistory(ctx context.Context, userID string, params dto.AuditHistoryParams) ([]byte, error)
}

// AuditSvcFacade combines audit logging and querying.
type AuditSvcFacade interface {
	AuditLoggerSvc
	AuditQuerySvc
}
