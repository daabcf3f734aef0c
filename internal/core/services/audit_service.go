package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pesoplan/pesoplan_backend/internal/apperrors"
	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
	portsrepo "github.com/pesoplan/pesoplan_backend/internal/core/ports/repositories"
	portssvc "github.com/pesoplan/pesoplan_backend/internal/core/ports/services"
	"github.com/pesoplan/pesoplan_backend/internal/dto"
	"github.com/pesoplan/pesoplan_backend/internal/utils"
)

const (
	historyMaxLimit = 100
	exportRowLimit  = 10000
)

// AuditService records and queries the activity log. Recording is
// best-effort: a failed write is logged locally and swallowed so the business
// mutation it describes is never rolled back or failed because of it.
type AuditService struct {
	BaseService
	auditRepo portsrepo.AuditRepositoryFacade
}

// NewAuditService creates the audit service.
func NewAuditService(auditRepo portsrepo.AuditRepositoryFacade) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

var _ portssvc.AuditSvcFacade = (*AuditService)(nil)

// record appends one entry, swallowing any failure.
func (s *AuditService) record(ctx context.Context, userID, accountID, description string, detail domain.AuditDetail, severity domain.Severity, meta portssvc.RequestMeta) {
	rec := domain.AuditRecord{
		AuditID:     uuid.NewString(),
		UserID:      userID,
		AccountID:   accountID,
		Type:        detail.ActivityType(),
		Description: description,
		Detail:      detail,
		Severity:    severity,
		IPAddress:   meta.IPAddress,
		UserAgent:   meta.UserAgent,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.auditRepo.SaveAuditRecord(ctx, rec); err != nil {
		s.LogWarn(ctx, "Failed to write audit record",
			slog.String("error", err.Error()),
			slog.String("activity_type", string(rec.Type)),
			slog.String("account_id", accountID),
		)
	}
}

// LogAccountCreated records an account_created entry.
func (s *AuditService) LogAccountCreated(ctx context.Context, userID string, account domain.Account, meta portssvc.RequestMeta) {
	detail := domain.AccountCreatedDetail{
		AccountName:    account.Name,
		AccountType:    account.AccountType,
		InitialBalance: account.Balance,
		IsDefault:      account.IsDefault,
	}
	desc := fmt.Sprintf("Created account %q with initial balance %s", account.Name, utils.FormatCentavo(account.Balance))
	if account.IsDefault {
		desc += " (default)"
	}
	s.record(ctx, userID, account.AccountID, desc, detail, domain.SeverityInfo, meta)
}

// diffAccounts compares the loggable fields of two account states.
func diffAccounts(oldAcc, newAcc domain.Account) []domain.FieldChange {
	changes := []domain.FieldChange{}
	add := func(field, oldVal, newVal string) {
		if oldVal != newVal {
			changes = append(changes, domain.FieldChange{Field: field, Old: oldVal, New: newVal})
		}
	}
	add("Name", oldAcc.Name, newAcc.Name)
	add("Type", string(oldAcc.AccountType), string(newAcc.AccountType))
	add("Balance", utils.FormatCentavo(oldAcc.Balance), utils.FormatCentavo(newAcc.Balance))
	add("Color", oldAcc.Color, newAcc.Color)
	add("Default", strconv.FormatBool(oldAcc.IsDefault), strconv.FormatBool(newAcc.IsDefault))
	add("Institution", oldAcc.InstitutionName, newAcc.InstitutionName)
	add("Description", oldAcc.Description, newAcc.Description)
	return changes
}

// LogAccountUpdated records a field-level diff between the old and new
// account state. A patch that changed nothing produces no entry.
func (s *AuditService) LogAccountUpdated(ctx context.Context, userID string, oldAcc, newAcc domain.Account, meta portssvc.RequestMeta) {
	changes := diffAccounts(oldAcc, newAcc)
	if len(changes) == 0 {
		return
	}
	detail := domain.AccountUpdatedDetail{AccountName: newAcc.Name, Changes: changes}

	desc := fmt.Sprintf("Updated account %q: ", newAcc.Name)
	for i, ch := range changes {
		if i > 0 {
			desc += ", "
		}
		desc += fmt.Sprintf("%s: %s → %s", ch.Field, ch.Old, ch.New)
	}
	s.record(ctx, userID, newAcc.AccountID, desc, detail, domain.SeverityInfo, meta)
}

// LogCashIn records an account_cash_in entry.
func (s *AuditService) LogCashIn(ctx context.Context, userID string, account domain.Account, amount decimal.Decimal, source string, meta portssvc.RequestMeta) {
	detail := domain.CashInDetail{AccountName: account.Name, Amount: amount, Source: source}
	desc := fmt.Sprintf("Cash-in of %s to %q", utils.FormatCentavo(amount), account.Name)
	if source != "" {
		desc += fmt.Sprintf(" from %s", source)
	}
	s.record(ctx, userID, account.AccountID, desc, detail, domain.SeverityInfo, meta)
}

// LogAccountDeleted records an account_deleted entry at warning severity.
func (s *AuditService) LogAccountDeleted(ctx context.Context, userID string, account domain.Account, promotedID *string, meta portssvc.RequestMeta) {
	detail := domain.AccountDeletedDetail{
		AccountName:         account.Name,
		WasDefault:          account.IsDefault,
		PromotedToDefaultID: promotedID,
	}
	desc := fmt.Sprintf("Deleted account %q", account.Name)
	if account.IsDefault && promotedID != nil {
		desc += fmt.Sprintf(", default moved to account %s", *promotedID)
	}
	s.record(ctx, userID, account.AccountID, desc, detail, domain.SeverityWarning, meta)
}

// LogBalanceChange records an account_balance_change entry.
func (s *AuditService) LogBalanceChange(ctx context.Context, userID string, account domain.Account, oldBalance, newBalance decimal.Decimal, reason string, meta portssvc.RequestMeta) {
	detail := domain.BalanceChangeDetail{
		AccountName: account.Name,
		OldBalance:  oldBalance,
		NewBalance:  newBalance,
		Reason:      reason,
	}
	desc := fmt.Sprintf("Balance of %q changed from %s to %s", account.Name, utils.FormatCentavo(oldBalance), utils.FormatCentavo(newBalance))
	if reason != "" {
		desc += fmt.Sprintf(" (%s)", reason)
	}
	s.record(ctx, userID, account.AccountID, desc, detail, domain.SeverityInfo, meta)
}

// LogTransaction records a transaction_created or transaction_deleted entry.
func (s *AuditService) LogTransaction(ctx context.Context, userID string, txn domain.Transaction, accountName string, deleted bool, meta portssvc.RequestMeta) {
	detail := domain.TransactionDetail{
		AccountName: accountName,
		Amount:      txn.Amount,
		Category:    txn.Category,
		Kind:        txn.Type,
	}
	verb := "Recorded"
	severity := domain.SeverityInfo
	if deleted {
		detail.Type = domain.ActivityTransactionDeleted
		verb = "Deleted"
		severity = domain.SeverityWarning
	}
	desc := fmt.Sprintf("%s %s of %s on %q", verb, txn.Type, utils.FormatCentavo(txn.Amount), accountName)
	s.record(ctx, userID, txn.AccountID, desc, detail, severity, meta)
}

// LogGoalContribution records a goal_contribution_added entry against the
// funding account.
func (s *AuditService) LogGoalContribution(ctx context.Context, userID string, goal domain.Goal, accountName string, amount decimal.Decimal, meta portssvc.RequestMeta) {
	detail := domain.GoalContributionDetail{
		GoalID:      goal.GoalID,
		GoalName:    goal.Name,
		AccountName: accountName,
		Amount:      amount,
	}
	desc := fmt.Sprintf("Contributed %s to goal %q from %q", utils.FormatCentavo(amount), goal.Name, accountName)
	s.record(ctx, userID, "", desc, detail, domain.SeverityInfo, meta)
}

// buildFilter converts and validates history query parameters.
func buildFilter(params dto.AuditHistoryParams) (domain.AuditRecordFilter, error) {
	filter := domain.AuditRecordFilter{
		AccountID: params.AccountID,
		Limit:     params.Limit,
		Offset:    params.Offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = 25
	}
	if filter.Limit > historyMaxLimit {
		filter.Limit = historyMaxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	if len(params.Types) == 0 {
		filter.Types = domain.AccountActivityTypes
	} else {
		known := make(map[domain.ActivityType]bool, len(domain.AccountActivityTypes))
		for _, t := range domain.AccountActivityTypes {
			known[t] = true
		}
		for _, raw := range params.Types {
			t := domain.ActivityType(raw)
			if !known[t] {
				return domain.AuditRecordFilter{}, fmt.Errorf("%w: unknown activity type %q", apperrors.ErrValidation, raw)
			}
			filter.Types = append(filter.Types, t)
		}
	}

	if params.From != nil {
		from, err := time.Parse(time.RFC3339, *params.From)
		if err != nil {
			return domain.AuditRecordFilter{}, fmt.Errorf("%w: invalid 'from' timestamp", apperrors.ErrValidation)
		}
		filter.From = &from
	}
	if params.To != nil {
		to, err := time.Parse(time.RFC3339, *params.To)
		if err != nil {
			return domain.AuditRecordFilter{}, fmt.Errorf("%w: invalid 'to' timestamp", apperrors.ErrValidation)
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return domain.AuditRecordFilter{}, fmt.Errorf("%w: 'from' must not be after 'to'", apperrors.ErrValidation)
	}
	return filter, nil
}

// GetAccountHistory returns the filtered, paginated activity log page.
func (s *AuditService) GetAccountHistory(ctx context.Context, userID string, params dto.AuditHistoryParams) (*dto.AuditHistoryResponse, error) {
	filter, err := buildFilter(params)
	if err != nil {
		return nil, err
	}

	records, total, err := s.auditRepo.ListAuditRecords(ctx, userID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list audit records")
		return nil, fmt.Errorf("failed to retrieve account history: %w", err)
	}

	resp := dto.ToAuditHistoryResponse(records, total, filter.Limit, filter.Offset)
	return &resp, nil
}

// detailColumns extracts the account name, amount, and source/reason columns
// from a typed detail payload.
func detailColumns(detail domain.AuditDetail) (accountName, amount, sourceReason string) {
	switch d := detail.(type) {
	case domain.AccountCreatedDetail:
		return d.AccountName, utils.FormatCentavo(d.InitialBalance), ""
	case domain.AccountUpdatedDetail:
		return d.AccountName, "", ""
	case domain.CashInDetail:
		return d.AccountName, utils.FormatCentavo(d.Amount), d.Source
	case domain.AccountDeletedDetail:
		return d.AccountName, "", ""
	case domain.BalanceChangeDetail:
		return d.AccountName, utils.FormatCentavo(d.NewBalance), d.Reason
	case domain.TransactionDetail:
		return d.AccountName, utils.FormatCentavo(d.Amount), d.Category
	case domain.GoalContributionDetail:
		return d.AccountName, utils.FormatCentavo(d.Amount), d.GoalName
	}
	return "", "", ""
}

// ExportAccountHistory serializes the filtered history to CSV. Fields
// containing commas, quotes, or newlines are quoted per RFC 4180 by the
// encoder.
func (s *AuditService) ExportAccountHistory(ctx context.Context, userID string, params dto.AuditHistoryParams) ([]byte, error) {
	params.Limit = exportRowLimit
	params.Offset = 0
	filter, err := buildFilter(params)
	if err != nil {
		return nil, err
	}
	filter.Limit = exportRowLimit

	records, _, err := s.auditRepo.ListAuditRecords(ctx, userID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list audit records for export")
		return nil, fmt.Errorf("failed to export account history: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"Date", "Activity Type", "Description", "Account Name", "Amount", "Source/Reason", "IP Address", "User Agent"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write export header: %w", err)
	}
	for _, rec := range records {
		accountName, amount, sourceReason := detailColumns(rec.Detail)
		row := []string{
			rec.CreatedAt.UTC().Format(time.RFC3339),
			string(rec.Type),
			rec.Description,
			accountName,
			amount,
			sourceReason,
			rec.IPAddress,
			rec.UserAgent,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write export row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush export: %w", err)
	}
	return buf.Bytes(), nil
}
