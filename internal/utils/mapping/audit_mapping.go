package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
	"github.com/pesoplan/pesoplan_backend/internal/models"
)

// ToModelAuditRecord converts a domain.AuditRecord for DB storage, encoding
// the typed detail payload as json.
func ToModelAuditRecord(d domain.AuditRecord) (models.AuditRecord, error) {
	var detail json.RawMessage
	if d.Detail != nil {
		raw, err := json.Marshal(d.Detail)
		if err != nil {
			return models.AuditRecord{}, fmt.Errorf("failed to encode audit detail for %s: %w", d.Type, err)
		}
		detail = raw
	}
	return models.AuditRecord{
		AuditID:      d.AuditID,
		UserID:       d.UserID,
		AccountID:    d.AccountID,
		ActivityType: string(d.Type),
		Description:  d.Description,
		Detail:       detail,
		Severity:     string(d.Severity),
		IPAddress:    d.IPAddress,
		UserAgent:    d.UserAgent,
		CreatedAt:    d.CreatedAt,
	}, nil
}

// ToDomainAuditRecord converts a DB row back to the domain form, decoding
// the detail payload into the struct matching its activity type.
func ToDomainAuditRecord(m models.AuditRecord) domain.AuditRecord {
	rec := domain.AuditRecord{
		AuditID:     m.AuditID,
		UserID:      m.UserID,
		AccountID:   m.AccountID,
		Type:        domain.ActivityType(m.ActivityType),
		Description: m.Description,
		Severity:    domain.Severity(m.Severity),
		IPAddress:   m.IPAddress,
		UserAgent:   m.UserAgent,
		CreatedAt:   m.CreatedAt,
	}
	rec.Detail = decodeAuditDetail(rec.Type, m.Detail)
	return rec
}

// decodeAuditDetail picks the payload struct for the activity type. Unknown
// types or malformed payloads yield a nil detail; the record itself is still
// usable through its description.
func decodeAuditDetail(t domain.ActivityType, raw json.RawMessage) domain.AuditDetail {
	if len(raw) == 0 {
		return nil
	}
	switch t {
	case domain.ActivityAccountCreated:
		var d domain.AccountCreatedDetail
		if json.Unmarshal(raw, &d) == nil {
			return d
		}
	case domain.ActivityAccountUpdated:
		var d domain.AccountUpdatedDetail
		if json.Unmarshal(raw, &d) == nil {
			return d
		}
	case domain.ActivityAccountCashIn:
		var d domain.CashInDetail
		if json.Unmarshal(raw, &d) == nil {
			return d
		}
	case domain.ActivityAccountDeleted:
		var d domain.AccountDeletedDetail
		if json.Unmarshal(raw, &d) == nil {
			return d
		}
	case domain.ActivityAccountBalanceChange:
		var d domain.BalanceChangeDetail
		if json.Unmarshal(raw, &d) == nil {
			return d
		}
	case domain.ActivityTransactionCreated, domain.ActivityTransactionDeleted:
		var d domain.TransactionDetail
		if json.Unmarshal(raw, &d) == nil {
			d.Type = t
			return d
		}
	case domain.ActivityGoalContribution:
		var d domain.GoalContributionDetail
		if json.Unmarshal(raw, &d) == nil {
			return d
		}
	}
	return nil
}
