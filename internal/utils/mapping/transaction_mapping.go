package mapping

import (
	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
	"github.com/pesoplan/pesoplan_backend/internal/models"
)

// ToModelTransaction converts a domain.Transaction for DB storage.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:         d.TransactionID,
		UserID:                d.UserID,
		AccountID:             d.AccountID,
		CounterpartyAccountID: d.CounterpartyAccountID,
		Type:                  string(d.Type),
		Amount:                d.Amount,
		Category:              d.Category,
		Description:           d.Description,
		OccurredAt:            d.OccurredAt,
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a DB row back to the domain form.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:         m.TransactionID,
		UserID:                m.UserID,
		AccountID:             m.AccountID,
		CounterpartyAccountID: m.CounterpartyAccountID,
		Type:                  domain.TransactionType(m.Type),
		Amount:                m.Amount,
		Category:              m.Category,
		Description:           m.Description,
		OccurredAt:            m.OccurredAt,
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
}
