package mapping

import (
	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
	"github.com/pesoplan/pesoplan_backend/internal/models"
)

// ToModelAccount converts a domain.Account for DB storage.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:       d.AccountID,
		UserID:          d.UserID,
		Name:            d.Name,
		AccountType:     models.AccountType(d.AccountType),
		Balance:         d.Balance,
		Currency:        d.Currency,
		Color:           d.Color,
		IsDefault:       d.IsDefault,
		Status:          models.AccountStatus(d.Status),
		InstitutionName: d.InstitutionName,
		Description:     d.Description,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a DB row back to the domain form.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		UserID:          m.UserID,
		Name:            m.Name,
		AccountType:     domain.AccountType(m.AccountType),
		Balance:         m.Balance,
		Currency:        m.Currency,
		Color:           m.Color,
		IsDefault:       m.IsDefault,
		Status:          domain.AccountStatus(m.Status),
		InstitutionName: m.InstitutionName,
		Description:     m.Description,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
