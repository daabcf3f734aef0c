package mapping

import (
	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
	"github.com/pesoplan/pesoplan_backend/internal/models"
)

// ToModelGoal converts a domain.Goal for DB storage.
func ToModelGoal(d domain.Goal) models.Goal {
	return models.Goal{
		GoalID:        d.GoalID,
		UserID:        d.UserID,
		Name:          d.Name,
		TargetAmount:  d.TargetAmount,
		CurrentAmount: d.CurrentAmount,
		TargetDate:    d.TargetDate,
		Priority:      string(d.Priority),
		Status:        string(d.Status),
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainGoal converts a DB row back to the domain form.
func ToDomainGoal(m models.Goal) domain.Goal {
	return domain.Goal{
		GoalID:        m.GoalID,
		UserID:        m.UserID,
		Name:          m.Name,
		TargetAmount:  m.TargetAmount,
		CurrentAmount: m.CurrentAmount,
		TargetDate:    m.TargetDate,
		Priority:      domain.GoalPriority(m.Priority),
		Status:        domain.GoalStatus(m.Status),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
