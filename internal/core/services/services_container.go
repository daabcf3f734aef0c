package services

import (
	portsrepo "github.com/pesoplan/pesoplan_backend/internal/core/ports/repositories"
	portssvc "github.com/pesoplan/pesoplan_backend/internal/core/ports/services"
	"github.com/pesoplan/pesoplan_backend/internal/platform/config"
)

// NewServiceContainer wires the services in dependency order. The audit
// service comes first because the mutation services report into it.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	audit := NewAuditService(repos.AuditRepo)
	container.Audit = audit

	container.Account = NewAccountService(repos.AccountRepo, repos.TransactionRepo, audit)
	container.Transaction = NewTransactionService(repos.TransactionRepo, repos.AccountRepo, audit)
	container.Goal = NewGoalService(repos.GoalRepo, repos.AccountRepo, audit)
	container.User = NewUserService(repos.UserRepo)
	container.Reporting = NewReportingService(repos.ReportingRepo)
	container.Token = NewTokenService(cfg, container.User)
	container.GoogleAuth = NewGoogleAuthService(cfg)

	return container
}
