package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/pesoplan/pesoplan_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the concrete pgx repositories.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	auditRepo := newPgxAuditRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool, accountRepo)
	goalRepo := newPgxGoalRepository(dbPool, accountRepo)
	userRepo := newPgxUserRepository(dbPool)
	reportingRepo := newPgxReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:     accountRepo,
		AuditRepo:       auditRepo,
		TransactionRepo: transactionRepo,
		GoalRepo:        goalRepo,
		UserRepo:        userRepo,
		ReportingRepo:   reportingRepo,
	}
}
