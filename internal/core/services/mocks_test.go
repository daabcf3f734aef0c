package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
	portsrepo "github.com/pesoplan/pesoplan_backend/internal/core/ports/repositories"
	portssvc "github.com/pesoplan/pesoplan_backend/internal/core/ports/services"
)

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, userID string, includeInactive bool) ([]domain.Account, error) {
	args := m.Called(ctx, userID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, userID, accountID, updatedBy string, now time.Time) (*string, error) {
	args := m.Called(ctx, userID, accountID, updatedBy, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

func (m *MockAccountRepository) SetDefaultAccount(ctx context.Context, userID, accountID, updatedBy string, now time.Time) error {
	args := m.Called(ctx, userID, accountID, updatedBy, now)
	return args.Error(0)
}

func (m *MockAccountRepository) EnsureDefaultAccount(ctx context.Context, userID, updatedBy string, now time.Time) (*string, error) {
	args := m.Called(ctx, userID, updatedBy, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, balanceChanges, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockAccountRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockAccountRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

var _ portsrepo.AccountRepositoryWithTx = (*MockAccountRepository)(nil)

// --- Mock TransactionRepository ---

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) (map[string]domain.Account, error) {
	args := m.Called(ctx, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, userID string, filter portsrepo.TransactionFilter) ([]domain.Transaction, int64, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, userID, transactionID, deletedBy string, now time.Time) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, transactionID, deletedBy, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

var _ portsrepo.TransactionRepository = (*MockTransactionRepository)(nil)

// --- Mock GoalRepository ---

type MockGoalRepository struct {
	mock.Mock
}

func (m *MockGoalRepository) SaveGoal(ctx context.Context, goal domain.Goal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *MockGoalRepository) FindGoalByID(ctx context.Context, goalID string) (*domain.Goal, error) {
	args := m.Called(ctx, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Goal), args.Error(1)
}

func (m *MockGoalRepository) ListGoals(ctx context.Context, userID string, includeFinished bool) ([]domain.Goal, error) {
	args := m.Called(ctx, userID, includeFinished)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Goal), args.Error(1)
}

func (m *MockGoalRepository) UpdateGoal(ctx context.Context, goal domain.Goal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *MockGoalRepository) CancelGoal(ctx context.Context, userID, goalID, updatedBy string, now time.Time) error {
	args := m.Called(ctx, userID, goalID, updatedBy, now)
	return args.Error(0)
}

func (m *MockGoalRepository) ApplyContribution(ctx context.Context, userID, goalID, accountID string, amount decimal.Decimal, now time.Time) (*domain.Goal, *domain.Account, error) {
	args := m.Called(ctx, userID, goalID, accountID, amount, now)
	var goal *domain.Goal
	var account *domain.Account
	if args.Get(0) != nil {
		goal = args.Get(0).(*domain.Goal)
	}
	if args.Get(1) != nil {
		account = args.Get(1).(*domain.Account)
	}
	return goal, account, args.Error(2)
}

var _ portsrepo.GoalRepository = (*MockGoalRepository)(nil)

// --- Mock AuditRepository ---

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) SaveAuditRecord(ctx context.Context, record domain.AuditRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAuditRepository) ListAuditRecords(ctx context.Context, userID string, filter domain.AuditRecordFilter) ([]domain.AuditRecord, int64, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.AuditRecord), args.Get(1).(int64), args.Error(2)
}

var _ portsrepo.AuditRepositoryFacade = (*MockAuditRepository)(nil)

// --- Mock AuditLogger ---

type MockAuditLogger struct {
	mock.Mock
}

func (m *MockAuditLogger) LogAccountCreated(ctx context.Context, userID string, account domain.Account, meta portssvc.RequestMeta) {
	m.Called(ctx, userID, account, meta)
}

func (m *MockAuditLogger) LogAccountUpdated(ctx context.Context, userID string, oldAcc, newAcc domain.Account, meta portssvc.RequestMeta) {
	m.Called(ctx, userID, oldAcc, newAcc, meta)
}

func (m *MockAuditLogger) LogCashIn(ctx context.Context, userID string, account domain.Account, amount decimal.Decimal, source string, meta portssvc.RequestMeta) {
	m.Called(ctx, userID, account, amount, source, meta)
}

func (m *MockAuditLogger) LogAccountDeleted(ctx context.Context, userID string, account domain.Account, promotedID *string, meta portssvc.RequestMeta) {
	m.Called(ctx, userID, account, promotedID, meta)
}

func (m *MockAuditLogger) LogBalanceChange(ctx context.Context, userID string, account domain.Account, oldBalance, newBalance decimal.Decimal, reason string, meta portssvc.RequestMeta) {
	m.Called(ctx, userID, account, oldBalance, newBalance, reason, meta)
}

func (m *MockAuditLogger) LogTransaction(ctx context.Context, userID string, txn domain.Transaction, accountName string, deleted bool, meta portssvc.RequestMeta) {
	m.Called(ctx, userID, txn, accountName, deleted, meta)
}

func (m *MockAuditLogger) LogGoalContribution(ctx context.Context, userID string, goal domain.Goal, accountName string, amount decimal.Decimal, meta portssvc.RequestMeta) {
	m.Called(ctx, userID, goal, accountName, amount, meta)
}

var _ portssvc.AuditLoggerSvc = (*MockAuditLogger)(nil)
