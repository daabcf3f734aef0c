package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/pesoplan/pesoplan_backend/internal/apperrors"
	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
	portsrepo "github.com/pesoplan/pesoplan_backend/internal/core/ports/repositories"
	portssvc "github.com/pesoplan/pesoplan_backend/internal/core/ports/services"
	"github.com/pesoplan/pesoplan_backend/internal/core/services"
	"github.com/pesoplan/pesoplan_backend/internal/dto"
)

type TransactionServiceTestSuite struct {
	suite.Suite
	mockTxnRepo     *MockTransactionRepository
	mockAccountRepo *MockAccountRepository
	mockAudit       *MockAuditLogger
	service         *services.TransactionService
	userID          string
	meta            portssvc.RequestMeta
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockAudit = new(MockAuditLogger)
	suite.service = services.NewTransactionService(suite.mockTxnRepo, suite.mockAccountRepo, suite.mockAudit)
	suite.userID = uuid.NewString()
	suite.meta = portssvc.RequestMeta{IPAddress: "198.51.100.4"}
}

func strPtr(s string) *string { return &s }

func (suite *TransactionServiceTestSuite) TestCreateTransaction_ExpenseSuccess() {
	ctx := context.Background()
	accountID := uuid.NewString()
	req := dto.CreateTransactionRequest{
		AccountID: accountID,
		Type:      domain.TransactionExpense,
		Amount:    decimal.RequireFromString("120.505"),
		Category:  "groceries",
	}

	account := domain.Account{AccountID: accountID, UserID: suite.userID, Name: "Everyday Cash", Balance: decimal.RequireFromString("379.49")}
	var saved domain.Transaction
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.Transaction) }).
		Return(map[string]domain.Account{accountID: account}, nil).Once()
	suite.mockAudit.On("LogTransaction", ctx, suite.userID, mock.AnythingOfType("domain.Transaction"), "Everyday Cash", false, suite.meta).Return().Once()

	var loggedOld, loggedNew decimal.Decimal
	suite.mockAudit.On("LogBalanceChange", ctx, suite.userID, mock.AnythingOfType("domain.Account"), mock.Anything, mock.Anything, "expense transaction", suite.meta).
		Run(func(args mock.Arguments) {
			loggedOld = args.Get(3).(decimal.Decimal)
			loggedNew = args.Get(4).(decimal.Decimal)
		}).Return().Once()

	txn, err := suite.service.CreateTransaction(ctx, suite.userID, req, suite.meta)

	suite.Require().NoError(err)
	suite.True(txn.Amount.Equal(decimal.RequireFromString("120.51")), "amount is rounded before persisting")
	suite.Equal(domain.TransactionExpense, saved.Type)
	suite.Empty(saved.CounterpartyAccountID)
	suite.WithinDuration(time.Now().UTC(), saved.OccurredAt, time.Second, "occurred_at defaults to now")
	suite.True(loggedOld.Equal(decimal.RequireFromString("500")), "balance entry reconstructs the pre-save balance")
	suite.True(loggedNew.Equal(decimal.RequireFromString("379.49")))
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_TransferLogsBothBalanceChanges() {
	ctx := context.Background()
	sourceID := uuid.NewString()
	destID := uuid.NewString()
	req := dto.CreateTransactionRequest{
		AccountID:             sourceID,
		CounterpartyAccountID: strPtr(destID),
		Type:                  domain.TransactionTransfer,
		Amount:                decimal.NewFromInt(250),
	}

	updated := map[string]domain.Account{
		sourceID: {AccountID: sourceID, UserID: suite.userID, Name: "Everyday Cash", Balance: decimal.NewFromInt(750)},
		destID:   {AccountID: destID, UserID: suite.userID, Name: "Emergency Fund", Balance: decimal.NewFromInt(1250)},
	}
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(updated, nil).Once()
	suite.mockAudit.On("LogTransaction", ctx, suite.userID, mock.AnythingOfType("domain.Transaction"), "Everyday Cash", false, suite.meta).Return().Once()
	suite.mockAudit.On("LogBalanceChange", ctx, suite.userID, mock.AnythingOfType("domain.Account"), mock.Anything, mock.Anything, "transfer transaction", suite.meta).Return().Times(2)

	_, err := suite.service.CreateTransaction(ctx, suite.userID, req, suite.meta)

	suite.Require().NoError(err)
	suite.mockAudit.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_NonPositiveAmountRejected() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{AccountID: uuid.NewString(), Type: domain.TransactionIncome, Amount: decimal.Zero}

	_, err := suite.service.CreateTransaction(ctx, suite.userID, req, suite.meta)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_TransferRequiresCounterparty() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		AccountID: uuid.NewString(),
		Type:      domain.TransactionTransfer,
		Amount:    decimal.NewFromInt(50),
	}

	_, err := suite.service.CreateTransaction(ctx, suite.userID, req, suite.meta)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_SelfTransferRejected() {
	ctx := context.Background()
	accountID := uuid.NewString()
	req := dto.CreateTransactionRequest{
		AccountID:             accountID,
		CounterpartyAccountID: strPtr(accountID),
		Type:                  domain.TransactionTransfer,
		Amount:                decimal.NewFromInt(50),
	}

	_, err := suite.service.CreateTransaction(ctx, suite.userID, req, suite.meta)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_CounterpartyOnlyForTransfers() {
	ctx := context.Background()
	req := dto.CreateTransactionRequest{
		AccountID:             uuid.NewString(),
		CounterpartyAccountID: strPtr(uuid.NewString()),
		Type:                  domain.TransactionExpense,
		Amount:                decimal.NewFromInt(50),
	}

	_, err := suite.service.CreateTransaction(ctx, suite.userID, req, suite.meta)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestListTransactions_DefaultsLimit() {
	ctx := context.Background()
	var captured portsrepo.TransactionFilter
	suite.mockTxnRepo.On("ListTransactions", ctx, suite.userID, mock.AnythingOfType("repositories.TransactionFilter")).
		Run(func(args mock.Arguments) { captured = args.Get(2).(portsrepo.TransactionFilter) }).
		Return([]domain.Transaction{}, int64(0), nil).Once()

	resp, err := suite.service.ListTransactions(ctx, suite.userID, dto.ListTransactionsParams{})

	suite.Require().NoError(err)
	suite.Equal(25, captured.Limit)
	suite.Equal(25, resp.Limit)
}

func (suite *TransactionServiceTestSuite) TestListTransactions_BadTimestampRejected() {
	ctx := context.Background()
	bad := "yesterday"

	_, err := suite.service.ListTransactions(ctx, suite.userID, dto.ListTransactionsParams{From: &bad})

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_AuditsWithAccountName() {
	ctx := context.Background()
	accountID := uuid.NewString()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        suite.userID,
		AccountID:     accountID,
		Type:          domain.TransactionExpense,
		Amount:        decimal.NewFromInt(75),
	}
	account := domain.Account{AccountID: accountID, UserID: suite.userID, Name: "Everyday Cash"}

	suite.mockTxnRepo.On("DeleteTransaction", ctx, suite.userID, txn.TransactionID, suite.userID, mock.AnythingOfType("time.Time")).
		Return(&txn, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(&account, nil).Once()
	suite.mockAudit.On("LogTransaction", ctx, suite.userID, txn, "Everyday Cash", true, suite.meta).Return().Once()

	err := suite.service.DeleteTransaction(ctx, suite.userID, txn.TransactionID, suite.meta)

	suite.Require().NoError(err)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_NotFoundPassesThrough() {
	ctx := context.Background()
	transactionID := uuid.NewString()
	suite.mockTxnRepo.On("DeleteTransaction", ctx, suite.userID, transactionID, suite.userID, mock.AnythingOfType("time.Time")).
		Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeleteTransaction(ctx, suite.userID, transactionID, suite.meta)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.mockAudit.AssertNotCalled(suite.T(), "LogTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
