package services_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/pesoplan/pesoplan_backend/internal/apperrors"
	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
	"github.com/pesoplan/pesoplan_backend/internal/core/services"
	"github.com/pesoplan/pesoplan_backend/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockTxnRepo     *MockTransactionRepository
	mockAudit       *MockAuditLogger
	service         *services.AccountService
	userID          string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockAudit = new(MockAuditLogger)
	suite.service = services.NewAccountService(suite.mockAccountRepo, suite.mockTxnRepo, suite.mockAudit)
	suite.userID = uuid.NewString()
}

// newActiveAccount builds an owned, active account for test setups.
func (suite *AccountServiceTestSuite) newActiveAccount(accountType domain.AccountType, balance string, isDefault bool) domain.Account {
	now := time.Now().UTC().Add(-time.Hour)
	return domain.Account{
		AccountID:   uuid.NewString(),
		UserID:      suite.userID,
		Name:        "Everyday Cash",
		AccountType: accountType,
		Balance:     decimal.RequireFromString(balance),
		Currency:    domain.DefaultCurrency,
		Color:       "#2e7d32",
		IsDefault:   isDefault,
		Status:      domain.AccountStatusActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     suite.userID,
			LastUpdatedAt: now,
			LastUpdatedBy: suite.userID,
		},
	}
}

// --- CreateAccount ---

func (suite *AccountServiceTestSuite) TestCreateAccount_FirstAccountBecomesDefault() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Name:        "GCash Wallet",
		AccountType: domain.AccountTypeCash,
		Balance:     decimal.NewFromInt(500),
		IsDefault:   false, // ignored for the first account
	}

	suite.mockAccountRepo.On("ListAccounts", ctx, suite.userID, false).Return([]domain.Account{}, nil).Once()

	var saved domain.Account
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.Account) }).
		Return(nil).Once()
	suite.mockAudit.On("LogAccountCreated", ctx, suite.userID, mock.AnythingOfType("domain.Account"), mock.Anything).Return().Once()

	account, err := suite.service.CreateAccount(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.True(account.IsDefault, "first account must become the default")
	suite.True(saved.IsDefault)
	suite.Equal(domain.DefaultCurrency, saved.Currency)
	suite.Equal(domain.AccountStatusActive, saved.Status)
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_MaxLengthDescriptionPersistedUnchanged() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Name:        "BPI Savings",
		AccountType: domain.AccountTypeSavings,
		Description: strings.Repeat("d", 500),
	}

	suite.mockAccountRepo.On("ListAccounts", ctx, suite.userID, false).Return([]domain.Account{}, nil).Once()

	var saved domain.Account
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.Account) }).
		Return(nil).Once()
	suite.mockAudit.On("LogAccountCreated", ctx, suite.userID, mock.AnythingOfType("domain.Account"), mock.Anything).Return().Once()

	_, err := suite.service.CreateAccount(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Len(saved.Description, 500, "descriptions up to 500 chars pass through untruncated")
}

func (suite *AccountServiceTestSuite) TestCreateAccount_LaterAccountKeepsRequestedFlag() {
	ctx := context.Background()
	existing := suite.newActiveAccount(domain.AccountTypeChecking, "100", true)
	req := dto.CreateAccountRequest{
		Name:        "Emergency Fund",
		AccountType: domain.AccountTypeSavings,
	}

	suite.mockAccountRepo.On("ListAccounts", ctx, suite.userID, false).Return([]domain.Account{existing}, nil).Once()

	var saved domain.Account
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.Account) }).
		Return(nil).Once()
	suite.mockAudit.On("LogAccountCreated", ctx, suite.userID, mock.AnythingOfType("domain.Account"), mock.Anything).Return().Once()

	account, err := suite.service.CreateAccount(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.False(account.IsDefault)
	suite.False(saved.IsDefault)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_RoundsBalanceToCentavo() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Name:        "Payroll",
		AccountType: domain.AccountTypeChecking,
		Balance:     decimal.RequireFromString("100.005"),
	}

	suite.mockAccountRepo.On("ListAccounts", ctx, suite.userID, false).Return([]domain.Account{}, nil).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()
	suite.mockAudit.On("LogAccountCreated", ctx, suite.userID, mock.AnythingOfType("domain.Account"), mock.Anything).Return().Once()

	account, err := suite.service.CreateAccount(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.True(account.Balance.Equal(decimal.RequireFromString("100.01")))
}

func (suite *AccountServiceTestSuite) TestCreateAccount_UnknownTypeRejected() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Name: "Mystery", AccountType: "crypto"}

	account, err := suite.service.CreateAccount(ctx, suite.userID, req)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(account)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_CreditPositiveBalanceRejected() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Name:        "Visa Card",
		AccountType: domain.AccountTypeCredit,
		Balance:     decimal.NewFromInt(1000),
	}

	account, err := suite.service.CreateAccount(ctx, suite.userID, req)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(account)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

// --- GetAccountByID ---

func (suite *AccountServiceTestSuite) TestGetAccountByID_ForeignAccountHidden() {
	ctx := context.Background()
	foreign := suite.newActiveAccount(domain.AccountTypeChecking, "100", false)
	foreign.UserID = uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByID", ctx, foreign.AccountID).Return(&foreign, nil).Once()

	account, err := suite.service.GetAccountByID(ctx, suite.userID, foreign.AccountID)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(account)
}

// --- UpdateAccount ---

func (suite *AccountServiceTestSuite) TestUpdateAccount_InactiveRejected() {
	ctx := context.Background()
	acc := suite.newActiveAccount(domain.AccountTypeChecking, "100", false)
	acc.Status = domain.AccountStatusInactive

	suite.mockAccountRepo.On("FindAccountByID", ctx, acc.AccountID).Return(&acc, nil).Once()

	newName := "Renamed"
	_, err := suite.service.UpdateAccount(ctx, suite.userID, acc.AccountID, dto.UpdateAccountRequest{Name: &newName})

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_ClearingDefaultFlagIgnored() {
	ctx := context.Background()
	acc := suite.newActiveAccount(domain.AccountTypeChecking, "100", true)

	suite.mockAccountRepo.On("FindAccountByID", ctx, acc.AccountID).Return(&acc, nil).Once()

	var updated domain.Account
	suite.mockAccountRepo.On("UpdateAccount", ctx, mock.AnythingOfType("domain.Account")).
		Run(func(args mock.Arguments) { updated = args.Get(1).(domain.Account) }).
		Return(nil).Once()
	suite.mockAudit.On("LogAccountUpdated", ctx, suite.userID, mock.AnythingOfType("domain.Account"), mock.AnythingOfType("domain.Account"), mock.Anything).Return().Once()

	clear := false
	result, err := suite.service.UpdateAccount(ctx, suite.userID, acc.AccountID, dto.UpdateAccountRequest{IsDefault: &clear})

	suite.Require().NoError(err)
	suite.True(result.IsDefault, "default flag only moves by promoting another account")
	suite.True(updated.IsDefault)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_BalanceEditAudited() {
	ctx := context.Background()
	acc := suite.newActiveAccount(domain.AccountTypeChecking, "100", false)

	suite.mockAccountRepo.On("FindAccountByID", ctx, acc.AccountID).Return(&acc, nil).Once()
	suite.mockAccountRepo.On("UpdateAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()
	suite.mockAudit.On("LogAccountUpdated", ctx, suite.userID, mock.AnythingOfType("domain.Account"), mock.AnythingOfType("domain.Account"), mock.Anything).Return().Once()
	suite.mockAudit.On("LogBalanceChange", ctx, suite.userID, mock.AnythingOfType("domain.Account"), mock.Anything, mock.Anything, "manual balance edit", mock.Anything).Return().Once()

	newBalance := decimal.NewFromInt(250)
	result, err := suite.service.UpdateAccount(ctx, suite.userID, acc.AccountID, dto.UpdateAccountRequest{Balance: &newBalance})

	suite.Require().NoError(err)
	suite.True(result.Balance.Equal(newBalance))
	suite.mockAudit.AssertExpectations(suite.T())
}

// --- DeleteAccount ---

func (suite *AccountServiceTestSuite) TestDeleteAccount_LastActiveAccountConflicts() {
	ctx := context.Background()
	acc := suite.newActiveAccount(domain.AccountTypeChecking, "100", true)

	suite.mockAccountRepo.On("FindAccountByID", ctx, acc.AccountID).Return(&acc, nil).Once()
	suite.mockAccountRepo.On("ListAccounts", ctx, suite.userID, false).Return([]domain.Account{acc}, nil).Once()

	promotedID, err := suite.service.DeleteAccount(ctx, suite.userID, acc.AccountID)

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(promotedID)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_RepositoryConflictPassesThrough() {
	ctx := context.Background()
	victim := suite.newActiveAccount(domain.AccountTypeChecking, "100", false)
	survivor := suite.newActiveAccount(domain.AccountTypeSavings, "50", true)

	// A concurrent delete can win the race after the pre-check; the
	// repository's locked re-count then rejects this one.
	suite.mockAccountRepo.On("FindAccountByID", ctx, victim.AccountID).Return(&victim, nil).Once()
	suite.mockAccountRepo.On("ListAccounts", ctx, suite.userID, false).Return([]domain.Account{victim, survivor}, nil).Once()
	suite.mockAccountRepo.On("DeactivateAccount", ctx, suite.userID, victim.AccountID, suite.userID, mock.AnythingOfType("time.Time")).
		Return(nil, fmt.Errorf("%w: cannot delete the last active account", apperrors.ErrConflict)).Once()

	promotedID, err := suite.service.DeleteAccount(ctx, suite.userID, victim.AccountID)

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(promotedID)
	suite.mockAudit.AssertNotCalled(suite.T(), "LogAccountDeleted",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_DefaultPromotesReplacement() {
	ctx := context.Background()
	victim := suite.newActiveAccount(domain.AccountTypeChecking, "100", true)
	survivor := suite.newActiveAccount(domain.AccountTypeSavings, "50", false)
	promoted := survivor.AccountID

	suite.mockAccountRepo.On("FindAccountByID", ctx, victim.AccountID).Return(&victim, nil).Once()
	suite.mockAccountRepo.On("ListAccounts", ctx, suite.userID, false).Return([]domain.Account{victim, survivor}, nil).Once()
	suite.mockAccountRepo.On("DeactivateAccount", ctx, suite.userID, victim.AccountID, suite.userID, mock.AnythingOfType("time.Time")).Return(&promoted, nil).Once()
	suite.mockAudit.On("LogAccountDeleted", ctx, suite.userID, victim, &promoted, mock.Anything).Return().Once()

	promotedID, err := suite.service.DeleteAccount(ctx, suite.userID, victim.AccountID)

	suite.Require().NoError(err)
	suite.Require().NotNil(promotedID)
	suite.Equal(survivor.AccountID, *promotedID)
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_InactiveAccountNotFound() {
	ctx := context.Background()
	acc := suite.newActiveAccount(domain.AccountTypeChecking, "100", false)
	acc.Status = domain.AccountStatusInactive

	suite.mockAccountRepo.On("FindAccountByID", ctx, acc.AccountID).Return(&acc, nil).Once()

	_, err := suite.service.DeleteAccount(ctx, suite.userID, acc.AccountID)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

// --- SetDefaultAccount ---

func (suite *AccountServiceTestSuite) TestSetDefaultAccount_AlreadyDefaultIsNoop() {
	ctx := context.Background()
	acc := suite.newActiveAccount(domain.AccountTypeChecking, "100", true)

	suite.mockAccountRepo.On("FindAccountByID", ctx, acc.AccountID).Return(&acc, nil).Once()

	result, err := suite.service.SetDefaultAccount(ctx, suite.userID, acc.AccountID)

	suite.Require().NoError(err)
	suite.True(result.IsDefault)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SetDefaultAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestSetDefaultAccount_Success() {
	ctx := context.Background()
	acc := suite.newActiveAccount(domain.AccountTypeSavings, "100", false)

	suite.mockAccountRepo.On("FindAccountByID", ctx, acc.AccountID).Return(&acc, nil).Once()
	suite.mockAccountRepo.On("SetDefaultAccount", ctx, suite.userID, acc.AccountID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockAudit.On("LogAccountUpdated", ctx, suite.userID, mock.AnythingOfType("domain.Account"), mock.AnythingOfType("domain.Account"), mock.Anything).Return().Once()

	result, err := suite.service.SetDefaultAccount(ctx, suite.userID, acc.AccountID)

	suite.Require().NoError(err)
	suite.True(result.IsDefault)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestSetDefaultAccount_InactiveRejected() {
	ctx := context.Background()
	acc := suite.newActiveAccount(domain.AccountTypeSavings, "100", false)
	acc.Status = domain.AccountStatusInactive

	suite.mockAccountRepo.On("FindAccountByID", ctx, acc.AccountID).Return(&acc, nil).Once()

	_, err := suite.service.SetDefaultAccount(ctx, suite.userID, acc.AccountID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

// --- CashIn ---

func (suite *AccountServiceTestSuite) TestCashIn_NonPositiveAmountRejected() {
	ctx := context.Background()
	req := dto.CashInRequest{Amount: decimal.NewFromInt(-5)}

	_, err := suite.service.CashIn(ctx, suite.userID, uuid.NewString(), req)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCashIn_CreditOverpayRejected() {
	ctx := context.Background()
	acc := suite.newActiveAccount(domain.AccountTypeCredit, "-50", false)

	suite.mockAccountRepo.On("FindAccountByID", ctx, acc.AccountID).Return(&acc, nil).Once()

	_, err := suite.service.CashIn(ctx, suite.userID, acc.AccountID, dto.CashInRequest{Amount: decimal.NewFromInt(100)})

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCashIn_RecordsIncomeTransaction() {
	ctx := context.Background()
	acc := suite.newActiveAccount(domain.AccountTypeCash, "100", true)
	updated := acc
	updated.Balance = decimal.RequireFromString("350.50")

	suite.mockAccountRepo.On("FindAccountByID", ctx, acc.AccountID).Return(&acc, nil).Once()

	var savedTxn domain.Transaction
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).
		Run(func(args mock.Arguments) { savedTxn = args.Get(1).(domain.Transaction) }).
		Return(map[string]domain.Account{acc.AccountID: updated}, nil).Once()
	suite.mockAudit.On("LogCashIn", ctx, suite.userID, updated, mock.Anything, "payday", mock.Anything).Return().Once()

	result, err := suite.service.CashIn(ctx, suite.userID, acc.AccountID, dto.CashInRequest{
		Amount: decimal.RequireFromString("250.50"),
		Source: "payday",
	})

	suite.Require().NoError(err)
	suite.True(result.Balance.Equal(updated.Balance))
	suite.Equal(domain.TransactionIncome, savedTxn.Type)
	suite.Equal("cash_in", savedTxn.Category)
	suite.Equal("payday", savedTxn.Description)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
