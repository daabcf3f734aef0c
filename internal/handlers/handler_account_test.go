package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/pesoplan/pesoplan_backend/internal/apperrors"
	"github.com/pesoplan/pesoplan_backend/internal/core/domain"
	portssvc "github.com/pesoplan/pesoplan_backend/internal/core/ports/services"
	"github.com/pesoplan/pesoplan_backend/internal/dto"
	"github.com/pesoplan/pesoplan_backend/internal/handlers"
	"github.com/pesoplan/pesoplan_backend/internal/middleware"
)

// --- Mock AccountService ---

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, userID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, userID string, includeInactive bool) ([]domain.Account, error) {
	args := m.Called(ctx, userID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, userID, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, userID, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, userID, accountID string) (*string, error) {
	args := m.Called(ctx, userID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

func (m *MockAccountService) SetDefaultAccount(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, userID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) EnsureDefaultAccount(ctx context.Context, userID string) (*string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

func (m *MockAccountService) CashIn(ctx context.Context, userID, accountID string, req dto.CashInRequest) (*domain.Account, error) {
	args := m.Called(ctx, userID, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Test Suite ---

type AccountHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockAccountService
	jwtSecret   string
	userID      string
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = uuid.NewString()

	suite.router.Use(middleware.RequestMetaMiddleware())

	suite.mockService = new(MockAccountService)

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret))
	handlers.RegisterAccountRoutes(v1, suite.mockService)
}

func (suite *AccountHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "pesoplan-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *AccountHandlerTestSuite) doRequest(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AccountHandlerTestSuite) sampleAccount() *domain.Account {
	return &domain.Account{
		AccountID:   uuid.NewString(),
		UserID:      suite.userID,
		Name:        "Everyday Cash",
		AccountType: domain.AccountTypeCash,
		Balance:     decimal.NewFromInt(500),
		Currency:    domain.DefaultCurrency,
		Color:       "#2e7d32",
		IsDefault:   true,
		Status:      domain.AccountStatusActive,
	}
}

// --- Test Cases ---

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	account := suite.sampleAccount()
	suite.mockService.On("CreateAccount", mock.Anything, suite.userID, mock.AnythingOfType("dto.CreateAccountRequest")).
		Return(account, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/accounts", gin.H{
		"name":        "Everyday Cash",
		"accountType": "cash",
		"balance":     "500",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(account.AccountID, resp.AccountID)
	suite.True(resp.IsDefault)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_BadPayload() {
	w := suite.doRequest(http.MethodPost, "/api/v1/accounts", gin.H{
		"accountType": "cash", // name missing
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_NoToken() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", bytes.NewBufferString(`{"name":"x","accountType":"cash"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	accountID := uuid.NewString()
	suite.mockService.On("GetAccountByID", mock.Anything, suite.userID, accountID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/accounts/"+accountID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *AccountHandlerTestSuite) TestUpdateAccount_ValidationErrorMapsTo400() {
	accountID := uuid.NewString()
	suite.mockService.On("UpdateAccount", mock.Anything, suite.userID, accountID, mock.AnythingOfType("dto.UpdateAccountRequest")).
		Return(nil, fmt.Errorf("%w: account name must be 2-50 characters", apperrors.ErrValidation)).Once()

	w := suite.doRequest(http.MethodPatch, "/api/v1/accounts/"+accountID, gin.H{"name": "x"})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *AccountHandlerTestSuite) TestDeleteAccount_LastAccountConflictMapsTo409() {
	accountID := uuid.NewString()
	suite.mockService.On("DeleteAccount", mock.Anything, suite.userID, accountID).
		Return(nil, fmt.Errorf("%w: cannot delete the last active account", apperrors.ErrConflict)).Once()

	w := suite.doRequest(http.MethodDelete, "/api/v1/accounts/"+accountID, nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *AccountHandlerTestSuite) TestDeleteAccount_ReturnsPromotedDefault() {
	accountID := uuid.NewString()
	promoted := uuid.NewString()
	suite.mockService.On("DeleteAccount", mock.Anything, suite.userID, accountID).
		Return(&promoted, nil).Once()

	w := suite.doRequest(http.MethodDelete, "/api/v1/accounts/"+accountID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.DeleteAccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(accountID, resp.AccountID)
	suite.Require().NotNil(resp.NewDefaultAccountID)
	suite.Equal(promoted, *resp.NewDefaultAccountID)
}

func (suite *AccountHandlerTestSuite) TestSetDefaultAccount_Success() {
	account := suite.sampleAccount()
	suite.mockService.On("SetDefaultAccount", mock.Anything, suite.userID, account.AccountID).
		Return(account, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/accounts/"+account.AccountID+"/default", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.IsDefault)
}

func (suite *AccountHandlerTestSuite) TestCashIn_Success() {
	account := suite.sampleAccount()
	suite.mockService.On("CashIn", mock.Anything, suite.userID, account.AccountID, mock.AnythingOfType("dto.CashInRequest")).
		Return(account, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/accounts/"+account.AccountID+"/cash-in", gin.H{
		"amount": "250.50",
		"source": "payday",
	})

	suite.Equal(http.StatusOK, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestEnsureDefault_Success() {
	defaultID := uuid.NewString()
	suite.mockService.On("EnsureDefaultAccount", mock.Anything, suite.userID).
		Return(&defaultID, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/accounts/ensure-default", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.EnsureDefaultResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().NotNil(resp.DefaultAccountID)
	suite.Equal(defaultID, *resp.DefaultAccountID)
}

func TestAccountHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
