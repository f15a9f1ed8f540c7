package accounts_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ms-marketplace/internal/accounts"
	"ms-marketplace/internal/models"
)

type MockDBLayer struct {
	mock.Mock
}

func (m *MockDBLayer) CreateAccount(account models.Account) (*models.Account, error) {
	args := m.Called(account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockDBLayer) SaveAccount(account models.Account) (*models.Account, error) {
	args := m.Called(account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockDBLayer) GetAccountByUser(userID string) (*models.Account, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockDBLayer) AdjustFunds(userID string, delta decimal.Decimal) (*models.Account, error) {
	args := m.Called(userID, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func TestOpenAccountStartsAtZero(t *testing.T) {
	mockDB := new(MockDBLayer)
	svc := accounts.NewAccountService(mockDB)

	mockDB.On("CreateAccount", mock.MatchedBy(func(a models.Account) bool {
		return a.UserID == "user1" && a.Funds.IsZero() && a.AccountID == "acct_ext"
	})).Return(&models.Account{UserID: "user1"}, nil)

	_, err := svc.OpenAccount("user1", "acct_ext")
	assert.NoError(t, err)
	mockDB.AssertExpectations(t)
}

func TestOpenAccountRequiresUser(t *testing.T) {
	mockDB := new(MockDBLayer)
	svc := accounts.NewAccountService(mockDB)

	_, err := svc.OpenAccount("", "acct_ext")
	assert.Error(t, err)
	mockDB.AssertNotCalled(t, "CreateAccount", mock.Anything)
}

func TestDepositRejectsNonPositiveAmounts(t *testing.T) {
	mockDB := new(MockDBLayer)
	svc := accounts.NewAccountService(mockDB)

	_, err := svc.Deposit("user1", decimal.Zero)
	assert.Error(t, err)

	_, err = svc.Deposit("user1", decimal.NewFromInt(-5))
	assert.Error(t, err)

	mockDB.AssertNotCalled(t, "AdjustFunds", mock.Anything, mock.Anything)
}

func TestWithdrawNegatesAmount(t *testing.T) {
	mockDB := new(MockDBLayer)
	svc := accounts.NewAccountService(mockDB)

	amount := decimal.NewFromFloat(12.50)
	mockDB.On("AdjustFunds", "user1", mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(amount.Neg())
	})).Return(&models.Account{UserID: "user1"}, nil)

	_, err := svc.Withdraw("user1", amount)
	assert.NoError(t, err)
	mockDB.AssertExpectations(t)
}

func TestUpdateAccountID(t *testing.T) {
	mockDB := new(MockDBLayer)
	svc := accounts.NewAccountService(mockDB)

	existing := &models.Account{UserID: "user1", AccountID: "acct_old"}
	mockDB.On("GetAccountByUser", "user1").Return(existing, nil)
	mockDB.On("SaveAccount", mock.MatchedBy(func(a models.Account) bool {
		return a.AccountID == "acct_new"
	})).Return(&models.Account{UserID: "user1", AccountID: "acct_new"}, nil)

	updated, err := svc.UpdateAccountID("user1", "acct_new")
	assert.NoError(t, err)
	assert.Equal(t, "acct_new", updated.AccountID)
}
