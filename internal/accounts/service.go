package accounts

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"ms-marketplace/internal/models"
)

type DBLayer interface {
	CreateAccount(account models.Account) (*models.Account, error)
	SaveAccount(account models.Account) (*models.Account, error)
	GetAccountByUser(userID string) (*models.Account, error)
	AdjustFunds(userID string, delta decimal.Decimal) (*models.Account, error)
}

type AccountService struct {
	DB DBLayer
}

func NewAccountService(db DBLayer) *AccountService {
	return &AccountService{DB: db}
}

// OpenAccount creates the per-user balance record at 0.00. The external
// payment-account reference is stored opaquely.
func (s *AccountService) OpenAccount(userID, accountID string) (*models.Account, error) {
	if userID == "" {
		return nil, errors.New("account user is required")
	}

	return s.DB.CreateAccount(models.Account{
		UserID:    userID,
		Funds:     decimal.Zero,
		AccountID: accountID,
	})
}

func (s *AccountService) GetAccount(userID string) (*models.Account, error) {
	account, err := s.DB.GetAccountByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("account for user %s not found: %w", userID, err)
	}
	return account, nil
}

func (s *AccountService) Deposit(userID string, amount decimal.Decimal) (*models.Account, error) {
	if !amount.IsPositive() {
		return nil, errors.New("deposit amount must be positive")
	}
	return s.DB.AdjustFunds(userID, amount)
}

func (s *AccountService) Withdraw(userID string, amount decimal.Decimal) (*models.Account, error) {
	if !amount.IsPositive() {
		return nil, errors.New("withdrawal amount must be positive")
	}
	return s.DB.AdjustFunds(userID, amount.Neg())
}

// UpdateAccountID stores a new external payment-account reference.
func (s *AccountService) UpdateAccountID(userID, accountID string) (*models.Account, error) {
	account, err := s.GetAccount(userID)
	if err != nil {
		return nil, err
	}

	account.AccountID = accountID
	return s.DB.SaveAccount(*account)
}
