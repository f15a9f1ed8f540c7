package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"ms-marketplace/internal/models"
)

// ErrInsufficientFunds is returned when a withdrawal exceeds the balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

type DB struct {
	Bun *bun.DB
}

// refreshUsername overwrites the account's username snapshot from the linked
// user. Runs on every save.
func refreshUsername(ctx context.Context, tx bun.Tx, account *models.Account) error {
	var user models.User
	err := tx.NewSelect().
		Model(&user).
		Where("id = ?", account.UserID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return fmt.Errorf("user %s not found: %w", account.UserID, err)
	}

	account.UserUsername = user.Username
	return nil
}

// CreateAccount → one per user, starting at 0.00
func (d *DB) CreateAccount(account models.Account) (*models.Account, error) {
	ctx := context.Background()
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := refreshUsername(ctx, tx, &account); err != nil {
			return err
		}
		_, err := tx.NewInsert().Model(&account).Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// SaveAccount → update the row, re-reading the username snapshot
func (d *DB) SaveAccount(account models.Account) (*models.Account, error) {
	ctx := context.Background()
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := refreshUsername(ctx, tx, &account); err != nil {
			return err
		}
		_, err := tx.NewUpdate().
			Model(&account).
			Column("user_username", "funds", "account_id").
			Where("user_id = ?", account.UserID).
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetAccountByUser → fetch the account keyed by its user
func (d *DB) GetAccountByUser(userID string) (*models.Account, error) {
	var account models.Account
	err := d.Bun.NewSelect().
		Model(&account).
		Where("user_id = ?", userID).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// AdjustFunds applies a signed delta to the balance inside one transaction.
// Withdrawals beyond the balance fail with ErrInsufficientFunds.
func (d *DB) AdjustFunds(userID string, delta decimal.Decimal) (*models.Account, error) {
	ctx := context.Background()
	var account models.Account
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().
			Model(&account).
			Where("user_id = ?", userID).
			Limit(1).
			Scan(ctx)
		if err != nil {
			return fmt.Errorf("account for user %s not found: %w", userID, err)
		}

		next := account.Funds.Add(delta)
		if next.IsNegative() {
			return ErrInsufficientFunds
		}
		account.Funds = next.Round(2)

		if err := refreshUsername(ctx, tx, &account); err != nil {
			return err
		}

		_, err = tx.NewUpdate().
			Model(&account).
			Column("user_username", "funds").
			Where("user_id = ?", userID).
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}
