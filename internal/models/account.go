package models

import (
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Account is the per-user funds balance. Keyed by the user, one account each.
// The username snapshot is refreshed from the linked user on every save.
// AccountID is an opaque external payment-account reference.
type Account struct {
	bun.BaseModel `bun:"table:accounts"`

	UserID       string          `bun:"user_id,pk" json:"user"`
	UserUsername string          `bun:"user_username,notnull" json:"user_username"`
	Funds        decimal.Decimal `bun:"funds,notnull" json:"funds"`
	AccountID    string          `bun:"account_id" json:"account_id"`
}
