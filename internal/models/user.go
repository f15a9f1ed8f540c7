package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User is a snapshot of an identity-provider account. The marketplace never
// authenticates users itself; rows are upserted from verified token claims.
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID        string    `bun:"id,pk" json:"id"`
	Username  string    `bun:"username,notnull" json:"username"`
	Email     string    `bun:"email" json:"email"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
}
