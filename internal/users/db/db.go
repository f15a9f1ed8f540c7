package db

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"ms-marketplace/internal/auth"
	"ms-marketplace/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// UpsertUser inserts the snapshot row, or refreshes username/email on
// conflict. The created_at of the first insert wins.
func (d *DB) UpsertUser(ctx context.Context, user models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	_, err := d.Bun.NewInsert().
		Model(&user).
		On("CONFLICT (id) DO UPDATE").
		Set("username = EXCLUDED.username").
		Set("email = EXCLUDED.email").
		Exec(ctx)
	return err
}

// SyncIdentity keeps the local snapshot in step with the identity provider.
// Called by the auth middleware on every authenticated request.
func (d *DB) SyncIdentity(ctx context.Context, id auth.Identity) error {
	return d.UpsertUser(ctx, models.User{
		ID:       id.UserID,
		Username: id.Username,
		Email:    id.Email,
	})
}
