package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"ms-marketplace/internal/models"
	"ms-marketplace/internal/utils"
)

// ErrNameTaken is returned when creating an event whose name already exists.
var ErrNameTaken = errors.New("event name already taken")

type DB struct {
	Bun *bun.DB
}

// nextEventID computes the next manually-assigned id: highest existing id plus
// one, or 1 when the table is empty. Runs inside the caller's transaction so
// two concurrent creates cannot read the same maximum.
func nextEventID(ctx context.Context, tx bun.Tx) (int64, error) {
	var max sql.NullInt64
	err := tx.NewSelect().
		ColumnExpr("MAX(id)").
		Table("events").
		Scan(ctx, &max)
	if err != nil {
		return 0, fmt.Errorf("failed to read highest event id: %w", err)
	}
	if !max.Valid {
		return 1, nil
	}
	return max.Int64 + 1, nil
}

// CreateEvent → assign id and slug, enforce name uniqueness, insert. The whole
// sequence is one transaction.
func (d *DB) CreateEvent(event models.Event) (*models.Event, error) {
	ctx := context.Background()
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		taken, err := tx.NewSelect().
			Model((*models.Event)(nil)).
			Where("name = ?", event.Name).
			Exists(ctx)
		if err != nil {
			return err
		}
		if taken {
			return ErrNameTaken
		}

		if event.ID == 0 {
			id, err := nextEventID(ctx, tx)
			if err != nil {
				return err
			}
			event.ID = id
		}

		if event.Slug == "" {
			event.Slug = utils.Slugify(event.Name)
		}

		_, err = tx.NewInsert().Model(&event).Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// UpdateEvent → rewrite mutable fields. The slug is derived once and never
// recomputed, even when the name changes.
func (d *DB) UpdateEvent(event models.Event) (*models.Event, error) {
	ctx := context.Background()
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var existing models.Event
		err := tx.NewSelect().
			Model(&existing).
			Where("id = ?", event.ID).
			Limit(1).
			Scan(ctx)
		if err != nil {
			return fmt.Errorf("event %d not found: %w", event.ID, err)
		}

		if existing.Slug != "" {
			event.Slug = existing.Slug
		} else if event.Slug == "" {
			event.Slug = utils.Slugify(event.Name)
		}

		// fields omitted from the payload keep their stored values
		if event.Status == "" {
			event.Status = existing.Status
		}
		if event.Category == "" {
			event.Category = existing.Category
		}

		if event.Name != existing.Name {
			taken, err := tx.NewSelect().
				Model((*models.Event)(nil)).
				Where("name = ?", event.Name).
				Where("id != ?", event.ID).
				Exists(ctx)
			if err != nil {
				return err
			}
			if taken {
				return ErrNameTaken
			}
		}

		_, err = tx.NewUpdate().
			Model(&event).
			Column("user_id", "user_username", "name", "description", "date", "status", "category", "slug").
			Where("id = ?", event.ID).
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// GetEventByID → fetch one event by its ID
func (d *DB) GetEventByID(id int64) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// GetEventBySlug → fetch one event by its slug
func (d *DB) GetEventBySlug(slug string) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Where("slug = ?", slug).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ListEvents → all events, soonest date first
func (d *DB) ListEvents() ([]models.Event, error) {
	var events []models.Event
	err := d.Bun.NewSelect().
		Model(&events).
		Order("date ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return events, nil
}

// DeleteEvent → remove an event by ID. Freed ids are never reused.
func (d *DB) DeleteEvent(id int64) error {
	_, err := d.Bun.NewDelete().
		Model((*models.Event)(nil)).
		Where("id = ?", id).
		Exec(context.Background())
	return err
}
