package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"

	"ms-marketplace/internal/models"
	"ms-marketplace/internal/utils"
)

type DB struct {
	Bun *bun.DB
}

// refreshFromEvent overwrites the listing's event snapshot columns from the
// currently-referenced event and derives the slug when empty. Runs on every
// save so the listing never silently diverges from its event at save time.
func refreshFromEvent(ctx context.Context, tx bun.Tx, listing *models.Listing) error {
	var event models.Event
	err := tx.NewSelect().
		Model(&event).
		Where("id = ?", listing.EventID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return fmt.Errorf("event %d not found: %w", listing.EventID, err)
	}

	listing.EventName = event.Name
	listing.EventDescription = event.Description
	listing.EventDate = event.Date

	if listing.Slug == "" {
		listing.Slug = utils.Slugify(event.Slug)
	}

	return nil
}

// CreateListing → snapshot the event, derive the slug, insert. One transaction.
func (d *DB) CreateListing(listing models.Listing) (*models.Listing, error) {
	ctx := context.Background()
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := refreshFromEvent(ctx, tx, &listing); err != nil {
			return err
		}
		_, err := tx.NewInsert().Model(&listing).Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// UpdateListing → re-snapshot the event, keep the already-set slug, update.
func (d *DB) UpdateListing(listing models.Listing) (*models.Listing, error) {
	ctx := context.Background()
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var existing models.Listing
		err := tx.NewSelect().
			Model(&existing).
			Where("id = ?", listing.ID).
			Limit(1).
			Scan(ctx)
		if err != nil {
			return fmt.Errorf("listing %d not found: %w", listing.ID, err)
		}

		if existing.Slug != "" {
			listing.Slug = existing.Slug
		}

		// fields omitted from the payload keep their stored values
		if listing.Status == "" {
			listing.Status = existing.Status
		}
		if listing.Image == "" {
			listing.Image = existing.Image
		}

		if err := refreshFromEvent(ctx, tx, &listing); err != nil {
			return err
		}

		_, err = tx.NewUpdate().
			Model(&listing).
			Column("user_id", "user_username", "event_id", "event_name", "event_description",
				"event_date", "price", "status", "slug", "image").
			Where("id = ?", listing.ID).
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// GetListingByID → fetch one listing by its ID
func (d *DB) GetListingByID(id int64) (*models.Listing, error) {
	var listing models.Listing
	err := d.Bun.NewSelect().
		Model(&listing).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// ListListings → all listings, active first, soonest event date first
func (d *DB) ListListings() ([]models.Listing, error) {
	var listings []models.Listing
	err := d.Bun.NewSelect().
		Model(&listings).
		Order("status ASC").
		Order("event_date ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return listings, nil
}

// ListListingsByEvent → listings against one event, default ordering
func (d *DB) ListListingsByEvent(eventID int64) ([]models.Listing, error) {
	var listings []models.Listing
	err := d.Bun.NewSelect().
		Model(&listings).
		Where("event_id = ?", eventID).
		Order("status ASC").
		Order("event_date ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return listings, nil
}

// RecentListings → the newest listings for the storefront feed
func (d *DB) RecentListings(limit int) ([]models.Listing, error) {
	var listings []models.Listing
	err := d.Bun.NewSelect().
		Model(&listings).
		Order("id DESC").
		Limit(limit).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return listings, nil
}

// UpdateListingStatus → ACTIVE/SOLD/EXPIRED transition without touching the
// rest of the row
func (d *DB) UpdateListingStatus(id int64, status models.ListingStatus) error {
	res, err := d.Bun.NewUpdate().
		Model((*models.Listing)(nil)).
		Set("status = ?", status).
		Where("id = ?", id).
		Exec(context.Background())
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("listing %d not found: %w", id, sql.ErrNoRows)
	}
	return nil
}

// DeleteListing → remove a listing by ID
func (d *DB) DeleteListing(id int64) error {
	_, err := d.Bun.NewDelete().
		Model((*models.Listing)(nil)).
		Where("id = ?", id).
		Exec(context.Background())
	return err
}
