package db_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "github.com/uptrace/bun/driver/sqliteshim"

	"ms-marketplace/internal/database/migrations"
	eventdb "ms-marketplace/internal/events/db"
	"ms-marketplace/internal/listings/db"
	"ms-marketplace/internal/models"
)

func setupTestDB(t *testing.T) (*db.DB, *eventdb.DB, *bun.DB) {
	sqldb, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	if err := migrations.Bootstrap(context.Background(), bunDB); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	_, err = bunDB.NewInsert().Model(&models.User{
		ID:        "seller1",
		Username:  "bob",
		CreatedAt: time.Now(),
	}).Exec(context.Background())
	require.NoError(t, err)

	return &db.DB{Bun: bunDB}, &eventdb.DB{Bun: bunDB}, bunDB
}

func seedEvent(t *testing.T, events *eventdb.DB, name string) *models.Event {
	t.Helper()
	created, err := events.CreateEvent(models.Event{
		UserID:       "seller1",
		UserUsername: "bob",
		Name:         name,
		Description:  "event description",
		Date:         time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC),
		Status:       models.EventActive,
		Category:     models.CategorySports,
	})
	require.NoError(t, err)
	return created
}

func testListing(eventID int64, price int64) models.Listing {
	return models.Listing{
		UserID:       "seller1",
		UserUsername: "bob",
		EventID:      eventID,
		Price:        price,
		Status:       models.ListingActive,
	}
}

func TestCreateListingSnapshotsEvent(t *testing.T) {
	listingDB, eventDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	event := seedEvent(t, eventDB, "Homecoming Game")

	created, err := listingDB.CreateListing(testListing(event.ID, 45))
	require.NoError(t, err)

	assert.Equal(t, "Homecoming Game", created.EventName)
	assert.Equal(t, "event description", created.EventDescription)
	assert.True(t, created.EventDate.Equal(event.Date))
	assert.Equal(t, "homecoming-game", created.Slug)
}

func TestCreateListingUnknownEvent(t *testing.T) {
	listingDB, _, bunDB := setupTestDB(t)
	defer bunDB.Close()

	_, err := listingDB.CreateListing(testListing(999, 45))
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUpdateListingRefreshesSnapshotKeepsSlug(t *testing.T) {
	listingDB, eventDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	event := seedEvent(t, eventDB, "Homecoming Game")
	created, err := listingDB.CreateListing(testListing(event.ID, 45))
	require.NoError(t, err)

	event.Name = "Renamed Game"
	event.Description = "updated description"
	_, err = eventDB.UpdateEvent(*event)
	require.NoError(t, err)

	// stale until the listing is saved again
	stale, err := listingDB.GetListingByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "event description", stale.EventDescription)

	stale.Price = 50
	updated, err := listingDB.UpdateListing(*stale)
	require.NoError(t, err)

	assert.Equal(t, "Renamed Game", updated.EventName)
	assert.Equal(t, "updated description", updated.EventDescription)
	assert.Equal(t, int64(50), updated.Price)

	// the listing slug was set at creation and survives the event rename
	assert.Equal(t, "homecoming-game", updated.Slug)
}

func TestUpdateListingKeepsImageAndStatusWhenOmitted(t *testing.T) {
	listingDB, eventDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	event := seedEvent(t, eventDB, "Homecoming Game")

	listing := testListing(event.ID, 45)
	listing.Status = models.ListingSold
	listing.Image = "listing_images/ticket.png"
	created, err := listingDB.CreateListing(listing)
	require.NoError(t, err)

	update := *created
	update.Price = 50
	update.Status = ""
	update.Image = ""
	_, err = listingDB.UpdateListing(update)
	require.NoError(t, err)

	stored, err := listingDB.GetListingByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), stored.Price)
	// an update without image or status must not wipe the stored values
	assert.Equal(t, "listing_images/ticket.png", stored.Image)
	assert.Equal(t, models.ListingSold, stored.Status)
}

func TestListListingsOrdering(t *testing.T) {
	listingDB, eventDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	event := seedEvent(t, eventDB, "Homecoming Game")

	sold := testListing(event.ID, 10)
	sold.Status = models.ListingSold
	_, err := listingDB.CreateListing(sold)
	require.NoError(t, err)

	_, err = listingDB.CreateListing(testListing(event.ID, 20))
	require.NoError(t, err)

	list, err := listingDB.ListListings()
	require.NoError(t, err)
	require.Len(t, list, 2)

	// ACTIVE sorts before SOLD
	assert.Equal(t, models.ListingActive, list[0].Status)
	assert.Equal(t, models.ListingSold, list[1].Status)
}

func TestRecentListingsNewestFirst(t *testing.T) {
	listingDB, eventDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	event := seedEvent(t, eventDB, "Homecoming Game")

	for price := int64(1); price <= 5; price++ {
		_, err := listingDB.CreateListing(testListing(event.ID, price))
		require.NoError(t, err)
	}

	recent, err := listingDB.RecentListings(3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, int64(5), recent[0].Price)
	assert.Equal(t, int64(4), recent[1].Price)
	assert.Equal(t, int64(3), recent[2].Price)
}

func TestUpdateListingStatus(t *testing.T) {
	listingDB, eventDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	event := seedEvent(t, eventDB, "Homecoming Game")
	created, err := listingDB.CreateListing(testListing(event.ID, 45))
	require.NoError(t, err)

	require.NoError(t, listingDB.UpdateListingStatus(created.ID, models.ListingSold))

	stored, err := listingDB.GetListingByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ListingSold, stored.Status)

	err = listingDB.UpdateListingStatus(999, models.ListingSold)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListListingsByEvent(t *testing.T) {
	listingDB, eventDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	game := seedEvent(t, eventDB, "Homecoming Game")
	concert := seedEvent(t, eventDB, "Spring Concert")

	_, err := listingDB.CreateListing(testListing(game.ID, 10))
	require.NoError(t, err)
	_, err = listingDB.CreateListing(testListing(concert.ID, 20))
	require.NoError(t, err)

	list, err := listingDB.ListListingsByEvent(game.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, game.ID, list[0].EventID)
}
