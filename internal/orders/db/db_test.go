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
	"ms-marketplace/internal/models"
	"ms-marketplace/internal/orders/db"
)

func setupTestDB(t *testing.T) (*db.DB, *bun.DB) {
	sqldb, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	if err := migrations.Bootstrap(context.Background(), bunDB); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	ctx := context.Background()
	_, err = bunDB.NewInsert().Model(&models.User{
		ID:        "buyer1",
		Username:  "carol",
		CreatedAt: time.Now(),
	}).Exec(ctx)
	require.NoError(t, err)

	return &db.DB{Bun: bunDB}, bunDB
}

func seedListing(t *testing.T, bunDB *bun.DB) *models.Listing {
	t.Helper()
	listing := &models.Listing{
		UserID:       "buyer1",
		UserUsername: "carol",
		EventID:      1,
		EventName:    "Homecoming Game",
		Price:        30,
		Status:       models.ListingActive,
		Slug:         "homecoming-game",
	}
	_, err := bunDB.NewInsert().Model(listing).Exec(context.Background())
	require.NoError(t, err)
	return listing
}

func testOrder() models.Order {
	return models.Order{
		UserID:    "buyer1",
		FirstName: "Carol",
		LastName:  "Jones",
		Email:     "carol@example.com",
		Cost:      30,
	}
}

func TestPlaceOrderPersistsHeaderAndItems(t *testing.T) {
	orderDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	listing := seedListing(t, bunDB)
	second := seedListing(t, bunDB)

	placed, err := orderDB.PlaceOrder(testOrder(), []models.OrderItem{
		{EventName: "Homecoming Game", ListingID: listing.ID, Price: 30, SellerID: "buyer1"},
		{EventName: "Homecoming Game", ListingID: second.ID, Price: 30, SellerID: "buyer1"},
	})
	require.NoError(t, err)
	require.NotZero(t, placed.Order.ID)
	require.Len(t, placed.Items, 2)

	for _, item := range placed.Items {
		assert.Equal(t, placed.Order.ID, item.OrderID)
	}

	loaded, err := orderDB.GetOrderWithItems(placed.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", loaded.Order.Email)
	assert.Len(t, loaded.Items, 2)
}

func TestPlaceOrderStampsDate(t *testing.T) {
	orderDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	listing := seedListing(t, bunDB)

	placed, err := orderDB.PlaceOrder(testOrder(), []models.OrderItem{
		{ListingID: listing.ID, Price: 30, SellerID: "buyer1"},
	})
	require.NoError(t, err)

	created := placed.Order.CreatedAt
	assert.False(t, created.IsZero())
	assert.Equal(t, 0, created.Hour())
	assert.Equal(t, 0, created.Minute())
}

func TestPlaceOrderRollsBackOnMissingListing(t *testing.T) {
	orderDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	listing := seedListing(t, bunDB)

	_, err := orderDB.PlaceOrder(testOrder(), []models.OrderItem{
		{ListingID: listing.ID, Price: 30, SellerID: "buyer1"},
		{ListingID: 999, Price: 30, SellerID: "buyer1"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	ctx := context.Background()
	orderCount, err := bunDB.NewSelect().Model((*models.Order)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, orderCount)

	itemCount, err := bunDB.NewSelect().Model((*models.OrderItem)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, itemCount)
}

func TestListOrdersByUserNewestFirst(t *testing.T) {
	orderDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	listing := seedListing(t, bunDB)

	for i := 0; i < 3; i++ {
		_, err := orderDB.PlaceOrder(testOrder(), []models.OrderItem{
			{ListingID: listing.ID, Price: 30, SellerID: "buyer1"},
		})
		require.NoError(t, err)
	}

	orders, err := orderDB.ListOrdersByUser("buyer1")
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Greater(t, orders[0].ID, orders[1].ID)
	assert.Greater(t, orders[1].ID, orders[2].ID)

	none, err := orderDB.ListOrdersByUser("someone-else")
	require.NoError(t, err)
	assert.Empty(t, none)
}
