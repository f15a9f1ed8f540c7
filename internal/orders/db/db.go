package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"ms-marketplace/internal/models"
	"ms-marketplace/internal/utils"
)

type DB struct {
	Bun *bun.DB
}

// PlaceOrder → insert the order header and one row per line item, all in a
// single transaction. Either the whole order lands or none of it does.
func (d *DB) PlaceOrder(order models.Order, items []models.OrderItem) (*models.OrderWithItems, error) {
	ctx := context.Background()

	if order.CreatedAt.IsZero() {
		order.CreatedAt = utils.DateOnly(time.Now())
	}

	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&order).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		for i := range items {
			item := &items[i]
			item.OrderID = order.ID

			exists, err := tx.NewSelect().
				Model((*models.Listing)(nil)).
				Where("id = ?", item.ListingID).
				Exists(ctx)
			if err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf("listing %d not found: %w", item.ListingID, sql.ErrNoRows)
			}

			if _, err := tx.NewInsert().Model(item).Exec(ctx); err != nil {
				return fmt.Errorf("failed to insert order item for listing %d: %w", item.ListingID, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &models.OrderWithItems{Order: order, Items: items}, nil
}

// GetOrderByID → fetch one order header by its ID
func (d *DB) GetOrderByID(id int64) (*models.Order, error) {
	var order models.Order
	err := d.Bun.NewSelect().
		Model(&order).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderWithItems retrieves an order and its line items
func (d *DB) GetOrderWithItems(id int64) (*models.OrderWithItems, error) {
	order, err := d.GetOrderByID(id)
	if err != nil {
		return nil, err
	}

	items, err := d.GetItemsByOrder(id)
	if err != nil {
		return nil, err
	}

	return &models.OrderWithItems{Order: *order, Items: items}, nil
}

// ListOrdersByUser → a user's orders, newest first
func (d *DB) ListOrdersByUser(userID string) ([]models.Order, error) {
	var orders []models.Order
	err := d.Bun.NewSelect().
		Model(&orders).
		Where("user_id = ?", userID).
		Order("id DESC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListOrders → all orders, newest first
func (d *DB) ListOrders() ([]models.Order, error) {
	var orders []models.Order
	err := d.Bun.NewSelect().
		Model(&orders).
		Order("id DESC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// GetItemsByOrder → fetch all line items linked to an order
func (d *DB) GetItemsByOrder(orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := d.Bun.NewSelect().
		Model(&items).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return items, nil
}
