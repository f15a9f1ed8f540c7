package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Order is a checkout header. CreatedAt is set once at creation and stores a
// calendar date. The stripe token is an opaque payment-provider reference; the
// marketplace never charges it.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID      string    `bun:"user_id,notnull" json:"user"`
	FirstName   string    `bun:"first_name,notnull" json:"first_name"`
	LastName    string    `bun:"last_name,notnull" json:"last_name"`
	Email       string    `bun:"email,notnull" json:"email"`
	CreatedAt   time.Time `bun:"created_at,notnull" json:"created_at"`
	Cost        int64     `bun:"cost,notnull,default:0" json:"cost"`
	StripeToken string    `bun:"stripe_token" json:"stripe_token"`
}

// OrderItem is an immutable point-of-sale snapshot of one purchased listing.
// It must never change when the underlying listing or event changes.
type OrderItem struct {
	bun.BaseModel `bun:"table:order_items"`

	ID             int64     `bun:"id,pk,autoincrement" json:"id"`
	OrderID        int64     `bun:"order_id,notnull" json:"order"`
	EventName      string    `bun:"event_name" json:"event"`
	Description    string    `bun:"description" json:"description"`
	ListingID      int64     `bun:"listing_id,notnull" json:"listing"`
	Price          int64     `bun:"price,notnull,default:0" json:"price"`
	SellerID       string    `bun:"seller_id,notnull" json:"user"`
	SellerUsername string    `bun:"seller_username" json:"seller_username"`
	Date           time.Time `bun:"date" json:"date"`
	ImageURL       string    `bun:"image_url" json:"image_url"`
	ShowForm       bool      `bun:"show_form,notnull,default:false" json:"show_form"`
}

// OrderRequest carries the checkout payload: one header plus its line items,
// persisted as a unit.
type OrderRequest struct {
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Email       string      `json:"email"`
	Cost        int64       `json:"cost"`
	StripeToken string      `json:"stripe_token"`
	Items       []OrderItem `json:"items"`
}

// OrderWithItems is the read shape for a fully loaded order.
type OrderWithItems struct {
	Order Order       `json:"order"`
	Items []OrderItem `json:"items"`
}
