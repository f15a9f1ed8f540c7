package models

import (
	"time"

	"github.com/uptrace/bun"
)

type ListingStatus string

const (
	ListingActive  ListingStatus = "ACTIVE"
	ListingSold    ListingStatus = "SOLD"
	ListingExpired ListingStatus = "EXPIRED"
)

func (s ListingStatus) Valid() bool {
	return s == ListingActive || s == ListingSold || s == ListingExpired
}

// Listing is one ticket offered for sale against an event. The event_* columns
// are snapshots refreshed from the referenced event on every save, so reads
// never need a join. They can go stale if the event changes afterward; the next
// save of the listing picks the change up.
type Listing struct {
	bun.BaseModel `bun:"table:listings"`

	ID               int64         `bun:"id,pk,autoincrement" json:"id"`
	UserID           string        `bun:"user_id,notnull" json:"user"`
	UserUsername     string        `bun:"user_username,notnull" json:"user_username"`
	EventID          int64         `bun:"event_id,notnull" json:"event"`
	EventName        string        `bun:"event_name" json:"event_name"`
	EventDescription string        `bun:"event_description" json:"event_description"`
	EventDate        time.Time     `bun:"event_date" json:"event_date"`
	Price            int64         `bun:"price,notnull,default:0" json:"price"`
	Status           ListingStatus `bun:"status,notnull" json:"status"`
	Slug             string        `bun:"slug" json:"slug"`
	Image            string        `bun:"image,nullzero" json:"image,omitempty"`
}

// ListingRequest is the create/update payload. Image carries either raw
// base64 or a data-URI; it is decoded at the API boundary before persistence.
type ListingRequest struct {
	EventID int64  `json:"event"`
	Price   int64  `json:"price"`
	Status  string `json:"status,omitempty"`
	Image   string `json:"image,omitempty"`
}
