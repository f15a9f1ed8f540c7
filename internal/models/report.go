package models

import "github.com/uptrace/bun"

// Report is a moderation record filed by a user against another user's
// listing. IDs follow the same highest-plus-one scheme as events.
type Report struct {
	bun.BaseModel `bun:"table:reports"`

	ID             int64  `bun:"id,pk" json:"id"`
	UserID         string `bun:"user_id,notnull" json:"user"`
	ReportedUserID string `bun:"reported_user_id,notnull" json:"reported_user"`
	ListingID      int64  `bun:"listing_id,notnull" json:"listing"`
	Reason         string `bun:"reason,notnull" json:"reason"`
	Description    string `bun:"description" json:"description"`
	Verified       bool   `bun:"verified,notnull,default:false" json:"verified"`
	Disputed       bool   `bun:"disputed,notnull,default:false" json:"disputed"`
	ShowForm       bool   `bun:"show_form,notnull,default:false" json:"show_form"`
}
