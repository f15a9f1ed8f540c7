package models

import (
	"time"

	"github.com/uptrace/bun"
)

type EventStatus string

const (
	EventActive   EventStatus = "ACTIVE"
	EventCanceled EventStatus = "CANCELED"
)

func (s EventStatus) Valid() bool {
	return s == EventActive || s == EventCanceled
}

type EventCategory string

const (
	CategorySports       EventCategory = "Sports"
	CategoryConcert      EventCategory = "Concert"
	CategoryPerformance  EventCategory = "Performance"
	CategoryBar          EventCategory = "Bar"
	CategoryStudentGroup EventCategory = "Student Group"
	CategoryOther        EventCategory = "Other"
)

// Categories lists every valid event category, in display order.
var Categories = []EventCategory{
	CategorySports,
	CategoryConcert,
	CategoryPerformance,
	CategoryBar,
	CategoryStudentGroup,
	CategoryOther,
}

// Event is one real-world event. IDs are assigned by the store (highest
// existing id plus one), not by the database. Name is globally unique and the
// slug is derived from it exactly once.
type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID           int64         `bun:"id,pk" json:"id"`
	UserID       string        `bun:"user_id,notnull" json:"user"`
	UserUsername string        `bun:"user_username,notnull" json:"user_username"`
	Name         string        `bun:"name,notnull,unique" json:"name"`
	Description  string        `bun:"description" json:"description"`
	Date         time.Time     `bun:"date,notnull" json:"date"`
	Status       EventStatus   `bun:"status,notnull" json:"status"`
	Category     EventCategory `bun:"category,notnull" json:"category"`
	Slug         string        `bun:"slug" json:"slug"`
}

// AbsoluteURL is the canonical browse path for the event's listings.
func (e *Event) AbsoluteURL() string {
	return "/listings/" + e.Slug + "/"
}

func (c EventCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
