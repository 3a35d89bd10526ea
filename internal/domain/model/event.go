package model

import (
	"time"
)

const DefaultCategory = "general"

type Event struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description"`
	StartDatetime time.Time `json:"start_datetime"`
	EndDatetime   time.Time `json:"end_datetime"`
	Location      *string   `json:"location"`
	Category      string    `json:"category"`
	IsAllDay      bool      `json:"is_all_day"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// EventPatch describes a partial update. A nil field means "leave
// untouched"; a non-nil field is applied even when it carries a zero
// value. Only these fields are mutable through the API.
type EventPatch struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	StartDatetime *time.Time `json:"start_datetime"`
	EndDatetime   *time.Time `json:"end_datetime"`
	Location      *string    `json:"location"`
	Category      *string    `json:"category"`
	IsAllDay      *bool      `json:"is_all_day"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (p EventPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil &&
		p.StartDatetime == nil && p.EndDatetime == nil &&
		p.Location == nil && p.Category == nil && p.IsAllDay == nil
}

type EventStats struct {
	TotalEvents    int `json:"total_events"`
	UpcomingEvents int `json:"upcoming_events"`
	PastEvents     int `json:"past_events"`
	AllDayEvents   int `json:"all_day_events"`
	TimedEvents    int `json:"timed_events"`
}
