package models

import (
	"time"
)

// BlockedDate is a single-date override that removes all availability for a
// profile on that calendar date. At most one row exists per (profile, date);
// the composite unique index backs the toggle semantics.
type BlockedDate struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProfileID uint      `json:"profile_id" gorm:"not null;uniqueIndex:idx_blocked_profile_date"`
	Date      time.Time `json:"date" gorm:"not null;uniqueIndex:idx_blocked_profile_date"`
	Reason    string    `json:"reason" gorm:"size:200"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for the BlockedDate model
func (BlockedDate) TableName() string {
	return "blocked_dates"
}

// DateOnly drops the time component of a timestamp, keeping the calendar day
// in its own location.
func DateOnly(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}
