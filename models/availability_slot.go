package models

import (
	"fmt"
	"time"
)

// AvailabilitySlot is a recurring weekly window during which a profile can be
// booked. Times are wall-clock HH:MM in the service-local timezone; a window
// never spans midnight (overnight availability is modeled as two slots).
type AvailabilitySlot struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProfileID uint      `json:"profile_id" gorm:"index;not null"`
	DayOfWeek int       `json:"day_of_week" gorm:"not null"` // 0 = Sunday ... 6 = Saturday
	StartTime string    `json:"start_time" gorm:"size:5;not null"`
	EndTime   string    `json:"end_time" gorm:"size:5;not null"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for the AvailabilitySlot model
func (AvailabilitySlot) TableName() string {
	return "availability_slots"
}

// StartMinutes returns the start of the window in minutes from midnight.
func (s *AvailabilitySlot) StartMinutes() (int, error) {
	return ParseClock(s.StartTime)
}

// EndMinutes returns the end of the window in minutes from midnight.
func (s *AvailabilitySlot) EndMinutes() (int, error) {
	return ParseClock(s.EndTime)
}

// ParseClock parses a 24-hour "HH:MM" string into minutes from midnight.
func ParseClock(v string) (int, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", v)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// AvailabilitySlotInput is one window in a weekly-schedule replace request.
type AvailabilitySlotInput struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	IsActive  bool   `json:"is_active"`
}

// AvailabilitySetRequest replaces a profile's whole weekly schedule.
type AvailabilitySetRequest struct {
	ProfileID uint                    `json:"profile_id" binding:"required"`
	Slots     []AvailabilitySlotInput `json:"slots"`
}
