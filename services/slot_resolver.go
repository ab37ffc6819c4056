package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"companion-booking-server/config"
	"companion-booking-server/models"
)

// SlotResolver computes the bookable start times for a profile on a calendar
// date from its weekly schedule, blocked dates and existing appointments.
type SlotResolver struct {
	db       *gorm.DB
	dayStart int // minutes from midnight, dense fallback start
	dayEnd   int // minutes from midnight, dense fallback end (exclusive)
}

// DayAvailability is the resolution result for one (profile, date) pair.
// IsBlocked is deliberately distinct from an empty Slots list so the caller
// can tell "date blocked" apart from "all slots taken" and "none configured".
type DayAvailability struct {
	Slots                []string             `json:"slots"` // HH:MM start times
	ExistingAppointments []models.Appointment `json:"existing_appointments"`
	IsBlocked            bool                 `json:"is_blocked"`
	BlockedReason        string               `json:"blocked_reason,omitempty"`
}

// NewSlotResolver creates a resolver using the configured bookable-day window
// as the fallback for profiles without a weekly schedule.
func NewSlotResolver(db *gorm.DB) *SlotResolver {
	dayStart, err := models.ParseClock(config.AppConfig.Booking.DayStart)
	if err != nil {
		dayStart = 9 * 60
	}
	dayEnd, err := models.ParseClock(config.AppConfig.Booking.DayEnd)
	if err != nil {
		dayEnd = 22 * 60
	}
	return &SlotResolver{db: db, dayStart: dayStart, dayEnd: dayEnd}
}

// ResolveDay returns the free hourly start times for a profile on the given
// calendar date.
//
// Candidates are whole-hour aligned: a window contributes every hour h with
// hour(start) <= h < hour(end). A candidate [h, h+1) is dropped when it
// intersects the full occupied interval of any active appointment, including
// hours a multi-hour booking spans past its start.
func (r *SlotResolver) ResolveDay(profileID uint, date time.Time) (*DayAvailability, error) {
	var profile models.AdvertiserProfile
	if err := r.db.First(&profile, profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	day := models.DateOnly(date)
	nextDay := day.AddDate(0, 0, 1)

	// Existing bookings are returned even for blocked dates so the owner's
	// calendar can still show them.
	var appointments []models.Appointment
	if err := r.db.
		Where("profile_id = ? AND appointment_date >= ? AND appointment_date < ? AND status NOT IN ?",
			profileID, day, nextDay,
			[]models.AppointmentStatus{models.AppointmentStatusCancelled, models.AppointmentStatusNoShow}).
		Order("appointment_date").
		Find(&appointments).Error; err != nil {
		return nil, err
	}

	result := &DayAvailability{
		Slots:                []string{},
		ExistingAppointments: appointments,
	}

	block, err := r.findBlock(profileID, day, nextDay)
	if err != nil {
		return nil, err
	}
	if block != nil {
		result.IsBlocked = true
		result.BlockedReason = block.Reason
		return result, nil
	}

	hours, err := r.candidateHours(profileID, int(day.Weekday()))
	if err != nil {
		return nil, err
	}

	for _, h := range hours {
		candStart := day.Add(time.Duration(h) * time.Hour)
		candEnd := candStart.Add(time.Hour)

		taken := false
		for i := range appointments {
			if appointments[i].Overlaps(candStart, candEnd) {
				taken = true
				break
			}
		}
		if !taken {
			result.Slots = append(result.Slots, fmt.Sprintf("%02d:00", h))
		}
	}

	return result, nil
}

// candidateHours expands the active weekly windows for a weekday into hour
// numbers. Profiles with nothing configured for the day get the dense
// fallback range so their calendar is not silently unbookable.
func (r *SlotResolver) candidateHours(profileID uint, weekday int) ([]int, error) {
	var slots []models.AvailabilitySlot
	if err := r.db.
		Where("profile_id = ? AND day_of_week = ? AND is_active = ?", profileID, weekday, true).
		Order("start_time").
		Find(&slots).Error; err != nil {
		return nil, err
	}

	if len(slots) == 0 {
		return hourRange(r.dayStart/60, r.dayEnd/60), nil
	}

	seen := make(map[int]struct{})
	hours := make([]int, 0, 16)
	for i := range slots {
		start, err := slots[i].StartMinutes()
		if err != nil {
			continue
		}
		end, err := slots[i].EndMinutes()
		if err != nil {
			continue
		}
		for _, h := range hourRange(start/60, end/60) {
			if _, ok := seen[h]; ok {
				continue
			}
			seen[h] = struct{}{}
			hours = append(hours, h)
		}
	}
	return hours, nil
}

func (r *SlotResolver) findBlock(profileID uint, day, nextDay time.Time) (*models.BlockedDate, error) {
	var block models.BlockedDate
	err := r.db.
		Where("profile_id = ? AND date >= ? AND date < ?", profileID, day, nextDay).
		First(&block).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &block, nil
}

func hourRange(from, to int) []int {
	if from >= to {
		return []int{}
	}
	hours := make([]int, 0, to-from)
	for h := from; h < to; h++ {
		hours = append(hours, h)
	}
	return hours
}
