package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"companion-booking-server/models"
)

// AvailabilityService manages a profile's weekly schedule and blocked dates.
type AvailabilityService struct {
	db *gorm.DB
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{db: db}
}

// GetSlots returns the weekly schedule for a profile, ordered by day then
// start time. Inactive windows are included so the owner can toggle them.
func (s *AvailabilityService) GetSlots(profileID uint) ([]models.AvailabilitySlot, error) {
	var slots []models.AvailabilitySlot
	if err := s.db.
		Where("profile_id = ?", profileID).
		Order("day_of_week, start_time").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// GetSlotsForOwner is GetSlots behind an ownership check.
func (s *AvailabilityService) GetSlotsForOwner(profileID, userID uint) ([]models.AvailabilitySlot, error) {
	if _, err := s.ownedProfile(profileID, userID); err != nil {
		return nil, err
	}
	return s.GetSlots(profileID)
}

// ReplaceSlots swaps the profile's whole weekly schedule for the given set in
// one transaction. An empty set is valid and means "no recurring
// availability". Slot IDs do not survive a replace.
func (s *AvailabilityService) ReplaceSlots(profileID, userID uint, inputs []models.AvailabilitySlotInput) ([]models.AvailabilitySlot, error) {
	if _, err := s.ownedProfile(profileID, userID); err != nil {
		return nil, err
	}

	slots := make([]models.AvailabilitySlot, 0, len(inputs))
	for _, in := range inputs {
		if in.DayOfWeek < 0 || in.DayOfWeek > 6 {
			return nil, invalidField("day_of_week", "must be between 0 (Sunday) and 6 (Saturday)")
		}
		start, err := models.ParseClock(in.StartTime)
		if err != nil {
			return nil, invalidField("start_time", err.Error())
		}
		end, err := models.ParseClock(in.EndTime)
		if err != nil {
			return nil, invalidField("end_time", err.Error())
		}
		if start >= end {
			return nil, invalidField("start_time", "must be before end_time")
		}
		slots = append(slots, models.AvailabilitySlot{
			ProfileID: profileID,
			DayOfWeek: in.DayOfWeek,
			StartTime: in.StartTime,
			EndTime:   in.EndTime,
			IsActive:  in.IsActive,
		})
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", profileID).Delete(&models.AvailabilitySlot{}).Error; err != nil {
			return err
		}
		if len(slots) == 0 {
			return nil
		}
		return tx.Create(&slots).Error
	})
	if err != nil {
		return nil, err
	}

	return slots, nil
}

// GetBlockedDates returns blocks for a profile within [from, to] inclusive.
func (s *AvailabilityService) GetBlockedDates(profileID uint, from, to time.Time) ([]models.BlockedDate, error) {
	var blocks []models.BlockedDate
	if err := s.db.
		Where("profile_id = ? AND date >= ? AND date < ?",
			profileID, models.DateOnly(from), models.DateOnly(to).AddDate(0, 0, 1)).
		Order("date").
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

// FindBlock returns the block covering the given calendar date, or nil.
func (s *AvailabilityService) FindBlock(profileID uint, date time.Time) (*models.BlockedDate, error) {
	day := models.DateOnly(date)
	var block models.BlockedDate
	err := s.db.
		Where("profile_id = ? AND date >= ? AND date < ?", profileID, day, day.AddDate(0, 0, 1)).
		First(&block).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &block, nil
}

// IsBlocked reports whether the profile has blocked the given calendar date.
func (s *AvailabilityService) IsBlocked(profileID uint, date time.Time) (bool, error) {
	block, err := s.FindBlock(profileID, date)
	return block != nil, err
}

// ToggleBlock flips the block state of a calendar date and returns the new
// state. The check-then-write runs in a transaction and the table carries a
// unique (profile_id, date) index, so concurrent toggles cannot duplicate a
// block.
func (s *AvailabilityService) ToggleBlock(profileID, userID uint, date time.Time, reason string) (bool, error) {
	if _, err := s.ownedProfile(profileID, userID); err != nil {
		return false, err
	}

	day := models.DateOnly(date)
	var blocked bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.BlockedDate
		err := tx.
			Where("profile_id = ? AND date >= ? AND date < ?", profileID, day, day.AddDate(0, 0, 1)).
			First(&existing).Error
		switch {
		case err == nil:
			blocked = false
			return tx.Delete(&existing).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			blocked = true
			return tx.Create(&models.BlockedDate{
				ProfileID: profileID,
				Date:      day,
				Reason:    reason,
			}).Error
		default:
			return err
		}
	})
	if err != nil {
		return false, err
	}
	return blocked, nil
}

// ownedProfile loads a profile and verifies the user owns it.
func (s *AvailabilityService) ownedProfile(profileID, userID uint) (*models.AdvertiserProfile, error) {
	return loadOwnedProfile(s.db, profileID, userID)
}

func loadOwnedProfile(db *gorm.DB, profileID, userID uint) (*models.AdvertiserProfile, error) {
	var profile models.AdvertiserProfile
	if err := db.First(&profile, profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if profile.UserID != userID {
		return nil, ErrForbidden
	}
	return &profile, nil
}
