package services

import (
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"companion-booking-server/models"
)

// AppointmentService creates bookings and drives them through their
// lifecycle. All mutations after creation require advertiser ownership.
type AppointmentService struct {
	db *gorm.DB
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(db *gorm.DB) *AppointmentService {
	return &AppointmentService{db: db}
}

// acceptedDateLayouts for the booking request's appointment_date field.
var acceptedDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Create books a new pending appointment. The estimated price is snapshotted
// from the profile's current hourly rate so later rate changes never affect
// an existing booking.
//
// Double-booking is guarded twice: the create transaction takes a row lock on
// the profile, serializing bookings per profile before the overlap check, and
// Postgres additionally enforces a partial unique index on active
// (profile_id, appointment_date) pairs. Either guard surfaces as ErrConflict.
func (s *AppointmentService) Create(input models.AppointmentCreate, userID *uint) (*models.Appointment, error) {
	name := strings.TrimSpace(input.ClientName)
	if len(name) < 2 {
		return nil, invalidField("client_name", "must be at least 2 characters")
	}
	phone := strings.TrimSpace(input.ClientPhone)
	if len(phone) < 10 {
		return nil, invalidField("client_phone", "must be at least 10 digits")
	}
	if input.Duration < 60 {
		return nil, invalidField("duration", "must be at least 60 minutes")
	}
	if !input.LocationType.IsValid() {
		return nil, invalidField("location_type", "must be one of advertiser_place, client_place, hotel")
	}
	if input.LocationType != models.LocationAdvertiserPlace && strings.TrimSpace(input.LocationAddress) == "" {
		return nil, invalidField("location_address", "required unless the appointment is at the advertiser's place")
	}

	startAt, err := parseAppointmentDate(input.AppointmentDate)
	if err != nil {
		return nil, invalidField("appointment_date", err.Error())
	}
	endAt := startAt.Add(time.Duration(input.Duration) * time.Minute)

	appointment := &models.Appointment{
		ProfileID:       input.ProfileID,
		UserID:          userID,
		ClientName:      name,
		ClientPhone:     phone,
		ClientEmail:     strings.TrimSpace(input.ClientEmail),
		AppointmentDate: startAt,
		Duration:        input.Duration,
		ServiceType:     input.ServiceType,
		LocationType:    input.LocationType,
		LocationAddress: input.LocationAddress,
		ClientNotes:     input.ClientNotes,
		Status:          models.AppointmentStatusPending,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Lock the profile row so concurrent bookings for the same profile
		// serialize before the overlap check.
		var profile models.AdvertiserProfile
		if err := lockForUpdate(tx).
			First(&profile, input.ProfileID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !profile.IsActive {
			return ErrNotFound
		}

		appointment.EstimatedPrice = profile.PricePerHour * float64(input.Duration) / 60

		day := models.DateOnly(startAt)
		var sameDay []models.Appointment
		if err := tx.
			Where("profile_id = ? AND appointment_date >= ? AND appointment_date < ? AND status NOT IN ?",
				input.ProfileID, day, day.AddDate(0, 0, 1),
				[]models.AppointmentStatus{models.AppointmentStatusCancelled, models.AppointmentStatusNoShow}).
			Find(&sameDay).Error; err != nil {
			return err
		}
		for i := range sameDay {
			if sameDay[i].Overlaps(startAt, endAt) {
				return ErrConflict
			}
		}

		return tx.Create(appointment).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}

	return appointment, nil
}

// AppointmentFilter narrows ListForProfile results.
type AppointmentFilter struct {
	Status models.AppointmentStatus
	From   *time.Time
	To     *time.Time
}

// ListForProfile returns the profile's appointments newest-first, paginated.
// Only the owning advertiser may list them.
func (s *AppointmentService) ListForProfile(profileID, userID uint, filter AppointmentFilter, page, limit int) ([]models.Appointment, int64, error) {
	if _, err := loadOwnedProfile(s.db, profileID, userID); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := s.db.Model(&models.Appointment{}).Where("profile_id = ?", profileID)
	if filter.Status != "" {
		if !filter.Status.IsValid() {
			return nil, 0, invalidField("status", "unknown appointment status")
		}
		query = query.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		query = query.Where("appointment_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("appointment_date <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var appointments []models.Appointment
	if err := query.
		Order("appointment_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&appointments).Error; err != nil {
		return nil, 0, err
	}

	return appointments, total, nil
}

// UpdateStatus transitions an appointment on behalf of the owning advertiser
// and stamps the matching audit field. Terminal appointments reject every
// further transition.
func (s *AppointmentService) UpdateStatus(appointmentID, userID uint, update models.AppointmentStatusUpdate) (*models.Appointment, error) {
	if !update.Status.IsValid() {
		return nil, invalidField("status", "unknown appointment status")
	}

	var appointment models.Appointment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			First(&appointment, appointmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if _, err := loadOwnedProfile(tx, appointment.ProfileID, userID); err != nil {
			return err
		}

		if !appointment.CanTransitionTo(update.Status) {
			return &InvalidTransitionError{From: appointment.Status, To: update.Status}
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":     update.Status,
			"updated_at": now,
		}
		switch update.Status {
		case models.AppointmentStatusConfirmed:
			updates["confirmed_at"] = now
		case models.AppointmentStatusCancelled:
			updates["cancelled_at"] = now
			updates["cancelled_by"] = models.CancelledByAdvertiser
			updates["cancellation_reason"] = update.CancellationReason
		case models.AppointmentStatusCompleted:
			updates["completed_at"] = now
		}
		if update.AdvertiserNotes != "" {
			updates["advertiser_notes"] = update.AdvertiserNotes
		}

		if err := tx.Model(&appointment).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&appointment, appointmentID).Error
	})
	if err != nil {
		return nil, err
	}

	return &appointment, nil
}

func parseAppointmentDate(raw string) (time.Time, error) {
	for _, layout := range acceptedDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("expected an ISO-8601 timestamp")
}

// lockForUpdate takes a SELECT ... FOR UPDATE row lock where the dialect
// supports it. SQLite serializes writers on its own and rejects the syntax.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// isUniqueViolation detects the Postgres unique-constraint error raised by
// the active-booking index when two inserts race past the in-transaction
// check.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
