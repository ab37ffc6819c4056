package models

import (
	"time"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusNoShow    AppointmentStatus = "no_show"
)

type LocationType string

const (
	LocationAdvertiserPlace LocationType = "advertiser_place"
	LocationClientPlace     LocationType = "client_place"
	LocationHotel           LocationType = "hotel"
)

type CancelledBy string

const (
	CancelledByClient     CancelledBy = "client"
	CancelledByAdvertiser CancelledBy = "advertiser"
)

// Appointment is a booking against an advertiser profile. Rows are never
// deleted; terminal statuses keep the historical record.
type Appointment struct {
	ID        uint  `json:"id" gorm:"primaryKey"`
	ProfileID uint  `json:"profile_id" gorm:"index;not null"`
	UserID    *uint `json:"user_id"` // nil for anonymous bookings

	// Client contact info (for non-registered users)
	ClientName  string `json:"client_name" gorm:"size:100;not null"`
	ClientPhone string `json:"client_phone" gorm:"size:20;not null"`
	ClientEmail string `json:"client_email" gorm:"size:320"`

	// Appointment details
	AppointmentDate time.Time `json:"appointment_date" gorm:"index;not null"`
	Duration        int       `json:"duration" gorm:"not null"` // minutes
	ServiceType     string    `json:"service_type" gorm:"size:100"`

	// Location
	LocationType    LocationType `json:"location_type" gorm:"type:varchar(20);not null;default:'advertiser_place';check:location_type IN ('advertiser_place','client_place','hotel')"`
	LocationAddress string       `json:"location_address" gorm:"type:text"`

	// Pricing, snapshotted at creation so later rate changes don't apply
	EstimatedPrice float64 `json:"estimated_price" gorm:"type:decimal(10,2)"`

	Status AppointmentStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';check:status IN ('pending','confirmed','cancelled','completed','no_show')"`

	// Notes
	ClientNotes     string `json:"client_notes" gorm:"type:text"`
	AdvertiserNotes string `json:"advertiser_notes" gorm:"type:text"`

	// Audit trail
	CancelledBy        *CancelledBy `json:"cancelled_by" gorm:"type:varchar(10)"`
	CancellationReason string       `json:"cancellation_reason" gorm:"type:text"`
	CancelledAt        *time.Time   `json:"cancelled_at"`
	ConfirmedAt        *time.Time   `json:"confirmed_at"`
	CompletedAt        *time.Time   `json:"completed_at"`

	// Reminder delivery is handled by an external worker; it stamps this field.
	ReminderSentAt *time.Time `json:"reminder_sent_at"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the Appointment model
func (Appointment) TableName() string {
	return "appointments"
}

// allowed status transitions: pending -> confirmed|cancelled,
// confirmed -> completed|cancelled|no_show. Everything else is terminal.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:   {AppointmentStatusConfirmed, AppointmentStatusCancelled},
	AppointmentStatusConfirmed: {AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow},
}

// IsValid reports whether the status is a known appointment status.
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCancelled,
		AppointmentStatusCompleted, AppointmentStatusNoShow:
		return true
	}
	return false
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s AppointmentStatus) IsTerminal() bool {
	return len(appointmentTransitions[s]) == 0 && s.IsValid()
}

// CanTransitionTo reports whether the appointment may move to the given status.
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[a.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Occupies reports whether the appointment still blocks its time window.
// Cancelled and no-show bookings free the slot; completed ones keep it.
func (a *Appointment) Occupies() bool {
	return a.Status != AppointmentStatusCancelled && a.Status != AppointmentStatusNoShow
}

// End returns the end of the occupied interval.
func (a *Appointment) End() time.Time {
	return a.AppointmentDate.Add(time.Duration(a.Duration) * time.Minute)
}

// Overlaps reports whether the occupied interval intersects [start, end).
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.AppointmentDate.Before(end) && a.End().After(start)
}

// IsValid reports whether the location type is known.
func (l LocationType) IsValid() bool {
	switch l {
	case LocationAdvertiserPlace, LocationClientPlace, LocationHotel:
		return true
	}
	return false
}

// AppointmentCreate represents the request structure for booking an
// appointment. Bookings may be anonymous, so no auth context is required.
type AppointmentCreate struct {
	ProfileID       uint         `json:"profile_id" binding:"required"`
	ClientName      string       `json:"client_name" binding:"required"`
	ClientPhone     string       `json:"client_phone" binding:"required"`
	ClientEmail     string       `json:"client_email"`
	AppointmentDate string       `json:"appointment_date" binding:"required"` // ISO-8601
	Duration        int          `json:"duration" binding:"required"`
	ServiceType     string       `json:"service_type"`
	LocationType    LocationType `json:"location_type" binding:"required"`
	LocationAddress string       `json:"location_address"`
	ClientNotes     string       `json:"client_notes"`
}

// AppointmentStatusUpdate represents the request structure for a status
// transition driven by the owning advertiser.
type AppointmentStatusUpdate struct {
	Status             AppointmentStatus `json:"status" binding:"required"`
	CancellationReason string            `json:"cancellation_reason"`
	AdvertiserNotes    string            `json:"advertiser_notes"`
}
