package services

import (
	"errors"
	"fmt"

	"companion-booking-server/models"
)

// Sentinel errors returned by the scheduling services. Handlers map these to
// HTTP status codes; everything else surfaces as an internal error.
var (
	// ErrNotFound means the referenced profile or appointment does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrForbidden means the caller does not own the target profile.
	ErrForbidden = errors.New("not authorized for this profile")

	// ErrConflict means the requested time window is already taken by an
	// active booking.
	ErrConflict = errors.New("time slot is no longer available")
)

// ValidationError reports malformed input with field-level detail.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalidField(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// InvalidTransitionError reports a status change the lifecycle does not allow.
type InvalidTransitionError struct {
	From models.AppointmentStatus
	To   models.AppointmentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition appointment from %q to %q", e.From, e.To)
}
