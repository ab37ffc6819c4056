package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"companion-booking-server/models"
)

func validBooking(profileID uint, day time.Time, hour int) models.AppointmentCreate {
	return models.AppointmentCreate{
		ProfileID:       profileID,
		ClientName:      "João Silva",
		ClientPhone:     "11999999999",
		AppointmentDate: bookingDate(day, hour),
		Duration:        60,
		LocationType:    models.LocationAdvertiserPlace,
	}
}

func TestCreate_SnapshotsPrice(t *testing.T) {
	db := newTestDB(t)
	profile, _ := createTestAdvertiser(t, db, 300)
	svc := NewAppointmentService(db)

	input := validBooking(profile.ID, nextWeekday(time.Monday), 14)
	input.Duration = 120

	appointment, err := svc.Create(input, nil)
	require.NoError(t, err)
	assert.Equal(t, 600.0, appointment.EstimatedPrice)
	assert.Equal(t, models.AppointmentStatusPending, appointment.Status)
	assert.Nil(t, appointment.UserID)

	// Raising the rate never touches existing bookings
	require.NoError(t, db.Model(profile).Update("price_per_hour", 500).Error)

	var stored models.Appointment
	require.NoError(t, db.First(&stored, appointment.ID).Error)
	assert.Equal(t, 600.0, stored.EstimatedPrice)
}

func TestCreate_Validation(t *testing.T) {
	db := newTestDB(t)
	profile, _ := createTestAdvertiser(t, db, 300)
	svc := NewAppointmentService(db)
	day := nextWeekday(time.Monday)

	cases := []struct {
		name   string
		mutate func(*models.AppointmentCreate)
		field  string
	}{
		{"short name", func(in *models.AppointmentCreate) { in.ClientName = " J " }, "client_name"},
		{"short phone", func(in *models.AppointmentCreate) { in.ClientPhone = "12345" }, "client_phone"},
		{"duration below minimum", func(in *models.AppointmentCreate) { in.Duration = 30 }, "duration"},
		{"unknown location type", func(in *models.AppointmentCreate) { in.LocationType = "beach" }, "location_type"},
		{"outcall without address", func(in *models.AppointmentCreate) { in.LocationType = models.LocationClientPlace }, "location_address"},
		{"garbage date", func(in *models.AppointmentCreate) { in.AppointmentDate = "tomorrow at noon" }, "appointment_date"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validBooking(profile.ID, day, 10)
			tc.mutate(&input)

			_, err := svc.Create(input, nil)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestCreate_UnknownOrInactiveProfile(t *testing.T) {
	db := newTestDB(t)
	profile, _ := createTestAdvertiser(t, db, 300)
	svc := NewAppointmentService(db)
	day := nextWeekday(time.Monday)

	_, err := svc.Create(validBooking(9999, day, 10), nil)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, db.Model(profile).Update("is_active", false).Error)
	_, err = svc.Create(validBooking(profile.ID, day, 10), nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreate_RejectsDoubleBooking(t *testing.T) {
	db := newTestDB(t)
	profile, _ := createTestAdvertiser(t, db, 300)
	svc := NewAppointmentService(db)
	day := nextWeekday(time.Monday)

	_, err := svc.Create(validBooking(profile.ID, day, 14), nil)
	require.NoError(t, err)

	_, err = svc.Create(validBooking(profile.ID, day, 14), nil)
	assert.ErrorIs(t, err, ErrConflict)

	// A different hour on the same day is fine
	_, err = svc.Create(validBooking(profile.ID, day, 16), nil)
	assert.NoError(t, err)
}

func TestCreate_RejectsOverlappingInterval(t *testing.T) {
	db := newTestDB(t)
	profile, _ := createTestAdvertiser(t, db, 300)
	svc := NewAppointmentService(db)
	day := nextWeekday(time.Monday)

	long := validBooking(profile.ID, day, 13)
	long.Duration = 120
	_, err := svc.Create(long, nil)
	require.NoError(t, err)

	// 14:00 starts inside the 13:00-15:00 booking
	_, err = svc.Create(validBooking(profile.ID, day, 14), nil)
	assert.ErrorIs(t, err, ErrConflict)

	// 15:00 starts exactly at its end and is allowed
	_, err = svc.Create(validBooking(profile.ID, day, 15), nil)
	assert.NoError(t, err)
}

func TestCreate_CancelledBookingFreesTheSlot(t *testing.T) {
	db := newTestDB(t)
	profile, user := createTestAdvertiser(t, db, 300)
	svc := NewAppointmentService(db)
	day := nextWeekday(time.Monday)

	first, err := svc.Create(validBooking(profile.ID, day, 14), nil)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(first.ID, user.ID, models.AppointmentStatusUpdate{
		Status:             models.AppointmentStatusCancelled,
		CancellationReason: "client no longer available",
	})
	require.NoError(t, err)

	_, err = svc.Create(validBooking(profile.ID, day, 14), nil)
	assert.NoError(t, err)
}

func TestUpdateStatus_StampsAuditFields(t *testing.T) {
	db := newTestDB(t)
	profile, user := createTestAdvertiser(t, db, 300)
	svc := NewAppointmentService(db)
	day := nextWeekday(time.Monday)

	appointment, err := svc.Create(validBooking(profile.ID, day, 10), nil)
	require.NoError(t, err)

	confirmed, err := svc.UpdateStatus(appointment.ID, user.ID, models.AppointmentStatusUpdate{
		Status:          models.AppointmentStatusConfirmed,
		AdvertiserNotes: "confirmed by phone",
	})
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentStatusConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.ConfirmedAt)
	assert.Equal(t, "confirmed by phone", confirmed.AdvertiserNotes)

	completed, err := svc.UpdateStatus(appointment.ID, user.ID, models.AppointmentStatusUpdate{
		Status: models.AppointmentStatusCompleted,
	})
	require.NoError(t, err)
	require.NotNil(t, completed.CompletedAt)
}

func TestUpdateStatus_CancellationAudit(t *testing.T) {
	db := newTestDB(t)
	profile, user := createTestAdvertiser(t, db, 300)
	svc := NewAppointmentService(db)

	appointment, err := svc.Create(validBooking(profile.ID, nextWeekday(time.Monday), 10), nil)
	require.NoError(t, err)

	cancelled, err := svc.UpdateStatus(appointment.ID, user.ID, models.AppointmentStatusUpdate{
		Status:             models.AppointmentStatusCancelled,
		CancellationReason: "schedule conflict",
	})
	require.NoError(t, err)
	require.NotNil(t, cancelled.CancelledAt)
	require.NotNil(t, cancelled.CancelledBy)
	assert.Equal(t, models.CancelledByAdvertiser, *cancelled.CancelledBy)
	assert.Equal(t, "schedule conflict", cancelled.CancellationReason)
}

func TestUpdateStatus_RejectsIllegalTransitions(t *testing.T) {
	db := newTestDB(t)
	profile, user := createTestAdvertiser(t, db, 300)
	svc := NewAppointmentService(db)
	day := nextWeekday(time.Monday)

	appointment, err := svc.Create(validBooking(profile.ID, day, 10), nil)
	require.NoError(t, err)

	// pending cannot skip straight to completed
	_, err = svc.UpdateStatus(appointment.ID, user.ID, models.AppointmentStatusUpdate{
		Status: models.AppointmentStatusCompleted,
	})
	var terr *InvalidTransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, models.AppointmentStatusPending, terr.From)
	assert.Equal(t, models.AppointmentStatusCompleted, terr.To)

	// terminal states reject everything
	_, err = svc.UpdateStatus(appointment.ID, user.ID, models.AppointmentStatusUpdate{
		Status:             models.AppointmentStatusCancelled,
		CancellationReason: "x",
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(appointment.ID, user.ID, models.AppointmentStatusUpdate{
		Status: models.AppointmentStatusConfirmed,
	})
	assert.ErrorAs(t, err, &terr)
}

func TestUpdateStatus_UnknownStatusAndOwnership(t *testing.T) {
	db := newTestDB(t)
	profile, _ := createTestAdvertiser(t, db, 300)
	_, stranger := createTestAdvertiser(t, db, 400)
	svc := NewAppointmentService(db)

	appointment, err := svc.Create(validBooking(profile.ID, nextWeekday(time.Monday), 10), nil)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(appointment.ID, stranger.ID, models.AppointmentStatusUpdate{
		Status: models.AppointmentStatusConfirmed,
	})
	assert.ErrorIs(t, err, ErrForbidden)

	var verr *ValidationError
	_, err = svc.UpdateStatus(appointment.ID, stranger.ID, models.AppointmentStatusUpdate{
		Status: "archived",
	})
	assert.ErrorAs(t, err, &verr)

	_, err = svc.UpdateStatus(9999, stranger.ID, models.AppointmentStatusUpdate{
		Status: models.AppointmentStatusConfirmed,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListForProfile_PaginationAndFilters(t *testing.T) {
	db := newTestDB(t)
	profile, user := createTestAdvertiser(t, db, 300)
	svc := NewAppointmentService(db)
	day := nextWeekday(time.Monday)

	var created []*models.Appointment
	for _, hour := range []int{9, 11, 13, 15, 17} {
		a, err := svc.Create(validBooking(profile.ID, day, hour), nil)
		require.NoError(t, err)
		created = append(created, a)
	}

	// Newest-first ordering, paginated
	page1, total, err := svc.ListForProfile(profile.ID, user.ID, AppointmentFilter{}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page1, 2)
	assert.Equal(t, created[4].ID, page1[0].ID)
	assert.Equal(t, created[3].ID, page1[1].ID)

	page3, _, err := svc.ListForProfile(profile.ID, user.ID, AppointmentFilter{}, 3, 2)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Equal(t, created[0].ID, page3[0].ID)

	// Status filter
	_, err = svc.UpdateStatus(created[0].ID, user.ID, models.AppointmentStatusUpdate{
		Status: models.AppointmentStatusConfirmed,
	})
	require.NoError(t, err)

	confirmed, total, err := svc.ListForProfile(profile.ID, user.ID,
		AppointmentFilter{Status: models.AppointmentStatusConfirmed}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, confirmed, 1)
	assert.Equal(t, created[0].ID, confirmed[0].ID)

	// Date range filter
	from := day.Add(12 * time.Hour)
	to := day.Add(16 * time.Hour)
	ranged, total, err := svc.ListForProfile(profile.ID, user.ID,
		AppointmentFilter{From: &from, To: &to}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, ranged, 2)

	// Unknown status in the filter is rejected
	var verr *ValidationError
	_, _, err = svc.ListForProfile(profile.ID, user.ID,
		AppointmentFilter{Status: "archived"}, 1, 20)
	assert.ErrorAs(t, err, &verr)
}

func TestListForProfile_Ownership(t *testing.T) {
	db := newTestDB(t)
	profile, _ := createTestAdvertiser(t, db, 300)
	_, stranger := createTestAdvertiser(t, db, 400)

	_, _, err := NewAppointmentService(db).ListForProfile(profile.ID, stranger.ID, AppointmentFilter{}, 1, 20)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreate_LinksLoggedInClient(t *testing.T) {
	db := newTestDB(t)
	profile, _ := createTestAdvertiser(t, db, 300)
	_, client := createTestAdvertiser(t, db, 0)

	appointment, err := NewAppointmentService(db).Create(
		validBooking(profile.ID, nextWeekday(time.Monday), 10), &client.ID)
	require.NoError(t, err)
	require.NotNil(t, appointment.UserID)
	assert.Equal(t, client.ID, *appointment.UserID)
}
