package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"companion-booking-server/models"
)

func TestResolveDay_DefaultDenseRangeWhenUnconfigured(t *testing.T) {
	db := newTestDB(t)
	profile, _ := createTestAdvertiser(t, db, 300)

	day := nextWeekday(time.Monday)
	result, err := NewSlotResolver(db).ResolveDay(profile.ID, day)
	require.NoError(t, err)

	// 09:00 through 21:00 inclusive, hourly
	require.Len(t, result.Slots, 13)
	assert.Equal(t, "09:00", result.Slots[0])
	assert.Equal(t, "21:00", result.Slots[12])
	assert.False(t, result.IsBlocked)
	assert.Empty(t, result.ExistingAppointments)
}

func TestResolveDay_WeeklyWindowExpansion(t *testing.T) {
	db := newTestDB(t)
	profile, user := createTestAdvertiser(t, db, 300)

	avail := NewAvailabilityService(db)
	_, err := avail.ReplaceSlots(profile.ID, user.ID, []models.AvailabilitySlotInput{
		{DayOfWeek: int(time.Wednesday), StartTime: "10:00", EndTime: "18:00", IsActive: true},
	})
	require.NoError(t, err)

	day := nextWeekday(time.Wednesday)
	resolver := NewSlotResolver(db)

	result, err := resolver.ResolveDay(profile.ID, day)
	require.NoError(t, err)
	require.Equal(t, []string{"10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00", "17:00"}, result.Slots)

	// Days without a configured window fall back to the dense default range
	offDay := nextWeekday(time.Thursday)
	offResult, err := resolver.ResolveDay(profile.ID, offDay)
	require.NoError(t, err)
	assert.Len(t, offResult.Slots, 13)

	// Booking 14:00 removes exactly that candidate
	_, err = NewAppointmentService(db).Create(models.AppointmentCreate{
		ProfileID:       profile.ID,
		ClientName:      "João Silva",
		ClientPhone:     "11999999999",
		AppointmentDate: bookingDate(day, 14),
		Duration:        60,
		LocationType:    models.LocationAdvertiserPlace,
	}, nil)
	require.NoError(t, err)

	result, err = resolver.ResolveDay(profile.ID, day)
	require.NoError(t, err)
	assert.Len(t, result.Slots, 7)
	assert.NotContains(t, result.Slots, "14:00")
	assert.Len(t, result.ExistingAppointments, 1)
}

// A multi-hour booking must block every hour it spans, not just its starting
// hour. The original behavior only excluded the start hour, which let a
// 10:00 three-hour booking collide with new 11:00 and 12:00 bookings; this
// pins the corrected interval-overlap semantics.
func TestResolveDay_MultiHourAppointmentBlocksSpannedHours(t *testing.T) {
	db := newTestDB(t)
	profile, user := createTestAdvertiser(t, db, 300)

	avail := NewAvailabilityService(db)
	_, err := avail.ReplaceSlots(profile.ID, user.ID, []models.AvailabilitySlotInput{
		{DayOfWeek: int(time.Friday), StartTime: "10:00", EndTime: "16:00", IsActive: true},
	})
	require.NoError(t, err)

	day := nextWeekday(time.Friday)
	_, err = NewAppointmentService(db).Create(models.AppointmentCreate{
		ProfileID:       profile.ID,
		ClientName:      "João Silva",
		ClientPhone:     "11999999999",
		AppointmentDate: bookingDate(day, 10),
		Duration:        180,
		LocationType:    models.LocationAdvertiserPlace,
	}, nil)
	require.NoError(t, err)

	result, err := NewSlotResolver(db).ResolveDay(profile.ID, day)
	require.NoError(t, err)
	assert.Equal(t, []string{"13:00", "14:00", "15:00"}, result.Slots)
}

func TestResolveDay_BlockedDateShortCircuits(t *testing.T) {
	db := newTestDB(t)
	profile, user := createTestAdvertiser(t, db, 300)

	day := nextWeekday(time.Saturday)
	avail := NewAvailabilityService(db)
	blocked, err := avail.ToggleBlock(profile.ID, user.ID, day, "travelling")
	require.NoError(t, err)
	require.True(t, blocked)

	result, err := NewSlotResolver(db).ResolveDay(profile.ID, day)
	require.NoError(t, err)
	assert.True(t, result.IsBlocked)
	assert.Equal(t, "travelling", result.BlockedReason)
	assert.Empty(t, result.Slots)
}

func TestResolveDay_InactiveWindowsAreIgnored(t *testing.T) {
	db := newTestDB(t)
	profile, user := createTestAdvertiser(t, db, 300)

	_, err := NewAvailabilityService(db).ReplaceSlots(profile.ID, user.ID, []models.AvailabilitySlotInput{
		{DayOfWeek: int(time.Tuesday), StartTime: "10:00", EndTime: "12:00", IsActive: false},
		{DayOfWeek: int(time.Tuesday), StartTime: "14:00", EndTime: "16:00", IsActive: true},
	})
	require.NoError(t, err)

	result, err := NewSlotResolver(db).ResolveDay(profile.ID, nextWeekday(time.Tuesday))
	require.NoError(t, err)
	assert.Equal(t, []string{"14:00", "15:00"}, result.Slots)
}

func TestResolveDay_SubHourWindowYieldsNoCandidates(t *testing.T) {
	db := newTestDB(t)
	profile, user := createTestAdvertiser(t, db, 300)

	// 09:00-09:30 starts and ends within the same hour, so there is no
	// whole-hour-aligned candidate inside it.
	_, err := NewAvailabilityService(db).ReplaceSlots(profile.ID, user.ID, []models.AvailabilitySlotInput{
		{DayOfWeek: int(time.Sunday), StartTime: "09:00", EndTime: "09:30", IsActive: true},
	})
	require.NoError(t, err)

	result, err := NewSlotResolver(db).ResolveDay(profile.ID, nextWeekday(time.Sunday))
	require.NoError(t, err)
	assert.Empty(t, result.Slots)
	assert.False(t, result.IsBlocked)
}

func TestResolveDay_UnknownProfile(t *testing.T) {
	db := newTestDB(t)

	_, err := NewSlotResolver(db).ResolveDay(9999, nextWeekday(time.Monday))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveDay_CancelledAppointmentsDoNotBlock(t *testing.T) {
	db := newTestDB(t)
	profile, user := createTestAdvertiser(t, db, 300)

	day := nextWeekday(time.Monday)
	svc := NewAppointmentService(db)
	appointment, err := svc.Create(models.AppointmentCreate{
		ProfileID:       profile.ID,
		ClientName:      "João Silva",
		ClientPhone:     "11999999999",
		AppointmentDate: bookingDate(day, 11),
		Duration:        60,
		LocationType:    models.LocationAdvertiserPlace,
	}, nil)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(appointment.ID, user.ID, models.AppointmentStatusUpdate{
		Status:             models.AppointmentStatusCancelled,
		CancellationReason: "client asked to reschedule",
	})
	require.NoError(t, err)

	result, err := NewSlotResolver(db).ResolveDay(profile.ID, day)
	require.NoError(t, err)
	assert.Contains(t, result.Slots, "11:00")
	assert.Empty(t, result.ExistingAppointments)
}
