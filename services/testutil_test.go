package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"companion-booking-server/config"
	"companion-booking-server/database"
	"companion-booking-server/models"
)

var testDBCounter int64

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	config.Load()

	dsn := fmt.Sprintf("file:scheduling_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return db
}

// createTestAdvertiser inserts a user with an active profile at the given
// hourly rate and returns both.
func createTestAdvertiser(t *testing.T, db *gorm.DB, rate float64) (*models.AdvertiserProfile, *models.User) {
	t.Helper()

	n := atomic.AddInt64(&testDBCounter, 1)
	user := &models.User{
		FullName:     "Test Advertiser",
		Email:        fmt.Sprintf("advertiser%d@example.com", n),
		PasswordHash: "x",
		Role:         models.RoleAdvertiser,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)

	profile := &models.AdvertiserProfile{
		UserID:       user.ID,
		Slug:         fmt.Sprintf("test-advertiser-%d", n),
		Category:     models.CategoryWomen,
		DisplayName:  "Test Advertiser",
		Age:          25,
		City:         "São Paulo",
		State:        "SP",
		PricePerHour: rate,
		IsActive:     true,
	}
	require.NoError(t, db.Create(profile).Error)

	return profile, user
}

// nextWeekday returns the next future calendar date falling on the weekday.
func nextWeekday(wd time.Weekday) time.Time {
	d := models.DateOnly(time.Now().AddDate(0, 0, 1))
	for d.Weekday() != wd {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// bookingDate formats a start time the way the booking API receives it.
func bookingDate(day time.Time, hour int) string {
	return day.Add(time.Duration(hour) * time.Hour).Format("2006-01-02T15:04:05")
}
