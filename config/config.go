package config

import (
	"os"
	"strconv"
)

type Config struct {
	Server  ServerConfig
	JWT     JWTConfig
	Booking BookingConfig
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

// BookingConfig tunes the scheduling engine. DayStart/DayEnd form the dense
// fallback range offered when a profile has no weekly schedule configured, so
// an unconfigured calendar is bookable instead of fully blocked.
type BookingConfig struct {
	DayStart          string // HH:MM, default bookable day start
	DayEnd            string // HH:MM, default bookable day end (exclusive)
	PendingGraceHours int    // pending bookings past start are auto-cancelled after this
	ExpirySweepSec    int    // expiry job tick interval in seconds
}

var AppConfig *Config

func Load() {
	AppConfig = &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "change-this-secret-in-production"),
			ExpiryHours: getEnvAsInt("JWT_EXPIRY_HOURS", 24),
		},
		Booking: BookingConfig{
			DayStart:          getEnv("BOOKING_DAY_START", "09:00"),
			DayEnd:            getEnv("BOOKING_DAY_END", "22:00"),
			PendingGraceHours: getEnvAsInt("BOOKING_PENDING_GRACE_HOURS", 12),
			ExpirySweepSec:    getEnvAsInt("BOOKING_EXPIRY_SWEEP_SECONDS", 300),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
