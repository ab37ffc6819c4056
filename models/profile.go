package models

import (
	"time"

	"gorm.io/gorm"
)

// ProfileCategory is the listing category of an advertiser profile
type ProfileCategory string

const (
	CategoryWomen ProfileCategory = "women"
	CategoryMen   ProfileCategory = "men"
	CategoryTrans ProfileCategory = "trans"
)

// AdvertiserProfile represents an advertiser's public listing.
// Availability, blocked dates and appointments all hang off this record.
type AdvertiserProfile struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	UserID      uint            `json:"user_id" gorm:"uniqueIndex;not null"`
	Slug        string          `json:"slug" gorm:"size:120;uniqueIndex;not null"`
	Category    ProfileCategory `json:"category" gorm:"type:varchar(10);not null;check:category IN ('women','men','trans')"`
	DisplayName string          `json:"display_name" gorm:"size:50;not null"`
	Bio         string          `json:"bio" gorm:"type:text"`
	Age         int             `json:"age" gorm:"not null"`

	// Contact
	Whatsapp string `json:"whatsapp" gorm:"size:20"`
	Telegram string `json:"telegram" gorm:"size:50"`

	// Location
	City         string `json:"city" gorm:"size:100;not null"`
	State        string `json:"state" gorm:"size:100;not null"`
	Neighborhood string `json:"neighborhood" gorm:"size:100"`

	// Pricing
	PricePerHour  float64  `json:"price_per_hour" gorm:"type:decimal(10,2);not null"`
	PricePerNight *float64 `json:"price_per_night" gorm:"type:decimal(10,2)"`

	// Service flags
	HasOwnPlace bool `json:"has_own_place" gorm:"default:false"`
	DoesOutcall bool `json:"does_outcalls" gorm:"default:false"`
	Is24Hours   bool `json:"is_24_hours" gorm:"default:false"`

	IsActive   bool `json:"is_active" gorm:"default:true"`
	IsVerified bool `json:"is_verified" gorm:"default:false"`
	ViewCount  int  `json:"view_count" gorm:"default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name for the AdvertiserProfile model
func (AdvertiserProfile) TableName() string {
	return "advertiser_profiles"
}

// ProfileCreate represents the request structure for creating a profile
type ProfileCreate struct {
	Category      ProfileCategory `json:"category" binding:"required,oneof=women men trans"`
	DisplayName   string          `json:"display_name" binding:"required,min=2,max=50"`
	Bio           string          `json:"bio" binding:"required,min=10,max=2000"`
	Age           int             `json:"age" binding:"required,min=18,max=99"`
	Whatsapp      string          `json:"whatsapp" binding:"required"`
	Telegram      string          `json:"telegram"`
	City          string          `json:"city" binding:"required"`
	State         string          `json:"state" binding:"required"`
	Neighborhood  string          `json:"neighborhood"`
	PricePerHour  float64         `json:"price_per_hour" binding:"required,min=50"`
	PricePerNight *float64        `json:"price_per_night"`
	HasOwnPlace   bool            `json:"has_own_place"`
	DoesOutcall   bool            `json:"does_outcalls"`
	Is24Hours     bool            `json:"is_24_hours"`
}

// ProfileUpdate represents the request structure for updating a profile
type ProfileUpdate struct {
	DisplayName   *string  `json:"display_name" binding:"omitempty,min=2,max=50"`
	Bio           *string  `json:"bio" binding:"omitempty,min=10,max=2000"`
	Age           *int     `json:"age" binding:"omitempty,min=18,max=99"`
	Whatsapp      *string  `json:"whatsapp"`
	Telegram      *string  `json:"telegram"`
	City          *string  `json:"city"`
	State         *string  `json:"state"`
	Neighborhood  *string  `json:"neighborhood"`
	PricePerHour  *float64 `json:"price_per_hour" binding:"omitempty,min=50"`
	PricePerNight *float64 `json:"price_per_night"`
	HasOwnPlace   *bool    `json:"has_own_place"`
	DoesOutcall   *bool    `json:"does_outcalls"`
	Is24Hours     *bool    `json:"is_24_hours"`
	IsActive      *bool    `json:"is_active"`
}
