package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleClient     UserRole = "client"
	RoleAdvertiser UserRole = "advertiser"
	RoleAdmin      UserRole = "admin"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	FullName     string    `json:"full_name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"size:320;uniqueIndex;not null"`
	PhoneNumber  string    `json:"phone_number" gorm:"size:20"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Hidden from JSON
	Role         UserRole  `json:"role" gorm:"type:varchar(20);not null;default:'client';check:role IN ('client','advertiser','admin')"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Profile *AdvertiserProfile `json:"profile,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate is a GORM hook that runs before creating a user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleClient
	}
	return nil
}

// IsAdvertiser checks if the user is an advertiser
func (u *User) IsAdvertiser() bool {
	return u.Role == RoleAdvertiser
}

// IsAdmin checks if the user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
