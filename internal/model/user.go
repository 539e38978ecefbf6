package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthProvider identifies how the account was created or last authenticated.
type AuthProvider string

const (
	ProviderLocal    AuthProvider = "local"
	ProviderGoogle   AuthProvider = "google"
	ProviderFacebook AuthProvider = "facebook"
)

// User represents a wallet account holder.
type User struct {
	ID             uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	Email          string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash   string         `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Active         bool           `json:"active" gorm:"default:true;index"`
	Admin          bool           `json:"admin" gorm:"default:false"`
	MFAEnabled     bool           `json:"mfa_enabled" gorm:"default:false"`
	MFASecret      string         `json:"-" gorm:"size:255"` // Set from enrollment onwards; MFAEnabled implies non-empty
	AuthProvider   AuthProvider   `json:"auth_provider" gorm:"size:20;default:'local'"`
	ProfilePicture string         `json:"profile_picture,omitempty" gorm:"size:512"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Documents []Document `json:"documents,omitempty" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
