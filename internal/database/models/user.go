package models

import (
	"time"

	"github.com/google/uuid"
)

// Supported OAuth providers.
const (
	ProviderGitHub = "github"
	ProviderGoogle = "google"
)

type User struct {
	Base
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `json:"-"`
	AvatarURL    string `json:"avatar_url,omitempty"`

	EmailVerifiedAt       *time.Time `json:"-"`
	EmailVerificationCode string     `json:"-"`
	PasswordRecoveryCode  string     `json:"-"`

	// Both empty or both set; at most one provider per account.
	OAuthProvider   string `gorm:"column:oauth_provider;index" json:"-"`
	OAuthProviderID string `gorm:"column:oauth_provider_id" json:"-"`

	// Cleared on logout and account deletion.
	ActiveCharacterID *uuid.UUID `gorm:"type:uuid" json:"-"`

	Tokens []AccessToken `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) EmailVerified() bool {
	return u.EmailVerifiedAt != nil
}
