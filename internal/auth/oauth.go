package auth

import (
	"context"
	"errors"
	"time"

	"github.com/0x029Ax0/starter-kit-api/internal/database/models"
	"github.com/0x029Ax0/starter-kit-api/pkg/crypto"
	"gorm.io/gorm"
)

var (
	ErrUnsupportedProvider = errors.New("unsupported oauth provider")
	ErrProviderMismatch    = errors.New("account already linked to a different provider")
	ErrInvalidOAuthState   = errors.New("invalid oauth state")
)

// Profile is the identity a provider reports for the authorizing user.
type Profile struct {
	ID        string
	Name      string
	Email     string
	AvatarURL string
}

// Linker reconciles a provider identity against the user table.
type Linker struct {
	db *gorm.DB
}

func NewLinker(db *gorm.DB) *Linker {
	return &Linker{db: db}
}

// Resolve finds or creates the local user for a provider profile:
//
//   - no user with that email: create one, linked and verified, with an
//     unusable random password
//   - user exists, never linked: link it to this provider
//   - user exists, linked to this provider: refresh provider ID and avatar
//   - user exists, linked to another provider: fail, record untouched
func (l *Linker) Resolve(ctx context.Context, provider string, profile Profile) (*models.User, error) {
	var user models.User
	err := l.db.WithContext(ctx).Where("email = ?", profile.Email).First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		placeholder, err := crypto.GenerateRandomString(40)
		if err != nil {
			return nil, err
		}
		hash, err := HashPassword(placeholder)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		user = models.User{
			Name:            profile.Name,
			Email:           profile.Email,
			PasswordHash:    hash,
			AvatarURL:       profile.AvatarURL,
			EmailVerifiedAt: &now,
			OAuthProvider:   provider,
			OAuthProviderID: profile.ID,
		}
		if err := l.db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}

	if user.OAuthProvider != "" && user.OAuthProvider != provider {
		return nil, ErrProviderMismatch
	}

	// First link and idempotent re-link take the same updates.
	user.OAuthProvider = provider
	user.OAuthProviderID = profile.ID
	user.AvatarURL = profile.AvatarURL
	if err := l.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"oauth_provider":    provider,
		"oauth_provider_id": profile.ID,
		"avatar_url":        profile.AvatarURL,
	}).Error; err != nil {
		return nil, err
	}

	return &user, nil
}
