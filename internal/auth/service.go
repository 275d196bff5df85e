package auth

import (
	"context"
	"errors"
	"time"

	"github.com/0x029Ax0/starter-kit-api/internal/database/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrEmailTaken              = errors.New("email already taken")
	ErrInvalidRecoveryCode     = errors.New("invalid recovery code")
	ErrInvalidVerificationCode = errors.New("invalid verification code")
)

// Service implements the authentication flows over the user table and the
// token service.
type Service struct {
	db     *gorm.DB
	tokens *TokenService
}

func NewService(db *gorm.DB, tokens *TokenService) *Service {
	return &Service{db: db, tokens: tokens}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Login checks the credentials and returns the matching user. Token issuance
// is the caller's responsibility.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// OAuth-only accounts carry an unusable placeholder hash; an empty hash
	// must never match.
	if user.PasswordHash == "" || !CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// Register creates a new user. Registration auto-verifies the email address.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := models.User{
		Name:            input.Name,
		Email:           input.Email,
		PasswordHash:    hash,
		EmailVerifiedAt: &now,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// RecoverAccount stores a fresh recovery code on the user. An unknown email
// succeeds silently so the endpoint cannot be used to enumerate accounts.
func (s *Service) RecoverAccount(ctx context.Context, email string) error {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	return s.db.WithContext(ctx).Model(&user).
		Update("password_recovery_code", uuid.NewString()).Error
}

// ResetPassword sets a new password after checking the recovery code. The
// code is single-use and cleared on success. Unknown emails and wrong codes
// fail alike.
func (s *Service) ResetPassword(ctx context.Context, email, recoveryCode, newPassword string) error {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidRecoveryCode
		}
		return err
	}

	if user.PasswordRecoveryCode == "" || user.PasswordRecoveryCode != recoveryCode {
		return ErrInvalidRecoveryCode
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"password_hash":          hash,
		"password_recovery_code": "",
	}).Error
}

// VerifyEmail marks the address verified when the supplied code matches the
// stored one. Unknown emails are a no-op.
func (s *Service) VerifyEmail(ctx context.Context, email, verificationCode string) error {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if user.EmailVerificationCode == "" || user.EmailVerificationCode != verificationCode {
		return ErrInvalidVerificationCode
	}

	now := time.Now()
	return s.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"email_verified_at":       &now,
		"email_verification_code": "",
	}).Error
}

// Logout clears the user's active character and revokes the session's token.
func (s *Service) Logout(ctx context.Context, session *Session) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("id = ?", session.User.ID).
			Update("active_character_id", nil).Error; err != nil {
			return err
		}

		// Transient sessions (no persisted token) have nothing to revoke.
		if session.TokenID == uuid.Nil {
			return nil
		}

		return tx.Delete(&models.AccessToken{}, "id = ?", session.TokenID).Error
	})
}

// ChangePassword overwrites the password hash after re-verifying the
// current password.
func (s *Service) ChangePassword(ctx context.Context, session *Session, currentPassword, newPassword string) error {
	if !CheckPassword(currentPassword, session.User.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(session.User).
		Update("password_hash", hash).Error
}

// UpdateProfile updates name and email, and the avatar path when one is
// provided. Email uniqueness excludes the caller's own row.
func (s *Service) UpdateProfile(ctx context.Context, session *Session, name, email, avatarURL string) (*models.User, error) {
	var other models.User
	err := s.db.WithContext(ctx).
		Where("email = ? AND id <> ?", email, session.User.ID).
		First(&other).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":  name,
		"email": email,
	}
	if avatarURL != "" {
		updates["avatar_url"] = avatarURL
	}

	if err := s.db.WithContext(ctx).Model(session.User).Updates(updates).Error; err != nil {
		return nil, err
	}

	return session.User, nil
}

// DeleteAccount removes the user permanently. Clearing the active character,
// revoking every token and deleting the row happen in one transaction so a
// failed deletion cannot leave orphaned tokens behind.
func (s *Service) DeleteAccount(ctx context.Context, session *Session) error {
	userID := session.User.ID

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("active_character_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.AccessToken{}, "user_id = ?", userID).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, "id = ?", userID).Error
	})
}
