package auth

import (
	"context"

	"github.com/0x029Ax0/starter-kit-api/internal/database/models"
	"github.com/google/uuid"
)

// Authenticator defines the authentication operations the API layer needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	RecoverAccount(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, recoveryCode, newPassword string) error
	VerifyEmail(ctx context.Context, email, verificationCode string) error
	Logout(ctx context.Context, session *Session) error
	ChangePassword(ctx context.Context, session *Session, currentPassword, newPassword string) error
	UpdateProfile(ctx context.Context, session *Session, name, email, avatarURL string) (*models.User, error)
	DeleteAccount(ctx context.Context, session *Session) error
}

// TokenIssuer defines the bearer-token operations.
type TokenIssuer interface {
	Issue(ctx context.Context, user *models.User) (string, error)
	Validate(ctx context.Context, tokenString string) (*Claims, error)
	Revoke(ctx context.Context, tokenID uuid.UUID) error
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

// Compile-time interface satisfaction checks
var (
	_ Authenticator = (*Service)(nil)
	_ TokenIssuer   = (*TokenService)(nil)
)
