package auth

import (
	"context"
	"errors"
	"time"

	"github.com/0x029Ax0/starter-kit-api/internal/database/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrRevokedToken = errors.New("token has been revoked")
)

type Claims struct {
	UserID  uuid.UUID `json:"user_id"`
	TokenID uuid.UUID `json:"token_id"`
	Email   string    `json:"email"`
	jwt.RegisteredClaims
}

// TokenService mints and validates bearer tokens. A token is an HS256 JWT
// carrying the ID of an access_tokens row; the signature proves integrity
// and the row keeps the token revocable. Deleting the row invalidates the
// token regardless of its expiry.
type TokenService struct {
	db     *gorm.DB
	secret []byte
	expiry time.Duration
	name   string
}

func NewTokenService(db *gorm.DB, secret string, expiry time.Duration, name string) *TokenService {
	return &TokenService{
		db:     db,
		secret: []byte(secret),
		expiry: expiry,
		name:   name,
	}
}

// Issue persists a new access-token record for the user and returns the
// signed bearer token embedding it.
func (s *TokenService) Issue(ctx context.Context, user *models.User) (string, error) {
	record := models.AccessToken{
		UserID: user.ID,
		Name:   s.name,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", err
	}

	now := time.Now()
	claims := Claims{
		UserID:  user.ID,
		TokenID: record.ID,
		Email:   user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.name,
			Subject:   user.ID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate checks the token signature and that the backing record has not
// been revoked.
func (s *TokenService) Validate(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	var record models.AccessToken
	if err := s.db.WithContext(ctx).First(&record, "id = ?", claims.TokenID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRevokedToken
		}
		return nil, err
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&record).Update("last_used_at", &now).Error; err != nil {
		return nil, err
	}

	return claims, nil
}

// Revoke deletes a single access-token record.
func (s *TokenService) Revoke(ctx context.Context, tokenID uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&models.AccessToken{}, "id = ?", tokenID).Error
}

// RevokeAll deletes every access-token record owned by the user.
func (s *TokenService) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&models.AccessToken{}, "user_id = ?", userID).Error
}
