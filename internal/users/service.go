package users

import (
	"context"

	"github.com/0x029Ax0/starter-kit-api/internal/auth"
	"github.com/0x029Ax0/starter-kit-api/internal/database/models"
	"gorm.io/gorm"
)

// Service exposes the read-only user accessors.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Current returns the session's user, or nil for unauthenticated requests.
func (s *Service) Current(session *auth.Session) *models.User {
	if session == nil {
		return nil
	}
	return session.User
}

// List returns every user. Unfiltered and unpaginated on purpose; this is a
// starter kit, not a hardened listing.
func (s *Service) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
