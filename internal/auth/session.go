package auth

import (
	"github.com/0x029Ax0/starter-kit-api/internal/database/models"
	"github.com/google/uuid"
)

// Session is the authenticated context of a single request: the resolved
// user and the access-token row the presented bearer token was minted from.
// It replaces any ambient login state; services that act on "the current
// user" take a Session explicitly.
type Session struct {
	User    *models.User
	TokenID uuid.UUID
}
