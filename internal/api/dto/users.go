package dto

import (
	"strings"

	"github.com/0x029Ax0/starter-kit-api/internal/database/models"
)

const createdAtLayout = "02-01-2006 15:04"

// User is the wire representation of a user. Hashes, recovery codes and
// verification codes never leave the server.
type User struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	AvatarURL     string `json:"avatar_url"`
	CreatedAt     string `json:"created_at"`
}

// NewUser maps a user row to its wire shape, making the avatar URL absolute
// against the app base URL when it is a local storage path.
func NewUser(u *models.User, baseURL string) *User {
	avatar := u.AvatarURL
	if avatar != "" && !strings.HasPrefix(avatar, "http://") && !strings.HasPrefix(avatar, "https://") {
		avatar = strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(avatar, "/")
	}

	return &User{
		ID:            u.ID.String(),
		Name:          u.Name,
		Email:         u.Email,
		EmailVerified: u.EmailVerified(),
		AvatarURL:     avatar,
		CreatedAt:     u.CreatedAt.Format(createdAtLayout),
	}
}

// NewUserList maps a slice of user rows.
func NewUserList(users []models.User, baseURL string) []*User {
	out := make([]*User, 0, len(users))
	for i := range users {
		out = append(out, NewUser(&users[i], baseURL))
	}
	return out
}

type UserResponse struct {
	Status string `json:"status"`
	User   *User  `json:"user"`
}

type UserListResponse struct {
	Status string  `json:"status"`
	Users  []*User `json:"users"`
}
