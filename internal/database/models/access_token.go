package models

import (
	"time"

	"github.com/google/uuid"
)

// AccessToken is the persisted half of a bearer token. The signed token
// presented by clients embeds this row's ID; deleting the row revokes it.
type AccessToken struct {
	Base
	UserID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	Name       string     `json:"name"`
	LastUsedAt *time.Time `json:"last_used_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (AccessToken) TableName() string {
	return "access_tokens"
}
