package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID          uuid.UUID `json:"id"`
	SlackID     string    `json:"slack_id"`
	DisplayName string    `json:"display_name"`
	RealName    string    `json:"real_name"`
	IsBot       bool      `json:"is_bot"`
	IsHR        bool      `json:"is_hr"`
	Deleted     bool      `json:"deleted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Name returns the best human name available for the user.
func (u *User) Name() string {
	if u.RealName != "" {
		return u.RealName
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.SlackID
}

// UserFilter narrows a user listing. Deleted users are never listed.
type UserFilter struct {
	ExcludeBots bool
	HROnly      bool
}

func (f UserFilter) Match(u *User) bool {
	if u.Deleted {
		return false
	}
	if f.ExcludeBots && u.IsBot {
		return false
	}
	if f.HROnly && !u.IsHR {
		return false
	}
	return true
}
