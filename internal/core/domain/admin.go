package domain

import (
	"time"

	"github.com/google/uuid"
)

type Admin struct {
	ID           uuid.UUID  `json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	LastLogin    *time.Time `json:"last_login"`
}

// Session is the decoded content of an admin session cookie.
type Session struct {
	AdminID   uuid.UUID
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Remaining returns how long the session stays valid after now.
func (s Session) Remaining(now time.Time) time.Duration {
	d := s.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
