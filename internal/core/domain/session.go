package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is created at login and destroyed at logout. It owns its record
// set; nothing else holds a reference to Records.
type Session struct {
	ID        uuid.UUID    `json:"id"`
	Username  string       `json:"username"`
	Seed      int64        `json:"seed"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
	Records   []VoteRecord `json:"-"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
