package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Credentials carries whatever the configured authenticator needs. Password
// authenticators read Username/Password, the Google one reads IDToken.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	IDToken  string `json:"id_token"`
}
