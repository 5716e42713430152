package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

// Authenticator decides whether credentials are acceptable. A false result
// with a nil error means "rejected"; errors are reserved for infrastructure
// failures.
type Authenticator interface {
	Verify(ctx context.Context, creds domain.Credentials) (bool, error)
}

type TokenPayload struct {
	Email string
	Name  string
}

type TokenVerifier interface {
	Verify(ctx context.Context, token string, clientID string) (*TokenPayload, error)
}

type SessionStore interface {
	Save(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteExpired removes every session expired at now and reports how many
	// were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

type Clock interface {
	Now() time.Time
}

type LoginInput struct {
	Credentials domain.Credentials
	Seed        *int64
}

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*domain.Session, string, error) // returns session, access token, error
	Authenticate(ctx context.Context, accessToken string) (*domain.Session, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
}
