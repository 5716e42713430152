package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

// RepositoryAuthenticator checks credentials against users stored in a
// UserRepository.
type RepositoryAuthenticator struct {
	users ports.UserRepository
}

func NewRepositoryAuthenticator(users ports.UserRepository) ports.Authenticator {
	return &RepositoryAuthenticator{users: users}
}

func (a *RepositoryAuthenticator) Verify(ctx context.Context, creds domain.Credentials) (bool, error) {
	if creds.Username == "" || creds.Password == "" {
		return false, nil
	}
	user, err := a.users.GetByUsername(ctx, creds.Username)
	if err != nil {
		return false, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return false, nil
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)) == nil, nil
}
