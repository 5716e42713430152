package auth

import (
	"context"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

// StaticAuthenticator accepts a single configured account. The password is
// kept only as a bcrypt hash.
type StaticAuthenticator struct {
	username     string
	passwordHash []byte
}

func NewStaticAuthenticator(username, password string) (ports.Authenticator, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("static authenticator requires a username and password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return &StaticAuthenticator{username: username, passwordHash: hash}, nil
}

func (a *StaticAuthenticator) Verify(ctx context.Context, creds domain.Credentials) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	userOK := subtle.ConstantTimeCompare([]byte(creds.Username), []byte(a.username)) == 1
	passOK := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(creds.Password)) == nil
	return userOK && passOK, nil
}
