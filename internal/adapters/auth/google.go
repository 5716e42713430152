package auth

import (
	"context"
	"strings"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

// GoogleAuthenticator accepts a valid Google ID token. When a username is
// also supplied it must match the token's email.
type GoogleAuthenticator struct {
	verifier ports.TokenVerifier
	clientID string
}

func NewGoogleAuthenticator(verifier ports.TokenVerifier, clientID string) ports.Authenticator {
	return &GoogleAuthenticator{verifier: verifier, clientID: clientID}
}

func (a *GoogleAuthenticator) Verify(ctx context.Context, creds domain.Credentials) (bool, error) {
	if creds.IDToken == "" {
		return false, nil
	}
	payload, err := a.verifier.Verify(ctx, creds.IDToken, a.clientID)
	if err != nil {
		// an invalid token is a rejection, not an outage
		return false, nil
	}
	if creds.Username != "" && !strings.EqualFold(creds.Username, payload.Email) {
		return false, nil
	}
	return true, nil
}
