package auth

import (
	"context"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type chain []ports.Authenticator

// Chain accepts credentials if any authenticator does, trying them in order.
func Chain(authenticators ...ports.Authenticator) ports.Authenticator {
	return chain(authenticators)
}

func (c chain) Verify(ctx context.Context, creds domain.Credentials) (bool, error) {
	for _, a := range c {
		ok, err := a.Verify(ctx, creds)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
