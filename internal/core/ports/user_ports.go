package ports

import (
	"context"

	"github.com/vncsmyrnk/election/internal/core/domain"
)

type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}

type RegisterUserInput struct {
	Username string
	Password string
}

type UserService interface {
	Register(ctx context.Context, input RegisterUserInput) (*domain.User, error)
}
