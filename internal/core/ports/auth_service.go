package ports

import (
	"context"

	"github.com/oficiosya/hires-api/internal/core/domain"
)

// RegisterInput carries the data needed to open an account.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
