package ports

import (
	"context"

	"github.com/webscaffold/webapp/internal/core/domain"
)

// Token is the result of a successful password exchange.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64
}

type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (*Token, error)
	Register(ctx context.Context, input domain.NewUser) (*domain.User, error)
	CurrentUser(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}
