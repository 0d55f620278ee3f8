package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/webscaffold/webapp/internal/core/domain"
	"github.com/webscaffold/webapp/internal/core/ports"
)

// dummyHash is compared against when the username is unknown so that both
// failure paths pay for one bcrypt comparison.
var dummyHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
})

// AuthService implements password login, registration and user lookups.
type AuthService struct {
	repo    ports.UserRepository
	tokens  ports.TokenManager
	logger  zerolog.Logger
	compare func(hash, password []byte) error
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenManager, logger zerolog.Logger) *AuthService {
	return &AuthService{
		repo:    repo,
		tokens:  tokens,
		logger:  logger,
		compare: bcrypt.CompareHashAndPassword,
	}
}

// Authenticate exchanges a username and password for a bearer token.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*ports.Token, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = s.compare(dummyHash(), []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if s.compare([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if user.Disabled {
		return nil, domain.ErrInactiveUser
	}

	token, expiresIn, err := s.tokens.Issue(user.Username, user.Roles)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", user.Username).Msg("user authenticated")
	return &ports.Token{AccessToken: token, TokenType: "bearer", ExpiresIn: expiresIn}, nil
}

// Register creates a regular user account.
func (s *AuthService) Register(ctx context.Context, input domain.NewUser) (*domain.User, error) {
	input.Roles = []string{domain.RoleUser}
	user, err := s.create(ctx, input)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("username", user.Username).Msg("user registered")
	return user, nil
}

// SeedUser creates input unless the username already exists. Used at
// startup for the demo and admin accounts.
func (s *AuthService) SeedUser(ctx context.Context, input domain.NewUser) error {
	if len(input.Roles) == 0 {
		input.Roles = []string{domain.RoleUser}
	}
	_, err := s.create(ctx, input)
	if errors.Is(err, domain.ErrUserExists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed user %s: %w", input.Username, err)
	}
	s.logger.Debug().Str("username", input.Username).Strs("roles", input.Roles).Msg("user seeded")
	return nil
}

func (s *AuthService) CurrentUser(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.FindByUsername(ctx, username)
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

func (s *AuthService) create(ctx context.Context, input domain.NewUser) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return s.repo.Create(ctx, &domain.User{
		Username:     username,
		Email:        strings.TrimSpace(input.Email),
		FullName:     strings.TrimSpace(input.FullName),
		PasswordHash: string(hash),
		Roles:        input.Roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}
