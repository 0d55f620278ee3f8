package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/webscaffold/webapp/internal/core/domain"
	"github.com/webscaffold/webapp/internal/core/ports"
	"github.com/webscaffold/webapp/internal/errs"
)

const (
	msgNotAuthenticated = "Not authenticated"
	msgTokenExpired     = "Token has expired"
	msgBadCredentials   = "Could not validate credentials"
	msgInactiveUser     = "Inactive user"
)

// UserFinder resolves the subject of a token to a stored user.
type UserFinder interface {
	CurrentUser(ctx context.Context, username string) (*domain.User, error)
}

// Auth validates the bearer token, loads its subject and injects the user,
// username and roles into the context.
func Auth(tokens ports.TokenManager, users UserFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return errs.Authentication(msgNotAuthenticated)
			}

			claims, err := tokens.Parse(raw)
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					return errs.Authentication(msgTokenExpired)
				}
				return errs.Authentication(msgBadCredentials)
			}

			user, err := users.CurrentUser(c.Request().Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return errs.Authentication(msgBadCredentials)
				}
				return err
			}
			if user.Disabled {
				return errs.Authorization(msgInactiveUser)
			}

			c.Set(ctxUser, user)
			c.Set(ctxUsername, user.Username)
			c.Set(ctxRoles, user.Roles)

			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
