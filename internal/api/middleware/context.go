package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/webscaffold/webapp/internal/core/domain"
)

const (
	ctxUser     = "user"
	ctxUsername = "username"
	ctxRoles    = "roles"
)

// UserFrom returns the user stored by Auth, or nil on public routes.
func UserFrom(c echo.Context) *domain.User {
	u, _ := c.Get(ctxUser).(*domain.User)
	return u
}

// UsernameFrom returns the authenticated username, or "".
func UsernameFrom(c echo.Context) string {
	s, _ := c.Get(ctxUsername).(string)
	return s
}
