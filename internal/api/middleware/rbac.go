package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/webscaffold/webapp/internal/errs"
)

// RequireRoles lets the request through when the authenticated user holds
// at least one of the allowed roles. Must run after Auth.
func RequireRoles(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := UserFrom(c)
			if user == nil {
				return errs.Authentication(msgNotAuthenticated)
			}
			if !user.HasRole(allowedRoles...) {
				return errs.Authorization()
			}
			return next(c)
		}
	}
}
