package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/webscaffold/webapp/internal/core/domain"
	"github.com/webscaffold/webapp/internal/errs"
)

const msgInternal = "An unexpected error occurred. Please try again later."

// errorResponse is the canonical error envelope for all API errors.
// Detail is a string, or the field list for validation failures.
type errorResponse struct {
	Detail any `json:"detail"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Renders errs.AppError with its status, headers and detail.
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		appErr := resolveError(err)
		if appErr == nil {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Msg("unhandled error")
			appErr = errs.New(http.StatusInternalServerError, msgInternal)
		} else if appErr.Status >= http.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("server error")
		}

		for k, v := range appErr.Headers {
			c.Response().Header().Set(k, v)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(appErr.Status)
			return
		}

		var detail any = appErr.Detail
		if len(appErr.Fields) > 0 {
			detail = appErr.Fields
		}
		_ = c.JSON(appErr.Status, errorResponse{Detail: detail})
	}
}

// resolveError converts err to an AppError, or nil when it is unexpected.
func resolveError(err error) *errs.AppError {
	var appErr *errs.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	// Echo's own errors (router 404/405, body limit, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && m != "" {
			msg = m
		} else if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
		e := errs.New(he.Code, msg)
		if he.Code == http.StatusUnauthorized {
			e.Headers = map[string]string{"WWW-Authenticate": "Bearer"}
		}
		return e
	}

	switch {
	case errors.Is(err, domain.ErrExampleNotFound):
		return errs.NotFound("Example not found")
	case errors.Is(err, domain.ErrUserNotFound):
		return errs.NotFound("User not found")
	case errors.Is(err, domain.ErrUserExists):
		return errs.New(http.StatusConflict, "Username already registered")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return errs.Authentication("Incorrect username or password")
	case errors.Is(err, domain.ErrTokenExpired):
		return errs.Authentication("Token has expired")
	case errors.Is(err, domain.ErrTokenInvalid):
		return errs.Authentication("Could not validate credentials")
	case errors.Is(err, domain.ErrInactiveUser):
		return errs.Authorization("Inactive user")
	case errors.Is(err, domain.ErrForbidden):
		return errs.Authorization()
	}
	return nil
}
