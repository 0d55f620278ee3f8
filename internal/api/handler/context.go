package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/webscaffold/webapp/internal/api/middleware"
	"github.com/webscaffold/webapp/internal/core/domain"
	"github.com/webscaffold/webapp/internal/errs"
)

// currentUser returns the user injected by the Auth middleware and fails
// fast with 401 when the route was mounted without it.
func currentUser(c echo.Context) (*domain.User, error) {
	u := middleware.UserFrom(c)
	if u == nil {
		return nil, errs.Authentication("Not authenticated")
	}
	return u, nil
}

// bindAndValidate decodes the request into req and validates it. Decoding
// failures are 400, validation failures 422.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errs.BadRequest().Wrap(err)
	}
	return c.Validate(req)
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, errs.Validation(errs.FieldError{
			Loc:  []string{"path", name},
			Msg:  name + " must be a positive integer",
			Type: "type_error.integer",
		})
	}
	return id, nil
}

// queryInt parses an optional integer query parameter within [lo, hi].
func queryInt(c echo.Context, name string, def, lo, hi int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		return 0, errs.Validation(errs.FieldError{
			Loc:  []string{"query", name},
			Msg:  name + " must be an integer between " + strconv.Itoa(lo) + " and " + strconv.Itoa(hi),
			Type: "value_error.number",
		})
	}
	return v, nil
}
