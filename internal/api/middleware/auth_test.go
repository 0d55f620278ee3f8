package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/webscaffold/webapp/internal/core/domain"
	"github.com/webscaffold/webapp/internal/core/service"
	"github.com/webscaffold/webapp/internal/errs"
)

type stubUsers map[string]*domain.User

func (s stubUsers) CurrentUser(_ context.Context, username string) (*domain.User, error) {
	u, ok := s[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func newTokens(t *testing.T, ttl time.Duration) *service.JWTManager {
	t.Helper()
	m, err := service.NewJWTManager("secret", "HS256", ttl)
	if err != nil {
		t.Fatalf("jwt manager: %v", err)
	}
	return m
}

var testUsers = stubUsers{
	"alice": {Username: "alice", Roles: []string{domain.RoleAdmin}},
	"zed":   {Username: "zed", Roles: []string{domain.RoleUser}, Disabled: true},
}

func runAuth(t *testing.T, header string, tokens *service.JWTManager) (echo.Context, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(tokens, testUsers)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	return c, called, err
}

func expectAppError(t *testing.T, err error, status int, detail string) {
	t.Helper()
	var appErr *errs.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Status != status || appErr.Detail != detail {
		t.Fatalf("expected %d %q, got %d %q", status, detail, appErr.Status, appErr.Detail)
	}
	if status == http.StatusUnauthorized && appErr.Headers["WWW-Authenticate"] != "Bearer" {
		t.Fatalf("401 must carry WWW-Authenticate: Bearer")
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tokens := newTokens(t, time.Minute)
	signed, _, err := tokens.Issue("alice", []string{domain.RoleAdmin})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	c, called, err := runAuth(t, "Bearer "+signed, tokens)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if u := UserFrom(c); u == nil || u.Username != "alice" {
		t.Fatalf("user not set: %+v", u)
	}
	if UsernameFrom(c) != "alice" {
		t.Fatalf("username not set")
	}
	roles, _ := c.Get("roles").([]string)
	if len(roles) != 1 || roles[0] != domain.RoleAdmin {
		t.Fatalf("roles not set: %v", roles)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	_, called, err := runAuth(t, "", newTokens(t, time.Minute))
	if called {
		t.Fatalf("should not reach next")
	}
	expectAppError(t, err, http.StatusUnauthorized, "Not authenticated")
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	for _, h := range []string{"Token abc", "Bearer", "Bearer   "} {
		_, called, err := runAuth(t, h, newTokens(t, time.Minute))
		if called {
			t.Fatalf("%q: should not reach next", h)
		}
		expectAppError(t, err, http.StatusUnauthorized, "Not authenticated")
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	_, called, err := runAuth(t, "Bearer not-a-token", newTokens(t, time.Minute))
	if called {
		t.Fatalf("should not reach next")
	}
	expectAppError(t, err, http.StatusUnauthorized, "Could not validate credentials")
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	tokens := newTokens(t, time.Nanosecond)
	signed, _, _ := tokens.Issue("alice", nil)
	time.Sleep(1100 * time.Millisecond)

	_, _, err := runAuth(t, "Bearer "+signed, tokens)
	expectAppError(t, err, http.StatusUnauthorized, "Token has expired")
}

func TestAuthMiddleware_UnknownSubject(t *testing.T) {
	tokens := newTokens(t, time.Minute)
	signed, _, _ := tokens.Issue("ghost", nil)

	_, _, err := runAuth(t, "bearer "+signed, tokens)
	expectAppError(t, err, http.StatusUnauthorized, "Could not validate credentials")
}

func TestAuthMiddleware_DisabledUser(t *testing.T) {
	tokens := newTokens(t, time.Minute)
	signed, _, _ := tokens.Issue("zed", nil)

	_, called, err := runAuth(t, "Bearer "+signed, tokens)
	if called {
		t.Fatalf("should not reach next")
	}
	expectAppError(t, err, http.StatusForbidden, "Inactive user")
}
