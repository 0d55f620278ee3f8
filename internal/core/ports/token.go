package ports

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT payload issued for a user.
type Claims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies access tokens.
type TokenManager interface {
	Issue(username string, roles []string) (token string, expiresIn int64, err error)
	Parse(token string) (*Claims, error)
}
