package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInactiveUser       = errors.New("inactive user")
	ErrExampleNotFound    = errors.New("example not found")
	ErrForbidden          = errors.New("not authorized to perform this action")
	ErrTokenExpired       = errors.New("token has expired")
	ErrTokenInvalid       = errors.New("could not validate credentials")
)
