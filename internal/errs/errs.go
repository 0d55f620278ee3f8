// Package errs defines the application error taxonomy. Every AppError
// carries the HTTP status it maps to, a client-facing detail, optional
// response headers and, for validation failures, per-field errors.
package errs

import (
	"net/http"
)

// FieldError describes one invalid input location.
//
//	{"loc": ["body", "title"], "msg": "field required", "type": "value_error.missing"}
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

type AppError struct {
	Status  int
	Detail  string
	Headers map[string]string
	Fields  []FieldError
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return e.Detail + ": " + e.cause.Error()
	}
	return e.Detail
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// Wrap attaches the underlying cause, kept for logs only.
func (e *AppError) Wrap(cause error) *AppError {
	c := *e
	c.cause = cause
	return &c
}

// New builds an AppError; an empty detail falls back to the status text.
func New(status int, detail string) *AppError {
	if detail == "" {
		detail = http.StatusText(status)
	}
	return &AppError{Status: status, Detail: detail}
}

func orDefault(detail []string, def string) string {
	if len(detail) > 0 && detail[0] != "" {
		return detail[0]
	}
	return def
}

func NotFound(detail ...string) *AppError {
	return New(http.StatusNotFound, orDefault(detail, "Resource not found"))
}

// Validation returns a 422 whose body lists the offending fields.
func Validation(fields ...FieldError) *AppError {
	e := New(http.StatusUnprocessableEntity, "Validation error")
	e.Fields = fields
	return e
}

// Authentication returns a 401 carrying the Bearer challenge header.
func Authentication(detail ...string) *AppError {
	e := New(http.StatusUnauthorized, orDefault(detail, "Authentication failed"))
	e.Headers = map[string]string{"WWW-Authenticate": "Bearer"}
	return e
}

func Authorization(detail ...string) *AppError {
	return New(http.StatusForbidden, orDefault(detail, "Not authorized to perform this action"))
}

func RateLimit(retryAfter string) *AppError {
	e := New(http.StatusTooManyRequests, "Rate limit exceeded")
	if retryAfter != "" {
		e.Headers = map[string]string{"Retry-After": retryAfter}
	}
	return e
}

func Database(detail ...string) *AppError {
	return New(http.StatusInternalServerError, orDefault(detail, "Database operation failed"))
}

func ExternalService(detail ...string) *AppError {
	return New(http.StatusServiceUnavailable, orDefault(detail, "External service call failed"))
}

func Configuration(detail ...string) *AppError {
	return New(http.StatusInternalServerError, orDefault(detail, "Application configuration error"))
}

func BadRequest(detail ...string) *AppError {
	return New(http.StatusBadRequest, orDefault(detail, "invalid payload"))
}
