package handler

import "github.com/webscaffold/webapp/internal/errs"

// errorBody documents the error envelope written by the global error handler.
type errorBody struct {
	Detail string `json:"detail" example:"Resource not found"`
}

// validationErrorBody documents the 422 envelope.
type validationErrorBody struct {
	Detail []errs.FieldError `json:"detail"`
}
