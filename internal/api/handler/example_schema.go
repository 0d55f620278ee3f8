package handler

import "time"

// exampleRequest is the body accepted by create and update.
type exampleRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=100" example:"My first example"`
	Description string `json:"description" validate:"max=1000" example:"Optional longer text"`
}

type exampleResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Owner       string     `json:"owner"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

type exampleListResponse struct {
	Items  []exampleResponse `json:"items"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
	Total  int64             `json:"total"`
}
