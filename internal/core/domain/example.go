package domain

import "time"

// Example is the sample resource served by the CRUD endpoints.
type Example struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Owner       string     `json:"owner"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// CanModify reports whether u may update or delete the example.
func (e *Example) CanModify(u *User) bool {
	if u == nil {
		return false
	}
	return u.IsAdmin() || e.Owner == u.Username
}

// ExampleInput is the mutable part of an Example.
type ExampleInput struct {
	Title       string
	Description string
}

// Page is an offset-paginated slice of items.
type Page[T any] struct {
	Items  []T   `json:"items"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Total  int64 `json:"total"`
}
