package ports

import (
	"context"

	"github.com/webscaffold/webapp/internal/core/domain"
)

// ListExamplesInput carries the pagination window for the list endpoint.
type ListExamplesInput struct {
	Limit  int
	Offset int
}

// ExampleService defines use-case operations for examples. Mutations take
// the acting user so ownership can be enforced.
type ExampleService interface {
	List(ctx context.Context, input ListExamplesInput) (*domain.Page[*domain.Example], error)
	Get(ctx context.Context, id int64) (*domain.Example, error)
	Create(ctx context.Context, actor *domain.User, input domain.ExampleInput) (*domain.Example, error)
	Update(ctx context.Context, actor *domain.User, id int64, input domain.ExampleInput) (*domain.Example, error)
	Delete(ctx context.Context, actor *domain.User, id int64) error
}
