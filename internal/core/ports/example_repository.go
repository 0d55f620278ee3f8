package ports

import (
	"context"

	"github.com/webscaffold/webapp/internal/core/domain"
)

// ExampleRepository defines persistence operations for examples.
type ExampleRepository interface {
	// Create assigns the next sequential id and stores the example.
	Create(ctx context.Context, ex *domain.Example) (*domain.Example, error)
	FindByID(ctx context.Context, id int64) (*domain.Example, error)
	// List returns examples ordered by id together with the total count.
	List(ctx context.Context, limit, offset int) ([]*domain.Example, int64, error)
	Update(ctx context.Context, ex *domain.Example) (*domain.Example, error)
	Delete(ctx context.Context, id int64) error
}
