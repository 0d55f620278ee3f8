package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/webscaffold/webapp/internal/core/domain"
)

// ExampleRepository stores examples with sequential ids starting at 1.
type ExampleRepository struct {
	mu     sync.RWMutex
	items  map[int64]*domain.Example
	nextID int64
}

func NewExampleRepository() *ExampleRepository {
	return &ExampleRepository{items: make(map[int64]*domain.Example)}
}

func (r *ExampleRepository) Create(_ context.Context, ex *domain.Example) (*domain.Example, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := cloneExample(ex)
	stored.ID = r.nextID
	r.items[stored.ID] = stored
	return cloneExample(stored), nil
}

func (r *ExampleRepository) FindByID(_ context.Context, id int64) (*domain.Example, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ex, ok := r.items[id]
	if !ok {
		return nil, domain.ErrExampleNotFound
	}
	return cloneExample(ex), nil
}

func (r *ExampleRepository) List(_ context.Context, limit, offset int) ([]*domain.Example, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	total := int64(len(ids))
	if offset >= len(ids) {
		return []*domain.Example{}, total, nil
	}
	end := min(offset+limit, len(ids))

	out := make([]*domain.Example, 0, end-offset)
	for _, id := range ids[offset:end] {
		out = append(out, cloneExample(r.items[id]))
	}
	return out, total, nil
}

func (r *ExampleRepository) Update(_ context.Context, ex *domain.Example) (*domain.Example, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[ex.ID]; !ok {
		return nil, domain.ErrExampleNotFound
	}
	r.items[ex.ID] = cloneExample(ex)
	return cloneExample(ex), nil
}

func (r *ExampleRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrExampleNotFound
	}
	delete(r.items, id)
	return nil
}

func cloneExample(ex *domain.Example) *domain.Example {
	c := *ex
	if ex.UpdatedAt != nil {
		t := *ex.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}
