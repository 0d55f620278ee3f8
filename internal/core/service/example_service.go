package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/webscaffold/webapp/internal/core/domain"
	"github.com/webscaffold/webapp/internal/core/ports"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

type ExampleService struct {
	repo   ports.ExampleRepository
	logger zerolog.Logger
}

func NewExampleService(repo ports.ExampleRepository, logger zerolog.Logger) *ExampleService {
	return &ExampleService{repo: repo, logger: logger}
}

// List returns a page of examples. Limit is clamped to 1..MaxPageLimit and
// negative offsets are treated as zero.
func (s *ExampleService) List(ctx context.Context, input ports.ListExamplesInput) (*domain.Page[*domain.Example], error) {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	offset := max(input.Offset, 0)

	items, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Example{}
	}
	return &domain.Page[*domain.Example]{Items: items, Limit: limit, Offset: offset, Total: total}, nil
}

func (s *ExampleService) Get(ctx context.Context, id int64) (*domain.Example, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ExampleService) Create(ctx context.Context, actor *domain.User, input domain.ExampleInput) (*domain.Example, error) {
	if actor == nil {
		return nil, domain.ErrForbidden
	}

	ex, err := s.repo.Create(ctx, &domain.Example{
		Title:       input.Title,
		Description: input.Description,
		Owner:       actor.Username,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create example")
		return nil, err
	}

	s.logger.Info().Int64("example_id", ex.ID).Str("owner", ex.Owner).Msg("example created")
	return ex, nil
}

// Update replaces title and description. Only the owner or an admin may update.
func (s *ExampleService) Update(ctx context.Context, actor *domain.User, id int64, input domain.ExampleInput) (*domain.Example, error) {
	ex, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ex.CanModify(actor) {
		return nil, domain.ErrForbidden
	}

	now := time.Now().UTC()
	ex.Title = input.Title
	ex.Description = input.Description
	ex.UpdatedAt = &now

	updated, err := s.repo.Update(ctx, ex)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("example_id", id).Str("by", actor.Username).Msg("example updated")
	return updated, nil
}

func (s *ExampleService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	ex, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !ex.CanModify(actor) {
		return domain.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("example_id", id).Str("by", actor.Username).Msg("example deleted")
	return nil
}
