// AngelaMos | 2026
// service.go

package skill

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/sessiongate/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(
	ctx context.Context,
	params ListParams,
) ([]Skill, int, error) {
	params.Normalize()
	return s.repo.List(ctx, params)
}

// Get looks a skill up by id or slug. A key that parses as a UUID is
// tried as an id first, so an id always wins over a slug that happens to
// spell another skill's id.
func (s *Service) Get(ctx context.Context, key string) (*Skill, error) {
	if key == "" {
		return nil, fmt.Errorf("get skill: %w", core.ErrNotFound)
	}

	if id, err := uuid.Parse(key); err == nil {
		sk, err := s.repo.GetByID(ctx, id.String())
		if err == nil || !errors.Is(err, core.ErrNotFound) {
			return sk, err
		}
	}

	return s.repo.GetBySlug(ctx, key)
}
