// AngelaMos | 2026
// service.go

package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/carterperez-dev/templates/sessiongate/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Status reports the plan for identityID. No id and no active row both
// mean the free tier; only store faults are errors.
func (s *Service) Status(
	ctx context.Context,
	identityID string,
) (StatusResponse, error) {
	if identityID == "" {
		return FreeTier(), nil
	}

	sub, err := s.repo.GetActiveByIdentity(ctx, identityID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return FreeTier(), nil
		}
		return StatusResponse{}, err
	}

	return ToStatusResponse(sub), nil
}

func (s *Service) RenewalsDue(
	ctx context.Context,
	now time.Time,
	window time.Duration,
) ([]RenewalDue, error) {
	return s.repo.ListRenewalsDue(ctx, now, now.Add(window))
}
