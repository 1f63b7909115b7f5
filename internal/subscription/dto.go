// AngelaMos | 2026
// dto.go

package subscription

import (
	"time"
)

type StatusResponse struct {
	Plan             string     `json:"plan"`
	Status           string     `json:"status"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
}

// FreeTier is returned whenever there is no identity to look up or the
// identity has no active subscription.
func FreeTier() StatusResponse {
	return StatusResponse{
		Plan:   PlanFree,
		Status: StatusActive,
	}
}

func ToStatusResponse(s *Subscription) StatusResponse {
	return StatusResponse{
		Plan:             s.Plan,
		Status:           s.Status,
		CurrentPeriodEnd: s.CurrentPeriodEnd,
	}
}
