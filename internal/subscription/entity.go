// AngelaMos | 2026
// entity.go

package subscription

import (
	"time"
)

type Subscription struct {
	ID               string     `db:"id"`
	IdentityID       string     `db:"identity_id"`
	Plan             string     `db:"plan"`
	Status           string     `db:"status"`
	CurrentPeriodEnd *time.Time `db:"current_period_end"`
	CreatedAt        time.Time  `db:"created_at"`
}

// RenewalDue is a subscription nearing the end of its period, joined with
// the owner's contact details.
type RenewalDue struct {
	SubscriptionID   string    `db:"subscription_id"`
	IdentityID       string    `db:"identity_id"`
	Email            string    `db:"email"`
	Name             string    `db:"name"`
	Plan             string    `db:"plan"`
	CurrentPeriodEnd time.Time `db:"current_period_end"`
}

const (
	PlanFree = "free"

	StatusActive   = "active"
	StatusTrialing = "trialing"
	StatusPastDue  = "past_due"
	StatusCanceled = "canceled"
	StatusInactive = "inactive"
)
