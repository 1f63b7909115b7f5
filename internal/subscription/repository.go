// AngelaMos | 2026
// repository.go

package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/templates/sessiongate/internal/core"
)

type Repository interface {
	GetActiveByIdentity(ctx context.Context, identityID string) (*Subscription, error)
	ListRenewalsDue(ctx context.Context, from, to time.Time) ([]RenewalDue, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) GetActiveByIdentity(
	ctx context.Context,
	identityID string,
) (*Subscription, error) {
	query := `
		SELECT id, identity_id, plan, status, current_period_end, created_at
		FROM subscriptions
		WHERE identity_id::text = $1 AND status IN ($2, $3)
		ORDER BY current_period_end DESC NULLS LAST
		LIMIT 1`

	var sub Subscription
	err := r.db.GetContext(ctx, &sub, query,
		identityID,
		StatusActive,
		StatusTrialing,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get subscription: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, core.StoreError("get subscription", err)
	}

	return &sub, nil
}

func (r *repository) ListRenewalsDue(
	ctx context.Context,
	from, to time.Time,
) ([]RenewalDue, error) {
	query := `
		SELECT s.id AS subscription_id, s.identity_id, i.email, i.name,
		       s.plan, s.current_period_end
		FROM subscriptions s
		JOIN identities i ON i.id = s.identity_id AND i.deleted_at IS NULL
		WHERE s.status = $1
		  AND s.current_period_end >= $2
		  AND s.current_period_end < $3
		ORDER BY s.current_period_end`

	var due []RenewalDue
	if err := r.db.SelectContext(ctx, &due, query, StatusActive, from, to); err != nil {
		return nil, core.StoreError("list renewals due", err)
	}

	return due, nil
}
