// AngelaMos | 2026
// runner.go

package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/carterperez-dev/templates/sessiongate/internal/core"
	"github.com/carterperez-dev/templates/sessiongate/internal/notify"
	"github.com/carterperez-dev/templates/sessiongate/internal/subscription"
)

const defaultConcurrency = 4

type TargetSource interface {
	RenewalsDue(
		ctx context.Context,
		now time.Time,
		window time.Duration,
	) ([]subscription.RenewalDue, error)
}

type Result struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
	Total  int `json:"total"`
}

type Config struct {
	Window      time.Duration
	Concurrency int
}

type Runner struct {
	targets  TargetSource
	notifier notify.Notifier
	cfg      Config
	logger   *slog.Logger
	now      func() time.Time
}

func NewRunner(
	targets TargetSource,
	notifier notify.Notifier,
	cfg Config,
	logger *slog.Logger,
) *Runner {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = defaultConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		targets:  targets,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Run sends one reminder per subscription renewing inside the window. A
// failed send is counted and logged; only a failure to load targets is
// returned as an error.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	ctx, span := core.StartSpan(ctx, "reminder.run")
	defer span.End()

	now := r.now().UTC()

	targets, err := r.targets.RenewalsDue(ctx, now, r.cfg.Window)
	if err != nil {
		core.SetSpanError(ctx, err)
		return Result{}, fmt.Errorf("load reminder targets: %w", err)
	}

	var sent, failed atomic.Int64

	var g errgroup.Group
	g.SetLimit(r.cfg.Concurrency)

	for _, target := range targets {
		g.Go(func() error {
			if err := r.notifier.Send(ctx, buildMessage(target, now)); err != nil {
				failed.Add(1)
				r.logger.Warn("reminder dispatch failed",
					"subscription_id", target.SubscriptionID,
					"identity_id", target.IdentityID,
					"error", err,
				)
				return nil
			}
			sent.Add(1)
			return nil
		})
	}

	//nolint:errcheck // workers never return errors
	_ = g.Wait()

	res := Result{
		Sent:   int(sent.Load()),
		Failed: int(failed.Load()),
		Total:  len(targets),
	}

	core.AddSpanEvent(ctx, "reminder.complete",
		attribute.Int("sent", res.Sent),
		attribute.Int("failed", res.Failed),
		attribute.Int("total", res.Total),
	)

	r.logger.Info("reminder run complete",
		"sent", res.Sent,
		"failed", res.Failed,
		"total", res.Total,
	)

	return res, nil
}

// buildMessage keys the message on subscription and period end so a rerun
// on the same day produces the same idempotency key.
func buildMessage(t subscription.RenewalDue, now time.Time) notify.Message {
	periodEnd := t.CurrentPeriodEnd.UTC().Format(time.DateOnly)

	name := t.Name
	if name == "" {
		name = t.Email
	}

	return notify.Message{
		ID:      fmt.Sprintf("renewal:%s:%s", t.SubscriptionID, periodEnd),
		Kind:    notify.KindRenewalReminder,
		To:      t.Email,
		Subject: "Your subscription renews soon",
		Body: fmt.Sprintf(
			"Hi %s, your %s plan renews on %s.",
			name, t.Plan, periodEnd,
		),
		Data: map[string]string{
			"subscription_id": t.SubscriptionID,
			"plan":            t.Plan,
			"renews_on":       periodEnd,
		},
		CreatedAt: now,
	}
}
