// AngelaMos | 2026
// remind.go

package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/templates/sessiongate/internal/config"
	"github.com/carterperez-dev/templates/sessiongate/internal/core"
	"github.com/carterperez-dev/templates/sessiongate/internal/notify"
	"github.com/carterperez-dev/templates/sessiongate/internal/reminder"
	"github.com/carterperez-dev/templates/sessiongate/internal/subscription"
)

type remindRunner interface {
	Run(ctx context.Context) (reminder.Result, error)
}

func newRemindCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Send renewal reminders for subscriptions ending soon",
		Long: "Sends one reminder per subscription whose period ends inside the " +
			"configured window. Individual send failures are counted, not fatal.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.load(); err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()

			runner, cleanup, err := a.reminderRunner(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			return runRemind(ctx, runner, cmd.OutOrStdout())
		},
	}
}

// runRemind prints the aggregate counts. Only a failure to start the batch
// is returned; per-item failures leave the exit status at zero.
func runRemind(ctx context.Context, runner remindRunner, out io.Writer) error {
	res, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("reminder run: %w", err)
	}

	enc := json.NewEncoder(out)
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	return nil
}

func (a *app) reminderRunner(
	ctx context.Context,
) (*reminder.Runner, func(), error) {
	db, err := a.database(ctx)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}

	var rdb notify.StreamAdder
	if a.cfg.Reminder.Notifier == config.NotifierRedis {
		r, err := core.NewRedis(ctx, a.cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		rdb = r.Client
		cleanup = func() {
			if err := r.Close(); err != nil {
				a.logger.Error("redis close error", "error", err)
			}
		}
	}

	notifier, err := notify.New(a.cfg.Reminder, rdb)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	subscriptions := subscription.NewService(subscription.NewRepository(db.DB))

	runner := reminder.NewRunner(
		subscriptions,
		notifier,
		reminder.Config{
			Window:      a.cfg.Reminder.Window,
			Concurrency: a.cfg.Reminder.Concurrency,
		},
		a.logger,
	)

	return runner, cleanup, nil
}
