// AngelaMos | 2026
// root.go

package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/templates/sessiongate/internal/config"
	"github.com/carterperez-dev/templates/sessiongate/internal/core"
)

type app struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
	db         *core.LazyDatabase
}

// NewRootCmd builds the one-shot batch CLI. Each subcommand runs once and
// exits; scheduling belongs to the caller.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "jobs",
		Short:        "Batch jobs for the session gateway",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(
		&a.configPath, "config", "", "path to config file",
	)

	root.AddCommand(
		newRemindCmd(a),
		newSweepSessionsCmd(a),
		newKeygenCmd(),
		newHashPasswordCmd(),
	)

	return root
}

// load reads config and prepares the lazy store handle. The connection is
// made by the first query, not here.
func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = core.NewLogger(cfg.Log, os.Stderr)
	slog.SetDefault(a.logger)
	a.db = core.NewLazyDatabase(cfg.Database)

	return nil
}

func (a *app) database(ctx context.Context) (*core.Database, error) {
	db, err := a.db.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

func (a *app) close() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("database close error", "error", err)
	}
}
