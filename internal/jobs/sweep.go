// AngelaMos | 2026
// sweep.go

package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/templates/sessiongate/internal/session"
)

func newSweepSessionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep-sessions",
		Short: "Delete expired sessions and spent login links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.load(); err != nil {
				return err
			}
			defer a.close()

			db, err := a.database(cmd.Context())
			if err != nil {
				return err
			}

			svc := session.NewService(session.NewRepository(db.DB), a.cfg.Session)

			res, err := svc.SweepExpired(cmd.Context())
			if err != nil {
				return fmt.Errorf("sweep sessions: %w", err)
			}

			a.logger.Info("session sweep complete",
				"sessions", res.Sessions,
				"login_links", res.LoginLinks,
			)

			return json.NewEncoder(cmd.OutOrStdout()).Encode(res)
		},
	}
}
