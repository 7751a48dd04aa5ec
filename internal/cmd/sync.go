package cmd

import (
	"fmt"

	"github.com/MyelinBots/statbot-go/internal/db"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Recompute every user's global xp once and exit",
		RunE: func(c *cobra.Command, args []string) error {
			cfg, log := loadConfig()
			defer func() { _ = log.Sync() }()

			database, err := db.NewDatabase(cfg.DBConfig)
			if err != nil {
				return err
			}
			defer database.Close()

			svc := buildServices(cfg, database, log)
			corrected, err := svc.reconcile.Run(c.Context())
			if err != nil {
				return err
			}

			st := svc.reconcile.Status()
			log.Info("sync finished", zap.String("path", st.Path), zap.Int64("corrected", corrected))
			fmt.Fprintf(c.OutOrStdout(), "corrected %d user(s) via %s path\n", corrected, st.Path)
			return nil
		},
	}
}
