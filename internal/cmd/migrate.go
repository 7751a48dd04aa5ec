package cmd

import (
	"fmt"

	"github.com/MyelinBots/statbot-go/internal/db/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCommand() *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		RunE: func(c *cobra.Command, args []string) error {
			cfg, log := loadConfig()
			if err := migrations.Up(cfg.DBConfig.URL()); err != nil {
				return err
			}
			return printVersion(c, cfg.DBConfig.URL(), log)
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(c *cobra.Command, args []string) error {
			cfg, log := loadConfig()
			if err := migrations.Down(cfg.DBConfig.URL(), steps); err != nil {
				return err
			}
			return printVersion(c, cfg.DBConfig.URL(), log)
		},
	}
	down.Flags().IntVarP(&steps, "steps", "n", 1, "number of migrations to roll back")

	migrate.AddCommand(up, down)
	return migrate
}

func printVersion(c *cobra.Command, url string, log *zap.Logger) error {
	v, dirty, err := migrations.Version(url)
	if err != nil {
		return err
	}
	log.Info("schema version", zap.Uint("version", v), zap.Bool("dirty", dirty))
	fmt.Fprintf(c.OutOrStdout(), "schema version %d (dirty=%v)\n", v, dirty)
	return nil
}
