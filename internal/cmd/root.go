// Package cmd holds the statbot command line.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MyelinBots/statbot-go/config"
	"github.com/MyelinBots/statbot-go/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "statbot",
		Short:         "Chat XP and message stats for IRC networks",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, args []string) error {
			return runServe(c.Context())
		},
	}

	root.AddCommand(newServeCommand(), newMigrateCommand(), newSyncCommand())
	return root
}

// Execute runs the command line until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

func loadConfig() (config.Config, *zap.Logger) {
	cfg := config.LoadConfigOrPanic()
	return cfg, logger.New(cfg.AppConfig.LogLevel)
}
