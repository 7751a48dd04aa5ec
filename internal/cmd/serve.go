package cmd

import (
	"context"
	"time"

	"github.com/MyelinBots/statbot-go/config"
	"github.com/MyelinBots/statbot-go/internal/api"
	"github.com/MyelinBots/statbot-go/internal/bot"
	"github.com/MyelinBots/statbot-go/internal/db"
	"github.com/MyelinBots/statbot-go/internal/db/migrations"
	"github.com/MyelinBots/statbot-go/internal/db/repositories/badge"
	"github.com/MyelinBots/statbot-go/internal/db/repositories/guild"
	statsrepo "github.com/MyelinBots/statbot-go/internal/db/repositories/stats"
	"github.com/MyelinBots/statbot-go/internal/db/repositories/user"
	"github.com/MyelinBots/statbot-go/internal/services/badges"
	"github.com/MyelinBots/statbot-go/internal/services/commands"
	"github.com/MyelinBots/statbot-go/internal/services/cooldown"
	"github.com/MyelinBots/statbot-go/internal/services/identity"
	"github.com/MyelinBots/statbot-go/internal/services/ingest"
	"github.com/MyelinBots/statbot-go/internal/services/leaderboard"
	"github.com/MyelinBots/statbot-go/internal/services/profile"
	"github.com/MyelinBots/statbot-go/internal/services/reconcile"
	"github.com/MyelinBots/statbot-go/internal/services/stats"
	"github.com/MyelinBots/statbot-go/internal/services/timer"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// services is everything built on top of one database handle.
type services struct {
	resolver  identity.Resolver
	store     *stats.Store
	board     *leaderboard.Reader
	profiles  *profile.Service
	badges    *badges.Service
	reconcile *reconcile.Service
	gate      *cooldown.Gate
	pipeline  *ingest.Pipeline
}

func buildServices(cfg config.Config, database *db.DB, log *zap.Logger) *services {
	users := user.NewUserRepository(database)
	guilds := guild.NewGuildRepository(database)
	statsRepo := statsrepo.NewStatsRepository(database)
	badgeRepo := badge.NewBadgeRepository(database)

	resolver := identity.NewResolver(cfg.StatsConfig.AtomicUpsert, users, guilds, log.Named("identity"))
	store := stats.NewStore(statsRepo)
	gate := cooldown.NewGate(cfg.StatsConfig.Cooldown(), xsync.NewMapOf[string, time.Time]())

	return &services{
		resolver:  resolver,
		store:     store,
		board:     leaderboard.NewReader(statsRepo, guilds),
		profiles:  profile.NewService(resolver, store, badgeRepo),
		badges:    badges.NewService(badgeRepo, resolver),
		reconcile: reconcile.NewService(database, nil, log.Named("reconcile")),
		gate:      gate,
		pipeline:  ingest.NewPipeline(gate, resolver, store, cfg.StatsConfig.XPPerMessage, log.Named("ingest")),
	}
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the IRC bot, the HTTP API and the global xp sync loop",
		RunE: func(c *cobra.Command, args []string) error {
			return runServe(c.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, log := loadConfig()
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Info("starting statbot",
		zap.String("version", cfg.AppConfig.Version),
		zap.String("irc_host", cfg.IRCConfig.Host),
		zap.String("network", bot.Network(cfg.IRCConfig)))

	if err := migrations.Up(cfg.DBConfig.URL()); err != nil {
		log.Error("migrations failed", zap.Error(err))
		return err
	}

	database, err := db.NewDatabase(cfg.DBConfig)
	if err != nil {
		log.Error("database connection failed", zap.Error(err))
		return err
	}
	defer database.Close()

	svc := buildServices(cfg, database, log)
	log.Info("xp ingestion ready",
		zap.Duration("cooldown", svc.gate.Window()),
		zap.Int("xp_per_message", cfg.StatsConfig.XPPerMessage))

	syncTimer := svc.reconcile.Schedule(cfg.StatsConfig.SyncInterval(), cfg.StatsConfig.SyncMinDelay())
	syncTimer.Start(ctx)
	defer syncTimer.Stop()

	prune := timer.NewRepeatedTimer(cfg.StatsConfig.PruneInterval(), time.Second, func(ctx context.Context) {
		if n := svc.pipeline.PruneGate(); n > 0 {
			log.Debug("pruned cooldown entries", zap.Int("removed", n), zap.Int("tracked", svc.gate.Size()))
		}
	})
	prune.Start(ctx)
	defer prune.Stop()

	handler := api.NewHandler(svc.board, svc.profiles, svc.reconcile, database, cfg.AppConfig.AdminToken, log.Named("api"))
	api.Start(ctx, cfg.AppConfig, api.NewRouter(cfg.AppConfig, handler), log.Named("api"))

	deps := commands.Deps{
		Leaderboard: svc.board,
		Profiles:    svc.profiles,
		Badges:      svc.badges,
		Identity:    svc.resolver,
		Reconcile:   svc.reconcile,

		CooldownWindow: svc.gate.Window(),
	}
	return bot.StartBot(ctx, cfg.IRCConfig, svc.pipeline, deps, log.Named("bot"))
}
