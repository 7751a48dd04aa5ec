package commands

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/MyelinBots/statbot-go/internal/services/badges"
	"github.com/MyelinBots/statbot-go/internal/services/context_manager"
	"github.com/MyelinBots/statbot-go/internal/services/identity"
	"github.com/MyelinBots/statbot-go/internal/services/leaderboard"
	"github.com/MyelinBots/statbot-go/internal/services/profile"
	"github.com/MyelinBots/statbot-go/internal/services/reconcile"
	irc "github.com/fluffle/goirc/client"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	maxLineLength = 400
	tryAgainLater = "Something went wrong, try again later."
)

// IRCClient is the part of *irc.Conn the commands use.
type IRCClient interface {
	Privmsg(target, message string)
	Join(channel string, key ...string)
}

// Deps are the query and admin services behind the commands.
type Deps struct {
	Leaderboard *leaderboard.Reader
	Profiles    *profile.Service
	Badges      *badges.Service
	Identity    identity.Resolver
	Reconcile   *reconcile.Service
	// CooldownWindow is shown in the help text when set.
	CooldownWindow time.Duration
}

type CommandController interface {
	HandleCommand(ctx context.Context, line *irc.Line) error
	AddCommand(command string, handler func(ctx context.Context, message string) error)
}

type CommandControllerImpl struct {
	irc      IRCClient
	network  string
	admins   map[string]bool
	deps     Deps
	log      *zap.Logger
	printer  *message.Printer
	commands map[string]func(ctx context.Context, message string) error
}

func NewCommandController(client IRCClient, network string, admins []string, deps Deps, log *zap.Logger) *CommandControllerImpl {
	if log == nil {
		log = zap.NewNop()
	}
	adminSet := make(map[string]bool, len(admins))
	for _, a := range admins {
		adminSet[normalizeNick(a)] = true
	}
	return &CommandControllerImpl{
		irc:      client,
		network:  strings.ToLower(network),
		admins:   adminSet,
		deps:     deps,
		log:      log,
		printer:  message.NewPrinter(language.English),
		commands: make(map[string]func(ctx context.Context, message string) error),
	}
}

// RegisterDefaults wires every built-in command.
func (c *CommandControllerImpl) RegisterDefaults() {
	c.AddCommand("!statbot", c.HelpHandler())
	c.AddCommand("!top", c.TopChannelHandler())
	c.AddCommand("!topnet", c.TopNetworkHandler())
	c.AddCommand("!topglobal", c.TopGlobalHandler())
	c.AddCommand("!profile", c.ProfileHandler())
	c.AddCommand("!badges", c.BadgesHandler())

	c.AddCommand("!syncxp", c.adminOnly(c.SyncHandler()))
	c.AddCommand("!xp", c.adminOnly(c.XPToggleHandler()))
	c.AddCommand("!givebadge", c.adminOnly(c.GiveBadgeHandler()))
	c.AddCommand("!ban", c.adminOnly(c.BanHandler(true)))
	c.AddCommand("!unban", c.adminOnly(c.BanHandler(false)))
	c.AddCommand("!invite", c.adminOnly(c.InviteHandler()))
}

// HandleCommand parses an IRC line and dispatches to the correct handler
func (c *CommandControllerImpl) HandleCommand(ctx context.Context, line *irc.Line) error {
	if line == nil || len(line.Args) < 2 {
		return nil
	}

	message := line.Args[1]
	command := strings.Fields(message)
	if len(command) == 0 {
		return nil
	}

	cmd := strings.ToLower(command[0])
	if handler, exists := c.commands[cmd]; exists {
		ctx = context_manager.SetNickContext(ctx, line.Nick)
		ctx = context_manager.SetChannelContext(ctx, line.Target())
		ctx = context_manager.SetNetworkContext(ctx, c.network)
		return handler(ctx, message)
	}
	return nil
}

func (c *CommandControllerImpl) AddCommand(command string, handler func(ctx context.Context, message string) error) {
	c.commands[strings.ToLower(command)] = handler
}

func (c *CommandControllerImpl) adminOnly(next func(ctx context.Context, message string) error) func(ctx context.Context, message string) error {
	return func(ctx context.Context, message string) error {
		if !c.admins[context_manager.GetNickContext(ctx)] {
			c.reply(ctx, "Only bot admins can do that.")
			return nil
		}
		return next(ctx, message)
	}
}

func (c *CommandControllerImpl) reply(ctx context.Context, msg string) {
	if len(msg) > maxLineLength {
		msg = msg[:maxLineLength]
	}
	c.irc.Privmsg(context_manager.GetChannelContext(ctx), msg)
}

// fail logs err and shows the user a generic message.
func (c *CommandControllerImpl) fail(ctx context.Context, op string, err error) error {
	c.log.Error("command failed",
		zap.String("op", op),
		zap.String("nick", context_manager.GetNickContext(ctx)),
		zap.String("channel", context_manager.GetChannelContext(ctx)),
		zap.Error(err))
	c.reply(ctx, tryAgainLater)
	return err
}

// args returns the words after the command name.
func args(message string) []string {
	fields := strings.Fields(strings.TrimSpace(message))
	if len(fields) == 0 {
		return nil
	}
	return fields[1:]
}

// parseLimit reads an optional leading count, defaulting when absent or junk.
func parseLimit(rest []string) int {
	if len(rest) == 0 {
		return leaderboard.DefaultLimit
	}
	n, err := strconv.Atoi(rest[0])
	if err != nil {
		return leaderboard.DefaultLimit
	}
	return leaderboard.ClampLimit(n)
}

func normalizeNick(s string) string {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.TrimLeft(n, "~&@%+")
	return n
}
