package commands

import (
	"context"
	"strings"

	"github.com/MyelinBots/statbot-go/internal/services/context_manager"
	"github.com/MyelinBots/statbot-go/internal/services/leaderboard"
)

// TopChannelHandler ranks the current channel: !top [n]
func (c *CommandControllerImpl) TopChannelHandler() func(ctx context.Context, message string) error {
	return func(ctx context.Context, message string) error {
		channel := context_manager.GetChannelContext(ctx)
		if !strings.HasPrefix(channel, "#") {
			c.reply(ctx, "!top only works in a channel. Try !topnet or !topglobal.")
			return nil
		}

		entries, err := c.deps.Leaderboard.TopByChannel(ctx, c.network, channel, parseLimit(args(message)))
		if err != nil {
			return c.fail(ctx, "top channel", err)
		}
		c.reply(ctx, c.formatBoard("🏆 Top in "+channel, entries))
		return nil
	}
}

// TopNetworkHandler ranks the whole network: !topnet [n]
func (c *CommandControllerImpl) TopNetworkHandler() func(ctx context.Context, message string) error {
	return func(ctx context.Context, message string) error {
		entries, err := c.deps.Leaderboard.TopByCommunity(ctx, c.network, parseLimit(args(message)))
		if err != nil {
			return c.fail(ctx, "top network", err)
		}
		c.reply(ctx, c.formatBoard("🌐 Top on "+c.network, entries))
		return nil
	}
}

// TopGlobalHandler ranks everyone everywhere: !topglobal [n]
func (c *CommandControllerImpl) TopGlobalHandler() func(ctx context.Context, message string) error {
	return func(ctx context.Context, message string) error {
		entries, err := c.deps.Leaderboard.TopGlobal(ctx, parseLimit(args(message)))
		if err != nil {
			return c.fail(ctx, "top global", err)
		}
		c.reply(ctx, c.formatBoard("🌍 Global top", entries))
		return nil
	}
}

func (c *CommandControllerImpl) formatBoard(title string, entries []leaderboard.Entry) string {
	if len(entries) == 0 {
		return title + ": nobody has earned XP yet."
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString(": ")
	for i, e := range entries {
		if i > 0 {
			b.WriteString("  •  ")
		}
		b.WriteString(c.printer.Sprintf("#%d %s (%d XP)", e.Rank, e.Username, e.XP))
	}
	return b.String()
}
