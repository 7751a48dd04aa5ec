package commands

import (
	"context"
	"strings"

	"github.com/MyelinBots/statbot-go/internal/services/context_manager"
)

// InviteHandler makes the bot join and start counting a channel: !invite #channel
func (c *CommandControllerImpl) InviteHandler() func(ctx context.Context, message string) error {
	return func(ctx context.Context, message string) error {
		rest := args(message)
		if len(rest) < 1 || !strings.HasPrefix(rest[0], "#") {
			c.reply(ctx, "usage: !invite #channel")
			return nil
		}
		channel := rest[0]

		c.irc.Join(channel)
		c.irc.Privmsg(channel, "📊 statbot joins at "+context_manager.GetNickContext(ctx)+"'s request and starts counting.")
		return nil
	}
}
