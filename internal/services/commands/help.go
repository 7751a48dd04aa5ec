package commands

import (
	"context"
	"fmt"
)

// HelpHandler lists the commands: !statbot
func (c *CommandControllerImpl) HelpHandler() func(ctx context.Context, message string) error {
	return func(ctx context.Context, message string) error {
		intro := "📊 statbot counts XP for chatting. Spamming does not help, messages inside the cooldown are ignored."
		if w := c.deps.CooldownWindow; w > 0 {
			intro = fmt.Sprintf("📊 statbot counts XP for chatting, one message per %s.", w)
		}
		lines := []string{
			intro,
			" * !top [n] :::: top chatters in this channel",
			" * !topnet [n] :::: top chatters on this network",
			" * !topglobal [n] :::: top chatters everywhere",
			" * !profile [nick] :::: level, XP and badges",
			" * !badges :::: every badge there is",
		}
		for _, l := range lines {
			c.reply(ctx, l)
		}
		return nil
	}
}
