package commands

import (
	"context"
	"strings"
	"time"

	"github.com/MyelinBots/statbot-go/internal/services/context_manager"
	"github.com/MyelinBots/statbot-go/internal/services/identity"
)

// SyncHandler forces a global xp reconciliation: !syncxp
func (c *CommandControllerImpl) SyncHandler() func(ctx context.Context, message string) error {
	return func(ctx context.Context, message string) error {
		corrected, err := c.deps.Reconcile.Run(ctx)
		if err != nil {
			return c.fail(ctx, "sync", err)
		}
		c.reply(ctx, c.printer.Sprintf("🔄 Global XP sync done, corrected %d user(s).", corrected))
		return nil
	}
}

// XPToggleHandler turns counting on or off for this network: !xp on|off
func (c *CommandControllerImpl) XPToggleHandler() func(ctx context.Context, message string) error {
	return func(ctx context.Context, message string) error {
		rest := args(message)
		if len(rest) != 1 || (rest[0] != "on" && rest[0] != "off") {
			c.reply(ctx, "usage: !xp on|off")
			return nil
		}
		enabled := rest[0] == "on"

		// make sure the network row exists before flipping it
		if _, err := c.deps.Identity.ResolveCommunity(ctx, identity.CommunityIdentity{ExternalID: c.network, Name: c.network}, nowUTC()); err != nil {
			return c.fail(ctx, "xp toggle", err)
		}
		if _, err := c.deps.Identity.SetXPTracking(ctx, c.network, enabled); err != nil {
			return c.fail(ctx, "xp toggle", err)
		}
		c.reply(ctx, "XP tracking on "+c.network+" is now "+rest[0]+".")
		return nil
	}
}

// GiveBadgeHandler: !givebadge <nick> <key> [reason...]
func (c *CommandControllerImpl) GiveBadgeHandler() func(ctx context.Context, message string) error {
	return func(ctx context.Context, message string) error {
		rest := args(message)
		if len(rest) < 2 {
			c.reply(ctx, "usage: !givebadge <nick> <badge> [reason]")
			return nil
		}
		nick := normalizeNick(rest[0])
		key := strings.ToLower(rest[1])
		reason := strings.Join(rest[2:], " ")

		target := identity.UserIdentity{ExternalID: nick, Username: nick}
		ok, err := c.deps.Badges.Grant(ctx, target, key, context_manager.GetNickContext(ctx), reason)
		if err != nil {
			return c.fail(ctx, "give badge", err)
		}
		if !ok {
			c.reply(ctx, "No badge called "+key+". See !badges.")
			return nil
		}
		c.reply(ctx, "🎖 "+nick+" now holds "+key+".")
		return nil
	}
}

// BanHandler hides a user from the global board: !ban <nick> / !unban <nick>
func (c *CommandControllerImpl) BanHandler(banned bool) func(ctx context.Context, message string) error {
	return func(ctx context.Context, message string) error {
		rest := args(message)
		if len(rest) != 1 {
			if banned {
				c.reply(ctx, "usage: !ban <nick>")
			} else {
				c.reply(ctx, "usage: !unban <nick>")
			}
			return nil
		}
		nick := normalizeNick(rest[0])

		found, err := c.deps.Identity.SetBanned(ctx, nick, banned)
		if err != nil {
			return c.fail(ctx, "ban", err)
		}
		switch {
		case !found:
			c.reply(ctx, "I do not know "+nick+".")
		case banned:
			c.reply(ctx, nick+" is banned from the global leaderboard.")
		default:
			c.reply(ctx, nick+" is no longer banned.")
		}
		return nil
	}
}

func nowUTC() time.Time { return time.Now().UTC() }
