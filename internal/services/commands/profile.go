package commands

import (
	"context"
	"strings"

	"github.com/MyelinBots/statbot-go/internal/services/context_manager"
)

// ProfileHandler shows a user's totals: !profile [nick]
func (c *CommandControllerImpl) ProfileHandler() func(ctx context.Context, message string) error {
	return func(ctx context.Context, message string) error {
		target := context_manager.GetNickContext(ctx)
		if rest := args(message); len(rest) > 0 {
			target = normalizeNick(rest[0])
		}

		channel := context_manager.GetChannelContext(ctx)
		if !strings.HasPrefix(channel, "#") {
			channel = ""
		}
		p, err := c.deps.Profiles.GetProfileIn(ctx, target, c.network, channel)
		if err != nil {
			return c.fail(ctx, "profile", err)
		}
		if p == nil {
			c.reply(ctx, "I have not seen "+target+" say anything yet.")
			return nil
		}

		out := c.printer.Sprintf("📇 %s: level %d %s • %d XP (%d/%d to next level) • %d messages • active on %d network(s)",
			p.Username, p.Level, p.Title, p.GlobalXP, p.Progress.Current, p.Progress.NextLevel, p.Messages, p.CommunityCount)
		if l := p.Local; l != nil {
			out += c.printer.Sprintf(" • %d XP on %s", l.CommunityXP, l.CommunityID)
			if l.ChannelID != "" {
				out += c.printer.Sprintf(", %d in %s", l.ChannelXP, l.ChannelID)
			}
		}
		if len(p.Badges) > 0 {
			names := make([]string, 0, len(p.Badges))
			for _, b := range p.Badges {
				names = append(names, strings.TrimSpace(b.Emoji+" "+b.Name))
			}
			out += " • " + strings.Join(names, ", ")
		}
		c.reply(ctx, out)
		return nil
	}
}

// BadgesHandler lists the badge catalog: !badges
func (c *CommandControllerImpl) BadgesHandler() func(ctx context.Context, message string) error {
	return func(ctx context.Context, message string) error {
		list, err := c.deps.Badges.Catalog(ctx)
		if err != nil {
			return c.fail(ctx, "badges", err)
		}
		if len(list) == 0 {
			c.reply(ctx, "No badges exist yet.")
			return nil
		}

		names := make([]string, 0, len(list))
		for _, b := range list {
			names = append(names, strings.TrimSpace(b.Emoji+" "+b.Name)+" ("+b.Key+")")
		}
		c.reply(ctx, "🎖 Badges: "+strings.Join(names, ", "))
		return nil
	}
}
