// Package leaderboard serves read-only top-N rankings.
package leaderboard

import (
	"context"

	"github.com/MyelinBots/statbot-go/internal/counter"
	"github.com/MyelinBots/statbot-go/internal/db/repositories/guild"
	statsrepo "github.com/MyelinBots/statbot-go/internal/db/repositories/stats"
	pkgerrors "github.com/pkg/errors"
)

const (
	MinLimit     = 1
	MaxLimit     = 25
	DefaultLimit = 10
)

type Entry struct {
	Rank           int    `json:"rank"`
	ExternalUserID string `json:"user"`
	Username       string `json:"username"`
	XP             int64  `json:"xp"`
	Messages       int64  `json:"messages"`
	CommunityID    string `json:"community,omitempty"`
	ChannelID      string `json:"channel,omitempty"`
}

type Reader struct {
	stats  statsrepo.StatsRepository
	guilds guild.GuildRepository
}

func NewReader(stats statsrepo.StatsRepository, guilds guild.GuildRepository) *Reader {
	return &Reader{stats: stats, guilds: guilds}
}

// ClampLimit bounds n to [MinLimit, MaxLimit].
func ClampLimit(n int) int {
	if n < MinLimit {
		return MinLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

// TopGlobal ranks by the cached global total, excluding bots, banned users
// and users without xp. Messages are summed over all communities.
func (r *Reader) TopGlobal(ctx context.Context, n int) ([]Entry, error) {
	rows, err := r.stats.TopGlobal(ctx, ClampLimit(n))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "top global")
	}

	ids := make([]uint64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.UserID)
	}
	messages, err := r.stats.MessageTotals(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "top global messages")
	}
	for _, row := range rows {
		row.Messages = messages[row.UserID]
	}
	return toEntries(rows, "", ""), nil
}

// TopByCommunity ranks one community's rows. Unknown communities rank nobody.
func (r *Reader) TopByCommunity(ctx context.Context, externalCommunityID string, n int) ([]Entry, error) {
	g, err := r.guilds.GetByExternalID(ctx, externalCommunityID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "top community lookup")
	}
	if g == nil {
		return []Entry{}, nil
	}

	rows, err := r.stats.TopByCommunity(ctx, g.ID, ClampLimit(n))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "top community")
	}
	return toEntries(rows, g.ExternalID, ""), nil
}

func (r *Reader) TopByChannel(ctx context.Context, externalCommunityID, channelID string, n int) ([]Entry, error) {
	g, err := r.guilds.GetByExternalID(ctx, externalCommunityID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "top channel lookup")
	}
	if g == nil {
		return []Entry{}, nil
	}

	rows, err := r.stats.TopByChannel(ctx, g.ID, channelID, ClampLimit(n))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "top channel")
	}
	return toEntries(rows, g.ExternalID, statsrepo.NormalizeChannel(channelID)), nil
}

func toEntries(rows []*statsrepo.RankedRow, communityID, channelID string) []Entry {
	out := make([]Entry, 0, len(rows))
	for i, row := range rows {
		out = append(out, Entry{
			Rank:           i + 1,
			ExternalUserID: row.ExternalID,
			Username:       row.Username,
			XP:             counter.Clamp(row.XP),
			Messages:       counter.Clamp(row.Messages),
			CommunityID:    communityID,
			ChannelID:      channelID,
		})
	}
	return out
}
