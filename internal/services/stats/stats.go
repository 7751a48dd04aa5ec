// Package stats is the only writer of XP and message counters.
package stats

import (
	"context"
	"errors"
	"time"

	"github.com/MyelinBots/statbot-go/internal/counter"
	statsrepo "github.com/MyelinBots/statbot-go/internal/db/repositories/stats"
	pkgerrors "github.com/pkg/errors"
)

var ErrNegativeDelta = errors.New("stats: deltas must be non-negative")

// Channel names the channel an event came from and the community it belongs
// to. The channel row is only written when CommunityID matches the delta's.
type Channel struct {
	ID          string
	CommunityID uint64
}

type Delta struct {
	UserID      uint64
	CommunityID uint64
	Channel     *Channel
	XP          int64
	Messages    int64
	At          time.Time
}

// Totals is the exact aggregate over a user's community rows.
type Totals struct {
	XP             uint64
	Messages       uint64
	CommunityCount int
}

// Local is a user's counters in one community and, optionally, one of its
// channels.
type Local struct {
	CommunityXP       uint64
	CommunityMessages uint64
	ChannelXP         uint64
	ChannelMessages   uint64
}

type Store struct {
	repo statsrepo.StatsRepository
}

func NewStore(repo statsrepo.StatsRepository) *Store {
	return &Store{repo: repo}
}

// ApplyDelta increments the community row, the channel row when the channel
// belongs to the community, and the user's cached global total, atomically.
func (s *Store) ApplyDelta(ctx context.Context, d Delta) error {
	if d.XP < 0 || d.Messages < 0 {
		return ErrNegativeDelta
	}
	if d.UserID == 0 || d.CommunityID == 0 {
		return pkgerrors.New("stats: user and community are required")
	}

	at := d.At
	if at.IsZero() {
		at = time.Now()
	}

	inc := statsrepo.Increment{
		UserID:   d.UserID,
		GuildID:  d.CommunityID,
		XP:       uint64(d.XP),
		Messages: uint64(d.Messages),
		At:       at,
	}
	if d.Channel != nil && d.Channel.CommunityID == d.CommunityID {
		inc.ChannelID = d.Channel.ID
	}

	if err := s.repo.Apply(ctx, inc); err != nil {
		return pkgerrors.Wrapf(err, "apply delta user=%d community=%d", d.UserID, d.CommunityID)
	}
	return nil
}

// TotalsFor sums the authoritative rows, not the cache.
func (s *Store) TotalsFor(ctx context.Context, userID uint64) (Totals, error) {
	rows, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return Totals{}, pkgerrors.Wrapf(err, "totals for user=%d", userID)
	}

	var xp, msgs counter.Accumulator
	for _, row := range rows {
		xp.Add(row.XP)
		msgs.Add(row.Messages)
	}
	return Totals{XP: xp.Value(), Messages: msgs.Value(), CommunityCount: len(rows)}, nil
}

// LocalFor reads the community row and, when channelID is set, the channel
// row. Missing rows count as zero.
func (s *Store) LocalFor(ctx context.Context, userID, communityID uint64, channelID string) (Local, error) {
	var out Local
	cs, err := s.repo.GetCommunityStat(ctx, userID, communityID)
	if err != nil {
		return Local{}, pkgerrors.Wrapf(err, "community stat user=%d community=%d", userID, communityID)
	}
	if cs != nil {
		out.CommunityXP, out.CommunityMessages = cs.XP, cs.Messages
	}
	if channelID == "" {
		return out, nil
	}

	ch, err := s.repo.GetChannelStat(ctx, userID, communityID, channelID)
	if err != nil {
		return Local{}, pkgerrors.Wrapf(err, "channel stat user=%d community=%d", userID, communityID)
	}
	if ch != nil {
		out.ChannelXP, out.ChannelMessages = ch.XP, ch.Messages
	}
	return out, nil
}
