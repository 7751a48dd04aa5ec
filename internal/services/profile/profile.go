package profile

import (
	"context"

	"github.com/MyelinBots/statbot-go/internal/counter"
	"github.com/MyelinBots/statbot-go/internal/db/repositories/badge"
	statsrepo "github.com/MyelinBots/statbot-go/internal/db/repositories/stats"
	"github.com/MyelinBots/statbot-go/internal/services/identity"
	"github.com/MyelinBots/statbot-go/internal/services/levels"
	"github.com/MyelinBots/statbot-go/internal/services/stats"
	pkgerrors "github.com/pkg/errors"
)

const DefaultTopBadges = 3

type Profile struct {
	ExternalUserID string                `json:"user"`
	Username       string                `json:"username"`
	GlobalXP       int64                 `json:"global_xp"`
	Messages       int64                 `json:"messages"`
	Level          uint64                `json:"level"`
	Title          string                `json:"title"`
	NextLevelXP    uint64                `json:"next_level_xp"`
	Progress       levels.Progress       `json:"progress"`
	CommunityCount int                   `json:"community_count"`
	Badges         []*badge.GrantedBadge `json:"badges"`
	Local          *Local                `json:"local,omitempty"`
}

// Local holds the counters for the community (and channel) the profile was
// asked from.
type Local struct {
	CommunityID       string `json:"community"`
	CommunityXP       int64  `json:"community_xp"`
	CommunityMessages int64  `json:"community_messages"`
	ChannelID         string `json:"channel,omitempty"`
	ChannelXP         int64  `json:"channel_xp"`
	ChannelMessages   int64  `json:"channel_messages"`
}

type Service struct {
	identity identity.Resolver
	store    *stats.Store
	badges   badge.BadgeRepository
}

func NewService(resolver identity.Resolver, store *stats.Store, badges badge.BadgeRepository) *Service {
	return &Service{identity: resolver, store: store, badges: badges}
}

// GetProfile returns nil for users never seen. Global xp is the exact sum of
// community rows, not the cache.
func (s *Service) GetProfile(ctx context.Context, externalUserID string) (*Profile, error) {
	return s.GetProfileIn(ctx, externalUserID, "", "")
}

// GetProfileIn is GetProfile plus the user's counters in one community and
// optionally one of its channels. Local stays nil when the community is
// unknown.
func (s *Service) GetProfileIn(ctx context.Context, externalUserID, externalCommunityID, channelID string) (*Profile, error) {
	u, err := s.identity.LookupUser(ctx, externalUserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}

	totals, err := s.store.TotalsFor(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	top, err := s.badges.ForUser(ctx, u.ID, DefaultTopBadges)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "profile badges")
	}

	progress := levels.ProgressFor(totals.XP)
	p := &Profile{
		ExternalUserID: u.ExternalID,
		Username:       u.Username,
		GlobalXP:       counter.Clamp(totals.XP),
		Messages:       counter.Clamp(totals.Messages),
		Level:          progress.Level,
		Title:          levels.Title(progress.Level),
		NextLevelXP:    levels.XPForLevel(progress.Level + 1),
		Progress:       progress,
		CommunityCount: totals.CommunityCount,
		Badges:         top,
	}

	if externalCommunityID == "" {
		return p, nil
	}
	g, err := s.identity.LookupCommunity(ctx, externalCommunityID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "profile community")
	}
	if g == nil {
		return p, nil
	}
	local, err := s.store.LocalFor(ctx, u.ID, g.ID, channelID)
	if err != nil {
		return nil, err
	}
	p.Local = &Local{
		CommunityID:       g.ExternalID,
		CommunityXP:       counter.Clamp(local.CommunityXP),
		CommunityMessages: counter.Clamp(local.CommunityMessages),
		ChannelID:         statsrepo.NormalizeChannel(channelID),
		ChannelXP:         counter.Clamp(local.ChannelXP),
		ChannelMessages:   counter.Clamp(local.ChannelMessages),
	}
	return p, nil
}
