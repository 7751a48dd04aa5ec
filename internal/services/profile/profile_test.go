package profile

import (
	"context"
	"testing"
	"time"

	"github.com/MyelinBots/statbot-go/internal/db/dbtest"
	"github.com/MyelinBots/statbot-go/internal/db/repositories/badge"
	"github.com/MyelinBots/statbot-go/internal/db/repositories/guild"
	statsrepo "github.com/MyelinBots/statbot-go/internal/db/repositories/stats"
	"github.com/MyelinBots/statbot-go/internal/db/repositories/user"
	"github.com/MyelinBots/statbot-go/internal/services/identity"
	"github.com/MyelinBots/statbot-go/internal/services/stats"
	"go.uber.org/zap"
)

func TestGetProfile(t *testing.T) {
	database := dbtest.Open(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	resolver := identity.NewResolver(false, user.NewUserRepository(database), guild.NewGuildRepository(database), zap.NewNop())
	store := stats.NewStore(statsrepo.NewStatsRepository(database))
	badges := badge.NewBadgeRepository(database)
	svc := NewService(resolver, store, badges)

	alice, err := resolver.ResolveUser(ctx, identity.UserIdentity{ExternalID: "alice", Username: "Alice"}, now)
	if err != nil {
		t.Fatal(err)
	}
	for i, name := range []string{"libera", "oftc"} {
		g, err := resolver.ResolveCommunity(ctx, identity.CommunityIdentity{ExternalID: name, Name: name}, now)
		if err != nil {
			t.Fatal(err)
		}
		if err := store.ApplyDelta(ctx, stats.Delta{UserID: alice.ID, CommunityID: g.ID, XP: int64(20 + i*5), Messages: 2}); err != nil {
			t.Fatal(err)
		}
	}

	for i, key := range []string{"a", "b", "c", "d"} {
		b := &badge.Badge{Key: key, Name: key, DisplayOrder: i}
		if err := badges.Create(ctx, b); err != nil {
			t.Fatal(err)
		}
		if _, err := badges.Grant(ctx, &badge.UserBadge{UserID: alice.ID, BadgeID: b.ID, GrantedAt: now}); err != nil {
			t.Fatal(err)
		}
	}

	p, err := svc.GetProfile(ctx, "ALICE")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p == nil {
		t.Fatal("GetProfile returned nil for a known user")
	}
	if p.GlobalXP != 45 || p.Level != 2 || p.CommunityCount != 2 || p.Messages != 4 {
		t.Errorf("profile = %+v, want 45 xp, level 2, 2 communities", p)
	}
	if p.NextLevelXP != 90 {
		t.Errorf("NextLevelXP = %d, want 90", p.NextLevelXP)
	}
	if p.Progress.Current != 5 || p.Progress.NextLevel != 50 {
		t.Errorf("Progress = %+v, want 5 of 50", p.Progress)
	}
	if p.Local != nil {
		t.Errorf("Local = %+v, want nil without a community", p.Local)
	}
	if len(p.Badges) != DefaultTopBadges || p.Badges[0].Key != "a" {
		t.Errorf("badges = %+v", p.Badges)
	}

	missing, err := svc.GetProfile(ctx, "ghost")
	if err != nil || missing != nil {
		t.Errorf("GetProfile(ghost) = %+v, %v", missing, err)
	}
}

func TestGetProfileIn(t *testing.T) {
	database := dbtest.Open(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	resolver := identity.NewResolver(true, user.NewUserRepository(database), guild.NewGuildRepository(database), zap.NewNop())
	store := stats.NewStore(statsrepo.NewStatsRepository(database))
	svc := NewService(resolver, store, badge.NewBadgeRepository(database))

	bob, err := resolver.ResolveUser(ctx, identity.UserIdentity{ExternalID: "bob", Username: "bob"}, now)
	if err != nil {
		t.Fatal(err)
	}
	libera, err := resolver.ResolveCommunity(ctx, identity.CommunityIdentity{ExternalID: "libera", Name: "libera"}, now)
	if err != nil {
		t.Fatal(err)
	}
	deltas := []stats.Delta{
		{UserID: bob.ID, CommunityID: libera.ID, Channel: &stats.Channel{ID: "#go", CommunityID: libera.ID}, XP: 7, Messages: 1},
		{UserID: bob.ID, CommunityID: libera.ID, Channel: &stats.Channel{ID: "#rust", CommunityID: libera.ID}, XP: 3, Messages: 1},
	}
	for _, d := range deltas {
		if err := store.ApplyDelta(ctx, d); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name        string
		community   string
		channel     string
		wantLocal   bool
		wantCommXP  int64
		wantChanXP  int64
		wantChannel string
	}{
		{"community and channel", "libera", "#Go", true, 10, 7, "#go"},
		{"community only", "libera", "", true, 10, 0, ""},
		{"channel never used", "libera", "#idle", true, 10, 0, "#idle"},
		{"unknown community", "efnet", "#go", false, 0, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := svc.GetProfileIn(ctx, "bob", tt.community, tt.channel)
			if err != nil {
				t.Fatalf("GetProfileIn: %v", err)
			}
			if (p.Local != nil) != tt.wantLocal {
				t.Fatalf("Local = %+v, want present=%v", p.Local, tt.wantLocal)
			}
			if !tt.wantLocal {
				return
			}
			if p.Local.CommunityXP != tt.wantCommXP || p.Local.ChannelXP != tt.wantChanXP || p.Local.ChannelID != tt.wantChannel {
				t.Errorf("Local = %+v", p.Local)
			}
			if p.Local.CommunityMessages != 2 {
				t.Errorf("CommunityMessages = %d, want 2", p.Local.CommunityMessages)
			}
		})
	}
}
