package stats

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/MyelinBots/statbot-go/internal/counter"
	"github.com/MyelinBots/statbot-go/internal/db"
	"github.com/MyelinBots/statbot-go/internal/db/dbtest"
	"github.com/MyelinBots/statbot-go/internal/db/repositories/guild"
	statsrepo "github.com/MyelinBots/statbot-go/internal/db/repositories/stats"
	"github.com/MyelinBots/statbot-go/internal/db/repositories/user"
)

type fixture struct {
	db    *db.DB
	store *Store
	repo  statsrepo.StatsRepository
	users []*user.User
	comms []*guild.Guild
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := dbtest.Open(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	f := &fixture{db: database}
	f.repo = statsrepo.NewStatsRepository(database)
	f.store = NewStore(f.repo)

	users := user.NewUserRepository(database)
	for _, name := range []string{"alice", "bob"} {
		u := &user.User{ExternalID: name, Username: name, FirstSeen: now, LastSeen: now}
		if err := users.Create(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
		f.users = append(f.users, u)
	}
	guilds := guild.NewGuildRepository(database)
	for _, name := range []string{"libera", "oftc"} {
		g := &guild.Guild{ExternalID: name, Name: name, JoinedAt: now}
		if err := guilds.Create(ctx, g); err != nil {
			t.Fatalf("create guild: %v", err)
		}
		f.comms = append(f.comms, g)
	}
	return f
}

func (f *fixture) cache(t *testing.T, userID uint64) uint64 {
	t.Helper()
	var u user.User
	if err := f.db.DB.First(&u, userID).Error; err != nil {
		t.Fatalf("read user: %v", err)
	}
	return u.GlobalXPCache
}

func TestApplyDeltaConservesCounters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, libera := f.users[0], f.comms[0]
	channel := &Channel{ID: "#Go", CommunityID: libera.ID}

	deltas := []int64{1, 5, 0, 12}
	var want uint64
	for i, xp := range deltas {
		err := f.store.ApplyDelta(ctx, Delta{
			UserID:      alice.ID,
			CommunityID: libera.ID,
			Channel:     channel,
			XP:          xp,
			Messages:    1,
			At:          time.Date(2024, 1, 15, 12, i, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("ApplyDelta #%d: %v", i, err)
		}
		want += uint64(xp)
	}

	cs, err := f.repo.GetCommunityStat(ctx, alice.ID, libera.ID)
	if err != nil || cs == nil {
		t.Fatalf("GetCommunityStat = %+v, %v", cs, err)
	}
	if cs.XP != want || cs.Messages != uint64(len(deltas)) {
		t.Errorf("community row xp=%d messages=%d, want %d/%d", cs.XP, cs.Messages, want, len(deltas))
	}
	if cs.LastActivityAt == nil || !cs.LastActivityAt.Equal(time.Date(2024, 1, 15, 12, 3, 0, 0, time.UTC)) {
		t.Errorf("LastActivityAt = %v", cs.LastActivityAt)
	}

	ch, err := f.repo.GetChannelStat(ctx, alice.ID, libera.ID, "#go")
	if err != nil || ch == nil {
		t.Fatalf("GetChannelStat = %+v, %v", ch, err)
	}
	if ch.XP != want || ch.Messages != uint64(len(deltas)) {
		t.Errorf("channel row xp=%d messages=%d, want %d/%d", ch.XP, ch.Messages, want, len(deltas))
	}

	if got := f.cache(t, alice.ID); got != want {
		t.Errorf("global cache = %d, want %d", got, want)
	}
}

func TestApplyDeltaSkipsForeignChannel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, libera, oftc := f.users[0], f.comms[0], f.comms[1]

	tests := []struct {
		name    string
		channel *Channel
	}{
		{"no channel", nil},
		{"channel from another community", &Channel{ID: "#go", CommunityID: oftc.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.store.ApplyDelta(ctx, Delta{UserID: alice.ID, CommunityID: libera.ID, Channel: tt.channel, XP: 1, Messages: 1})
			if err != nil {
				t.Fatalf("ApplyDelta: %v", err)
			}
		})
	}

	var n int64
	f.db.DB.Model(&statsrepo.ChannelStat{}).Count(&n)
	if n != 0 {
		t.Errorf("%d channel rows written, want 0", n)
	}
	cs, _ := f.repo.GetCommunityStat(ctx, alice.ID, libera.ID)
	if cs == nil || cs.XP != 2 {
		t.Errorf("community row = %+v, want xp 2", cs)
	}
}

func TestApplyDeltaRejectsNegative(t *testing.T) {
	f := newFixture(t)
	alice, libera := f.users[0], f.comms[0]

	tests := []struct {
		name string
		d    Delta
	}{
		{"negative xp", Delta{UserID: alice.ID, CommunityID: libera.ID, XP: -1}},
		{"negative messages", Delta{UserID: alice.ID, CommunityID: libera.ID, Messages: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := f.store.ApplyDelta(context.Background(), tt.d); !errors.Is(err, ErrNegativeDelta) {
				t.Errorf("err = %v, want ErrNegativeDelta", err)
			}
		})
	}

	if got := f.cache(t, alice.ID); got != 0 {
		t.Errorf("rejected delta changed cache to %d", got)
	}
}

func TestApplyDeltaSaturates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, libera := f.users[0], f.comms[0]

	for i := 0; i < 3; i++ {
		if err := f.store.ApplyDelta(ctx, Delta{UserID: alice.ID, CommunityID: libera.ID, XP: math.MaxInt64 - 1, Messages: 1}); err != nil {
			t.Fatalf("ApplyDelta: %v", err)
		}
	}

	cs, _ := f.repo.GetCommunityStat(ctx, alice.ID, libera.ID)
	if cs == nil || cs.XP != counter.Max {
		t.Errorf("community xp = %+v, want saturated %d", cs, counter.Max)
	}
	if got := f.cache(t, alice.ID); got != counter.Max {
		t.Errorf("cache = %d, want saturated", got)
	}
}

func TestTotalsFor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.users[0], f.users[1]

	apply := func(userID, communityID uint64, xp int64) {
		t.Helper()
		if err := f.store.ApplyDelta(ctx, Delta{UserID: userID, CommunityID: communityID, XP: xp, Messages: 1}); err != nil {
			t.Fatal(err)
		}
	}
	apply(alice.ID, f.comms[0].ID, 10)
	apply(alice.ID, f.comms[1].ID, 15)
	apply(bob.ID, f.comms[0].ID, 3)

	// drift the cache; totals must ignore it
	f.db.DB.Model(&user.User{}).Where("id = ?", alice.ID).Update("global_xp_cache", 999)

	totals, err := f.store.TotalsFor(ctx, alice.ID)
	if err != nil {
		t.Fatalf("TotalsFor: %v", err)
	}
	if totals.XP != 25 || totals.CommunityCount != 2 || totals.Messages != 2 {
		t.Errorf("totals = %+v, want xp 25 over 2 communities", totals)
	}

	empty, err := f.store.TotalsFor(ctx, 12345)
	if err != nil || empty != (Totals{}) {
		t.Errorf("TotalsFor(unknown) = %+v, %v", empty, err)
	}
}
