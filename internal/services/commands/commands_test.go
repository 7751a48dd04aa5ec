package commands

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MyelinBots/statbot-go/internal/db/dbtest"
	"github.com/MyelinBots/statbot-go/internal/db/repositories/badge"
	"github.com/MyelinBots/statbot-go/internal/db/repositories/guild"
	statsrepo "github.com/MyelinBots/statbot-go/internal/db/repositories/stats"
	"github.com/MyelinBots/statbot-go/internal/db/repositories/user"
	"github.com/MyelinBots/statbot-go/internal/services/badges"
	"github.com/MyelinBots/statbot-go/internal/services/identity"
	"github.com/MyelinBots/statbot-go/internal/services/leaderboard"
	"github.com/MyelinBots/statbot-go/internal/services/profile"
	"github.com/MyelinBots/statbot-go/internal/services/reconcile"
	"github.com/MyelinBots/statbot-go/internal/services/stats"
	irc "github.com/fluffle/goirc/client"
	"go.uber.org/zap"
)

// mockIRCClient records messages sent
type mockIRCClient struct {
	mu       sync.Mutex
	messages []string
	targets  []string
	joined   []string
}

func (m *mockIRCClient) Privmsg(target, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.targets = append(m.targets, target)
	m.messages = append(m.messages, message)
}

func (m *mockIRCClient) Join(channel string, key ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.joined = append(m.joined, channel)
}

func (m *mockIRCClient) LastMessage() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.messages) == 0 {
		return ""
	}
	return m.messages[len(m.messages)-1]
}

func (m *mockIRCClient) LastTarget() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.targets) == 0 {
		return ""
	}
	return m.targets[len(m.targets)-1]
}

type testEnv struct {
	client   *mockIRCClient
	cc       *CommandControllerImpl
	resolver identity.Resolver
	store    *stats.Store
	badges   badge.BadgeRepository
}

// Helper to create a test setup
func setupTest(t *testing.T) *testEnv {
	t.Helper()
	database := dbtest.Open(t)

	users := user.NewUserRepository(database)
	guilds := guild.NewGuildRepository(database)
	statsRepo := statsrepo.NewStatsRepository(database)
	badgeRepo := badge.NewBadgeRepository(database)

	resolver := identity.NewResolver(true, users, guilds, zap.NewNop())
	store := stats.NewStore(statsRepo)
	deps := Deps{
		Leaderboard: leaderboard.NewReader(statsRepo, guilds),
		Profiles:    profile.NewService(resolver, store, badgeRepo),
		Badges:      badges.NewService(badgeRepo, resolver),
		Identity:    resolver,
		Reconcile:   reconcile.NewService(database, nil, zap.NewNop()),

		CooldownWindow: 3 * time.Second,
	}

	client := &mockIRCClient{}
	cc := NewCommandController(client, "TestNet", []string{"@Boss"}, deps, zap.NewNop())
	cc.RegisterDefaults()
	return &testEnv{client: client, cc: cc, resolver: resolver, store: store, badges: badgeRepo}
}

// earn gives nick xp in channel on testnet.
func (e *testEnv) earn(t *testing.T, nick, channel string, xp int64) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	g, err := e.resolver.ResolveCommunity(ctx, identity.CommunityIdentity{ExternalID: "testnet", Name: "testnet"}, now)
	if err != nil {
		t.Fatal(err)
	}
	u, err := e.resolver.ResolveUser(ctx, identity.UserIdentity{ExternalID: nick, Username: nick}, now)
	if err != nil {
		t.Fatal(err)
	}
	err = e.store.ApplyDelta(ctx, stats.Delta{
		UserID:      u.ID,
		CommunityID: g.ID,
		Channel:     &stats.Channel{ID: channel, CommunityID: g.ID},
		XP:          xp,
		Messages:    1,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func (e *testEnv) say(t *testing.T, nick, target, text string) string {
	t.Helper()
	line := &irc.Line{Nick: nick, Cmd: irc.PRIVMSG, Args: []string{target, text}}
	if err := e.cc.HandleCommand(context.Background(), line); err != nil {
		t.Fatalf("HandleCommand(%q): %v", text, err)
	}
	return e.client.LastMessage()
}

func TestAddCommand(t *testing.T) {
	env := setupTest(t)

	called := false
	env.cc.AddCommand("!test", func(ctx context.Context, message string) error {
		called = true
		return nil
	})

	env.say(t, "player1", "#testchan", "!TEST")
	if !called {
		t.Error("command handler was not called")
	}
}

func TestHandleCommand_Ignored(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		name string
		line *irc.Line
	}{
		{"nil line", nil},
		{"no args", &irc.Line{Nick: "player1", Args: []string{}}},
		{"only channel", &irc.Line{Nick: "player1", Args: []string{"#testchan"}}},
		{"blank message", &irc.Line{Nick: "player1", Args: []string{"#testchan", "   "}}},
		{"unknown command", &irc.Line{Nick: "player1", Args: []string{"#testchan", "!unknown"}}},
		{"plain chatter", &irc.Line{Nick: "player1", Args: []string{"#testchan", "hello there"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := env.cc.HandleCommand(context.Background(), tt.line); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
	if env.client.LastMessage() != "" {
		t.Errorf("ignored lines produced output: %q", env.client.LastMessage())
	}
}

func TestTopCommands(t *testing.T) {
	env := setupTest(t)
	env.earn(t, "alice", "#go", 1200)
	env.earn(t, "bob", "#go", 30)
	env.earn(t, "carol", "#rust", 500)

	got := env.say(t, "alice", "#go", "!top")
	if !strings.Contains(got, "#1 alice (1,200 XP)") || !strings.Contains(got, "#2 bob (30 XP)") || strings.Contains(got, "carol") {
		t.Errorf("!top = %q", got)
	}
	if env.client.LastTarget() != "#go" {
		t.Errorf("reply went to %q, want #go", env.client.LastTarget())
	}

	got = env.say(t, "alice", "#go", "!topnet 2")
	if !strings.Contains(got, "#2 carol (500 XP)") || strings.Contains(got, "bob") {
		t.Errorf("!topnet 2 = %q", got)
	}

	got = env.say(t, "alice", "#go", "!topglobal 1")
	if !strings.Contains(got, "#1 alice") || strings.Contains(got, "#2") {
		t.Errorf("!topglobal 1 = %q", got)
	}

	got = env.say(t, "alice", "#empty", "!top")
	if !strings.Contains(got, "nobody has earned XP yet") {
		t.Errorf("!top in empty channel = %q", got)
	}
}

func TestTopInPrivateMessage(t *testing.T) {
	env := setupTest(t)

	// a private line targets the bot's nick, so replies go back to the sender
	got := env.say(t, "alice", "statbot", "!top")
	if !strings.Contains(got, "only works in a channel") {
		t.Errorf("private !top = %q", got)
	}
	if env.client.LastTarget() != "alice" {
		t.Errorf("reply went to %q, want alice", env.client.LastTarget())
	}
}

func TestProfileCommand(t *testing.T) {
	env := setupTest(t)
	env.earn(t, "alice", "#go", 95)

	got := env.say(t, "Alice", "#go", "!profile")
	if !strings.Contains(got, "alice: level 3") || !strings.Contains(got, "95 XP (5/70 to next level)") {
		t.Errorf("!profile = %q", got)
	}
	if !strings.Contains(got, "95 XP on testnet, 95 in #go") {
		t.Errorf("!profile in channel lacks local counters: %q", got)
	}

	got = env.say(t, "alice", "#rust", "!profile")
	if !strings.Contains(got, "95 XP on testnet, 0 in #rust") {
		t.Errorf("!profile in other channel = %q", got)
	}

	got = env.say(t, "alice", "statbot", "!profile")
	if !strings.Contains(got, "95 XP on testnet") || strings.Contains(got, " in #") {
		t.Errorf("private !profile = %q", got)
	}

	got = env.say(t, "alice", "#go", "!profile @Nobody")
	if got != "I have not seen nobody say anything yet." {
		t.Errorf("!profile unknown = %q", got)
	}
}

func TestAdminCommandsRequireAdmin(t *testing.T) {
	env := setupTest(t)

	for _, cmd := range []string{"!syncxp", "!xp off", "!ban alice", "!unban alice", "!givebadge alice helper", "!invite #new"} {
		if got := env.say(t, "mallory", "#go", cmd); got != "Only bot admins can do that." {
			t.Errorf("%s by non-admin = %q", cmd, got)
		}
	}
	if len(env.client.joined) != 0 {
		t.Errorf("non-admin invite joined %v", env.client.joined)
	}
}

func TestBanCommand(t *testing.T) {
	env := setupTest(t)
	env.earn(t, "alice", "#go", 10)

	if got := env.say(t, "boss", "#go", "!ban Alice"); got != "alice is banned from the global leaderboard." {
		t.Errorf("!ban = %q", got)
	}
	if got := env.say(t, "boss", "#go", "!topglobal"); strings.Contains(got, "alice") {
		t.Errorf("banned user still on global board: %q", got)
	}
	if got := env.say(t, "boss", "#go", "!top"); !strings.Contains(got, "alice") {
		t.Errorf("banned user should stay on channel board: %q", got)
	}
	if got := env.say(t, "boss", "#go", "!unban alice"); got != "alice is no longer banned." {
		t.Errorf("!unban = %q", got)
	}
	if got := env.say(t, "boss", "#go", "!ban ghost"); got != "I do not know ghost." {
		t.Errorf("!ban unknown = %q", got)
	}
}

func TestXPToggleCommand(t *testing.T) {
	env := setupTest(t)

	if got := env.say(t, "boss", "#go", "!xp maybe"); got != "usage: !xp on|off" {
		t.Errorf("!xp maybe = %q", got)
	}
	if got := env.say(t, "boss", "#go", "!xp off"); got != "XP tracking on testnet is now off." {
		t.Errorf("!xp off = %q", got)
	}

	g, err := env.resolver.LookupCommunity(context.Background(), "testnet")
	if err != nil || g == nil || g.TracksXP() {
		t.Errorf("community after !xp off = %+v, %v", g, err)
	}
}

func TestGiveBadgeAndSync(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	if err := env.badges.Create(ctx, &badge.Badge{Key: "helper", Name: "Helper", Emoji: "🤝"}); err != nil {
		t.Fatal(err)
	}

	if got := env.say(t, "boss", "#go", "!givebadge bob helper answered everything"); got != "🎖 bob now holds helper." {
		t.Errorf("!givebadge = %q", got)
	}
	if got := env.say(t, "boss", "#go", "!givebadge bob nope"); got != "No badge called nope. See !badges." {
		t.Errorf("!givebadge unknown = %q", got)
	}
	if got := env.say(t, "bob", "#go", "!badges"); got != "🎖 Badges: 🤝 Helper (helper)" {
		t.Errorf("!badges = %q", got)
	}

	if got := env.say(t, "boss", "#go", "!syncxp"); got != "🔄 Global XP sync done, corrected 0 user(s)." {
		t.Errorf("!syncxp = %q", got)
	}
}

func TestInviteCommand(t *testing.T) {
	env := setupTest(t)

	env.say(t, "boss", "#go", "!invite #newchan")
	if len(env.client.joined) != 1 || env.client.joined[0] != "#newchan" {
		t.Errorf("joined = %v", env.client.joined)
	}
	if env.client.LastTarget() != "#newchan" {
		t.Errorf("greeting went to %q", env.client.LastTarget())
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		name string
		rest []string
		want int
	}{
		{"absent", nil, leaderboard.DefaultLimit},
		{"junk", []string{"lots"}, leaderboard.DefaultLimit},
		{"small", []string{"3"}, 3},
		{"zero clamps", []string{"0"}, 1},
		{"huge clamps", []string{"500"}, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseLimit(tt.rest); got != tt.want {
				t.Errorf("parseLimit(%v) = %d, want %d", tt.rest, got, tt.want)
			}
		})
	}
}

func TestNormalizeNick(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"player1", "player1"},
		{"Player1", "player1"},
		{"  player1  ", "player1"},
		{"@player1", "player1"},
		{"~&@%+player1", "player1"},
		{"", ""},
		{"@+", ""},
	}

	for _, tt := range tests {
		if got := normalizeNick(tt.input); got != tt.want {
			t.Errorf("normalizeNick(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestHelpShowsCooldown(t *testing.T) {
	env := setupTest(t)

	env.say(t, "alice", "#go", "!statbot")
	if len(env.client.messages) == 0 || env.client.messages[0] != "📊 statbot counts XP for chatting, one message per 3s." {
		t.Errorf("help = %q", env.client.messages)
	}
}
