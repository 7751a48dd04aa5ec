// Package identity maps platform ids to durable user and community rows,
// creating them on first sight.
package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MyelinBots/statbot-go/internal/db/repositories/guild"
	"github.com/MyelinBots/statbot-go/internal/db/repositories/user"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
)

var ErrInvalidIdentity = errors.New("identity: external id and name are required")

type UserIdentity struct {
	ExternalID    string
	Username      string
	Discriminator string
	AvatarURL     string
	IsBot         bool
}

type CommunityIdentity struct {
	ExternalID string
	Name       string
	IconURL    string
}

// Resolver is implemented once per store capability: TransactionalResolver
// for plain stores and AtomicResolver for stores with INSERT .. ON CONFLICT.
type Resolver interface {
	ResolveUser(ctx context.Context, id UserIdentity, now time.Time) (*user.User, error)
	ResolveCommunity(ctx context.Context, id CommunityIdentity, now time.Time) (*guild.Guild, error)

	LookupUser(ctx context.Context, externalID string) (*user.User, error)
	LookupCommunity(ctx context.Context, externalID string) (*guild.Guild, error)
	SetBanned(ctx context.Context, externalUserID string, banned bool) (bool, error)
	SetXPTracking(ctx context.Context, externalCommunityID string, enabled bool) (bool, error)
	MarkCommunityLeft(ctx context.Context, externalCommunityID string, at time.Time) error
}

// NewResolver picks the implementation named by configuration.
func NewResolver(atomic bool, users user.UserRepository, guilds guild.GuildRepository, log *zap.Logger) Resolver {
	if atomic {
		return NewAtomicResolver(users, guilds, log)
	}
	return NewTransactionalResolver(users, guilds, log)
}

// directory carries the read and flag operations both resolvers share.
type directory struct {
	users  user.UserRepository
	guilds guild.GuildRepository
	log    *zap.Logger
}

func newDirectory(users user.UserRepository, guilds guild.GuildRepository, log *zap.Logger) directory {
	if log == nil {
		log = zap.NewNop()
	}
	return directory{users: users, guilds: guilds, log: log}
}

func (d directory) LookupUser(ctx context.Context, externalID string) (*user.User, error) {
	u, err := d.users.GetByExternalID(ctx, externalID)
	return u, pkgerrors.Wrap(err, "lookup user")
}

func (d directory) LookupCommunity(ctx context.Context, externalID string) (*guild.Guild, error) {
	g, err := d.guilds.GetByExternalID(ctx, externalID)
	return g, pkgerrors.Wrap(err, "lookup community")
}

func (d directory) SetBanned(ctx context.Context, externalUserID string, banned bool) (bool, error) {
	if strings.TrimSpace(externalUserID) == "" {
		return false, ErrInvalidIdentity
	}
	ok, err := d.users.SetBanned(ctx, externalUserID, banned)
	return ok, pkgerrors.Wrap(err, "set banned")
}

func (d directory) MarkCommunityLeft(ctx context.Context, externalCommunityID string, at time.Time) error {
	return pkgerrors.Wrap(d.guilds.MarkLeft(ctx, externalCommunityID, at), "mark community left")
}

func (d directory) SetXPTracking(ctx context.Context, externalCommunityID string, enabled bool) (bool, error) {
	if strings.TrimSpace(externalCommunityID) == "" {
		return false, ErrInvalidIdentity
	}
	ok, err := d.guilds.SetXPTracking(ctx, externalCommunityID, enabled)
	return ok, pkgerrors.Wrap(err, "set xp tracking")
}

func (id UserIdentity) validate() error {
	if strings.TrimSpace(id.ExternalID) == "" || strings.TrimSpace(id.Username) == "" {
		return ErrInvalidIdentity
	}
	return nil
}

func (id CommunityIdentity) validate() error {
	if strings.TrimSpace(id.ExternalID) == "" || strings.TrimSpace(id.Name) == "" {
		return ErrInvalidIdentity
	}
	return nil
}

func (id UserIdentity) newRecord(now time.Time) *user.User {
	return &user.User{
		ExternalID:    user.NormalizeExternalID(id.ExternalID),
		Username:      strings.TrimSpace(id.Username),
		Discriminator: id.Discriminator,
		AvatarURL:     id.AvatarURL,
		FirstSeen:     now,
		LastSeen:      now,
		IsBot:         id.IsBot,
	}
}

func (id CommunityIdentity) newRecord(now time.Time) *guild.Guild {
	return &guild.Guild{
		ExternalID: id.ExternalID,
		Name:       strings.TrimSpace(id.Name),
		IconURL:    id.IconURL,
		JoinedAt:   now,
	}
}
