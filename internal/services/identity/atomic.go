package identity

import (
	"context"
	"time"

	"github.com/MyelinBots/statbot-go/internal/db/repositories/guild"
	"github.com/MyelinBots/statbot-go/internal/db/repositories/user"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
)

// AtomicResolver lets the store settle create-or-update in one statement, so
// there is no duplicate-insert race to recover from.
type AtomicResolver struct {
	directory
}

func NewAtomicResolver(users user.UserRepository, guilds guild.GuildRepository, log *zap.Logger) *AtomicResolver {
	return &AtomicResolver{directory: newDirectory(users, guilds, log)}
}

func (r *AtomicResolver) ResolveUser(ctx context.Context, id UserIdentity, now time.Time) (*user.User, error) {
	if err := id.validate(); err != nil {
		return nil, err
	}
	now = now.UTC()

	if err := r.users.Upsert(ctx, id.newRecord(now)); err != nil {
		return nil, pkgerrors.Wrap(err, "upsert user")
	}
	u, err := r.users.GetByExternalID(ctx, id.ExternalID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "read upserted user")
	}
	if u == nil {
		return nil, pkgerrors.Errorf("user %q missing after upsert", id.ExternalID)
	}
	return u, nil
}

func (r *AtomicResolver) ResolveCommunity(ctx context.Context, id CommunityIdentity, now time.Time) (*guild.Guild, error) {
	if err := id.validate(); err != nil {
		return nil, err
	}
	now = now.UTC()

	if err := r.guilds.Upsert(ctx, id.newRecord(now)); err != nil {
		return nil, pkgerrors.Wrap(err, "upsert community")
	}
	g, err := r.guilds.GetByExternalID(ctx, id.ExternalID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "read upserted community")
	}
	if g == nil {
		return nil, pkgerrors.Errorf("community %q missing after upsert", id.ExternalID)
	}
	return g, nil
}
