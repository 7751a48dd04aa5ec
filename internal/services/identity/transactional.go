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
	"gorm.io/gorm"
)

// TransactionalResolver reads, inserts when absent, and re-reads when a
// concurrent insert of the same external id wins the unique index.
type TransactionalResolver struct {
	directory
}

func NewTransactionalResolver(users user.UserRepository, guilds guild.GuildRepository, log *zap.Logger) *TransactionalResolver {
	return &TransactionalResolver{directory: newDirectory(users, guilds, log)}
}

func (r *TransactionalResolver) ResolveUser(ctx context.Context, id UserIdentity, now time.Time) (*user.User, error) {
	if err := id.validate(); err != nil {
		return nil, err
	}
	now = now.UTC()

	existing, err := r.users.GetByExternalID(ctx, id.ExternalID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "get user")
	}
	if existing == nil {
		created := id.newRecord(now)
		err := r.users.Create(ctx, created)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.Wrap(err, "create user")
		}

		r.log.Debug("user created concurrently, re-reading", zap.String("user", id.ExternalID))
		existing, err = r.users.GetByExternalID(ctx, id.ExternalID)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "re-read user")
		}
		if existing == nil {
			return nil, pkgerrors.Errorf("user %q vanished after duplicate insert", id.ExternalID)
		}
	}

	refreshUser(existing, id, now)
	if err := r.users.UpdateProfile(ctx, existing); err != nil {
		return nil, pkgerrors.Wrap(err, "update user")
	}
	return existing, nil
}

func (r *TransactionalResolver) ResolveCommunity(ctx context.Context, id CommunityIdentity, now time.Time) (*guild.Guild, error) {
	if err := id.validate(); err != nil {
		return nil, err
	}
	now = now.UTC()

	existing, err := r.guilds.GetByExternalID(ctx, id.ExternalID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "get community")
	}
	if existing == nil {
		created := id.newRecord(now)
		err := r.guilds.Create(ctx, created)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.Wrap(err, "create community")
		}

		r.log.Debug("community created concurrently, re-reading", zap.String("community", id.ExternalID))
		existing, err = r.guilds.GetByExternalID(ctx, id.ExternalID)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "re-read community")
		}
		if existing == nil {
			return nil, pkgerrors.Errorf("community %q vanished after duplicate insert", id.ExternalID)
		}
	}

	if refreshCommunity(existing, id) {
		if err := r.guilds.UpdateProfile(ctx, existing); err != nil {
			return nil, pkgerrors.Wrap(err, "update community")
		}
	}
	return existing, nil
}

// refreshUser copies changed display fields and always bumps last seen.
func refreshUser(u *user.User, id UserIdentity, now time.Time) {
	if name := strings.TrimSpace(id.Username); name != "" && name != u.Username {
		u.Username = name
	}
	if id.Discriminator != "" && id.Discriminator != u.Discriminator {
		u.Discriminator = id.Discriminator
	}
	if id.AvatarURL != "" && id.AvatarURL != u.AvatarURL {
		u.AvatarURL = id.AvatarURL
	}
	u.LastSeen = now
}

// refreshCommunity reports whether anything needs writing.
func refreshCommunity(g *guild.Guild, id CommunityIdentity) bool {
	changed := g.LeftAt != nil
	if name := strings.TrimSpace(id.Name); name != "" && name != g.Name {
		g.Name = name
		changed = true
	}
	if id.IconURL != "" && id.IconURL != g.IconURL {
		g.IconURL = id.IconURL
		changed = true
	}
	g.LeftAt = nil
	return changed
}
