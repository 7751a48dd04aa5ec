package badges

import (
	"context"
	"time"

	"github.com/MyelinBots/statbot-go/internal/db/repositories/badge"
	"github.com/MyelinBots/statbot-go/internal/services/identity"
	pkgerrors "github.com/pkg/errors"
)

type Service struct {
	badges   badge.BadgeRepository
	identity identity.Resolver
	now      func() time.Time
}

func NewService(badges badge.BadgeRepository, resolver identity.Resolver) *Service {
	return &Service{badges: badges, identity: resolver, now: time.Now}
}

func (s *Service) Catalog(ctx context.Context) ([]*badge.Badge, error) {
	list, err := s.badges.List(ctx)
	return list, pkgerrors.Wrap(err, "badge catalog")
}

// Grant gives key to target once. It reports false when the key is unknown;
// granting a badge the user already holds is not an error.
func (s *Service) Grant(ctx context.Context, target identity.UserIdentity, key, grantedBy, reason string) (bool, error) {
	b, err := s.badges.GetByKey(ctx, key)
	if err != nil {
		return false, pkgerrors.Wrap(err, "badge lookup")
	}
	if b == nil {
		return false, nil
	}

	now := s.now().UTC()
	u, err := s.identity.ResolveUser(ctx, target, now)
	if err != nil {
		return false, err
	}

	_, err = s.badges.Grant(ctx, &badge.UserBadge{
		UserID:    u.ID,
		BadgeID:   b.ID,
		GrantedBy: grantedBy,
		Reason:    reason,
		GrantedAt: now,
	})
	if err != nil {
		return false, pkgerrors.Wrap(err, "grant badge")
	}
	return true, nil
}

// ForUser returns up to limit badges; limit <= 0 returns all.
func (s *Service) ForUser(ctx context.Context, externalUserID string, limit int) ([]*badge.GrantedBadge, error) {
	u, err := s.identity.LookupUser(ctx, externalUserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}
	list, err := s.badges.ForUser(ctx, u.ID, limit)
	return list, pkgerrors.Wrap(err, "user badges")
}
