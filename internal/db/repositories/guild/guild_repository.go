package guild

//go:generate mockgen -source=guild_repository.go -destination=mocks/mock_guild_repository.go -package=mocks

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MyelinBots/statbot-go/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GuildRepository interface {
	GetByID(ctx context.Context, id uint64) (*Guild, error)
	GetByExternalID(ctx context.Context, externalID string) (*Guild, error)

	// Create inserts a new row. A concurrent insert of the same external id
	// surfaces as gorm.ErrDuplicatedKey.
	Create(ctx context.Context, g *Guild) error
	// UpdateProfile writes name and icon and clears left_at.
	UpdateProfile(ctx context.Context, g *Guild) error
	Upsert(ctx context.Context, g *Guild) error

	SetXPTracking(ctx context.Context, externalID string, enabled bool) (bool, error)
	MarkLeft(ctx context.Context, externalID string, at time.Time) error
}

type GuildRepositoryImpl struct {
	db *db.DB
}

func NewGuildRepository(database *db.DB) GuildRepository {
	return &GuildRepositoryImpl{db: database}
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (r *GuildRepositoryImpl) GetByID(ctx context.Context, id uint64) (*Guild, error) {
	var g Guild
	err := r.db.DB.WithContext(ctx).Where("id = ?", id).First(&g).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *GuildRepositoryImpl) GetByExternalID(ctx context.Context, externalID string) (*Guild, error) {
	var g Guild
	err := r.db.DB.WithContext(ctx).Where("external_id = ?", norm(externalID)).First(&g).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *GuildRepositoryImpl) Create(ctx context.Context, g *Guild) error {
	g.ExternalID = norm(g.ExternalID)
	return r.db.DB.WithContext(ctx).Create(g).Error
}

func (r *GuildRepositoryImpl) UpdateProfile(ctx context.Context, g *Guild) error {
	return r.db.DB.WithContext(ctx).
		Model(&Guild{}).
		Where("id = ?", g.ID).
		Updates(map[string]interface{}{
			"name":     g.Name,
			"icon_url": g.IconURL,
			"left_at":  nil,
		}).Error
}

func (r *GuildRepositoryImpl) Upsert(ctx context.Context, g *Guild) error {
	g.ExternalID = norm(g.ExternalID)
	if g.UpdatedAt.IsZero() {
		g.UpdatedAt = time.Now().UTC()
	}
	return r.db.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"name":       g.Name,
				"icon_url":   gorm.Expr("COALESCE(NULLIF(excluded.icon_url, ''), guilds.icon_url)"),
				"left_at":    nil,
				"updated_at": g.UpdatedAt,
			}),
		}).
		Create(g).Error
}

// SetXPTracking reports false when the community does not exist.
func (r *GuildRepositoryImpl) SetXPTracking(ctx context.Context, externalID string, enabled bool) (bool, error) {
	res := r.db.DB.WithContext(ctx).
		Model(&Guild{}).
		Where("external_id = ?", norm(externalID)).
		Update("xp_tracking_enabled", enabled)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GuildRepositoryImpl) MarkLeft(ctx context.Context, externalID string, at time.Time) error {
	return r.db.DB.WithContext(ctx).
		Model(&Guild{}).
		Where("external_id = ?", norm(externalID)).
		Update("left_at", at.UTC()).Error
}
