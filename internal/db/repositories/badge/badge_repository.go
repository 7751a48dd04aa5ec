package badge

import (
	"context"
	"errors"
	"strings"

	"github.com/MyelinBots/statbot-go/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BadgeRepository interface {
	GetByKey(ctx context.Context, key string) (*Badge, error)
	List(ctx context.Context) ([]*Badge, error)
	Create(ctx context.Context, b *Badge) error

	// Grant reports whether a new grant row was written.
	Grant(ctx context.Context, ub *UserBadge) (bool, error)
	ForUser(ctx context.Context, userID uint64, limit int) ([]*GrantedBadge, error)
}

type BadgeRepositoryImpl struct {
	db *db.DB
}

func NewBadgeRepository(database *db.DB) BadgeRepository {
	return &BadgeRepositoryImpl{db: database}
}

func NormalizeKey(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (r *BadgeRepositoryImpl) GetByKey(ctx context.Context, key string) (*Badge, error) {
	var b Badge
	err := r.db.DB.WithContext(ctx).Where("key = ?", NormalizeKey(key)).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *BadgeRepositoryImpl) List(ctx context.Context) ([]*Badge, error) {
	var badges []*Badge
	if err := r.db.DB.WithContext(ctx).
		Order("display_order ASC, name ASC").
		Find(&badges).Error; err != nil {
		return nil, err
	}
	return badges, nil
}

func (r *BadgeRepositoryImpl) Create(ctx context.Context, b *Badge) error {
	b.Key = NormalizeKey(b.Key)
	return r.db.DB.WithContext(ctx).Create(b).Error
}

func (r *BadgeRepositoryImpl) Grant(ctx context.Context, ub *UserBadge) (bool, error) {
	res := r.db.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
			DoNothing: true,
		}).
		Create(ub)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *BadgeRepositoryImpl) ForUser(ctx context.Context, userID uint64, limit int) ([]*GrantedBadge, error) {
	var rows []*GrantedBadge
	q := r.db.DB.WithContext(ctx).
		Table("user_badges AS ub").
		Select("b.key, b.name, b.emoji, b.display_order, ub.granted_by, ub.reason, ub.granted_at").
		Joins("JOIN badges b ON b.id = ub.badge_id").
		Where("ub.user_id = ?", userID).
		Order("b.display_order ASC, ub.granted_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
