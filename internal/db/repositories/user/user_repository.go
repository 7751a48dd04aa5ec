package user

//go:generate mockgen -source=user_repository.go -destination=mocks/mock_user_repository.go -package=mocks

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MyelinBots/statbot-go/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uint64) (*User, error)
	GetByExternalID(ctx context.Context, externalID string) (*User, error)

	// Create inserts a new row. A concurrent insert of the same external id
	// surfaces as gorm.ErrDuplicatedKey.
	Create(ctx context.Context, u *User) error
	// UpdateProfile writes display fields and last_seen only, never counters.
	UpdateProfile(ctx context.Context, u *User) error
	// Upsert inserts or refreshes display fields in one statement.
	Upsert(ctx context.Context, u *User) error

	SetBanned(ctx context.Context, externalID string, banned bool) (bool, error)
}

type UserRepositoryImpl struct {
	db *db.DB
}

func NewUserRepository(database *db.DB) UserRepository {
	return &UserRepositoryImpl{db: database}
}

// NormalizeExternalID trims and lowercases a platform id.
func NormalizeExternalID(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (r *UserRepositoryImpl) GetByID(ctx context.Context, id uint64) (*User, error) {
	var u User
	err := r.db.DB.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepositoryImpl) GetByExternalID(ctx context.Context, externalID string) (*User, error) {
	var u User
	err := r.db.DB.WithContext(ctx).
		Where("external_id = ?", NormalizeExternalID(externalID)).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepositoryImpl) Create(ctx context.Context, u *User) error {
	u.ExternalID = NormalizeExternalID(u.ExternalID)
	return r.db.DB.WithContext(ctx).Create(u).Error
}

func (r *UserRepositoryImpl) UpdateProfile(ctx context.Context, u *User) error {
	return r.db.DB.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", u.ID).
		Updates(map[string]interface{}{
			"username":      u.Username,
			"discriminator": u.Discriminator,
			"avatar_url":    u.AvatarURL,
			"last_seen":     u.LastSeen,
		}).Error
}

func (r *UserRepositoryImpl) Upsert(ctx context.Context, u *User) error {
	u.ExternalID = NormalizeExternalID(u.ExternalID)
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = time.Now().UTC()
	}
	return r.db.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_id"}},
			DoUpdates: append(
				clause.AssignmentColumns([]string{"username", "last_seen", "updated_at"}),
				keepIfEmpty("discriminator"),
				keepIfEmpty("avatar_url"),
			),
		}).
		Create(u).Error
}

// SetBanned reports false when the user does not exist.
func (r *UserRepositoryImpl) SetBanned(ctx context.Context, externalID string, banned bool) (bool, error) {
	res := r.db.DB.WithContext(ctx).
		Model(&User{}).
		Where("external_id = ?", NormalizeExternalID(externalID)).
		Update("is_banned", banned)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	u, err := r.GetByExternalID(ctx, externalID)
	if err != nil {
		return false, err
	}
	return u != nil, nil
}

// keepIfEmpty leaves the stored value alone when the incoming one is blank.
func keepIfEmpty(column string) clause.Assignment {
	return clause.Assignment{
		Column: clause.Column{Name: column},
		Value:  gorm.Expr("COALESCE(NULLIF(excluded." + column + ", ''), users." + column + ")"),
	}
}
