package reconcile

import (
	"context"
	"time"

	"github.com/MyelinBots/statbot-go/internal/counter"
	"github.com/MyelinBots/statbot-go/internal/db"
	"github.com/MyelinBots/statbot-go/internal/db/repositories/stats"
	"github.com/MyelinBots/statbot-go/internal/db/repositories/user"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

type correction struct {
	userID uint64
	value  uint64
}

// Fallback recomputes every cache in the application and writes only the
// values that differ. Users without community rows converge to zero.
func Fallback(ctx context.Context, database *db.DB) (int64, error) {
	sums, err := sumCommunityXP(ctx, database)
	if err != nil {
		return 0, err
	}

	pending, err := diffCaches(ctx, database, sums)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	var changed int64
	now := time.Now().UTC()
	err = database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range pending {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := tx.Model(&user.User{}).
				Where("id = ? AND global_xp_cache <> ?", c.userID, c.value).
				UpdateColumns(map[string]interface{}{
					"global_xp_cache": c.value,
					"updated_at":      now,
				})
			if res.Error != nil {
				return res.Error
			}
			changed += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, pkgerrors.Wrap(err, "write corrected caches")
	}
	return changed, nil
}

// sumCommunityXP streams (user_id, xp) so memory grows with users, not rows.
func sumCommunityXP(ctx context.Context, database *db.DB) (map[uint64]*counter.Accumulator, error) {
	rows, err := database.DB.WithContext(ctx).
		Model(&stats.CommunityStat{}).
		Select("user_id", "xp").
		Rows()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "read community xp")
	}
	defer rows.Close()

	sums := make(map[uint64]*counter.Accumulator)
	for rows.Next() {
		var userID, xp uint64
		if err := rows.Scan(&userID, &xp); err != nil {
			return nil, pkgerrors.Wrap(err, "scan community xp")
		}
		acc, ok := sums[userID]
		if !ok {
			acc = &counter.Accumulator{}
			sums[userID] = acc
		}
		acc.Add(xp)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, "iterate community xp")
	}
	return sums, nil
}

func diffCaches(ctx context.Context, database *db.DB, sums map[uint64]*counter.Accumulator) ([]correction, error) {
	rows, err := database.DB.WithContext(ctx).
		Model(&user.User{}).
		Select("id", "global_xp_cache").
		Order("id ASC").
		Rows()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "read user caches")
	}
	defer rows.Close()

	var pending []correction
	for rows.Next() {
		var id, cached uint64
		if err := rows.Scan(&id, &cached); err != nil {
			return nil, pkgerrors.Wrap(err, "scan user cache")
		}
		var want uint64
		if acc, ok := sums[id]; ok {
			want = acc.Value()
		}
		if cached != want {
			pending = append(pending, correction{userID: id, value: want})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, "iterate user caches")
	}
	return pending, nil
}
