package stats

import (
	"context"
	"time"

	"github.com/MyelinBots/statbot-go/internal/counter"
	"github.com/MyelinBots/statbot-go/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Increment is one already-validated counter mutation. An empty ChannelID
// skips the channel row.
type Increment struct {
	UserID    uint64
	GuildID   uint64
	ChannelID string
	XP        uint64
	Messages  uint64
	At        time.Time
}

type StatsRepository interface {
	// Apply writes the community row, the channel row and the user's global
	// cache in one transaction.
	Apply(ctx context.Context, inc Increment) error

	ListForUser(ctx context.Context, userID uint64) ([]*CommunityStat, error)
	GetCommunityStat(ctx context.Context, userID, guildID uint64) (*CommunityStat, error)
	GetChannelStat(ctx context.Context, userID, guildID uint64, channelID string) (*ChannelStat, error)

	TopByCommunity(ctx context.Context, guildID uint64, limit int) ([]*RankedRow, error)
	TopByChannel(ctx context.Context, guildID uint64, channelID string, limit int) ([]*RankedRow, error)
	TopGlobal(ctx context.Context, limit int) ([]*RankedRow, error)
	// MessageTotals sums community message counters per user.
	MessageTotals(ctx context.Context, userIDs []uint64) (map[uint64]uint64, error)
}

type StatsRepositoryImpl struct {
	db *db.DB
}

func NewStatsRepository(database *db.DB) StatsRepository {
	return &StatsRepositoryImpl{db: database}
}

// saturatingAdd builds "col + delta" capped at counter.Max. The column is
// qualified so it refers to the existing row inside ON CONFLICT DO UPDATE.
func saturatingAdd(column string, delta uint64) clause.Expr {
	if delta > counter.Max {
		delta = counter.Max
	}
	ceiling := int64(counter.Max)
	d := int64(delta)
	return gorm.Expr("CASE WHEN "+column+" > ? THEN ? ELSE "+column+" + ? END", ceiling-d, ceiling, d)
}

func (r *StatsRepositoryImpl) Apply(ctx context.Context, inc Increment) error {
	at := inc.At.UTC()
	xp := min(inc.XP, counter.Max)
	msgs := min(inc.Messages, counter.Max)

	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cs := CommunityStat{
			UserID:         inc.UserID,
			GuildID:        inc.GuildID,
			XP:             xp,
			Messages:       msgs,
			LastActivityAt: &at,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "guild_id"}},
			DoUpdates: clause.Set{
				{Column: clause.Column{Name: "xp"}, Value: saturatingAdd("community_stats.xp", xp)},
				{Column: clause.Column{Name: "messages"}, Value: saturatingAdd("community_stats.messages", msgs)},
				{Column: clause.Column{Name: "last_activity_at"}, Value: at},
			},
		}).Create(&cs).Error; err != nil {
			return err
		}

		if channel := NormalizeChannel(inc.ChannelID); channel != "" {
			chs := ChannelStat{
				UserID:         inc.UserID,
				GuildID:        inc.GuildID,
				ChannelID:      channel,
				XP:             xp,
				Messages:       msgs,
				LastActivityAt: &at,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}, {Name: "guild_id"}, {Name: "channel_id"}},
				DoUpdates: clause.Set{
					{Column: clause.Column{Name: "xp"}, Value: saturatingAdd("channel_stats.xp", xp)},
					{Column: clause.Column{Name: "messages"}, Value: saturatingAdd("channel_stats.messages", msgs)},
					{Column: clause.Column{Name: "last_activity_at"}, Value: at},
				},
			}).Create(&chs).Error; err != nil {
				return err
			}
		}

		if xp == 0 {
			return nil
		}
		return tx.Table("users").
			Where("id = ?", inc.UserID).
			Update("global_xp_cache", saturatingAdd("global_xp_cache", xp)).Error
	})
}

func (r *StatsRepositoryImpl) ListForUser(ctx context.Context, userID uint64) ([]*CommunityStat, error) {
	var rows []*CommunityStat
	if err := r.db.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *StatsRepositoryImpl) GetCommunityStat(ctx context.Context, userID, guildID uint64) (*CommunityStat, error) {
	var rows []*CommunityStat
	if err := r.db.DB.WithContext(ctx).
		Where("user_id = ? AND guild_id = ?", userID, guildID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *StatsRepositoryImpl) GetChannelStat(ctx context.Context, userID, guildID uint64, channelID string) (*ChannelStat, error) {
	var rows []*ChannelStat
	if err := r.db.DB.WithContext(ctx).
		Where("user_id = ? AND guild_id = ? AND channel_id = ?", userID, guildID, NormalizeChannel(channelID)).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *StatsRepositoryImpl) TopByCommunity(ctx context.Context, guildID uint64, limit int) ([]*RankedRow, error) {
	var rows []*RankedRow
	err := r.db.DB.WithContext(ctx).
		Table("community_stats AS s").
		Select("s.id, s.user_id, u.external_id, u.username, s.xp, s.messages").
		Joins("JOIN users u ON u.id = s.user_id").
		Where("s.guild_id = ? AND s.xp > 0", guildID).
		Order("s.xp DESC, s.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *StatsRepositoryImpl) TopByChannel(ctx context.Context, guildID uint64, channelID string, limit int) ([]*RankedRow, error) {
	var rows []*RankedRow
	err := r.db.DB.WithContext(ctx).
		Table("channel_stats AS s").
		Select("s.id, s.user_id, u.external_id, u.username, s.xp, s.messages").
		Joins("JOIN users u ON u.id = s.user_id").
		Where("s.guild_id = ? AND s.channel_id = ? AND s.xp > 0", guildID, NormalizeChannel(channelID)).
		Order("s.xp DESC, s.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TopGlobal ranks by the cached total and skips bots, banned and idle users.
func (r *StatsRepositoryImpl) TopGlobal(ctx context.Context, limit int) ([]*RankedRow, error) {
	var rows []*RankedRow
	err := r.db.DB.WithContext(ctx).
		Table("users").
		Select("id, id AS user_id, external_id, username, global_xp_cache AS xp").
		Where("is_bot = ? AND is_banned = ? AND global_xp_cache > 0", false, false).
		Order("global_xp_cache DESC, id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *StatsRepositoryImpl) MessageTotals(ctx context.Context, userIDs []uint64) (map[uint64]uint64, error) {
	totals := make(map[uint64]uint64, len(userIDs))
	if len(userIDs) == 0 {
		return totals, nil
	}

	var rows []*CommunityStat
	if err := r.db.DB.WithContext(ctx).
		Select("user_id", "messages").
		Where("user_id IN ?", userIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		totals[row.UserID] = counter.Add(totals[row.UserID], row.Messages)
	}
	return totals, nil
}
