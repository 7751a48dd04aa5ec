package stats

import "time"

// CommunityStat is the authoritative per (user, community) counter row.
type CommunityStat struct {
	ID             uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID         uint64     `gorm:"column:user_id;not null;uniqueIndex:ux_community_stats_user_guild,priority:1" json:"user_id"`
	GuildID        uint64     `gorm:"column:guild_id;not null;uniqueIndex:ux_community_stats_user_guild,priority:2;index" json:"guild_id"`
	XP             uint64     `gorm:"column:xp;type:bigint;not null;default:0" json:"xp"`
	Messages       uint64     `gorm:"column:messages;type:bigint;not null;default:0" json:"messages"`
	LastActivityAt *time.Time `gorm:"column:last_activity_at" json:"last_activity_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// set table name
func (CommunityStat) TableName() string {
	return "community_stats"
}

// ChannelStat is the same counter shape scoped to one channel.
type ChannelStat struct {
	ID             uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID         uint64     `gorm:"column:user_id;not null;uniqueIndex:ux_channel_stats_user_guild_channel,priority:1" json:"user_id"`
	GuildID        uint64     `gorm:"column:guild_id;not null;uniqueIndex:ux_channel_stats_user_guild_channel,priority:2;index:idx_channel_stats_scope,priority:1" json:"guild_id"`
	ChannelID      string     `gorm:"column:channel_id;type:varchar(100);not null;uniqueIndex:ux_channel_stats_user_guild_channel,priority:3;index:idx_channel_stats_scope,priority:2" json:"channel_id"`
	XP             uint64     `gorm:"column:xp;type:bigint;not null;default:0" json:"xp"`
	Messages       uint64     `gorm:"column:messages;type:bigint;not null;default:0" json:"messages"`
	LastActivityAt *time.Time `gorm:"column:last_activity_at" json:"last_activity_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// set table name
func (ChannelStat) TableName() string {
	return "channel_stats"
}

// RankedRow is a stat row joined with its owner for leaderboards.
type RankedRow struct {
	ID         uint64 `gorm:"column:id"`
	UserID     uint64 `gorm:"column:user_id"`
	ExternalID string `gorm:"column:external_id"`
	Username   string `gorm:"column:username"`
	XP         uint64 `gorm:"column:xp"`
	Messages   uint64 `gorm:"column:messages"`
}
