package user

import "time"

// User is one platform account. GlobalXPCache is a denormalized copy of the
// sum of the user's community_stats.xp, reconciled periodically.
type User struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ExternalID    string    `gorm:"column:external_id;type:varchar(64);not null;uniqueIndex:ux_users_external_id" json:"external_id"`
	Username      string    `gorm:"column:username;type:varchar(100);not null" json:"username"`
	Discriminator string    `gorm:"column:discriminator;type:varchar(100);not null;default:''" json:"discriminator"`
	AvatarURL     string    `gorm:"column:avatar_url;type:varchar(500);not null;default:''" json:"avatar_url"`
	FirstSeen     time.Time `gorm:"column:first_seen;not null;index" json:"first_seen"`
	LastSeen      time.Time `gorm:"column:last_seen;not null;index" json:"last_seen"`
	IsBot         bool      `gorm:"column:is_bot;not null;default:false" json:"is_bot"`
	IsBanned      bool      `gorm:"column:is_banned;not null;default:false" json:"is_banned"`
	GlobalXPCache uint64    `gorm:"column:global_xp_cache;type:bigint;not null;default:0" json:"global_xp_cache"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// set table name
func (User) TableName() string {
	return "users"
}
