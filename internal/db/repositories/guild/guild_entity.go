package guild

import "time"

// Guild is a community (an IRC network, a server). XPTrackingEnabled is a
// pointer so that an explicit false survives gorm's default:true.
type Guild struct {
	ID                uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ExternalID        string     `gorm:"column:external_id;type:varchar(64);not null;uniqueIndex:ux_guilds_external_id" json:"external_id"`
	Name              string     `gorm:"column:name;type:varchar(100);not null" json:"name"`
	IconURL           string     `gorm:"column:icon_url;type:varchar(500);not null;default:''" json:"icon_url"`
	XPTrackingEnabled *bool      `gorm:"column:xp_tracking_enabled;not null;default:true" json:"xp_tracking_enabled"`
	JoinedAt          time.Time  `gorm:"column:joined_at;not null" json:"joined_at"`
	LeftAt            *time.Time `gorm:"column:left_at" json:"left_at"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// set table name
func (Guild) TableName() string {
	return "guilds"
}

// TracksXP treats an unset flag as enabled.
func (g *Guild) TracksXP() bool {
	return g.XPTrackingEnabled == nil || *g.XPTrackingEnabled
}
