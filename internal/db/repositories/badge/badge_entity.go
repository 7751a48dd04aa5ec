package badge

import "time"

type Badge struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Key          string    `gorm:"column:key;type:varchar(64);not null;uniqueIndex:ux_badges_key" json:"key"`
	Name         string    `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Description  string    `gorm:"column:description;type:varchar(500);not null;default:''" json:"description"`
	Emoji        string    `gorm:"column:emoji;type:varchar(32);not null;default:''" json:"emoji"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0" json:"display_order"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// set table name
func (Badge) TableName() string {
	return "badges"
}

// UserBadge grants one badge to one user, at most once.
type UserBadge struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    uint64    `gorm:"column:user_id;not null;uniqueIndex:ux_user_badges_user_badge,priority:1" json:"user_id"`
	BadgeID   uint64    `gorm:"column:badge_id;not null;uniqueIndex:ux_user_badges_user_badge,priority:2" json:"badge_id"`
	GrantedBy string    `gorm:"column:granted_by;type:varchar(64);not null;default:''" json:"granted_by"`
	Reason    string    `gorm:"column:reason;type:varchar(500);not null;default:''" json:"reason"`
	GrantedAt time.Time `gorm:"column:granted_at;not null" json:"granted_at"`
}

// set table name
func (UserBadge) TableName() string {
	return "user_badges"
}

// GrantedBadge is a badge as held by a user.
type GrantedBadge struct {
	Key          string    `gorm:"column:key" json:"key"`
	Name         string    `gorm:"column:name" json:"name"`
	Emoji        string    `gorm:"column:emoji" json:"emoji"`
	DisplayOrder int       `gorm:"column:display_order" json:"display_order"`
	GrantedBy    string    `gorm:"column:granted_by" json:"granted_by"`
	Reason       string    `gorm:"column:reason" json:"reason"`
	GrantedAt    time.Time `gorm:"column:granted_at" json:"granted_at"`
}
