package model

import (
	"time"
)

// Follow 关注关系（A 关注 B）
type Follow struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	FollowerID  string `gorm:"type:varchar(36);index:idx_follow_follower;uniqueIndex:ux_follow_pair;not null"`
	FollowingID string `gorm:"type:varchar(36);index:idx_follow_following;uniqueIndex:ux_follow_pair;not null"`
	// 复合唯一键，避免重复关注
	// ux_follow_pair = (follower_id, following_id)
	CreatedAt time.Time `gorm:"index"`
}

func (Follow) TableName() string { return "follows" }

// FollowCounts 粉丝数 / 关注数
type FollowCounts struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}
