package model

import "time"

// Like 点赞记录。同一 (user, post) 可能因并发切换存在多行，读取时去重。
type Like struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `gorm:"type:varchar(36);index:idx_like_user_post;not null"`
	PostID    string    `gorm:"type:varchar(36);index:idx_like_user_post;index:idx_like_post;not null"`
	CreatedAt time.Time `gorm:"index"`
}

func (Like) TableName() string { return "post_likes" }

// LikeKey identifies one (actor, post) like pair.
type LikeKey struct {
	UserID string
	PostID string
}

func (l Like) Key() LikeKey { return LikeKey{UserID: l.UserID, PostID: l.PostID} }
