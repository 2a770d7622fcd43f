package model

import "time"

type PostKind string

const (
	PostAddedToShelf   PostKind = "added_to_shelf"
	PostStatusChanged  PostKind = "status_changed"
	PostAddedToLibrary PostKind = "added_to_library"
	PostUserJoined     PostKind = "user_joined"
	PostFollowed       PostKind = "followed"
)

// Post 用户产生的动态，创建后不可变
type Post struct {
	ID        string       `gorm:"primaryKey;type:varchar(36)"`
	UserID    string       `gorm:"type:varchar(36);index:idx_post_user_created;not null"`
	Kind      PostKind     `gorm:"column:type;type:varchar(32);not null"`
	PaperID   *string      `gorm:"type:varchar(64)"`
	Status    *ShelfStatus `gorm:"type:varchar(16)"`
	CreatedAt time.Time    `gorm:"index:idx_post_user_created"`
}

func (Post) TableName() string { return "posts" }
