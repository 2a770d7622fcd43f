package model

import "time"

// FeedItem is one rendered post in the following feed.
type FeedItem struct {
	PostID    string           `json:"post_id"`
	Author    *ProfileSnapshot `json:"author"`
	AuthorID  string           `json:"author_id"`
	Kind      PostKind         `json:"kind"`
	Status    *ShelfStatus     `json:"status,omitempty"`
	Paper     *Paper           `json:"paper"`
	LikeCount int              `json:"like_count"`
	LikedByMe bool             `json:"liked_by_me"`
	CreatedAt time.Time        `json:"created_at"`
}

// Feed 关注时间线；Empty 表示“暂无动态”，与错误区分
type Feed struct {
	Items    []FeedItem        `json:"items"`
	Empty    bool              `json:"empty"`
	Matches  []ProfileSnapshot `json:"matches,omitempty"`
	Degraded []string          `json:"degraded,omitempty"`
}

type ActivityKind string

const (
	ActivityPostLiked    ActivityKind = "post_liked"
	ActivityUserFollowed ActivityKind = "user_followed"
)

// ActivityEvent 由点赞与关注派生，从不落库
type ActivityEvent struct {
	Kind      ActivityKind     `json:"kind"`
	ActorID   string           `json:"actor_id"`
	Actor     *ProfileSnapshot `json:"actor"`
	PostID    *string          `json:"post_id,omitempty"`
	PostKind  *PostKind        `json:"post_kind,omitempty"`
	Status    *ShelfStatus     `json:"status,omitempty"`
	Paper     *Paper           `json:"paper"`
	CreatedAt time.Time        `json:"created_at"`
}

// Activity 发生在“我”身上的动态（被点赞 / 被关注）
type Activity struct {
	Events   []ActivityEvent `json:"events"`
	Empty    bool            `json:"empty"`
	Degraded []string        `json:"degraded,omitempty"`
}

// FollowEntry 粉丝或关注列表中的一项；资料缺失时 Profile 为 nil
type FollowEntry struct {
	UserID    string           `json:"user_id"`
	Profile   *ProfileSnapshot `json:"profile"`
	CreatedAt time.Time        `json:"created_at"`
}

// LibraryEntry 书架条目与论文详情
type LibraryEntry struct {
	PaperID    string      `json:"paper_id"`
	Status     ShelfStatus `json:"status"`
	Paper      *Paper      `json:"paper"`
	InsertedAt time.Time   `json:"inserted_at"`
}

// ProfileOverview 个人主页汇总
type ProfileOverview struct {
	Profile      ProfileSnapshot `json:"profile"`
	Bio          string          `json:"bio,omitempty"`
	Counts       FollowCounts    `json:"counts"`
	LibraryCount int64           `json:"library_count"`
	PostCount    int64           `json:"post_count"`
	IsFollowing  bool            `json:"is_following"`
	IsSelf       bool            `json:"is_self"`
	Degraded     []string        `json:"degraded,omitempty"`
}

// FollowList 粉丝 / 关注列表
type FollowList struct {
	Entries  []FollowEntry `json:"entries"`
	Degraded []string      `json:"degraded,omitempty"`
}

// LibraryList 书架列表
type LibraryList struct {
	Entries  []LibraryEntry `json:"entries"`
	Degraded []string       `json:"degraded,omitempty"`
}
