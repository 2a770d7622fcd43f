package service

import (
	"sort"

	"github.com/d60-Lab/shelf-social/internal/model"
)

// SortFeedItems orders items newest first; equal timestamps fall back to post id ascending.
func SortFeedItems(items []model.FeedItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.PostID < b.PostID
	})
}

var activityKindRank = map[model.ActivityKind]int{
	model.ActivityPostLiked:    0,
	model.ActivityUserFollowed: 1,
}

// SortActivityEvents orders events newest first. Ties: post_liked before
// user_followed, then actor id ascending, then post id ascending.
func SortActivityEvents(events []model.ActivityEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		if ra, rb := activityKindRank[a.Kind], activityKindRank[b.Kind]; ra != rb {
			return ra < rb
		}
		if a.ActorID != b.ActorID {
			return a.ActorID < b.ActorID
		}
		return deref(a.PostID) < deref(b.PostID)
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
