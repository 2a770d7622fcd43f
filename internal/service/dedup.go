package service

import (
	"sort"

	"github.com/d60-Lab/shelf-social/internal/model"
)

// DedupLikes collapses like rows to exactly one per (user, post) pair, keeping the
// most recent. Rows with equal timestamps are ordered by id descending, so the
// row with the larger id wins regardless of input order. The result is sorted
// newest first. The input slice is not modified.
func DedupLikes(likes []model.Like) []model.Like {
	if len(likes) == 0 {
		return nil
	}
	sorted := make([]model.Like, len(likes))
	copy(sorted, likes)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})

	seen := make(map[model.LikeKey]struct{}, len(sorted))
	out := make([]model.Like, 0, len(sorted))
	for _, l := range sorted {
		k := l.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, l)
	}
	return out
}
