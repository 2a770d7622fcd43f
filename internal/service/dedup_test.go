package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/shelf-social/internal/model"
)

func at(sec int) time.Time { return time.Unix(int64(sec), 0).UTC() }

func TestDedupLikes_KeepsNewestPerPair(t *testing.T) {
	in := []model.Like{
		{ID: "l1", UserID: "A", PostID: "P", CreatedAt: at(1)},
		{ID: "l2", UserID: "A", PostID: "P", CreatedAt: at(3)},
		{ID: "l3", UserID: "A", PostID: "P", CreatedAt: at(2)},
	}
	out := DedupLikes(in)
	require.Len(t, out, 1)
	assert.Equal(t, "l2", out[0].ID)
	assert.Equal(t, at(3), out[0].CreatedAt)

	// 输入不被修改
	assert.Equal(t, "l1", in[0].ID)
}

func TestDedupLikes_DistinctPairsSurviveNewestFirst(t *testing.T) {
	out := DedupLikes([]model.Like{
		{ID: "1", UserID: "A", PostID: "P", CreatedAt: at(1)},
		{ID: "2", UserID: "B", PostID: "P", CreatedAt: at(5)},
		{ID: "3", UserID: "A", PostID: "Q", CreatedAt: at(3)},
		{ID: "4", UserID: "B", PostID: "P", CreatedAt: at(2)},
	})
	require.Len(t, out, 3)
	assert.Equal(t, []string{"2", "3", "1"}, []string{out[0].ID, out[1].ID, out[2].ID})
}

func TestDedupLikes_EqualTimestampsLargerIDWins(t *testing.T) {
	a := model.Like{ID: "aaa", UserID: "A", PostID: "P", CreatedAt: at(7)}
	b := model.Like{ID: "bbb", UserID: "A", PostID: "P", CreatedAt: at(7)}

	assert.Equal(t, "bbb", DedupLikes([]model.Like{a, b})[0].ID)
	assert.Equal(t, "bbb", DedupLikes([]model.Like{b, a})[0].ID)
}

func TestDedupLikes_Empty(t *testing.T) {
	assert.Empty(t, DedupLikes(nil))
}
