package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/shelf-social/internal/model"
	"github.com/d60-Lab/shelf-social/internal/service"
)

func newRelationshipService(e *env) service.RelationshipService {
	return service.NewRelationshipService(e.follows, e.profiles, e.joiner, nil)
}

func TestFollow_IsIdempotent(t *testing.T) {
	e := newEnv(t)
	e.profile(t, "me", "me", "")
	e.profile(t, "you", "you", "")
	svc := newRelationshipService(e)
	ctx := context.Background()

	before, err := svc.FollowCounts(ctx, "you")
	require.NoError(t, err)

	require.NoError(t, svc.Follow(ctx, "me", "you"))
	require.NoError(t, svc.Follow(ctx, "me", "you"))

	after, err := svc.FollowCounts(ctx, "you")
	require.NoError(t, err)
	assert.Equal(t, before.Followers+1, after.Followers)

	mine, err := svc.FollowCounts(ctx, "me")
	require.NoError(t, err)
	assert.Equal(t, model.FollowCounts{Followers: 0, Following: 1}, mine)

	ok, err := svc.IsFollowing(ctx, "me", "you")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFollow_RejectsSelfAndUnknownTarget(t *testing.T) {
	e := newEnv(t)
	e.profile(t, "me", "me", "")
	svc := newRelationshipService(e)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Follow(ctx, "me", "me"), service.ErrFollowSelf)
	assert.ErrorIs(t, svc.Follow(ctx, "me", "ghost"), service.ErrUserNotFound)

	counts, err := svc.FollowCounts(ctx, "me")
	require.NoError(t, err)
	assert.Zero(t, counts.Followers)
	assert.Zero(t, counts.Following)
}

func TestUnfollow_MissingEdgeIsNoop(t *testing.T) {
	e := newEnv(t)
	e.profile(t, "me", "me", "")
	e.profile(t, "you", "you", "")
	svc := newRelationshipService(e)
	ctx := context.Background()

	require.NoError(t, svc.Unfollow(ctx, "me", "you"))

	require.NoError(t, svc.Follow(ctx, "me", "you"))
	require.NoError(t, svc.Unfollow(ctx, "me", "you"))
	ok, err := svc.IsFollowing(ctx, "me", "you")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListFollowers_JoinsProfiles(t *testing.T) {
	e := newEnv(t)
	e.profile(t, "me", "me", "")
	e.profile(t, "a", "ann", "Ann")
	e.follow(t, "a", "me", at(1))
	e.follow(t, "deleted", "me", at(2))
	svc := newRelationshipService(e)

	list, err := svc.ListFollowers(context.Background(), "me")
	require.NoError(t, err)
	require.Len(t, list.Entries, 2)
	assert.Equal(t, "deleted", list.Entries[0].UserID)
	assert.Nil(t, list.Entries[0].Profile)
	assert.Equal(t, "ann", list.Entries[1].Profile.Username)

	following, err := svc.ListFollowing(context.Background(), "a")
	require.NoError(t, err)
	require.Len(t, following.Entries, 1)
	assert.Equal(t, "me", following.Entries[0].UserID)
}
