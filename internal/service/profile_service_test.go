package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/shelf-social/internal/model"
	"github.com/d60-Lab/shelf-social/internal/service"
)

func newProfileService(e *env) service.ProfileService {
	return service.NewProfileService(e.profiles, e.follows, e.posts, e.library, e.accounts, e.cache, e.tx, nil)
}

func TestRegister_CreatesProfileAndJoinedPost(t *testing.T) {
	e := newEnv(t)
	svc := newProfileService(e)
	ctx := context.Background()

	p, err := svc.Register(ctx, "u1", service.ProfileInput{Username: "  Ann.Lee ", DisplayName: "Ann Lee"})
	require.NoError(t, err)
	assert.Equal(t, "ann.lee", p.Username)

	posts, err := e.posts.ListByAuthors(ctx, []string{"u1"}, 10)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, model.PostUserJoined, posts[0].Kind)

	_, err = svc.Register(ctx, "u1", service.ProfileInput{Username: "another"})
	assert.ErrorIs(t, err, service.ErrProfileExists)

	_, err = svc.Register(ctx, "u2", service.ProfileInput{Username: "ANN.LEE"})
	assert.ErrorIs(t, err, service.ErrUsernameTaken)
}

func TestRegister_PostFailureLeavesNoProfile(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	broken := service.NewProfileService(e.profiles, e.follows, rejectingPosts{e.posts}, e.library, e.accounts, e.cache, e.tx, nil)
	_, err := broken.Register(ctx, "u1", service.ProfileInput{Username: "ann"})
	require.ErrorIs(t, err, assert.AnError)

	p, err := e.profiles.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, p)

	_, err = newProfileService(e).Register(ctx, "u1", service.ProfileInput{Username: "ann"})
	require.NoError(t, err)
	posts, err := e.posts.ListByAuthors(ctx, []string{"u1"}, 10)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, model.PostUserJoined, posts[0].Kind)
}

func TestRegister_ValidatesUsername(t *testing.T) {
	e := newEnv(t)
	svc := newProfileService(e)

	for _, name := range []string{"", "ab", "has space", "way_too_long_username_here", "emoji😀"} {
		_, err := svc.Register(context.Background(), "u1", service.ProfileInput{Username: name})
		assert.ErrorIs(t, err, service.ErrInvalidUsername, name)
	}
}

func TestOverview_CountsAndFollowState(t *testing.T) {
	e := newEnv(t)
	e.profile(t, "me", "me", "")
	e.profile(t, "you", "you", "You")
	e.follow(t, "me", "you", at(1))
	e.post(t, "p1", "you", at(2), "")
	require.NoError(t, e.library.Create(context.Background(), &model.LibraryItem{UserID: "you", PaperID: "W1", Status: model.StatusRead, InsertedAt: at(2)}))
	svc := newProfileService(e)

	ov, err := svc.Overview(context.Background(), "me", "YOU")
	require.NoError(t, err)
	require.NotNil(t, ov)
	assert.Equal(t, "you", ov.Profile.Username)
	assert.Equal(t, model.FollowCounts{Followers: 1, Following: 0}, ov.Counts)
	assert.Equal(t, int64(1), ov.PostCount)
	assert.Equal(t, int64(1), ov.LibraryCount)
	assert.True(t, ov.IsFollowing)
	assert.False(t, ov.IsSelf)
	assert.Empty(t, ov.Degraded)

	self, err := svc.Overview(context.Background(), "you", "you")
	require.NoError(t, err)
	assert.True(t, self.IsSelf)
	assert.False(t, self.IsFollowing)

	missing, err := svc.Overview(context.Background(), "me", "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUpdate_UsernameTaken(t *testing.T) {
	e := newEnv(t)
	e.profile(t, "a", "ann", "")
	e.profile(t, "b", "bob", "")
	svc := newProfileService(e)
	ctx := context.Background()

	_, err := svc.Update(ctx, "b", service.ProfileInput{Username: "ann"})
	assert.ErrorIs(t, err, service.ErrUsernameTaken)

	p, err := svc.Update(ctx, "b", service.ProfileInput{Username: "bobby", DisplayName: "Bobby", Bio: "reads papers"})
	require.NoError(t, err)
	assert.Equal(t, "bobby", p.Username)

	got, err := svc.GetByUsername(ctx, "Bobby")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "reads papers", got.Bio)

	_, err = svc.Update(ctx, "ghost", service.ProfileInput{Username: "ghost"})
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestDeleteMyData_KeepsOthersEdgesToMe(t *testing.T) {
	e := newEnv(t)
	e.profile(t, "me", "me", "")
	e.profile(t, "you", "you", "")
	e.follow(t, "me", "you", at(1))
	e.follow(t, "you", "me", at(1))
	e.post(t, "p1", "me", at(2), "")
	e.like(t, "l1", "me", "p1", at(3))
	svc := newProfileService(e)
	ctx := context.Background()

	require.NoError(t, svc.DeleteMyData(ctx, "me"))

	p, err := e.profiles.GetByID(ctx, "me")
	require.NoError(t, err)
	assert.Nil(t, p)

	mine, err := e.follows.CountFollowing(ctx, "me")
	require.NoError(t, err)
	assert.Zero(t, mine)
	theirs, err := e.follows.CountFollowing(ctx, "you")
	require.NoError(t, err)
	assert.Equal(t, int64(1), theirs)
}
