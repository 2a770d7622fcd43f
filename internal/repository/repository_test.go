package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/shelf-social/internal/model"
	"github.com/d60-Lab/shelf-social/internal/repository"
	"github.com/d60-Lab/shelf-social/internal/repository/repotest"
)

func TestIsDuplicate(t *testing.T) {
	assert.False(t, repository.IsDuplicate(nil))
	assert.False(t, repository.IsDuplicate(errors.New("connection refused")))
	assert.True(t, repository.IsDuplicate(gorm.ErrDuplicatedKey))
	assert.True(t, repository.IsDuplicate(&pgconn.PgError{Code: "23505"}))
	assert.False(t, repository.IsDuplicate(&pgconn.PgError{Code: "23503"}))
}

func TestFollowRepository_DuplicateIsClassified(t *testing.T) {
	db := repotest.NewDB(t)
	repo := repository.NewFollowRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "a", "b"))
	err := repo.Create(ctx, "a", "b")
	require.Error(t, err)
	assert.True(t, repository.IsDuplicate(err))

	// 反向边是另一条边
	require.NoError(t, repo.Create(ctx, "b", "a"))

	followers, err := repo.CountFollowers(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, int64(1), followers)

	ok, err := repo.Exists(ctx, "a", "b")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.Delete(ctx, "a", "b"))
	require.NoError(t, repo.Delete(ctx, "a", "b"))
	ok, err = repo.Exists(ctx, "a", "b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProfileRepository_UsernameLookup(t *testing.T) {
	db := repotest.NewDB(t)
	repo := repository.NewProfileRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Profile{ID: "u1", Username: "maksym_b", DisplayName: "Maksym"}))

	p, err := repo.GetByUsername(ctx, "Maksym_B")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "u1", p.ID)

	missing, err := repo.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = repo.Create(ctx, &model.Profile{ID: "u2", Username: "maksym_b"})
	assert.True(t, repository.IsDuplicate(err))

	got, err := repo.GetByIDs(ctx, []string{"u1", "ghost"})
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestPostRepository_ListByAuthorsNewestFirst(t *testing.T) {
	db := repotest.NewDB(t)
	repo := repository.NewPostRepository(db)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, author := range []string{"a", "b", "c", "a"} {
		require.NoError(t, repo.Create(ctx, &model.Post{
			ID:        string(rune('p' + i)),
			UserID:    author,
			Kind:      model.PostAddedToLibrary,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	posts, err := repo.ListByAuthors(ctx, []string{"a", "b"}, 2)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "s", posts[0].ID)
	assert.Equal(t, "q", posts[1].ID)

	n, err := repo.CountByAuthor(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestPaperRepository_UpsertKeepsAuthorOrder(t *testing.T) {
	db := repotest.NewDB(t)
	repo := repository.NewPaperRepository(db)
	ctx := context.Background()

	year := 2017
	require.NoError(t, repo.Upsert(ctx, &model.Paper{ID: "W1", Title: "draft", Authors: []string{"Vaswani", "Shazeer"}}))
	require.NoError(t, repo.Upsert(ctx, &model.Paper{ID: "W1", Title: "Attention Is All You Need", Authors: []string{"Vaswani", "Shazeer", "Parmar"}, Year: &year}))

	papers, err := repo.GetByIDs(ctx, []string{"W1", "W404"})
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, "Attention Is All You Need", papers[0].Title)
	assert.Equal(t, []string{"Vaswani", "Shazeer", "Parmar"}, papers[0].Authors)
	require.NotNil(t, papers[0].Year)
	assert.Equal(t, 2017, *papers[0].Year)
}

func TestAccountRepository_DeleteUserData(t *testing.T) {
	db := repotest.NewDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, db.Create(&model.Profile{ID: "me", Username: "me_"}).Error)
	require.NoError(t, db.Create(&model.Profile{ID: "other", Username: "other"}).Error)
	require.NoError(t, db.Create(&model.Post{ID: "p1", UserID: "me", Kind: model.PostUserJoined, CreatedAt: now}).Error)
	require.NoError(t, db.Create(&model.Post{ID: "p2", UserID: "other", Kind: model.PostUserJoined, CreatedAt: now}).Error)
	require.NoError(t, db.Create(&model.LibraryItem{UserID: "me", PaperID: "W1", Status: model.StatusRead, InsertedAt: now}).Error)
	require.NoError(t, db.Create(&model.Follow{ID: "f1", FollowerID: "me", FollowingID: "other", CreatedAt: now}).Error)
	require.NoError(t, db.Create(&model.Follow{ID: "f2", FollowerID: "other", FollowingID: "me", CreatedAt: now}).Error)
	require.NoError(t, db.Create(&model.Like{ID: "l1", UserID: "me", PostID: "p2", CreatedAt: now}).Error)

	require.NoError(t, repository.NewAccountRepository(db).DeleteUserData(ctx, "me"))

	var posts, items, follows, likes, profiles int64
	db.Model(&model.Post{}).Count(&posts)
	db.Model(&model.LibraryItem{}).Count(&items)
	db.Model(&model.Follow{}).Count(&follows)
	db.Model(&model.Like{}).Count(&likes)
	db.Model(&model.Profile{}).Count(&profiles)
	assert.Equal(t, int64(1), posts)
	assert.Equal(t, int64(0), items)
	// 别人关注我的边保留
	assert.Equal(t, int64(1), follows)
	assert.Equal(t, int64(0), likes)
	assert.Equal(t, int64(1), profiles)
}

func TestTxManager_RollsBackAllRepos(t *testing.T) {
	db := repotest.NewDB(t)
	txm := repository.NewTxManager(db)
	profiles := repository.NewProfileRepository(db)
	posts := repository.NewPostRepository(db)
	ctx := context.Background()

	err := txm.RunInTx(ctx, func(ctx context.Context) error {
		require.NoError(t, profiles.Create(ctx, &model.Profile{ID: "u1", Username: "ann"}))
		// 嵌套调用复用外层事务
		return txm.RunInTx(ctx, func(ctx context.Context) error {
			require.NoError(t, posts.Create(ctx, &model.Post{ID: "p1", UserID: "u1", Kind: model.PostUserJoined, CreatedAt: time.Now()}))
			return errors.New("abort")
		})
	})
	require.EqualError(t, err, "abort")

	p, err := profiles.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, p)
	cnt, err := posts.CountByAuthor(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, cnt)

	require.NoError(t, txm.RunInTx(ctx, func(ctx context.Context) error {
		return profiles.Create(ctx, &model.Profile{ID: "u1", Username: "ann"})
	}))
	p, err = profiles.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, p)
}
