package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/shelf-social/internal/cache"
	"github.com/d60-Lab/shelf-social/internal/model"
	"github.com/d60-Lab/shelf-social/internal/repository"
	"github.com/d60-Lab/shelf-social/internal/repository/repotest"
	"github.com/d60-Lab/shelf-social/internal/service"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func at(sec int) time.Time { return base.Add(time.Duration(sec) * time.Second) }

type env struct {
	db       *gorm.DB
	profiles repository.ProfileRepository
	follows  repository.FollowRepository
	posts    repository.PostRepository
	likes    repository.LikeRepository
	papers   repository.PaperRepository
	library  repository.LibraryRepository
	accounts repository.AccountRepository
	tx       repository.TxManager
	cache    *cache.ProfileCache
	joiner   *service.ReferenceJoiner
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := repotest.NewDB(t)
	e := &env{
		db:       db,
		profiles: repository.NewProfileRepository(db),
		follows:  repository.NewFollowRepository(db),
		posts:    repository.NewPostRepository(db),
		likes:    repository.NewLikeRepository(db),
		papers:   repository.NewPaperRepository(db),
		library:  repository.NewLibraryRepository(db),
		accounts: repository.NewAccountRepository(db),
		tx:       repository.NewTxManager(db),
	}
	e.cache = cache.NewProfileCache(e.profiles, nil, 0)
	e.joiner = service.NewReferenceJoiner(e.papers, e.cache, 0, nil)
	return e
}

func (e *env) feedService(search service.SearchService) service.FeedService {
	if search == nil {
		search = service.NewSearchService(e.cache)
	}
	return service.NewFeedService(e.follows, e.posts, e.likes, e.joiner, search, service.FeedOptions{}, nil)
}

func (e *env) profile(t *testing.T, id, username, display string) {
	t.Helper()
	require.NoError(t, e.profiles.Create(context.Background(), &model.Profile{ID: id, Username: username, DisplayName: display}))
}

func (e *env) follow(t *testing.T, from, to string, when time.Time) {
	t.Helper()
	require.NoError(t, e.db.Create(&model.Follow{ID: from + "->" + to, FollowerID: from, FollowingID: to, CreatedAt: when}).Error)
}

func (e *env) post(t *testing.T, id, userID string, when time.Time, paperID string) {
	t.Helper()
	p := &model.Post{ID: id, UserID: userID, Kind: model.PostUserJoined, CreatedAt: when}
	if paperID != "" {
		status := model.StatusReading
		p.Kind = model.PostAddedToLibrary
		p.PaperID = &paperID
		p.Status = &status
	}
	require.NoError(t, e.posts.Create(context.Background(), p))
}

func (e *env) like(t *testing.T, id, userID, postID string, when time.Time) {
	t.Helper()
	require.NoError(t, e.likes.Create(context.Background(), &model.Like{ID: id, UserID: userID, PostID: postID, CreatedAt: when}))
}

func (e *env) paper(t *testing.T, id, title string) {
	t.Helper()
	require.NoError(t, e.papers.Upsert(context.Background(), &model.Paper{ID: id, Title: title, Authors: []string{"Vaswani", "Shazeer"}}))
}

func postIDs(items []model.FeedItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.PostID
	}
	return out
}

// rejectingPosts 写动态总是失败，其余读操作走真实仓储
type rejectingPosts struct {
	repository.PostRepository
}

func (rejectingPosts) Create(context.Context, *model.Post) error {
	return assert.AnError
}
