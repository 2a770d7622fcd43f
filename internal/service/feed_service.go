package service

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/d60-Lab/shelf-social/internal/model"
	"github.com/d60-Lab/shelf-social/internal/repository"
)

// FeedOptions 各类固定窗口
type FeedOptions struct {
	PostWindow       int // 关注时间线最多拉取的动态数
	LikeCap          int // “我的动态”最多读取的点赞行数
	FollowerEventCap int // “我的动态”最多读取的新粉丝数
	ProfilePostCap   int // 个人主页最多展示的动态数
}

func (o FeedOptions) withDefaults() FeedOptions {
	if o.PostWindow <= 0 {
		o.PostWindow = 100
	}
	if o.LikeCap <= 0 {
		o.LikeCap = 1000
	}
	if o.FollowerEventCap <= 0 {
		o.FollowerEventCap = 50
	}
	if o.ProfilePostCap <= 0 {
		o.ProfilePostCap = 50
	}
	return o
}

// FeedService assembles timelines on read. Transient sub-fetch failures degrade
// the affected section; only context cancellation is returned as an error.
type FeedService interface {
	// Feed 关注的人 + 自己的动态；query 非空时仅保留作者匹配的条目
	Feed(ctx context.Context, viewerID, query string) (*model.Feed, error)
	// Activity 我的动态被点赞、我被关注
	Activity(ctx context.Context, viewerID string) (*model.Activity, error)
	// UserPosts 某个用户自己的最近动态
	UserPosts(ctx context.Context, viewerID, userID string) (*model.Feed, error)
}

type feedService struct {
	follows repository.FollowRepository
	posts   repository.PostRepository
	likes   repository.LikeRepository
	joiner  *ReferenceJoiner
	search  SearchService
	opts    FeedOptions
	rec     Recorder
}

func NewFeedService(
	follows repository.FollowRepository,
	posts repository.PostRepository,
	likes repository.LikeRepository,
	joiner *ReferenceJoiner,
	search SearchService,
	opts FeedOptions,
	rec Recorder,
) FeedService {
	return &feedService{
		follows: follows,
		posts:   posts,
		likes:   likes,
		joiner:  joiner,
		search:  search,
		opts:    opts.withDefaults(),
		rec:     orNop(rec),
	}
}

func (s *feedService) Feed(ctx context.Context, viewerID, query string) (*model.Feed, error) {
	ctx, span := tracer.Start(ctx, "FeedService.Feed")
	defer span.End()
	defer s.observe("feed", time.Now())

	var degraded []string
	following, err := s.follows.FollowingIDs(ctx, viewerID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		degraded = append(degraded, degrade(ctx, s.rec, SectionFollowing, err))
	}
	visible := visibleAuthors(viewerID, following)
	span.SetAttributes(attribute.Int("feed.visible_authors", len(visible)))

	posts, err := s.posts.ListByAuthors(ctx, visible, s.opts.PostWindow)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		degraded = append(degraded, degrade(ctx, s.rec, SectionPosts, err))
	}

	query = strings.TrimSpace(query)
	var matches []model.ProfileSnapshot
	var searchErr error
	var g errgroup.Group
	if query != "" {
		g.Go(func() error {
			matches, searchErr = s.search.SearchUsers(ctx, query)
			return nil
		})
	}
	feed, feedDegraded := s.render(ctx, viewerID, posts, &g)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	degraded = append(degraded, feedDegraded...)

	if query != "" {
		if searchErr != nil {
			degraded = append(degraded, degrade(ctx, s.rec, SectionDirectory, searchErr))
		}
		allowed := make(map[string]struct{}, len(matches))
		for _, m := range matches {
			allowed[m.ID] = struct{}{}
		}
		filtered := feed.Items[:0]
		for _, it := range feed.Items {
			if _, ok := allowed[it.AuthorID]; ok {
				filtered = append(filtered, it)
			}
		}
		feed.Items = filtered
		feed.Matches = matches
		if feed.Matches == nil {
			feed.Matches = []model.ProfileSnapshot{}
		}
	}

	feed.Empty = len(feed.Items) == 0
	feed.Degraded = degraded
	return feed, nil
}

func (s *feedService) UserPosts(ctx context.Context, viewerID, userID string) (*model.Feed, error) {
	ctx, span := tracer.Start(ctx, "FeedService.UserPosts")
	defer span.End()
	defer s.observe("user_posts", time.Now())

	var degraded []string
	posts, err := s.posts.ListByAuthors(ctx, []string{userID}, s.opts.ProfilePostCap)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		degraded = append(degraded, degrade(ctx, s.rec, SectionPosts, err))
	}
	var g errgroup.Group
	feed, more := s.render(ctx, viewerID, posts, &g)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	feed.Degraded = append(degraded, more...)
	feed.Empty = len(feed.Items) == 0
	return feed, nil
}

// render joins references and like state for posts. Extra work already
// scheduled on g runs concurrently and has finished when render returns.
func (s *feedService) render(ctx context.Context, viewerID string, posts []*model.Post, g *errgroup.Group) (*model.Feed, []string) {
	keys := RefKeys{
		PaperIDs: make([]string, 0, len(posts)),
		UserIDs:  make([]string, 0, len(posts)),
	}
	postIDs := make([]string, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		keys.UserIDs = append(keys.UserIDs, p.UserID)
		if p.PaperID != nil {
			keys.PaperIDs = append(keys.PaperIDs, *p.PaperID)
		}
	}

	var refs *References
	var likes []*model.Like
	var likesErr error
	g.Go(func() error {
		refs = s.joiner.Join(ctx, keys)
		return nil
	})
	if len(postIDs) > 0 {
		g.Go(func() error {
			likes, likesErr = s.likes.ListByPosts(ctx, postIDs, 0)
			return nil
		})
	}
	_ = g.Wait()

	degraded := append([]string(nil), refs.Degraded...)
	counts := map[string]int{}
	likedByMe := map[string]bool{}
	if likesErr != nil {
		degraded = append(degraded, degrade(ctx, s.rec, SectionLikes, likesErr))
	} else {
		unique := s.dedup(likes)
		for _, l := range unique {
			counts[l.PostID]++
			if l.UserID == viewerID {
				likedByMe[l.PostID] = true
			}
		}
	}

	items := make([]model.FeedItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, model.FeedItem{
			PostID:    p.ID,
			AuthorID:  p.UserID,
			Author:    refs.Profile(p.UserID),
			Kind:      p.Kind,
			Status:    p.Status,
			Paper:     refs.Paper(p.PaperID),
			LikeCount: counts[p.ID],
			LikedByMe: likedByMe[p.ID],
			CreatedAt: p.CreatedAt,
		})
	}
	SortFeedItems(items)
	return &model.Feed{Items: items}, degraded
}

func (s *feedService) Activity(ctx context.Context, viewerID string) (*model.Activity, error) {
	ctx, span := tracer.Start(ctx, "FeedService.Activity")
	defer span.End()
	defer s.observe("activity", time.Now())

	var (
		likes              []model.Like
		follows            []*model.Follow
		postsErr, likesErr error
		followsErr         error
	)

	var g errgroup.Group
	g.Go(func() error {
		myPostIDs, err := s.posts.IDsByAuthor(ctx, viewerID)
		if err != nil {
			postsErr = err
			return nil
		}
		rows, err := s.likes.ListByPosts(ctx, myPostIDs, s.opts.LikeCap)
		if err != nil {
			likesErr = err
			return nil
		}
		likes = s.dedup(rows)
		return nil
	})
	g.Go(func() error {
		follows, followsErr = s.follows.ListFollowers(ctx, viewerID, s.opts.FollowerEventCap)
		return nil
	})
	_ = g.Wait()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var degraded []string
	if postsErr != nil {
		degraded = append(degraded, degrade(ctx, s.rec, SectionPosts, postsErr))
	}
	if likesErr != nil {
		degraded = append(degraded, degrade(ctx, s.rec, SectionLikes, likesErr))
	}
	if followsErr != nil {
		degraded = append(degraded, degrade(ctx, s.rec, SectionFollowers, followsErr))
	}

	likedPostIDs := make([]string, 0, len(likes))
	keys := RefKeys{UserIDs: make([]string, 0, len(likes)+len(follows))}
	for _, l := range likes {
		likedPostIDs = append(likedPostIDs, l.PostID)
		keys.UserIDs = append(keys.UserIDs, l.UserID)
	}
	for _, f := range follows {
		keys.UserIDs = append(keys.UserIDs, f.FollowerID)
	}

	likedPosts := map[string]*model.Post{}
	if len(likedPostIDs) > 0 {
		rows, err := s.posts.GetByIDs(ctx, likedPostIDs)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			degraded = append(degraded, degrade(ctx, s.rec, SectionLikedPosts, err))
		}
		for _, p := range rows {
			likedPosts[p.ID] = p
			if p.PaperID != nil {
				keys.PaperIDs = append(keys.PaperIDs, *p.PaperID)
			}
		}
	}

	refs := s.joiner.Join(ctx, keys)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	degraded = append(degraded, refs.Degraded...)

	events := make([]model.ActivityEvent, 0, len(likes)+len(follows))
	for _, l := range likes {
		postID := l.PostID
		ev := model.ActivityEvent{
			Kind:      model.ActivityPostLiked,
			ActorID:   l.UserID,
			Actor:     refs.Profile(l.UserID),
			PostID:    &postID,
			CreatedAt: l.CreatedAt,
		}
		if p, ok := likedPosts[postID]; ok {
			kind := p.Kind
			ev.PostKind = &kind
			ev.Status = p.Status
			ev.Paper = refs.Paper(p.PaperID)
		}
		events = append(events, ev)
	}
	for _, f := range follows {
		events = append(events, model.ActivityEvent{
			Kind:      model.ActivityUserFollowed,
			ActorID:   f.FollowerID,
			Actor:     refs.Profile(f.FollowerID),
			CreatedAt: f.CreatedAt,
		})
	}
	SortActivityEvents(events)

	return &model.Activity{Events: events, Empty: len(events) == 0, Degraded: degraded}, nil
}

func (s *feedService) dedup(rows []*model.Like) []model.Like {
	flat := make([]model.Like, len(rows))
	for i, r := range rows {
		flat[i] = *r
	}
	unique := DedupLikes(flat)
	s.rec.LikesCollapsed(len(flat) - len(unique))
	return unique
}

func (s *feedService) observe(feed string, start time.Time) {
	s.rec.ObserveAssembly(feed, time.Since(start))
}

// visibleAuthors = following ∪ {viewer}，去重
func visibleAuthors(viewerID string, following []string) []string {
	out := make([]string, 0, len(following)+1)
	seen := map[string]struct{}{viewerID: {}}
	out = append(out, viewerID)
	for _, id := range following {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
