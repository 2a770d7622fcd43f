package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/shelf-social/config"
	"github.com/d60-Lab/shelf-social/internal/cache"
	"github.com/d60-Lab/shelf-social/internal/model"
	"github.com/d60-Lab/shelf-social/internal/repository"
	"github.com/d60-Lab/shelf-social/internal/service"
	"github.com/d60-Lab/shelf-social/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func mustDo(err error) {
	if err != nil {
		panic(err)
	}
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return def
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

func avg(vs []time.Duration) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range vs {
		sum += d
	}
	return sum / time.Duration(len(vs))
}

// feedbench 造数据后测量读时聚合 Feed / Activity 的延迟
func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	defer database.Close(db)
	mustDo(repository.AutoMigrate(db))
	ctx := context.Background()

	authors := envInt("AUTHORS", 200) // viewer 关注的人数
	postsPer := envInt("POSTS", 20)   // 每个作者的动态数
	likesPer := envInt("LIKES", 5)    // 每条动态的点赞数
	fans := envInt("FANS", 500)       // 关注 viewer 的人数
	rounds := envInt("ROUNDS", 200)   // 每种 feed 的请求次数
	papers := envInt("PAPERS", 300)   // 论文池大小

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		_ = rdb.FlushDB(ctx).Err()
	}

	// clean tables for a reproducible run
	for _, table := range []string{"post_likes", "posts", "user_papers", "papers", "follows", "profiles"} {
		mustDo(db.Exec("DELETE FROM " + table).Error)
	}

	fmt.Println("seeding...")
	rng := rand.New(rand.NewSource(1))
	now := time.Now().UTC()
	viewer := "viewer0"
	profiles := []model.Profile{{ID: viewer, Username: viewer, CreatedAt: now}}
	authorIDs := make([]string, authors)
	for i := range authorIDs {
		id := uuid.New().String()
		authorIDs[i] = id
		profiles = append(profiles, model.Profile{ID: id, Username: "a" + id[:8], DisplayName: fmt.Sprintf("Author %d", i), CreatedAt: now})
	}
	fanIDs := make([]string, fans)
	for i := range fanIDs {
		id := uuid.New().String()
		fanIDs[i] = id
		profiles = append(profiles, model.Profile{ID: id, Username: "f" + id[:8], CreatedAt: now})
	}
	mustDo(db.CreateInBatches(&profiles, 1000).Error)

	paperRows := make([]model.Paper, papers)
	for i := range paperRows {
		paperRows[i] = model.Paper{ID: fmt.Sprintf("W%d", i), Title: fmt.Sprintf("Paper %d", i), Authors: []string{"A. Author", "B. Author"}}
	}
	mustDo(db.CreateInBatches(&paperRows, 1000).Error)

	follows := make([]model.Follow, 0, authors+fans)
	for _, id := range authorIDs {
		follows = append(follows, model.Follow{ID: uuid.New().String(), FollowerID: viewer, FollowingID: id, CreatedAt: now})
	}
	for i, id := range fanIDs {
		follows = append(follows, model.Follow{ID: uuid.New().String(), FollowerID: id, FollowingID: viewer, CreatedAt: now.Add(-time.Duration(i) * time.Second)})
	}
	mustDo(db.CreateInBatches(&follows, 1000).Error)

	posts := make([]model.Post, 0, (authors+1)*postsPer)
	status := model.StatusReading
	for _, author := range append([]string{viewer}, authorIDs...) {
		for j := 0; j < postsPer; j++ {
			paperID := paperRows[rng.Intn(len(paperRows))].ID
			posts = append(posts, model.Post{
				ID:        uuid.New().String(),
				UserID:    author,
				Kind:      model.PostAddedToLibrary,
				PaperID:   &paperID,
				Status:    &status,
				CreatedAt: now.Add(-time.Duration(rng.Intn(86400)) * time.Second),
			})
		}
	}
	mustDo(db.CreateInBatches(&posts, 1000).Error)

	likes := make([]model.Like, 0, len(posts)*likesPer)
	for _, p := range posts {
		for k := 0; k < likesPer; k++ {
			likes = append(likes, model.Like{
				ID:        uuid.New().String(),
				UserID:    fanIDs[rng.Intn(len(fanIDs))],
				PostID:    p.ID,
				CreatedAt: p.CreatedAt.Add(time.Duration(k) * time.Minute),
			})
		}
	}
	mustDo(db.CreateInBatches(&likes, 1000).Error)
	fmt.Printf("seeded profiles=%d follows=%d posts=%d likes=%d\n", len(profiles), len(follows), len(posts), len(likes))

	profileRepo := repository.NewProfileRepository(db)
	profileCache := cache.NewProfileCache(profileRepo, rdb, cfg.Redis.TTL)
	joiner := service.NewReferenceJoiner(repository.NewPaperRepository(db), profileCache, cfg.Feed.MaxBatchKeys, nil)
	feedSvc := service.NewFeedService(
		repository.NewFollowRepository(db),
		repository.NewPostRepository(db),
		repository.NewLikeRepository(db),
		joiner,
		service.NewSearchService(profileCache),
		service.FeedOptions{
			PostWindow:       cfg.Feed.PostWindow,
			LikeCap:          cfg.Feed.LikeCap,
			FollowerEventCap: cfg.Feed.FollowerEventCap,
			ProfilePostCap:   cfg.Feed.ProfilePostCap,
		},
		nil,
	)

	run := func(name string, fn func() (int, []string, error)) {
		profileCache.ResetCounters()
		ds := make([]time.Duration, 0, rounds)
		var size int
		for i := 0; i < rounds; i++ {
			st := time.Now()
			n, degraded, err := fn()
			if err != nil {
				panic(err)
			}
			if len(degraded) > 0 {
				fmt.Printf("%s: degraded sections %v\n", name, degraded)
			}
			ds = append(ds, time.Since(st))
			size = n
		}
		c := profileCache.Counters()
		fmt.Printf("%-8s rounds=%d items=%d avg=%v p95=%v p99=%v profile_store_loads=%d\n",
			name, rounds, size, avg(ds), pct(ds, 0.95), pct(ds, 0.99), c.BulkLoads)
	}

	run("feed", func() (int, []string, error) {
		f, err := feedSvc.Feed(ctx, viewer, "")
		if err != nil {
			return 0, nil, err
		}
		return len(f.Items), f.Degraded, nil
	})
	run("search", func() (int, []string, error) {
		f, err := feedSvc.Feed(ctx, viewer, "auth")
		if err != nil {
			return 0, nil, err
		}
		return len(f.Items), f.Degraded, nil
	})
	run("activity", func() (int, []string, error) {
		a, err := feedSvc.Activity(ctx, viewer)
		if err != nil {
			return 0, nil, err
		}
		return len(a.Events), a.Degraded, nil
	})
}
