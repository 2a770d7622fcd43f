package repository_test

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/d60-Lab/shelf-social/internal/model"
	"github.com/d60-Lab/shelf-social/internal/repository"
	"github.com/d60-Lab/shelf-social/internal/repository/repotest"
)

func BenchmarkFollowWrite(b *testing.B) {
	db := repotest.NewDB(b)
	followRepo := repository.NewFollowRepository(db)
	ctx := context.Background()

	// 预创建部分用户
	users := make([]model.Profile, 1000)
	for i := range users {
		users[i] = model.Profile{ID: fmt.Sprintf("u%04d", i), Username: fmt.Sprintf("u%04d", i)}
	}
	if err := db.Create(&users).Error; err != nil {
		b.Fatalf("seed users: %v", err)
	}

	rnd := rand.New(rand.NewSource(1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		from := users[rnd.Intn(len(users))].ID
		to := users[rnd.Intn(len(users))].ID
		if from == to {
			continue
		}
		if err := followRepo.Create(ctx, from, to); err != nil && !repository.IsDuplicate(err) {
			b.Fatalf("follow: %v", err)
		}
	}
}

func BenchmarkQueryFollowersAndCounts(b *testing.B) {
	db := repotest.NewDB(b)
	followRepo := repository.NewFollowRepository(db)
	ctx := context.Background()

	// 构造：u0 有 N 个粉丝，同时 u0 也关注 N 个用户
	const N = 2000
	for i := 1; i <= N; i++ {
		uid := fmt.Sprintf("u%v", i)
		_ = followRepo.Create(ctx, uid, "u0")
		_ = followRepo.Create(ctx, "u0", uid)
	}

	b.ResetTimer()
	b.Run("ListFollowers", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = followRepo.ListFollowers(ctx, "u0", 50)
		}
	})

	b.Run("FollowingIDs", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = followRepo.FollowingIDs(ctx, "u0")
		}
	})

	b.Run("CountFollowers", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = followRepo.CountFollowers(ctx, "u0")
		}
	})
}
