package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/d60-Lab/shelf-social/internal/model"
	"github.com/d60-Lab/shelf-social/internal/repository"
)

// RelationshipService 关系链服务
type RelationshipService interface {
	Follow(ctx context.Context, fromUserID, toUserID string) error
	Unfollow(ctx context.Context, fromUserID, toUserID string) error
	IsFollowing(ctx context.Context, fromUserID, toUserID string) (bool, error)
	FollowCounts(ctx context.Context, userID string) (model.FollowCounts, error)
	ListFollowers(ctx context.Context, userID string) (*model.FollowList, error)
	ListFollowing(ctx context.Context, userID string) (*model.FollowList, error)
}

type relationshipService struct {
	followRepo  repository.FollowRepository
	profileRepo repository.ProfileRepository
	joiner      *ReferenceJoiner
	rec         Recorder
}

func NewRelationshipService(followRepo repository.FollowRepository, profileRepo repository.ProfileRepository, joiner *ReferenceJoiner, rec Recorder) RelationshipService {
	return &relationshipService{followRepo: followRepo, profileRepo: profileRepo, joiner: joiner, rec: orNop(rec)}
}

// Follow 幂等：重复关注吞掉唯一键冲突
func (s *relationshipService) Follow(ctx context.Context, fromUserID, toUserID string) error {
	if fromUserID == toUserID {
		return ErrFollowSelf
	}
	target, err := s.profileRepo.GetByID(ctx, toUserID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}
	if err := s.followRepo.Create(ctx, fromUserID, toUserID); err != nil {
		if repository.IsDuplicate(err) {
			return nil
		}
		return err
	}
	return nil
}

// Unfollow 关系不存在时视为成功
func (s *relationshipService) Unfollow(ctx context.Context, fromUserID, toUserID string) error {
	return s.followRepo.Delete(ctx, fromUserID, toUserID)
}

func (s *relationshipService) IsFollowing(ctx context.Context, fromUserID, toUserID string) (bool, error) {
	if fromUserID == "" || fromUserID == toUserID {
		return false, nil
	}
	return s.followRepo.Exists(ctx, fromUserID, toUserID)
}

func (s *relationshipService) FollowCounts(ctx context.Context, userID string) (model.FollowCounts, error) {
	var counts model.FollowCounts
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.followRepo.CountFollowers(gctx, userID)
		counts.Followers = n
		return err
	})
	g.Go(func() error {
		n, err := s.followRepo.CountFollowing(gctx, userID)
		counts.Following = n
		return err
	})
	if err := g.Wait(); err != nil {
		return model.FollowCounts{}, err
	}
	return counts, nil
}

func (s *relationshipService) ListFollowers(ctx context.Context, userID string) (*model.FollowList, error) {
	ctx, span := tracer.Start(ctx, "RelationshipService.ListFollowers")
	defer span.End()

	rows, err := s.followRepo.ListFollowers(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	return s.entries(ctx, rows, func(f *model.Follow) string { return f.FollowerID }), nil
}

func (s *relationshipService) ListFollowing(ctx context.Context, userID string) (*model.FollowList, error) {
	ctx, span := tracer.Start(ctx, "RelationshipService.ListFollowing")
	defer span.End()

	rows, err := s.followRepo.ListFollowings(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	return s.entries(ctx, rows, func(f *model.Follow) string { return f.FollowingID }), nil
}

func (s *relationshipService) entries(ctx context.Context, rows []*model.Follow, other func(*model.Follow) string) *model.FollowList {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = other(r)
	}
	refs := s.joiner.Join(ctx, RefKeys{UserIDs: ids})
	list := &model.FollowList{Entries: make([]model.FollowEntry, 0, len(rows)), Degraded: refs.Degraded}
	for i, r := range rows {
		list.Entries = append(list.Entries, model.FollowEntry{
			UserID:    ids[i],
			Profile:   refs.Profile(ids[i]),
			CreatedAt: r.CreatedAt,
		})
	}
	return list
}
