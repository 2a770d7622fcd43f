package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/shelf-social/internal/model"
	"github.com/d60-Lab/shelf-social/internal/repository"
)

type LikeService interface {
	// ToggleLike 已点赞则取消（删除该用户对该动态的全部行），否则点赞；返回操作后的状态
	ToggleLike(ctx context.Context, userID, postID string) (bool, error)
}

type likeService struct {
	likes repository.LikeRepository
	posts repository.PostRepository
}

func NewLikeService(likes repository.LikeRepository, posts repository.PostRepository) LikeService {
	return &likeService{likes: likes, posts: posts}
}

// ToggleLike 不加锁；并发切换可能留下重复行，读取时由 DedupLikes 合并
func (s *likeService) ToggleLike(ctx context.Context, userID, postID string) (bool, error) {
	posts, err := s.posts.GetByIDs(ctx, []string{postID})
	if err != nil {
		return false, err
	}
	if len(posts) == 0 {
		return false, ErrPostNotFound
	}

	removed, err := s.likes.DeleteByUserPost(ctx, userID, postID)
	if err != nil {
		return false, err
	}
	if removed > 0 {
		return false, nil
	}
	if err := s.likes.Create(ctx, &model.Like{
		ID:        uuid.New().String(),
		UserID:    userID,
		PostID:    postID,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return false, err
	}
	return true, nil
}
