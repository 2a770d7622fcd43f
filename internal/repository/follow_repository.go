package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/shelf-social/internal/model"
)

type FollowRepository interface {
	Create(ctx context.Context, followerID, followingID string) error
	Delete(ctx context.Context, followerID, followingID string) error
	Exists(ctx context.Context, followerID, followingID string) (bool, error)
	FollowingIDs(ctx context.Context, followerID string) ([]string, error)
	ListFollowers(ctx context.Context, userID string, limit int) ([]*model.Follow, error)
	ListFollowings(ctx context.Context, followerID string, limit int) ([]*model.Follow, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

// Create 插入关注边；重复关注返回唯一键冲突错误，由调用方用 IsDuplicate 判定
func (r *followRepository) Create(ctx context.Context, followerID, followingID string) error {
	f := &model.Follow{ID: uuid.New().String(), FollowerID: followerID, FollowingID: followingID, CreatedAt: time.Now().UTC()}
	return conn(ctx, r.db).Create(f).Error
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID string) error {
	return conn(ctx, r.db).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.Follow{}).Error
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	var cnt int64
	if err := conn(ctx, r.db).
		Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *followRepository) FollowingIDs(ctx context.Context, followerID string) ([]string, error) {
	var ids []string
	err := conn(ctx, r.db).
		Model(&model.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("following_id", &ids).Error
	return ids, err
}

// ListFollowers 关注了 userID 的边，最新在前；limit <= 0 表示不限
func (r *followRepository) ListFollowers(ctx context.Context, userID string, limit int) ([]*model.Follow, error) {
	var res []*model.Follow
	q := conn(ctx, r.db).Where("following_id = ?", userID).Order("created_at DESC, id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&res).Error
	return res, err
}

func (r *followRepository) ListFollowings(ctx context.Context, followerID string, limit int) ([]*model.Follow, error) {
	var res []*model.Follow
	q := conn(ctx, r.db).Where("follower_id = ?", followerID).Order("created_at DESC, id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&res).Error
	return res, err
}

func (r *followRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := conn(ctx, r.db).Model(&model.Follow{}).Where("following_id = ?", userID).Count(&cnt).Error
	return cnt, err
}

func (r *followRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := conn(ctx, r.db).Model(&model.Follow{}).Where("follower_id = ?", userID).Count(&cnt).Error
	return cnt, err
}
