package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/shelf-social/internal/model"
)

type LikeRepository interface {
	Create(ctx context.Context, l *model.Like) error
	// DeleteByUserPost 删除该 (user, post) 的全部点赞行，返回删除行数
	DeleteByUserPost(ctx context.Context, userID, postID string) (int64, error)
	ListByPosts(ctx context.Context, postIDs []string, limit int) ([]*model.Like, error)
}

type likeRepository struct{ db *gorm.DB }

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

func (r *likeRepository) Create(ctx context.Context, l *model.Like) error {
	return conn(ctx, r.db).Create(l).Error
}

func (r *likeRepository) DeleteByUserPost(ctx context.Context, userID, postID string) (int64, error) {
	res := conn(ctx, r.db).Where("user_id = ? AND post_id = ?", userID, postID).Delete(&model.Like{})
	return res.RowsAffected, res.Error
}

// ListByPosts 最新在前；limit <= 0 表示不限
func (r *likeRepository) ListByPosts(ctx context.Context, postIDs []string, limit int) ([]*model.Like, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var res []*model.Like
	q := conn(ctx, r.db).Where("post_id IN ?", postIDs).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&res).Error
	return res, err
}
