package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/shelf-social/internal/model"
)

type PostRepository interface {
	Create(ctx context.Context, p *model.Post) error
	GetByIDs(ctx context.Context, ids []string) ([]*model.Post, error)
	ListByAuthors(ctx context.Context, authorIDs []string, limit int) ([]*model.Post, error)
	IDsByAuthor(ctx context.Context, authorID string) ([]string, error)
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
}

type postRepository struct{ db *gorm.DB }

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, p *model.Post) error {
	return conn(ctx, r.db).Create(p).Error
}

func (r *postRepository) GetByIDs(ctx context.Context, ids []string) ([]*model.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var res []*model.Post
	err := conn(ctx, r.db).Where("id IN ?", ids).Find(&res).Error
	return res, err
}

// ListByAuthors 按作者集合拉取最新的 limit 条动态
func (r *postRepository) ListByAuthors(ctx context.Context, authorIDs []string, limit int) ([]*model.Post, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	var res []*model.Post
	err := conn(ctx, r.db).
		Where("user_id IN ?", authorIDs).
		Order("created_at DESC, id").
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *postRepository) IDsByAuthor(ctx context.Context, authorID string) ([]string, error) {
	var ids []string
	err := conn(ctx, r.db).Model(&model.Post{}).Where("user_id = ?", authorID).Pluck("id", &ids).Error
	return ids, err
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var cnt int64
	err := conn(ctx, r.db).Model(&model.Post{}).Where("user_id = ?", authorID).Count(&cnt).Error
	return cnt, err
}
