package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/shelf-social/internal/model"
)

type LibraryRepository interface {
	Create(ctx context.Context, it *model.LibraryItem) error
	// UpdateStatus 返回是否命中已有条目
	UpdateStatus(ctx context.Context, userID, paperID string, status model.ShelfStatus) (bool, error)
	List(ctx context.Context, userID string, status *model.ShelfStatus) ([]*model.LibraryItem, error)
	Count(ctx context.Context, userID string) (int64, error)
}

type libraryRepository struct{ db *gorm.DB }

func NewLibraryRepository(db *gorm.DB) LibraryRepository { return &libraryRepository{db: db} }

func (r *libraryRepository) Create(ctx context.Context, it *model.LibraryItem) error {
	return conn(ctx, r.db).Create(it).Error
}

func (r *libraryRepository) UpdateStatus(ctx context.Context, userID, paperID string, status model.ShelfStatus) (bool, error) {
	res := conn(ctx, r.db).
		Model(&model.LibraryItem{}).
		Where("user_id = ? AND openalex_id = ?", userID, paperID).
		Update("status", status)
	return res.RowsAffected > 0, res.Error
}

func (r *libraryRepository) List(ctx context.Context, userID string, status *model.ShelfStatus) ([]*model.LibraryItem, error) {
	var res []*model.LibraryItem
	q := conn(ctx, r.db).Where("user_id = ?", userID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	err := q.Order("inserted_at DESC").Find(&res).Error
	return res, err
}

func (r *libraryRepository) Count(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := conn(ctx, r.db).Model(&model.LibraryItem{}).Where("user_id = ?", userID).Count(&cnt).Error
	return cnt, err
}
