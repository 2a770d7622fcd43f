package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/shelf-social/internal/model"
)

// AccountRepository 账户级批量操作
type AccountRepository interface {
	// DeleteUserData 在一个事务内删除用户的动态、书架、作为关注者的关注边、点赞与资料
	DeleteUserData(ctx context.Context, userID string) error
}

type accountRepository struct{ db *gorm.DB }

func NewAccountRepository(db *gorm.DB) AccountRepository { return &accountRepository{db: db} }

func (r *accountRepository) DeleteUserData(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.LibraryItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ?", userID).Delete(&model.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", userID).Delete(&model.Profile{}).Error
	})
}
