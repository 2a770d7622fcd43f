package repository

import (
	"gorm.io/gorm"

	"github.com/d60-Lab/shelf-social/internal/model"
)

// AutoMigrate 创建 / 更新全部表结构
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Profile{},
		&model.Follow{},
		&model.Post{},
		&model.Like{},
		&model.Paper{},
		&model.LibraryItem{},
	)
}
