package model

import "time"

type ShelfStatus string

const (
	StatusToRead  ShelfStatus = "to_read"
	StatusReading ShelfStatus = "reading"
	StatusRead    ShelfStatus = "read"
)

func (s ShelfStatus) Valid() bool {
	switch s {
	case StatusToRead, StatusReading, StatusRead:
		return true
	}
	return false
}

// LibraryItem 用户书架条目，每个 (user, paper) 一行
type LibraryItem struct {
	UserID     string      `gorm:"primaryKey;type:varchar(36)"`
	PaperID    string      `gorm:"column:openalex_id;primaryKey;type:varchar(64)"`
	Status     ShelfStatus `gorm:"type:varchar(16);not null"`
	InsertedAt time.Time   `gorm:"index"`
}

func (LibraryItem) TableName() string { return "user_papers" }
