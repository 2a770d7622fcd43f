package model

import "time"

// Paper 外部论文条目，按 OpenAlex ID 共享
type Paper struct {
	ID        string    `gorm:"column:openalex_id;primaryKey;type:varchar(64)" json:"id"`
	Title     string    `gorm:"type:text" json:"title"`
	Authors   []string  `gorm:"serializer:json;type:text" json:"authors"`
	Year      *int      `json:"year,omitempty"`
	URL       string    `gorm:"type:text" json:"url,omitempty"`
	Source    string    `gorm:"type:varchar(255)" json:"source,omitempty"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Paper) TableName() string { return "papers" }
