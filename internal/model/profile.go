package model

import "time"

// Profile 用户公开资料（username 唯一、小写）
type Profile struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	Username    string `gorm:"type:varchar(20);uniqueIndex:ux_profiles_username;not null"`
	DisplayName string `gorm:"type:varchar(100)"`
	Bio         string `gorm:"type:text"`
	AvatarURL   string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Profile) TableName() string { return "profiles" }

// ProfileSnapshot is the slice of a profile copied into feed items and caches.
type ProfileSnapshot struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// Snapshot 取出展示所需字段
func (p Profile) Snapshot() ProfileSnapshot {
	return ProfileSnapshot{ID: p.ID, Username: p.Username, DisplayName: p.DisplayName, AvatarURL: p.AvatarURL}
}

// SearchName is the string fuzzy search runs against: display name, falling back to username.
func (s ProfileSnapshot) SearchName() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Username
}
