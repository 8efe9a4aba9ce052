package model

import (
	"time"
)

// Story 24 小时后在查询层面失效, 不做物理删除
type Story struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	UserID     uint64    `gorm:"not null;index:idx_stories_user_created,priority:1" json:"user_id"`
	Content    string    `gorm:"type:text" json:"content"`
	ImagePath  string    `gorm:"type:varchar(255);not null" json:"image_path"`
	Duration   int       `gorm:"not null;default:0" json:"duration"` // 秒
	ViewsCount int64     `gorm:"not null;default:0" json:"views_count"`
	CreatedAt  time.Time `gorm:"not null;index:idx_stories_user_created,priority:2" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Story) TableName() string {
	return "stories"
}

// StoryView 已读回执, (user_id, story_id) 唯一
type StoryView struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:uk_user_story,priority:1" json:"user_id"`
	StoryID   uint64    `gorm:"not null;uniqueIndex:uk_user_story,priority:2;index:idx_story_views_story_id" json:"story_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (StoryView) TableName() string {
	return "story_views"
}
