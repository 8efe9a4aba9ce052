package model

import (
	"time"
)

type Post struct {
	ID            uint64    `gorm:"primaryKey" json:"id"`
	UserID        uint64    `gorm:"not null;index:idx_posts_user_created,priority:1" json:"user_id"`
	Content       string    `gorm:"type:varchar(500);not null" json:"content"`
	LikesCount    int64     `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int64     `gorm:"not null;default:0" json:"comments_count"` // 包含楼中楼回复
	CreatedAt     time.Time `gorm:"not null;index:idx_posts_user_created,priority:2" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Post) TableName() string {
	return "posts"
}
