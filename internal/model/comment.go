package model

import (
	"time"
)

type Comment struct {
	ID              uint64    `gorm:"primaryKey" json:"id"`
	PostID          uint64    `gorm:"not null;index:idx_comments_post_id" json:"post_id"`
	UserID          uint64    `gorm:"not null" json:"user_id"`
	Content         string    `gorm:"type:varchar(255);not null" json:"content"`
	LikesCount      int64     `gorm:"not null;default:0" json:"likes_count"`
	RecommentsCount int64     `gorm:"not null;default:0" json:"recomments_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Comment) TableName() string {
	return "comments"
}

// ReComment 评论的回复, 只允许一层
type ReComment struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	CommentID uint64    `gorm:"not null;index:idx_recomments_comment_id" json:"comment_id"`
	UserID    uint64    `gorm:"not null" json:"user_id"`
	Content   string    `gorm:"type:varchar(255);not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ReComment) TableName() string {
	return "recomments"
}
