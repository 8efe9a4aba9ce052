package model

import (
	"time"
)

type CommentLike struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:uk_user_comment,priority:1" json:"user_id"`
	CommentID uint64    `gorm:"not null;uniqueIndex:uk_user_comment,priority:2;index:idx_comment_likes_comment_id" json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (CommentLike) TableName() string {
	return "comment_likes"
}
