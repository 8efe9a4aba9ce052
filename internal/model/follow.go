package model

import "time"

type Follow struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	FollowerID  uint64    `gorm:"not null;uniqueIndex:uk_follower_following,priority:1" json:"follower_id"`
	FollowingID uint64    `gorm:"not null;uniqueIndex:uk_follower_following,priority:2;index:idx_follows_following_id" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Follow) TableName() string {
	return "follows"
}
