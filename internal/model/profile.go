package model

import "time"

// Profile 用户资料由身份服务写入, 这里只维护关注计数
type Profile struct {
	UserID          uint64    `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	Nickname        string    `gorm:"type:varchar(20);not null" json:"nickname"`
	AvatarURL       string    `gorm:"type:varchar(255)" json:"avatar_url"`
	FollowersCount  int64     `gorm:"not null;default:0" json:"followers_count"`
	FollowingsCount int64     `gorm:"not null;default:0" json:"followings_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
