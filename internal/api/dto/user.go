package dto

// ProfileDTO 用户主页, FollowID 为当前观看者对该用户的关注记录
type ProfileDTO struct {
	UserID          uint64  `json:"user_id"`
	Nickname        string  `json:"nickname"`
	AvatarURL       string  `json:"avatar_url"`
	FollowersCount  int64   `json:"followers_count"`
	FollowingsCount int64   `json:"followings_count"`
	FollowID        *uint64 `json:"follow_id"`
}

// ProfileSyncDTO 身份服务推送的资料变更
type ProfileSyncDTO struct {
	UserID    uint64 `json:"user_id" binding:"required"`
	Nickname  string `json:"nickname" binding:"required,max=20"`
	AvatarURL string `json:"avatar_url" binding:"max=255"`
}

// FollowUserDTO 关注/粉丝列表中的一项
type FollowUserDTO struct {
	UserID    uint64  `json:"user_id"`
	Nickname  string  `json:"nickname"`
	AvatarURL string  `json:"avatar_url"`
	FollowID  *uint64 `json:"follow_id"`
}

// FollowDTO 关注结果
type FollowDTO struct {
	FollowID uint64 `json:"follow_id"`
}
