package dto

// StoryCreateDTO 发布快拍, 图片由媒体服务上传后回传路径
type StoryCreateDTO struct {
	Content   string `json:"content" binding:"max=500"`
	ImagePath string `json:"image_path" binding:"required,max=255"`
	Duration  int    `json:"duration" binding:"min=0,max=60"`
}

// StoryDTO 快拍, Watched 表示当前观看者是否看过
type StoryDTO struct {
	ID             uint64 `json:"id"`
	UserID         uint64 `json:"user_id"`
	Content        string `json:"content"`
	ImagePath      string `json:"image_path"`
	Duration       int    `json:"duration"`
	Watched        bool   `json:"watched"`
	ReadUsersCount int64  `json:"read_users_count"`
	CreatedAt      string `json:"created_at"`
}

// StoryTrayDTO 快拍栏中的一个用户
type StoryTrayDTO struct {
	UserID     uint64      `json:"user_id"`
	Nickname   string      `json:"nickname"`
	AvatarURL  string      `json:"avatar_url"`
	AllWatched bool        `json:"all_watched"`
	Stories    []*StoryDTO `json:"stories"`
}

// StoryViewerDTO 看过快拍的人
type StoryViewerDTO struct {
	ReceiptID uint64 `json:"receipt_id"`
	UserID    uint64 `json:"user_id"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
	ViewedAt  string `json:"viewed_at"`
}
