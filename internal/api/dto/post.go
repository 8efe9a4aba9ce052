package dto

// PostCreateDTO 发布帖子
type PostCreateDTO struct {
	Content string `json:"content" binding:"required,max=500"`
}

// PostUpdateDTO 修改帖子正文
type PostUpdateDTO struct {
	Content string `json:"content" binding:"required,max=500"`
}

// PostDTO 帖子, 计数来自短 TTL 缓存, LikeID 为当前观看者的点赞记录
type PostDTO struct {
	ID            uint64  `json:"id"`
	UserID        uint64  `json:"user_id"`
	Nickname      string  `json:"nickname"`
	AvatarURL     string  `json:"avatar_url"`
	Content       string  `json:"content"`
	LikesCount    int64   `json:"likes_count"`
	CommentsCount int64   `json:"comments_count"`
	LikeID        *uint64 `json:"like_id"`
	CreatedAt     string  `json:"created_at"`
}

// PostFeedDTO 信息流一页
type PostFeedDTO struct {
	List    []*PostDTO `json:"list"`
	HasMore bool       `json:"has_more"`
}
