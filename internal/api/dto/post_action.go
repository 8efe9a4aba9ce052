package dto

// CommentCreateDTO 创建评论请求
type CommentCreateDTO struct {
	PostID  uint64 `json:"post_id" binding:"required"`
	Content string `json:"content" binding:"required,max=255"`
}

// ReCommentCreateDTO 回复评论请求
type ReCommentCreateDTO struct {
	CommentID uint64 `json:"comment_id" binding:"required"`
	Content   string `json:"content" binding:"required,max=255"`
}

// CommentUpdateDTO 修改评论或回复
type CommentUpdateDTO struct {
	Content string `json:"content" binding:"required,max=255"`
}

// CommentDTO 评论返回详情
type CommentDTO struct {
	ID              uint64  `json:"id"`
	PostID          uint64  `json:"post_id"`
	UserID          uint64  `json:"user_id"`
	Nickname        string  `json:"nickname"`
	AvatarURL       string  `json:"avatar_url"`
	Content         string  `json:"content"`
	LikesCount      int64   `json:"likes_count"`
	RecommentsCount int64   `json:"recomments_count"`
	LikeID          *uint64 `json:"like_id"`
	CreatedAt       string  `json:"created_at"`
}

// ReCommentDTO 回复
type ReCommentDTO struct {
	ID        uint64 `json:"id"`
	CommentID uint64 `json:"comment_id"`
	UserID    uint64 `json:"user_id"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// LikeDTO 点赞结果
type LikeDTO struct {
	LikeID     uint64 `json:"like_id"`
	LikesCount int64  `json:"likes_count"`
}
