package handler

import (
	"Glimmer/internal/api/dto"
	"Glimmer/internal/pkg/response"
	"Glimmer/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postSvc service.PostService
}

func NewPostHandler(postSvc service.PostService) *PostHandler {
	return &PostHandler{
		postSvc: postSvc,
	}
}

// GetFeed 自己与关注的人发布的帖子, 最新在前
func (s *PostHandler) GetFeed(c *gin.Context) {
	userID := c.GetUint64("user_id")
	page, pageSize := getPagination(c)

	feed, err := s.postSvc.GetFeed(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, feed)
}

func (s *PostHandler) CreatePost(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.PostCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	post, err := s.postSvc.CreatePost(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

func (s *PostHandler) GetPost(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID, ok := paramID(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	post, err := s.postSvc.GetPost(c.Request.Context(), userID, postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

func (s *PostHandler) DeletePost(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID, ok := paramID(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.postSvc.DeletePost(c.Request.Context(), userID, postID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PostHandler) UpdatePost(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID, ok := paramID(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.PostUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	post, err := s.postSvc.UpdatePost(c.Request.Context(), userID, postID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

// GetUserLikedPosts 某个用户点赞过的帖子, LikeID 针对当前用户
func (s *PostHandler) GetUserLikedPosts(c *gin.Context) {
	viewer := c.GetUint64("user_id")
	userID, ok := paramID(c, "user_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	limit, offset := getLimitOffset(c)

	posts, err := s.postSvc.GetUserLikedPosts(c.Request.Context(), viewer, userID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}
