package handler

import (
	"Glimmer/internal/api/dto"
	"Glimmer/internal/pkg/response"
	"Glimmer/internal/service"

	"github.com/gin-gonic/gin"
)

type PostActionHandler struct {
	postActionSvc service.PostActionService
}

func NewPostActionHandler(postActionSvc service.PostActionService) *PostActionHandler {
	return &PostActionHandler{
		postActionSvc: postActionSvc,
	}
}

func (s *PostActionHandler) LikePost(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID, ok := paramID(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := s.postActionSvc.LikePost(c.Request.Context(), userID, postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *PostActionHandler) UnlikePost(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID, ok := paramID(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.postActionSvc.UnlikePost(c.Request.Context(), userID, postID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PostActionHandler) LikeComment(c *gin.Context) {
	userID := c.GetUint64("user_id")
	commentID, ok := paramID(c, "comment_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := s.postActionSvc.LikeComment(c.Request.Context(), userID, commentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *PostActionHandler) UnlikeComment(c *gin.Context) {
	userID := c.GetUint64("user_id")
	commentID, ok := paramID(c, "comment_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.postActionSvc.UnlikeComment(c.Request.Context(), userID, commentID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PostActionHandler) CreateComment(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.CommentCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	comment, err := s.postActionSvc.CreateComment(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comment)
}

func (s *PostActionHandler) DeleteComment(c *gin.Context) {
	userID := c.GetUint64("user_id")
	commentID, ok := paramID(c, "comment_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.postActionSvc.DeleteComment(c.Request.Context(), userID, commentID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PostActionHandler) GetComments(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID, ok := paramID(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	limit, offset := getLimitOffset(c)

	comments, err := s.postActionSvc.GetComments(c.Request.Context(), userID, postID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comments)
}

func (s *PostActionHandler) CreateReComment(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.ReCommentCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	reComment, err := s.postActionSvc.CreateReComment(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, reComment)
}

func (s *PostActionHandler) DeleteReComment(c *gin.Context) {
	userID := c.GetUint64("user_id")
	reCommentID, ok := paramID(c, "recomment_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.postActionSvc.DeleteReComment(c.Request.Context(), userID, reCommentID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PostActionHandler) GetReComments(c *gin.Context) {
	commentID, ok := paramID(c, "comment_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	limit, offset := getLimitOffset(c)

	reComments, err := s.postActionSvc.GetReComments(c.Request.Context(), commentID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, reComments)
}

func (s *PostActionHandler) UpdateComment(c *gin.Context) {
	userID := c.GetUint64("user_id")
	commentID, ok := paramID(c, "comment_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.CommentUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	comment, err := s.postActionSvc.UpdateComment(c.Request.Context(), userID, commentID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comment)
}

func (s *PostActionHandler) UpdateReComment(c *gin.Context) {
	userID := c.GetUint64("user_id")
	reCommentID, ok := paramID(c, "recomment_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.CommentUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	rc, err := s.postActionSvc.UpdateReComment(c.Request.Context(), userID, reCommentID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rc)
}
