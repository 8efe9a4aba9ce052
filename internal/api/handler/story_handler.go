package handler

import (
	"Glimmer/internal/api/dto"
	"Glimmer/internal/pkg/response"
	"Glimmer/internal/service"

	"github.com/gin-gonic/gin"
)

type StoryHandler struct {
	storySvc service.StoryService
}

func NewStoryHandler(storySvc service.StoryService) *StoryHandler {
	return &StoryHandler{storySvc: storySvc}
}

func (s *StoryHandler) CreateStory(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.StoryCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	story, err := s.storySvc.CreateStory(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, story)
}

// GetStory 获取快拍并记录已读
func (s *StoryHandler) GetStory(c *gin.Context) {
	userID := c.GetUint64("user_id")
	storyID, ok := paramID(c, "story_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	story, err := s.storySvc.GetStory(c.Request.Context(), userID, storyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, story)
}

func (s *StoryHandler) DeleteStory(c *gin.Context) {
	userID := c.GetUint64("user_id")
	storyID, ok := paramID(c, "story_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.storySvc.DeleteStory(c.Request.Context(), userID, storyID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *StoryHandler) GetStoryTray(c *gin.Context) {
	userID := c.GetUint64("user_id")

	tray, err := s.storySvc.GetStoryTray(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tray)
}

// GetStoryViewers 只有作者可以查看
func (s *StoryHandler) GetStoryViewers(c *gin.Context) {
	userID := c.GetUint64("user_id")
	storyID, ok := paramID(c, "story_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	limit, offset := getLimitOffset(c)

	viewers, err := s.storySvc.GetStoryViewers(c.Request.Context(), userID, storyID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, viewers)
}
