package handler

import (
	"Glimmer/internal/pkg/response"
	"Glimmer/internal/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileSvc service.ProfileService
}

func NewProfileHandler(profileSvc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc}
}

func (s *ProfileHandler) GetProfile(c *gin.Context) {
	viewer := c.GetUint64("user_id")
	userID, ok := paramID(c, "user_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	profile, err := s.profileSvc.GetProfile(c.Request.Context(), viewer, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}

// GetSelf 当前登录用户的主页
func (s *ProfileHandler) GetSelf(c *gin.Context) {
	userID := c.GetUint64("user_id")

	profile, err := s.profileSvc.GetProfile(c.Request.Context(), userID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, profile)
}
