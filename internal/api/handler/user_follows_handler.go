package handler

import (
	"Glimmer/internal/pkg/response"
	"Glimmer/internal/service"

	"github.com/gin-gonic/gin"
)

type UserFollowHandler struct {
	userFollowSvc service.UserFollowService
}

func NewUserFollowHandler(userFollowSvc service.UserFollowService) *UserFollowHandler {
	return &UserFollowHandler{userFollowSvc: userFollowSvc}
}

// GetUserFollowers 某个用户的粉丝, 标注当前用户是否已关注
func (s *UserFollowHandler) GetUserFollowers(c *gin.Context) {
	viewer := c.GetUint64("user_id")
	userID, ok := paramID(c, "user_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	limit, offset := getLimitOffset(c)

	followers, err := s.userFollowSvc.GetUserFollowers(c.Request.Context(), viewer, userID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, followers)
}

func (s *UserFollowHandler) GetUserFollowings(c *gin.Context) {
	viewer := c.GetUint64("user_id")
	userID, ok := paramID(c, "user_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	limit, offset := getLimitOffset(c)

	followings, err := s.userFollowSvc.GetUserFollowing(c.Request.Context(), viewer, userID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, followings)
}

func (s *UserFollowHandler) Follow(c *gin.Context) {
	userID := c.GetUint64("user_id")
	followingID, ok := paramID(c, "user_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	follow, err := s.userFollowSvc.Follow(c.Request.Context(), userID, followingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, follow)
}

func (s *UserFollowHandler) Unfollow(c *gin.Context) {
	userID := c.GetUint64("user_id")
	followingID, ok := paramID(c, "user_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.userFollowSvc.Unfollow(c.Request.Context(), userID, followingID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
