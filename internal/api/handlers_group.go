package api

import "Glimmer/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	PostHandler       *handler.PostHandler
	PostActionHandler *handler.PostActionHandler
	UserFollowHandler *handler.UserFollowHandler
	ProfileHandler    *handler.ProfileHandler
	StoryHandler      *handler.StoryHandler
}
