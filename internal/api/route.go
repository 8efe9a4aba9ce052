package api

import (
	"Glimmer/internal/api/middleware"
	"Glimmer/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRouter(group *HandlersGroup, allowOrigins []string) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS & Metrics
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.CORSMiddleware(allowOrigins))
	r.Use(middleware.MetricsMiddleware())
	logger.SetupGin(r)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		feedGroup := apiGroup.Group("/feed")
		feedGroup.Use(middleware.AuthOptionalMiddleware())
		{
			feedGroup.GET("", group.PostHandler.GetFeed)
		}

		postGroup := apiGroup.Group("/posts")
		{
			authOptGroup := postGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/:post_id", group.PostHandler.GetPost)
				authOptGroup.GET("/:post_id/comments", group.PostActionHandler.GetComments)
			}

			authGroup := postGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.PostHandler.CreatePost)
				authGroup.PUT("/:post_id", group.PostHandler.UpdatePost)
				authGroup.DELETE("/:post_id", group.PostHandler.DeletePost)
				authGroup.POST("/:post_id/like", group.PostActionHandler.LikePost)
				authGroup.DELETE("/:post_id/like", group.PostActionHandler.UnlikePost)
			}
		}

		commentGroup := apiGroup.Group("/comments")
		{
			commentGroup.GET("/:comment_id/recomments", group.PostActionHandler.GetReComments)

			authGroup := commentGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.PostActionHandler.CreateComment)
				authGroup.PUT("/:comment_id", group.PostActionHandler.UpdateComment)
				authGroup.DELETE("/:comment_id", group.PostActionHandler.DeleteComment)
				authGroup.POST("/:comment_id/like", group.PostActionHandler.LikeComment)
				authGroup.DELETE("/:comment_id/like", group.PostActionHandler.UnlikeComment)
			}
		}

		reCommentGroup := apiGroup.Group("/recomments")
		reCommentGroup.Use(middleware.AuthMiddleware())
		{
			reCommentGroup.POST("", group.PostActionHandler.CreateReComment)
			reCommentGroup.PUT("/:recomment_id", group.PostActionHandler.UpdateReComment)
			reCommentGroup.DELETE("/:recomment_id", group.PostActionHandler.DeleteReComment)
		}

		userGroup := apiGroup.Group("/users")
		{
			authOptGroup := userGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/:user_id", group.ProfileHandler.GetProfile)
				authOptGroup.GET("/:user_id/followers", group.UserFollowHandler.GetUserFollowers)
				authOptGroup.GET("/:user_id/followings", group.UserFollowHandler.GetUserFollowings)
				authOptGroup.GET("/:user_id/likes", group.PostHandler.GetUserLikedPosts)
			}

			authGroup := userGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/:user_id/follow", group.UserFollowHandler.Follow)
				authGroup.DELETE("/:user_id/follow", group.UserFollowHandler.Unfollow)
			}
		}

		profileGroup := apiGroup.Group("/profile")
		profileGroup.Use(middleware.AuthMiddleware())
		{
			profileGroup.GET("", group.ProfileHandler.GetSelf)
		}

		storyGroup := apiGroup.Group("/stories")
		{
			authOptGroup := storyGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/tray", group.StoryHandler.GetStoryTray)
				authOptGroup.GET("/:story_id", group.StoryHandler.GetStory)
			}

			authGroup := storyGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.StoryHandler.CreateStory)
				authGroup.DELETE("/:story_id", group.StoryHandler.DeleteStory)
				authGroup.GET("/:story_id/viewers", group.StoryHandler.GetStoryViewers)
			}
		}
	}

	return r
}
