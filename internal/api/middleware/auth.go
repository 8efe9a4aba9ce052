package middleware

import (
	"Glimmer/internal/pkg/response"
	"Glimmer/internal/pkg/security"
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserIDKey gin.Context 与 request ctx 中当前用户 ID 的 Key
const UserIDKey = "user_id"

// AuthMiddleware 负责验证 JWT 并将用户身份信息注入 Context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
			c.Abort()
			return
		}

		claims, err := security.ValidateToken(tokenString)
		if err != nil {
			response.Fail(c, response.Unauthorized, "Token 无效或已过期")
			c.Abort()
			return
		}

		setUserID(c, claims.UserID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	return token, token != ""
}

func setUserID(c *gin.Context, userID uint64) {
	c.Set(UserIDKey, userID)
	newCtx := context.WithValue(c.Request.Context(), UserIDKey, userID)
	c.Request = c.Request.WithContext(newCtx)
}
