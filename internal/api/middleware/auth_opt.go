package middleware

import (
	"Glimmer/internal/pkg/security"

	"github.com/gin-gonic/gin"
)

// AuthOptionalMiddleware 可选鉴权：解析成功注入 UID，失败或缺失则 UID 为 0, 按匿名观看者处理
func AuthOptionalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Set(UserIDKey, uint64(0))
			c.Next()
			return
		}

		claims, err := security.ValidateToken(token)
		if err != nil {
			c.Set(UserIDKey, uint64(0))
		} else {
			setUserID(c, claims.UserID)
		}

		c.Next()
	}
}
