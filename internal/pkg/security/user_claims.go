package security

import (
	"github.com/golang-jwt/jwt/v5"
)

const jwtIssuer = "Glimmer"

// UserClaims Token 中携带的业务信息, 签发方是上游账号服务
type UserClaims struct {
	UserID uint64 `json:"user_id"`
	jwt.RegisteredClaims
}
