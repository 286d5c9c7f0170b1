package middleware

import (
	"campfire/internal/pkg"

	"github.com/gin-gonic/gin"
)

// ContextUserIDKey 认证通过后写入 gin context 的用户 ID
const ContextUserIDKey = "userId"

// Auth 强认证：校验 access cookie，过期时用 refresh 透明续签并重种 cookie
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		access, _ := c.Cookie(pkg.AccessCookie)
		refresh, _ := c.Cookie(pkg.RefreshCookie)

		userID, rotated, err := pkg.Authenticate(access, refresh)
		if err != nil {
			pkg.WriteError(c, err)
			c.Abort()
			return
		}
		if rotated != "" {
			pkg.SetAccessCookie(c, rotated)
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// OptionalAuth 匿名可访问的接口：能认出用户就带上，认不出当游客
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		access, _ := c.Cookie(pkg.AccessCookie)
		c.Set(ContextUserIDKey, pkg.DecodeLenient(access))
		c.Next()
	}
}

// UserID 从 context 取当前用户，拿不到返回 0
func UserID(c *gin.Context) uint64 {
	if v, ok := c.Get(ContextUserIDKey); ok {
		if id, ok := v.(uint64); ok {
			return id
		}
	}
	return 0
}
