package pkg

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	AccessCookie  = "token"
	RefreshCookie = "refreshToken"
)

// 跨站前端要求 SameSite=None，secure 由 config 注入（本地调试可关）
var cookieSecure = true

func SetCookieSecure(secure bool) { cookieSecure = secure }

func setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(name, value, maxAge, "/", "", cookieSecure, true)
}

// SetAccessCookie 续签时只重种 access
func SetAccessCookie(c *gin.Context, token string) {
	setCookie(c, AccessCookie, token, int(AccessTTL.Seconds()))
}

// SetAuthCookies 登录/注册时种整套
func SetAuthCookies(c *gin.Context, access, refresh string) {
	setCookie(c, AccessCookie, access, int(AccessTTL.Seconds()))
	setCookie(c, RefreshCookie, refresh, int(RefreshTTL.Seconds()))
}

// ClearAuthCookies 登出/注销时清掉
func ClearAuthCookies(c *gin.Context) {
	setCookie(c, AccessCookie, "", -1)
	setCookie(c, RefreshCookie, "", -1)
}
