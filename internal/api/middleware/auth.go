package middleware

import (
	"net/url"

	"github.com/gin-gonic/gin"

	"alteran/internal/pkg/session"
	"alteran/pkg/constants"
	pkgErrors "alteran/pkg/errors"
	"alteran/pkg/responses"
)

// SessionChecker 校验会话令牌
type SessionChecker interface {
	Authenticated(token string) bool
}

func authenticated(c *gin.Context, checker SessionChecker) bool {
	token, err := c.Cookie(session.CookieName)
	if err != nil {
		return false
	}
	return checker.Authenticated(token)
}

// AuthMiddleware API 认证中间件, 未登录返回 401
func AuthMiddleware(checker SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticated(c, checker) {
			responses.AbortWithError(c, pkgErrors.ErrUnauthorized)
			return
		}
		c.Set(constants.ContextKeyAdmin, true)
		c.Next()
	}
}

// PageAuthMiddleware 后台页面认证, 未登录跳转到登录页并带上原地址
func PageAuthMiddleware(checker SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticated(c, checker) {
			target := constants.PathSignIn + "?" + url.Values{
				constants.RedirectParam: {c.Request.URL.RequestURI()},
			}.Encode()
			c.Redirect(302, target)
			c.Abort()
			return
		}
		c.Set(constants.ContextKeyAdmin, true)
		c.Next()
	}
}

// IsAdmin 当前请求是否已通过认证
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(constants.ContextKeyAdmin)
}
