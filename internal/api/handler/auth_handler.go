package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alteran/internal/dto"
	"alteran/internal/pkg/session"
	"alteran/internal/service"
	pkgErrors "alteran/pkg/errors"
	"alteran/pkg/responses"
)

type AuthHandler struct {
	authService  service.AuthService
	secureCookie bool
}

func NewAuthHandler(authService service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		secureCookie: secureCookie,
	}
}

// setSessionCookie 写入会话 cookie, token 为空时清除
func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	maxAge := int(h.authService.MaxAge().Seconds())
	if token == "" {
		maxAge = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, token, maxAge, "/", "", h.secureCookie, true)
}

// login 校验密码并写入 cookie
func (h *AuthHandler) login(c *gin.Context, password string) error {
	token, err := h.authService.Login(password)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, token)
	return nil
}

// Login 管理员登录
// @Summary 管理员登录
// @Description 校验管理员密码, 成功后写入会话 cookie
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "登录请求"
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 503 {object} responses.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, pkgErrors.ErrBadRequest)
		return
	}

	if err := h.login(c, req.Password); err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, dto.SuccessResponse{Success: true})
}

// Logout 退出登录
// @Summary 退出登录
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "")
	responses.Success(c, dto.SuccessResponse{Success: true})
}
