package service

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"alteran/internal/pkg/config"
	"alteran/internal/pkg/crypto"
	"alteran/internal/pkg/logger"
	"alteran/internal/pkg/session"
	pkgErrors "alteran/pkg/errors"
)

type AuthService interface {
	// Login 校验管理员密码并签发会话令牌
	Login(password string) (string, error)
	// Authenticated 会话令牌是否有效
	Authenticated(token string) bool
	Configured() bool
	MaxAge() time.Duration
}

type authService struct {
	cfg      *config.AuthConfig
	sessions *session.Manager
	now      func() time.Time
}

func NewAuthService(cfg *config.AuthConfig) AuthService {
	return &authService{
		cfg:      cfg,
		sessions: session.NewManager(cfg.Secret, cfg.SessionTTL()),
		now:      time.Now,
	}
}

func (s *authService) Configured() bool {
	return (s.cfg.AdminPassword != "" || s.cfg.AdminPasswordHash != "") && s.cfg.Secret != ""
}

func (s *authService) MaxAge() time.Duration {
	return s.sessions.MaxAge()
}

func (s *authService) Login(password string) (string, error) {
	if !s.Configured() {
		logger.Error("管理员认证未配置, 请设置 ADMIN_PASSWORD 与 AUTH_SECRET")
		return "", pkgErrors.ErrAuthNotConfigured
	}

	if password == "" || !crypto.VerifyAdminPassword(password, s.cfg.AdminPassword, s.cfg.AdminPasswordHash) {
		logger.Warn("管理员登录失败: 密码错误")
		return "", pkgErrors.ErrInvalidPassword
	}

	token, err := s.sessions.Issue(s.now())
	if err != nil {
		return "", pkgErrors.Wrap(pkgErrors.CodeInternalError, "Failed to create session", err)
	}

	logger.Info("管理员登录成功")
	return token, nil
}

func (s *authService) Authenticated(token string) bool {
	if token == "" {
		return false
	}
	if err := s.sessions.Verify(token, s.now()); err != nil {
		if !errors.Is(err, session.ErrExpired) {
			logger.Debug("会话校验失败", zap.Error(err))
		}
		return false
	}
	return true
}
