package service

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"alteran/internal/dto"
	"alteran/internal/model"
	"alteran/internal/pkg/logger"
	"alteran/internal/repository"
	pkgErrors "alteran/pkg/errors"
	"alteran/pkg/utils"
)

var contactValidator = utils.NewValidator()

type SettingService interface {
	GetContact(ctx context.Context) (*dto.ContactSettings, error)
	SaveContact(ctx context.Context, req *dto.ContactSettings) (*dto.ContactSettings, error)
}

type settingService struct {
	repo        repository.SettingRepository
	revalidator Revalidator
	defaults    dto.ContactSettings
}

// NewSettingService defaults 为未设置或设置为空时的回退值
func NewSettingService(repo repository.SettingRepository, revalidator Revalidator, defaults dto.ContactSettings) SettingService {
	return &settingService{
		repo:        repo,
		revalidator: revalidator,
		defaults:    defaults,
	}
}

func (s *settingService) GetContact(ctx context.Context) (*dto.ContactSettings, error) {
	values, err := s.repo.GetMany(ctx, model.SettingContactGitHub, model.SettingContactEmail)
	if err != nil {
		// 设置读取失败不影响页面展示
		logger.Warn("读取联系方式设置失败, 使用默认值", zap.Error(err))
		values = map[string]string{}
	}

	return &dto.ContactSettings{
		GitHubURL: lo.CoalesceOrEmpty(values[model.SettingContactGitHub], s.defaults.GitHubURL),
		Email:     lo.CoalesceOrEmpty(values[model.SettingContactEmail], s.defaults.Email),
	}, nil
}

func (s *settingService) SaveContact(ctx context.Context, req *dto.ContactSettings) (*dto.ContactSettings, error) {
	contact := dto.ContactSettings{
		GitHubURL: strings.TrimSpace(req.GitHubURL),
		Email:     strings.TrimSpace(req.Email),
	}
	if err := contactValidator.Struct(&contact); err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeBadRequest, utils.FormatValidationError(err), err)
	}

	if err := s.repo.Set(ctx, model.SettingContactGitHub, contact.GitHubURL); err != nil {
		return nil, err
	}
	if err := s.repo.Set(ctx, model.SettingContactEmail, contact.Email); err != nil {
		return nil, err
	}

	logger.Info("联系方式设置已更新")
	if s.revalidator != nil {
		s.revalidator.Invalidate("/", "/admin/settings")
	}
	return s.GetContact(ctx)
}
