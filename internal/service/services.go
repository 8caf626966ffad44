package service

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"alteran/internal/dto"
	"alteran/internal/pkg/config"
	"alteran/internal/pkg/github"
	"alteran/internal/pkg/openrouter"
	"alteran/internal/repository"
)

// Services 路由, 定时任务与命令行共用的服务集合
type Services struct {
	Auth     AuthService
	Project  ProjectService
	Setting  SettingService
	GitHub   GitHubService
	Generate GenerateService
	Upload   UploadService
	StarSync StarSyncService
}

// NewServices 按配置组装全部服务
// revalidator 为页面缓存, 可为 nil
func NewServices(cfg *config.Config, db *gorm.DB, revalidator Revalidator, logger *zap.Logger) *Services {
	projectRepo := repository.NewProjectRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	cacheRepo := repository.NewGitHubCacheRepository(db)

	githubClient := github.NewClient(github.Config{
		BaseURL: cfg.GitHub.BaseURL,
		Token:   cfg.GitHub.Token,
		Timeout: cfg.GitHub.TimeoutDuration(),
	})
	openrouterClient := openrouter.NewClient(openrouter.Config{
		APIKey:        cfg.OpenRouter.APIKey,
		BaseURL:       cfg.OpenRouter.BaseURL,
		Model:         cfg.OpenRouter.Model,
		FallbackModel: cfg.OpenRouter.FallbackModel,
		Temperature:   cfg.OpenRouter.Temperature,
		MaxTokens:     cfg.OpenRouter.MaxTokens,
		SiteURL:       cfg.Site.URL,
		SiteName:      cfg.Site.Name,
		Timeout:       cfg.OpenRouter.TimeoutDuration(),
	}, logger.Named("openrouter"))

	projectService := NewProjectService(projectRepo, revalidator)
	githubService := NewGitHubService(githubClient, cacheRepo, projectService, cfg.GitHub.CacheTTLDuration())

	return &Services{
		Auth:    NewAuthService(&cfg.Auth),
		Project: projectService,
		Setting: NewSettingService(settingRepo, revalidator, dto.ContactSettings{
			GitHubURL: cfg.Site.DefaultGitHub,
			Email:     cfg.Site.DefaultEmail,
		}),
		GitHub:   githubService,
		Generate: NewGenerateService(openrouterClient),
		Upload:   NewUploadService(cfg.Upload.Dir, cfg.Upload.MaxSize),
		StarSync: NewStarSyncService(projectRepo, githubService, revalidator, cfg.Scheduler.StarSyncConcurrency),
	}
}
