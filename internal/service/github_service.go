package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"alteran/internal/dto"
	"alteran/internal/model"
	"alteran/internal/pkg/github"
	"alteran/internal/pkg/logger"
	"alteran/internal/repository"
	pkgErrors "alteran/pkg/errors"
)

// RepoFetcher 获取仓库元数据
type RepoFetcher interface {
	FetchRepo(ctx context.Context, owner, name string) (*github.Repo, error)
}

type GitHubService interface {
	// GetRepo 先查缓存, 未命中或已过期时请求 GitHub 并写回缓存
	GetRepo(ctx context.Context, owner, name string) (*github.Repo, error)
	// Lookup 解析请求中的仓库引用并返回映射后的项目数据
	Lookup(ctx context.Context, req *dto.GitHubRepoRequest) (*dto.GitHubImportResponse, error)
	// Import 以仓库数据创建草稿项目
	Import(ctx context.Context, req *dto.GitHubRepoRequest) (*model.Project, error)
	Invalidate(ctx context.Context, owner, name string) error
	PurgeExpired(ctx context.Context) (int64, error)
}

type githubService struct {
	fetcher   RepoFetcher
	cacheRepo repository.GitHubCacheRepository
	projects  ProjectService
	ttl       time.Duration
	now       func() time.Time
}

func NewGitHubService(fetcher RepoFetcher, cacheRepo repository.GitHubCacheRepository, projects ProjectService, ttl time.Duration) GitHubService {
	return &githubService{
		fetcher:   fetcher,
		cacheRepo: cacheRepo,
		projects:  projects,
		ttl:       lo.Ternary(ttl <= 0, time.Hour, ttl),
		now:       time.Now,
	}
}

func (s *githubService) GetRepo(ctx context.Context, owner, name string) (*github.Repo, error) {
	key := github.CacheKey(owner, name)

	// 缓存读写失败只记录告警, 不影响主流程
	if repo := s.readCache(ctx, key); repo != nil {
		return repo, nil
	}

	repo, err := s.fetcher.FetchRepo(ctx, owner, name)
	if err != nil {
		return nil, toAppError(err)
	}

	s.writeCache(ctx, key, repo)
	return repo, nil
}

func (s *githubService) readCache(ctx context.Context, key string) *github.Repo {
	entry, err := s.cacheRepo.FindFresh(ctx, key, s.now().Unix())
	if err != nil {
		if !errors.Is(err, pkgErrors.ErrRecordNotFound) {
			logger.Warn("读取 GitHub 缓存失败", zap.String("key", key), zap.Error(err))
		}
		return nil
	}

	var repo github.Repo
	if err := json.Unmarshal([]byte(entry.Data), &repo); err != nil {
		logger.Warn("GitHub 缓存数据损坏", zap.String("key", key), zap.Error(err))
		return nil
	}
	logger.Debug("命中 GitHub 缓存", zap.String("key", key))
	return &repo
}

func (s *githubService) writeCache(ctx context.Context, key string, repo *github.Repo) {
	data, err := json.Marshal(repo)
	if err != nil {
		logger.Warn("序列化 GitHub 缓存失败", zap.String("key", key), zap.Error(err))
		return
	}

	entry := &model.GitHubCache{
		CacheKey:  key,
		Data:      string(data),
		ExpiresAt: s.now().Add(s.ttl).Unix(),
	}
	if err := s.cacheRepo.Replace(ctx, entry); err != nil {
		logger.Warn("写入 GitHub 缓存失败", zap.String("key", key), zap.Error(err))
	}
}

// resolve 从请求中取出 owner/repo, url 优先
func resolve(req *dto.GitHubRepoRequest) (string, string, error) {
	if strings.TrimSpace(req.URL) != "" {
		owner, name, err := github.ParseURL(req.URL)
		if err != nil {
			return "", "", toAppError(err)
		}
		return owner, name, nil
	}

	owner, name := strings.TrimSpace(req.Owner), strings.TrimSpace(req.Repo)
	if owner == "" || name == "" {
		return "", "", pkgErrors.ErrRepoRefRequired
	}
	// 复用 URL 解析中的名称校验
	owner, name, err := github.ParseURL(owner + "/" + name)
	if err != nil {
		return "", "", toAppError(err)
	}
	return owner, name, nil
}

func (s *githubService) Lookup(ctx context.Context, req *dto.GitHubRepoRequest) (*dto.GitHubImportResponse, error) {
	owner, name, err := resolve(req)
	if err != nil {
		return nil, err
	}

	repo, err := s.GetRepo(ctx, owner, name)
	if err != nil {
		return nil, err
	}

	return &dto.GitHubImportResponse{
		ImportData: github.MapToProject(repo, owner, name),
		Raw: dto.GitHubRawData{
			Stars:             repo.Stars,
			PrimaryLanguage:   lo.EmptyableToPtr(repo.PrimaryLanguage),
			Topics:            lo.Ternary(repo.Topics == nil, []string{}, repo.Topics),
			Languages:         lo.Ternary(repo.Languages == nil, []string{}, repo.Languages),
			OpenGraphImageURL: lo.EmptyableToPtr(repo.OpenGraphImageURL),
		},
	}, nil
}

func (s *githubService) Import(ctx context.Context, req *dto.GitHubRepoRequest) (*model.Project, error) {
	found, err := s.Lookup(ctx, req)
	if err != nil {
		return nil, err
	}
	data := found.ImportData

	project, err := s.projects.Create(ctx, &dto.CreateProjectRequest{
		Title:          data.Title,
		Description:    data.Description,
		Content:        data.Content,
		ImageURL:       data.ImageURL,
		LiveURL:        data.LiveURL,
		SourceURL:      &data.SourceURL,
		GitHubOwner:    &data.GitHubOwner,
		GitHubRepo:     &data.GitHubRepo,
		GitHubStars:    data.GitHubStars,
		GitHubLanguage: data.GitHubLanguage,
		GitHubTopics:   data.GitHubTopics,
		TechStack:      data.TechStack,
		Status:         model.ProjectStatusDraft,
		Source:         model.ProjectSourceGitHub,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("已从 GitHub 导入项目",
		zap.String("repo", data.GitHubOwner+"/"+data.GitHubRepo),
		zap.Int64("project_id", project.ID))
	return project, nil
}

func (s *githubService) Invalidate(ctx context.Context, owner, name string) error {
	return s.cacheRepo.DeleteByKey(ctx, github.CacheKey(owner, name))
}

func (s *githubService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.cacheRepo.DeleteExpired(ctx, s.now().Unix())
}

// toAppError 将 GitHub 客户端错误转换为带状态码的应用错误
func toAppError(err error) error {
	var apiErr *github.APIError
	if errors.As(err, &apiErr) {
		return pkgErrors.Wrap(apiErr.StatusCode, apiErr.Message, err)
	}
	if _, ok := pkgErrors.As(err); ok {
		return err
	}
	return pkgErrors.Wrap(pkgErrors.CodeBadGateway, "Failed to fetch repository from GitHub", err)
}
