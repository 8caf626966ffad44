package service

import (
	"context"
	"sync/atomic"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"alteran/internal/model"
	"alteran/internal/pkg/logger"
	"alteran/internal/repository"
)

// StarSyncResult 同步结果统计
type StarSyncResult struct {
	Total   int
	Updated int
	Failed  int
}

type StarSyncService interface {
	// Sync 刷新关联了 GitHub 仓库的项目的星标数与主语言
	Sync(ctx context.Context) (*StarSyncResult, error)
}

type starSyncService struct {
	repo        repository.ProjectRepository
	github      GitHubService
	revalidator Revalidator
	concurrency int
}

func NewStarSyncService(repo repository.ProjectRepository, github GitHubService, revalidator Revalidator, concurrency int) StarSyncService {
	return &starSyncService{
		repo:        repo,
		github:      github,
		revalidator: revalidator,
		concurrency: lo.Ternary(concurrency <= 0, 4, concurrency),
	}
}

func (s *starSyncService) Sync(ctx context.Context) (*StarSyncResult, error) {
	projects, err := s.repo.ListWithGitHubRepo(ctx)
	if err != nil {
		return nil, err
	}

	var updated, failed atomic.Int32
	changed := make([]string, len(projects))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, project := range projects {
		g.Go(func() error {
			ok, err := s.syncOne(gctx, project)
			if err != nil {
				// 单个项目失败不影响其他项目
				failed.Add(1)
				logger.Warn("同步 GitHub 星标失败",
					zap.Int64("project_id", project.ID),
					zap.String("repo", *project.GitHubOwner+"/"+*project.GitHubRepo),
					zap.Error(err))
				return nil
			}
			if ok {
				updated.Add(1)
				changed[i] = project.Slug
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slugs := lo.Compact(changed)
	if len(slugs) > 0 && s.revalidator != nil {
		s.revalidator.Invalidate(ProjectPaths(slugs...)...)
	}

	result := &StarSyncResult{
		Total:   len(projects),
		Updated: int(updated.Load()),
		Failed:  int(failed.Load()),
	}
	logger.Info("GitHub 星标同步完成",
		zap.Int("total", result.Total),
		zap.Int("updated", result.Updated),
		zap.Int("failed", result.Failed))
	return result, nil
}

// syncOne 返回数据是否有变化
func (s *starSyncService) syncOne(ctx context.Context, project *model.Project) (bool, error) {
	repo, err := s.github.GetRepo(ctx, *project.GitHubOwner, *project.GitHubRepo)
	if err != nil {
		return false, err
	}

	language := lo.EmptyableToPtr(repo.PrimaryLanguage)
	if repo.Stars == project.GitHubStars && lo.FromPtr(language) == lo.FromPtr(project.GitHubLanguage) {
		return false, nil
	}

	if err := s.repo.UpdateGitHubStats(ctx, project.ID, repo.Stars, language); err != nil {
		return false, err
	}
	return true, nil
}
