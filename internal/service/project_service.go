package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"alteran/internal/dto"
	"alteran/internal/model"
	"alteran/internal/pkg/logger"
	"alteran/internal/pkg/slug"
	"alteran/internal/repository"
	pkgErrors "alteran/pkg/errors"
)

// Revalidator 页面缓存失效
type Revalidator interface {
	Invalidate(paths ...string)
}

type ProjectService interface {
	Create(ctx context.Context, req *dto.CreateProjectRequest) (*model.Project, error)
	Update(ctx context.Context, id int64, req *dto.UpdateProjectRequest) (*model.Project, error)
	Delete(ctx context.Context, id int64) error
	ToggleStatus(ctx context.Context, id int64) (*model.Project, error)
	GetByID(ctx context.Context, id int64) (*model.Project, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*model.Project, error)
	List(ctx context.Context, filter repository.ProjectFilter) ([]*model.Project, error)
	Categories(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (*dto.ProjectStatsResponse, error)
}

type projectService struct {
	repo        repository.ProjectRepository
	revalidator Revalidator
}

func NewProjectService(repo repository.ProjectRepository, revalidator Revalidator) ProjectService {
	return &projectService{
		repo:        repo,
		revalidator: revalidator,
	}
}

// ProjectPaths 项目变更后需要失效的页面
func ProjectPaths(slugs ...string) []string {
	paths := []string{"/", "/projects", "/admin", "/admin/projects", "/sitemap.xml"}
	for _, s := range lo.Uniq(lo.Compact(slugs)) {
		paths = append(paths, "/projects/"+s)
	}
	return paths
}

func (s *projectService) revalidate(slugs ...string) {
	if s.revalidator != nil {
		s.revalidator.Invalidate(ProjectPaths(slugs...)...)
	}
}

// uniqueSlug 生成不与其他项目冲突的 slug, excludeID 为当前项目
func (s *projectService) uniqueSlug(ctx context.Context, title string, excludeID int64) (string, error) {
	return slug.Unique(title, func(candidate string) (bool, error) {
		return s.repo.SlugTaken(ctx, candidate, excludeID)
	})
}

// optionalText 去除首尾空白, 空串视为 NULL
func optionalText(v *string) *string {
	if v == nil {
		return nil
	}
	return lo.EmptyableToPtr(strings.TrimSpace(*v))
}

func cleanList(items []string) []string {
	return lo.Uniq(lo.FilterMap(items, func(item string, _ int) (string, bool) {
		item = strings.TrimSpace(item)
		return item, item != ""
	}))
}

func (s *projectService) Create(ctx context.Context, req *dto.CreateProjectRequest) (*model.Project, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, pkgErrors.ErrTitleRequired
	}

	projectSlug, err := s.uniqueSlug(ctx, title, 0)
	if err != nil {
		return nil, err
	}

	project := &model.Project{
		Slug:           projectSlug,
		Title:          title,
		Description:    optionalText(req.Description),
		Content:        optionalText(req.Content),
		ImageURL:       optionalText(req.ImageURL),
		LiveURL:        optionalText(req.LiveURL),
		SourceURL:      optionalText(req.SourceURL),
		GitHubOwner:    optionalText(req.GitHubOwner),
		GitHubRepo:     optionalText(req.GitHubRepo),
		GitHubStars:    req.GitHubStars,
		GitHubLanguage: optionalText(req.GitHubLanguage),
		GitHubTopics:   cleanList(req.GitHubTopics),
		TechStack:      cleanList(req.TechStack),
		Category:       optionalText(req.Category),
		Featured:       req.Featured,
		SortOrder:      req.SortOrder,
		Status:         lo.Ternary(req.Status == "", model.ProjectStatusDraft, req.Status),
		Source:         lo.Ternary(req.Source == "", model.ProjectSourceManual, req.Source),
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}

	logger.Info("项目已创建",
		zap.Int64("id", project.ID),
		zap.String("slug", project.Slug),
		zap.String("source", project.Source))

	s.revalidate(project.Slug)
	return project, nil
}

func (s *projectService) Update(ctx context.Context, id int64, req *dto.UpdateProjectRequest) (*model.Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldSlug := project.Slug

	// 标题变化时重新生成 slug, 不与自身冲突
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, pkgErrors.ErrTitleRequired
		}
		if title != project.Title {
			newSlug, err := s.uniqueSlug(ctx, title, project.ID)
			if err != nil {
				return nil, err
			}
			project.Slug = newSlug
		}
		project.Title = title
	}

	applyText := func(dst **string, src *string) {
		if src != nil {
			*dst = optionalText(src)
		}
	}
	applyText(&project.Description, req.Description)
	applyText(&project.Content, req.Content)
	applyText(&project.ImageURL, req.ImageURL)
	applyText(&project.LiveURL, req.LiveURL)
	applyText(&project.SourceURL, req.SourceURL)
	applyText(&project.GitHubOwner, req.GitHubOwner)
	applyText(&project.GitHubRepo, req.GitHubRepo)
	applyText(&project.GitHubLanguage, req.GitHubLanguage)
	applyText(&project.Category, req.Category)

	if req.GitHubStars != nil {
		project.GitHubStars = *req.GitHubStars
	}
	if req.GitHubTopics != nil {
		project.GitHubTopics = cleanList(*req.GitHubTopics)
	}
	if req.TechStack != nil {
		project.TechStack = cleanList(*req.TechStack)
	}
	if req.Featured != nil {
		project.Featured = *req.Featured
	}
	if req.SortOrder != nil {
		project.SortOrder = *req.SortOrder
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.Source != nil {
		project.Source = *req.Source
	}

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}

	if oldSlug != project.Slug {
		logger.Info("项目 slug 已变更", zap.Int64("id", id), zap.String("from", oldSlug), zap.String("to", project.Slug))
	}

	s.revalidate(oldSlug, project.Slug)
	return project, nil
}

func (s *projectService) Delete(ctx context.Context, id int64) error {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info("项目已删除", zap.Int64("id", id), zap.String("slug", project.Slug))
	s.revalidate(project.Slug)
	return nil
}

// ToggleStatus 在 draft 与 published 之间切换
func (s *projectService) ToggleStatus(ctx context.Context, id int64) (*model.Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	project.Status = lo.Ternary(project.IsPublished(), model.ProjectStatusDraft, model.ProjectStatusPublished)
	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}

	logger.Info("项目状态已切换", zap.Int64("id", id), zap.String("status", project.Status))
	s.revalidate(project.Slug)
	return project, nil
}

func (s *projectService) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	return s.repo.FindByID(ctx, id)
}

// GetPublishedBySlug 公开页面只能访问已发布项目
func (s *projectService) GetPublishedBySlug(ctx context.Context, projectSlug string) (*model.Project, error) {
	project, err := s.repo.FindBySlug(ctx, projectSlug)
	if err != nil {
		return nil, err
	}
	if !project.IsPublished() {
		return nil, pkgErrors.ErrProjectNotFound
	}
	return project, nil
}

func (s *projectService) List(ctx context.Context, filter repository.ProjectFilter) ([]*model.Project, error) {
	return s.repo.List(ctx, filter)
}

// Categories 已发布项目的分类
func (s *projectService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.ListCategories(ctx, model.ProjectStatusPublished)
}

// Stats 并发统计后台概览数据
func (s *projectService) Stats(ctx context.Context) (*dto.ProjectStatsResponse, error) {
	stats := &dto.ProjectStatsResponse{}
	g, gctx := errgroup.WithContext(ctx)

	count := func(dst *int64, filter repository.ProjectFilter) func() error {
		return func() error {
			n, err := s.repo.Count(gctx, filter)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		}
	}

	g.Go(count(&stats.Total, repository.ProjectFilter{}))
	g.Go(count(&stats.Published, repository.ProjectFilter{Status: model.ProjectStatusPublished}))
	g.Go(count(&stats.Drafts, repository.ProjectFilter{Status: model.ProjectStatusDraft}))
	g.Go(count(&stats.Featured, repository.ProjectFilter{Featured: lo.ToPtr(true)}))
	g.Go(func() error {
		categories, err := s.repo.ListCategories(gctx, "")
		if err != nil {
			return err
		}
		stats.Categories = categories
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("统计项目失败: %w", err)
	}
	return stats, nil
}
