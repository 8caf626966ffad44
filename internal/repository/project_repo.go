package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"alteran/internal/model"
	pkgErrors "alteran/pkg/errors"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	FindByID(ctx context.Context, id int64) (*model.Project, error)
	FindBySlug(ctx context.Context, slug string) (*model.Project, error)
	SlugTaken(ctx context.Context, slug string, excludeID int64) (bool, error)
	List(ctx context.Context, filter ProjectFilter) ([]*model.Project, error)
	Count(ctx context.Context, filter ProjectFilter) (int64, error)
	ListCategories(ctx context.Context, status string) ([]string, error)
	ListWithGitHubRepo(ctx context.Context) ([]*model.Project, error)
	Update(ctx context.Context, project *model.Project) error
	UpdateGitHubStats(ctx context.Context, id int64, stars int, language *string) error
	Delete(ctx context.Context, id int64) error
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *model.Project) error {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "创建项目失败", err)
	}
	return nil
}

func (r *projectRepository) FindByID(ctx context.Context, id int64) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).First(&project, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgErrors.ErrProjectNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询项目失败", err)
	}
	return &project, nil
}

func (r *projectRepository) FindBySlug(ctx context.Context, slug string) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgErrors.ErrProjectNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询项目失败", err)
	}
	return &project, nil
}

// SlugTaken 判断 slug 是否已被其他项目占用, excludeID 为 0 时不排除任何项目
func (r *projectRepository) SlugTaken(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.Project{}).Where("slug = ?", slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "检查 slug 失败", err)
	}
	return count > 0, nil
}

func (r *projectRepository) List(ctx context.Context, filter ProjectFilter) ([]*model.Project, error) {
	var projects []*model.Project

	query := r.db.WithContext(ctx).Model(&model.Project{}).Scopes(filter.Scope(), WithDisplayOrder())
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	if err := query.Find(&projects).Error; err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询项目列表失败", err)
	}
	return projects, nil
}

func (r *projectRepository) Count(ctx context.Context, filter ProjectFilter) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Project{}).Scopes(filter.Scope()).Count(&total).Error; err != nil {
		return 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "统计项目数量失败", err)
	}
	return total, nil
}

// ListCategories 返回去重后的分类, status 为空时不限状态
func (r *projectRepository) ListCategories(ctx context.Context, status string) ([]string, error) {
	var categories []string
	query := r.db.WithContext(ctx).Model(&model.Project{}).
		Where("category IS NOT NULL AND category <> ''")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Distinct().Order("category ASC").Pluck("category", &categories).Error; err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询项目分类失败", err)
	}
	return categories, nil
}

// ListWithGitHubRepo 返回关联了 GitHub 仓库的项目
func (r *projectRepository) ListWithGitHubRepo(ctx context.Context) ([]*model.Project, error) {
	var projects []*model.Project
	err := r.db.WithContext(ctx).
		Where("github_owner IS NOT NULL AND github_owner <> '' AND github_repo IS NOT NULL AND github_repo <> ''").
		Order("id ASC").
		Find(&projects).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询 GitHub 项目失败", err)
	}
	return projects, nil
}

func (r *projectRepository) Update(ctx context.Context, project *model.Project) error {
	if err := r.db.WithContext(ctx).Save(project).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "更新项目失败", err)
	}
	return nil
}

func (r *projectRepository) UpdateGitHubStats(ctx context.Context, id int64, stars int, language *string) error {
	err := r.db.WithContext(ctx).Model(&model.Project{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"github_stars":    stars,
			"github_language": language,
		}).Error
	if err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "更新项目 GitHub 数据失败", err)
	}
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&model.Project{}, id)
	if result.Error != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除项目失败", result.Error)
	}
	if result.RowsAffected == 0 {
		return pkgErrors.ErrProjectNotFound
	}
	return nil
}
