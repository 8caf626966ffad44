package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"alteran/internal/model"
	pkgErrors "alteran/pkg/errors"
)

type GitHubCacheRepository interface {
	FindFresh(ctx context.Context, key string, now int64) (*model.GitHubCache, error)
	Replace(ctx context.Context, entry *model.GitHubCache) error
	DeleteByKey(ctx context.Context, key string) error
	DeleteExpired(ctx context.Context, now int64) (int64, error)
}

type githubCacheRepository struct {
	db *gorm.DB
}

func NewGitHubCacheRepository(db *gorm.DB) GitHubCacheRepository {
	return &githubCacheRepository{db: db}
}

// FindFresh 查询未过期的缓存, 过期或不存在都返回 ErrRecordNotFound
func (r *githubCacheRepository) FindFresh(ctx context.Context, key string, now int64) (*model.GitHubCache, error) {
	var entry model.GitHubCache
	err := r.db.WithContext(ctx).Where("cache_key = ? AND expires_at > ?", key, now).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgErrors.ErrRecordNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询 GitHub 缓存失败", err)
	}
	return &entry, nil
}

// Replace 先删除同键旧记录再写入
func (r *githubCacheRepository) Replace(ctx context.Context, entry *model.GitHubCache) error {
	if err := r.DeleteByKey(ctx, entry.CacheKey); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "写入 GitHub 缓存失败", err)
	}
	return nil
}

func (r *githubCacheRepository) DeleteByKey(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).Where("cache_key = ?", key).Delete(&model.GitHubCache{}).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "删除 GitHub 缓存失败", err)
	}
	return nil
}

// DeleteExpired 清理过期缓存, 返回删除条数
func (r *githubCacheRepository) DeleteExpired(ctx context.Context, now int64) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&model.GitHubCache{})
	if result.Error != nil {
		return 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "清理 GitHub 缓存失败", result.Error)
	}
	return result.RowsAffected, nil
}
