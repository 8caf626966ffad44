package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alteran/internal/model"
	pkgErrors "alteran/pkg/errors"
)

type SettingRepository interface {
	Get(ctx context.Context, key string) (string, error)
	GetMany(ctx context.Context, keys ...string) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
}

type settingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

// Get 获取设置值, 不存在时返回 ErrRecordNotFound
func (r *settingRepository) Get(ctx context.Context, key string) (string, error) {
	var setting model.Setting
	err := r.db.WithContext(ctx).Where("`key` = ?", key).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgErrors.ErrRecordNotFound
		}
		return "", pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询设置失败", err)
	}
	return setting.Value, nil
}

// GetMany 批量获取设置, 缺失的键不出现在结果中
func (r *settingRepository) GetMany(ctx context.Context, keys ...string) (map[string]string, error) {
	var settings []model.Setting
	if err := r.db.WithContext(ctx).Where("`key` IN ?", keys).Find(&settings).Error; err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "查询设置失败", err)
	}

	result := make(map[string]string, len(settings))
	for _, s := range settings {
		result[s.Key] = s.Value
	}
	return result, nil
}

// Set 写入设置, 键已存在时覆盖
func (r *settingRepository) Set(ctx context.Context, key, value string) error {
	setting := &model.Setting{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(setting).Error
	if err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "保存设置失败", err)
	}
	return nil
}
