package repository

import "gorm.io/gorm"

type QueryOption func(*gorm.DB) *gorm.DB

// ProjectFilter 项目列表过滤条件, 零值字段不参与过滤
type ProjectFilter struct {
	Status   string
	Featured *bool
	Category string
	Limit    int
}

// Scope 将过滤条件转换为 gorm scope
func (f ProjectFilter) Scope() QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		if f.Status != "" {
			db = db.Where("status = ?", f.Status)
		}
		if f.Featured != nil {
			db = db.Where("featured = ?", *f.Featured)
		}
		if f.Category != "" {
			db = db.Where("category = ?", f.Category)
		}
		return db
	}
}

// WithDisplayOrder 展示顺序: 精选优先, 再按排序值升序, 最后按创建时间倒序
func WithDisplayOrder() QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("featured DESC").Order("sort_order ASC").Order("created_at DESC").Order("id DESC")
	}
}
