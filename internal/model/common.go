package model

import (
	"time"
)

type BaseModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// All 返回需要自动迁移的全部模型
func All() []interface{} {
	return []interface{}{
		&Project{},
		&Setting{},
		&GitHubCache{},
	}
}
