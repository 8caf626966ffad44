package model

import "time"

const GitHubCacheTableName = "github_cache"

// GitHubCache GitHub 仓库元数据缓存, Data 为序列化后的仓库信息
type GitHubCache struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CacheKey  string    `gorm:"column:cache_key;size:255;not null;uniqueIndex" json:"cache_key"`
	Data      string    `gorm:"type:text;not null" json:"data"`
	ExpiresAt int64     `gorm:"not null;index" json:"expires_at"` // unix 秒
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (GitHubCache) TableName() string {
	return GitHubCacheTableName
}

// Expired 相对给定时间是否已过期
func (c *GitHubCache) Expired(now time.Time) bool {
	return c.ExpiresAt <= now.Unix()
}
