// Package pagecache 缓存渲染好的公开页面, 内容变更后按路径失效
package pagecache

import (
	"sync"
	"time"
)

type entry struct {
	body        []byte
	contentType string
	expiresAt   time.Time
}

// Cache 以请求路径为键的页面缓存
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

// New 创建缓存, ttl <= 0 时禁用缓存
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Enabled 是否启用
func (c *Cache) Enabled() bool {
	return c.ttl > 0
}

// Get 取出未过期的页面
func (c *Cache) Get(path string) ([]byte, string, bool) {
	if !c.Enabled() {
		return nil, "", false
	}

	c.mu.RLock()
	e, ok := c.entries[path]
	c.mu.RUnlock()

	if !ok || !c.now().Before(e.expiresAt) {
		return nil, "", false
	}
	return e.body, e.contentType, true
}

// Set 写入页面
func (c *Cache) Set(path, contentType string, body []byte) {
	if !c.Enabled() {
		return
	}

	c.mu.Lock()
	c.entries[path] = entry{
		body:        body,
		contentType: contentType,
		expiresAt:   c.now().Add(c.ttl),
	}
	c.mu.Unlock()
}

// Invalidate 使指定路径失效
func (c *Cache) Invalidate(paths ...string) {
	c.mu.Lock()
	for _, p := range paths {
		delete(c.entries, p)
	}
	c.mu.Unlock()
}

// Purge 清空缓存
func (c *Cache) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Len 当前缓存条数, 包括已过期但尚未被覆盖的条目
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
