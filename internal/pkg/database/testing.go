package database

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"alteran/internal/pkg/config"
)

var testDBSeq atomic.Int64

// NewTestDB 为单个测试创建独立的内存 sqlite 库并完成迁移
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := &config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, testDBSeq.Add(1)),
		MaxOpenConns: 1,
		LogLevel:     "silent",
	}

	db, err := Open(cfg)
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("迁移测试数据库失败: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
