package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"alteran/internal/pkg/config"
	"alteran/internal/service"
)

// 任务名
const (
	JobCachePurge = "github_cache_purge"
	JobStarSync   = "github_star_sync"
)

// 单次任务的最长执行时间
const jobTimeout = 10 * time.Minute

// Scheduler 调度器
type Scheduler struct {
	cron          *cron.Cron
	logger        *zap.Logger
	github        service.GitHubService
	starSync      service.StarSyncService
	cronSchedules map[string]cron.EntryID // 存储任务ID，便于管理
}

// NewScheduler 创建调度器
func NewScheduler(github service.GitHubService, starSync service.StarSyncService, logger *zap.Logger) *Scheduler {
	// 创建 cron 实例（带秒级支持）
	c := cron.New(cron.WithSeconds())

	return &Scheduler{
		cron:          c,
		logger:        logger,
		github:        github,
		starSync:      starSync,
		cronSchedules: make(map[string]cron.EntryID),
	}
}

// register 注册任务, cronExpr 为空时使用默认值
// cron 表达式格式: 秒 分 时 日 月 周
func (s *Scheduler) register(name, cronExpr, defaultExpr string, job func(ctx context.Context) error) error {
	if cronExpr == "" {
		cronExpr = defaultExpr
		s.logger.Warn("未配置 cron 表达式，使用默认值", zap.String("job", name), zap.String("cron", cronExpr))
	}

	entryID, err := s.cron.AddFunc(cronExpr, func() {
		s.run(name, job)
	})
	if err != nil {
		return fmt.Errorf("注册任务 %s (%s) 失败: %w", name, cronExpr, err)
	}

	s.cronSchedules[name] = entryID
	s.logger.Info("定时任务已注册", zap.String("job", name), zap.String("cron", cronExpr), zap.Int("entry_id", int(entryID)))
	return nil
}

func (s *Scheduler) run(name string, job func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	s.logger.Info("执行定时任务", zap.String("job", name))
	if err := job(ctx); err != nil {
		s.logger.Error("定时任务执行失败", zap.String("job", name), zap.Error(err))
		return
	}
	s.logger.Info("定时任务完成", zap.String("job", name), zap.Duration("duration", time.Since(start)))
}

// Start 启动调度器
func (s *Scheduler) Start(cfg *config.SchedulerConfig) error {
	if !cfg.Enabled {
		s.logger.Info("定时任务已禁用")
		return nil
	}

	s.logger.Info("启动定时任务调度器...")

	if err := s.register(JobCachePurge, cfg.CachePurgeCron, "0 0 * * * *", s.PurgeCache); err != nil {
		return err
	}
	if err := s.register(JobStarSync, cfg.StarSyncCron, "0 30 3 * * *", s.SyncStars); err != nil {
		return err
	}

	// 启动 cron
	s.cron.Start()
	s.logger.Info("定时任务调度器启动成功")

	return nil
}

// Stop 停止调度器
func (s *Scheduler) Stop() {
	s.logger.Info("正在停止定时任务调度器...")

	// 停止 cron（等待正在执行的任务完成）
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.logger.Info("定时任务调度器已停止")
}

// Entries 已注册的任务
func (s *Scheduler) Entries() map[string]cron.EntryID {
	return s.cronSchedules
}

// PurgeCache 删除过期的 GitHub 缓存
func (s *Scheduler) PurgeCache(ctx context.Context) error {
	n, err := s.github.PurgeExpired(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("过期 GitHub 缓存已清理", zap.Int64("deleted", n))
	return nil
}

// SyncStars 刷新 GitHub 项目的星标与语言
func (s *Scheduler) SyncStars(ctx context.Context) error {
	result, err := s.starSync.Sync(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("GitHub 星标同步完成",
		zap.Int("total", result.Total),
		zap.Int("updated", result.Updated),
		zap.Int("failed", result.Failed),
	)
	return nil
}
