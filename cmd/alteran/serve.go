package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alteran/internal/api/router"
	"alteran/internal/pkg/database"
	"alteran/internal/pkg/logger"
	"alteran/internal/pkg/pagecache"
	"alteran/internal/scheduler"
	"alteran/internal/service"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 服务",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Close()
	}()

	logger.Info(fmt.Sprintf("服务 %s 启动中...", cfg.Server.Name), zap.String("version", appVersion))

	// 初始化数据库
	if err := database.Init(&cfg.Database); err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()
	logger.Info("数据库连接成功", zap.String("driver", cfg.Database.Driver))

	pages := pagecache.New(cfg.Site.PageCacheTTLDuration())
	services := service.NewServices(cfg, database.GetDB(), pages, logger.Log)

	if !services.Auth.Configured() {
		logger.Warn("未配置 ADMIN_PASSWORD 或 AUTH_SECRET, 后台无法登录")
	}
	if !services.Generate.Enabled() {
		logger.Warn("未配置 OPENROUTER_API_KEY, AI 生成不可用")
	}

	// 初始化并启动定时任务调度器
	taskScheduler := scheduler.NewScheduler(services.GitHub, services.StarSync, logger.Named("scheduler"))
	if err := taskScheduler.Start(&cfg.Scheduler); err != nil {
		logger.Warn("定时任务调度器启动失败", zap.Error(err))
	}

	// 设置路由
	r, err := router.Setup(cfg, database.GetDB(), services, pages)
	if err != nil {
		return err
	}

	addr := cfg.Server.GetAddr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("%s 服务启动成功", cfg.Server.Name),
			zap.String("address", addr),
			zap.String("mode", cfg.Server.Mode),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		taskScheduler.Stop()
		return fmt.Errorf("服务器启动失败: %w", err)
	case <-quit:
	}

	logger.Info("服务正在关闭...")

	// 关闭定时任务调度器
	taskScheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	logger.Info("服务已关闭")
	return nil
}
