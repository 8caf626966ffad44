package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"alteran/internal/pkg/config"
	"alteran/internal/pkg/logger"

	_ "alteran/docs" // Swagger docs
)

// @title Alteran API
// @version 1.0
// @description 作品集站点与后台管理 API
// @description 提供项目管理, GitHub 导入, AI 文案生成与图片上传等功能

// @BasePath /

// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name admin_session

const appName = "alteran"

// 构建时通过 -ldflags "-X main.appVersion=..." 注入
var appVersion = "dev"

var configFile string

var rootCmd = &cobra.Command{
	Use:           appName,
	Short:         "alteran.tech 作品集站点",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径 (例如: --config=configs/config.yaml)")
	rootCmd.AddCommand(serveCmd, seedCmd, hashPasswordCmd, versionCmd)
}

// getConfigPath 获取配置文件路径
// 优先级: 命令行参数 > 环境变量 > 默认查找
func getConfigPath() string {
	if configFile != "" {
		return configFile
	}
	return os.Getenv("CONFIG_FILE")
}

// loadConfig 加载配置并初始化日志
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}
	if err := logger.Init(&cfg.Log); err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	return cfg, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, appVersion)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
