package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alteran/internal/pkg/database"
	"alteran/internal/pkg/logger"
	"alteran/internal/repository"
	"alteran/internal/seed"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "导入示例项目, 已存在的 slug 会被跳过",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() {
			_ = logger.Close()
		}()

		projects, err := seed.LoadFile(seedFile)
		if err != nil {
			return err
		}

		if err := database.Init(&cfg.Database); err != nil {
			return err
		}
		defer func() {
			_ = database.Close()
		}()

		result, err := seed.Run(cmd.Context(), repository.NewProjectRepository(database.GetDB()), projects)
		if err != nil {
			return err
		}

		logger.Info("种子数据导入完成",
			zap.Int("created", len(result.Created)),
			zap.Int("skipped", len(result.Skipped)),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "created %d, skipped %d\n", len(result.Created), len(result.Skipped))
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "seeds/projects.yaml", "种子文件路径")
}
