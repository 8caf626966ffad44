// Package seed 从 YAML 文件导入示例项目, 已存在的 slug 会被跳过
package seed

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"alteran/internal/model"
	"alteran/internal/pkg/logger"
	"alteran/internal/pkg/slug"
	"alteran/internal/repository"
)

// Project 种子文件中的一个项目
type Project struct {
	Slug           string   `yaml:"slug"`
	Title          string   `yaml:"title"`
	Description    string   `yaml:"description"`
	Content        string   `yaml:"content"`
	ImageURL       string   `yaml:"image_url"`
	LiveURL        string   `yaml:"live_url"`
	SourceURL      string   `yaml:"source_url"`
	GitHubOwner    string   `yaml:"github_owner"`
	GitHubRepo     string   `yaml:"github_repo"`
	GitHubStars    int      `yaml:"github_stars"`
	GitHubLanguage string   `yaml:"github_language"`
	GitHubTopics   []string `yaml:"github_topics"`
	TechStack      []string `yaml:"tech_stack"`
	Category       string   `yaml:"category"`
	Featured       bool     `yaml:"featured"`
	SortOrder      int      `yaml:"sort_order"`
	Status         string   `yaml:"status"`
	Source         string   `yaml:"source"`
}

type file struct {
	Projects []Project `yaml:"projects"`
}

// Result 导入结果
type Result struct {
	Created []string
	Skipped []string
}

// Parse 解析种子文件内容
func Parse(content []byte) ([]Project, error) {
	var f file
	if err := yaml.Unmarshal(content, &f); err != nil {
		return nil, fmt.Errorf("解析种子文件失败: %w", err)
	}
	for i, p := range f.Projects {
		if strings.TrimSpace(p.Title) == "" {
			return nil, fmt.Errorf("第 %d 个项目缺少 title", i+1)
		}
	}
	return f.Projects, nil
}

// LoadFile 读取并解析种子文件
func LoadFile(path string) ([]Project, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取种子文件失败: %w", err)
	}
	return Parse(content)
}

func textPtr(s string) *string {
	return lo.EmptyableToPtr(strings.TrimSpace(s))
}

// toModel slug 为空时由标题生成
func (p *Project) toModel() *model.Project {
	return &model.Project{
		Slug:           lo.CoalesceOrEmpty(strings.TrimSpace(p.Slug), slug.Make(p.Title)),
		Title:          strings.TrimSpace(p.Title),
		Description:    textPtr(p.Description),
		Content:        textPtr(p.Content),
		ImageURL:       textPtr(p.ImageURL),
		LiveURL:        textPtr(p.LiveURL),
		SourceURL:      textPtr(p.SourceURL),
		GitHubOwner:    textPtr(p.GitHubOwner),
		GitHubRepo:     textPtr(p.GitHubRepo),
		GitHubStars:    p.GitHubStars,
		GitHubLanguage: textPtr(p.GitHubLanguage),
		GitHubTopics:   p.GitHubTopics,
		TechStack:      p.TechStack,
		Category:       textPtr(p.Category),
		Featured:       p.Featured,
		SortOrder:      p.SortOrder,
		Status:         lo.Ternary(p.Status == model.ProjectStatusPublished, model.ProjectStatusPublished, model.ProjectStatusDraft),
		Source:         lo.CoalesceOrEmpty(p.Source, model.ProjectSourceManual),
	}
}

// Run 写入种子项目, slug 已存在的跳过
func Run(ctx context.Context, repo repository.ProjectRepository, projects []Project) (*Result, error) {
	result := &Result{}
	for i := range projects {
		project := projects[i].toModel()

		taken, err := repo.SlugTaken(ctx, project.Slug, 0)
		if err != nil {
			return result, err
		}
		if taken {
			logger.Info("项目已存在, 跳过", zap.String("slug", project.Slug))
			result.Skipped = append(result.Skipped, project.Slug)
			continue
		}

		if err := repo.Create(ctx, project); err != nil {
			return result, fmt.Errorf("写入项目 %s 失败: %w", project.Slug, err)
		}
		logger.Info("项目已写入", zap.String("slug", project.Slug), zap.Int64("id", project.ID))
		result.Created = append(result.Created, project.Slug)
	}
	return result, nil
}
