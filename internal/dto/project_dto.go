package dto

import (
	"strings"
	"time"

	"github.com/samber/lo"

	"alteran/internal/model"
	"alteran/pkg/utils"
)

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Title          string   `json:"title" binding:"max=255"`
	Description    *string  `json:"description"`
	Content        *string  `json:"content"`
	ImageURL       *string  `json:"image_url" binding:"omitempty,max=1024"`
	LiveURL        *string  `json:"live_url" binding:"omitempty,max=1024"`
	SourceURL      *string  `json:"source_url" binding:"omitempty,max=1024"`
	GitHubOwner    *string  `json:"github_owner" binding:"omitempty,max=100"`
	GitHubRepo     *string  `json:"github_repo" binding:"omitempty,max=100"`
	GitHubStars    int      `json:"github_stars" binding:"min=0"`
	GitHubLanguage *string  `json:"github_language" binding:"omitempty,max=50"`
	GitHubTopics   []string `json:"github_topics"`
	TechStack      []string `json:"tech_stack"`
	Category       *string  `json:"category" binding:"omitempty,max=50"`
	Featured       bool     `json:"featured"`
	SortOrder      int      `json:"sort_order"`
	Status         string   `json:"status" binding:"omitempty,oneof=draft published"`
	Source         string   `json:"source" binding:"omitempty,oneof=manual github generated"`
}

// UpdateProjectRequest 更新项目请求, 未出现的字段保持不变, 空字符串清空该字段
type UpdateProjectRequest struct {
	Title          *string   `json:"title" binding:"omitempty,max=255"`
	Description    *string   `json:"description"`
	Content        *string   `json:"content"`
	ImageURL       *string   `json:"image_url" binding:"omitempty,max=1024"`
	LiveURL        *string   `json:"live_url" binding:"omitempty,max=1024"`
	SourceURL      *string   `json:"source_url" binding:"omitempty,max=1024"`
	GitHubOwner    *string   `json:"github_owner" binding:"omitempty,max=100"`
	GitHubRepo     *string   `json:"github_repo" binding:"omitempty,max=100"`
	GitHubStars    *int      `json:"github_stars" binding:"omitempty,min=0"`
	GitHubLanguage *string   `json:"github_language" binding:"omitempty,max=50"`
	GitHubTopics   *[]string `json:"github_topics"`
	TechStack      *[]string `json:"tech_stack"`
	Category       *string   `json:"category" binding:"omitempty,max=50"`
	Featured       *bool     `json:"featured"`
	SortOrder      *int      `json:"sort_order"`
	Status         *string   `json:"status" binding:"omitempty,oneof=draft published"`
	Source         *string   `json:"source" binding:"omitempty,oneof=manual github generated"`
}

// ProjectListQuery 项目列表查询参数
type ProjectListQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=draft published"`
	Featured *bool  `form:"featured"`
	Category string `form:"category" binding:"omitempty,max=50"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// ProjectResponse 项目响应
type ProjectResponse struct {
	ID             int64    `json:"id"`
	Slug           string   `json:"slug"`
	Title          string   `json:"title"`
	Description    *string  `json:"description"`
	Content        *string  `json:"content"`
	ImageURL       *string  `json:"image_url"`
	LiveURL        *string  `json:"live_url"`
	SourceURL      *string  `json:"source_url"`
	GitHubOwner    *string  `json:"github_owner"`
	GitHubRepo     *string  `json:"github_repo"`
	GitHubStars    int      `json:"github_stars"`
	GitHubLanguage *string  `json:"github_language"`
	GitHubTopics   []string `json:"github_topics"`
	TechStack      []string `json:"tech_stack"`
	Category       *string  `json:"category"`
	Featured       bool     `json:"featured"`
	SortOrder      int      `json:"sort_order"`
	Status         string   `json:"status"`
	Source         string   `json:"source"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

// ProjectStatsResponse 后台概览统计
type ProjectStatsResponse struct {
	Total      int64    `json:"total"`
	Published  int64    `json:"published"`
	Drafts     int64    `json:"drafts"`
	Featured   int64    `json:"featured"`
	Categories []string `json:"categories"`
}

// ToProjectResponse 转换为响应, 图片地址统一为 /api/uploads 形式
func ToProjectResponse(p *model.Project) *ProjectResponse {
	return &ProjectResponse{
		ID:             p.ID,
		Slug:           p.Slug,
		Title:          p.Title,
		Description:    p.Description,
		Content:        p.Content,
		ImageURL:       utils.NormalizeImageURLPtr(p.ImageURL),
		LiveURL:        p.LiveURL,
		SourceURL:      p.SourceURL,
		GitHubOwner:    p.GitHubOwner,
		GitHubRepo:     p.GitHubRepo,
		GitHubStars:    p.GitHubStars,
		GitHubLanguage: p.GitHubLanguage,
		GitHubTopics:   lo.Ternary(p.GitHubTopics == nil, []string{}, []string(p.GitHubTopics)),
		TechStack:      lo.Ternary(p.TechStack == nil, []string{}, []string(p.TechStack)),
		Category:       p.Category,
		Featured:       p.Featured,
		SortOrder:      p.SortOrder,
		Status:         p.Status,
		Source:         p.Source,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      p.UpdatedAt.Format(time.RFC3339),
	}
}

// ToProjectResponses 批量转换
func ToProjectResponses(projects []*model.Project) []*ProjectResponse {
	return lo.Map(projects, func(p *model.Project, _ int) *ProjectResponse {
		return ToProjectResponse(p)
	})
}

// ProjectForm 后台表单提交的项目数据
type ProjectForm struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Content     string `form:"content"`
	ImageURL    string `form:"image_url" binding:"max=1024"`
	LiveURL     string `form:"live_url" binding:"max=1024"`
	SourceURL   string `form:"source_url" binding:"max=1024"`
	GitHubOwner string `form:"github_owner" binding:"max=100"`
	GitHubRepo  string `form:"github_repo" binding:"max=100"`
	TechStack   string `form:"tech_stack"` // 逗号分隔
	Category    string `form:"category" binding:"max=50"`
	Featured    bool   `form:"featured"`
	SortOrder   int    `form:"sort_order"`
	Status      string `form:"status" binding:"omitempty,oneof=draft published"`
	Source      string `form:"source" binding:"omitempty,oneof=manual github generated"`
}

// SplitList 逗号分隔的列表, 去除空白与空项
func SplitList(raw string) []string {
	return lo.FilterMap(strings.Split(raw, ","), func(s string, _ int) (string, bool) {
		s = strings.TrimSpace(s)
		return s, s != ""
	})
}

// ToCreateRequest 表单转创建请求
func (f *ProjectForm) ToCreateRequest() *CreateProjectRequest {
	return &CreateProjectRequest{
		Title:       f.Title,
		Description: &f.Description,
		Content:     &f.Content,
		ImageURL:    &f.ImageURL,
		LiveURL:     &f.LiveURL,
		SourceURL:   &f.SourceURL,
		GitHubOwner: &f.GitHubOwner,
		GitHubRepo:  &f.GitHubRepo,
		TechStack:   SplitList(f.TechStack),
		Category:    &f.Category,
		Featured:    f.Featured,
		SortOrder:   f.SortOrder,
		Status:      f.Status,
		Source:      f.Source,
	}
}

// ToUpdateRequest 表单转更新请求, 表单总是提交全部字段
func (f *ProjectForm) ToUpdateRequest() *UpdateProjectRequest {
	techStack := SplitList(f.TechStack)
	req := &UpdateProjectRequest{
		Title:       &f.Title,
		Description: &f.Description,
		Content:     &f.Content,
		ImageURL:    &f.ImageURL,
		LiveURL:     &f.LiveURL,
		SourceURL:   &f.SourceURL,
		GitHubOwner: &f.GitHubOwner,
		GitHubRepo:  &f.GitHubRepo,
		TechStack:   &techStack,
		Category:    &f.Category,
		Featured:    &f.Featured,
		SortOrder:   &f.SortOrder,
	}
	if f.Status != "" {
		req.Status = &f.Status
	}
	if f.Source != "" {
		req.Source = &f.Source
	}
	return req
}

// NewProjectForm 用已有项目填充编辑表单
func NewProjectForm(p *model.Project) *ProjectForm {
	return &ProjectForm{
		Title:       p.Title,
		Description: lo.FromPtr(p.Description),
		Content:     lo.FromPtr(p.Content),
		ImageURL:    lo.FromPtr(p.ImageURL),
		LiveURL:     lo.FromPtr(p.LiveURL),
		SourceURL:   lo.FromPtr(p.SourceURL),
		GitHubOwner: lo.FromPtr(p.GitHubOwner),
		GitHubRepo:  lo.FromPtr(p.GitHubRepo),
		TechStack:   strings.Join(p.TechStack, ", "),
		Category:    lo.FromPtr(p.Category),
		Featured:    p.Featured,
		SortOrder:   p.SortOrder,
		Status:      p.Status,
		Source:      p.Source,
	}
}
