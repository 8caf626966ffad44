package model

import (
	"gorm.io/datatypes"
)

const ProjectTableName = "projects"

// 项目状态
const (
	ProjectStatusDraft     = "draft"
	ProjectStatusPublished = "published"
)

// 项目来源
const (
	ProjectSourceManual    = "manual"
	ProjectSourceGitHub    = "github"
	ProjectSourceGenerated = "generated"
)

// Project 作品集项目
type Project struct {
	BaseModel
	Slug           string                      `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Title          string                      `gorm:"size:255;not null" json:"title"`
	Description    *string                     `gorm:"type:text" json:"description"`
	Content        *string                     `gorm:"type:text" json:"content"` // markdown
	ImageURL       *string                     `gorm:"column:image_url;size:1024" json:"image_url"`
	LiveURL        *string                     `gorm:"column:live_url;size:1024" json:"live_url"`
	SourceURL      *string                     `gorm:"column:source_url;size:1024" json:"source_url"`
	GitHubOwner    *string                     `gorm:"column:github_owner;size:100" json:"github_owner"`
	GitHubRepo     *string                     `gorm:"column:github_repo;size:100" json:"github_repo"`
	GitHubStars    int                         `gorm:"column:github_stars;not null;default:0" json:"github_stars"`
	GitHubLanguage *string                     `gorm:"column:github_language;size:50" json:"github_language"`
	GitHubTopics   datatypes.JSONSlice[string] `gorm:"column:github_topics" json:"github_topics"`
	TechStack      datatypes.JSONSlice[string] `gorm:"column:tech_stack" json:"tech_stack"`
	Category       *string                     `gorm:"size:50;index" json:"category"`
	Featured       bool                        `gorm:"not null;default:false;index" json:"featured"`
	SortOrder      int                         `gorm:"not null;default:0" json:"sort_order"`
	Status         string                      `gorm:"size:20;not null;default:draft;index" json:"status"`
	Source         string                      `gorm:"size:20;not null;default:manual" json:"source"`
}

func (Project) TableName() string {
	return ProjectTableName
}

// IsPublished 是否已发布
func (p *Project) IsPublished() bool {
	return p.Status == ProjectStatusPublished
}

// HasGitHubRepo 是否关联了 GitHub 仓库
func (p *Project) HasGitHubRepo() bool {
	return p.GitHubOwner != nil && *p.GitHubOwner != "" && p.GitHubRepo != nil && *p.GitHubRepo != ""
}
