package github

import "github.com/samber/lo"

// ImportData 由仓库元数据生成的项目草稿
type ImportData struct {
	Title          string   `json:"title"`
	Description    *string  `json:"description"`
	Content        *string  `json:"content"`
	SourceURL      string   `json:"source_url"`
	LiveURL        *string  `json:"live_url"`
	ImageURL       *string  `json:"image_url"`
	GitHubOwner    string   `json:"github_owner"`
	GitHubRepo     string   `json:"github_repo"`
	GitHubStars    int      `json:"github_stars"`
	GitHubLanguage *string  `json:"github_language"`
	GitHubTopics   []string `json:"github_topics"`
	TechStack      []string `json:"tech_stack"` // 无语言信息时为 null
	Source         string   `json:"source"`
}

// MapToProject 将仓库元数据映射为项目字段
func MapToProject(repo *Repo, owner, name string) *ImportData {
	data := &ImportData{
		Title:          repo.Name,
		Description:    lo.EmptyableToPtr(repo.Description),
		Content:        lo.EmptyableToPtr(repo.Readme),
		SourceURL:      repo.URL,
		LiveURL:        lo.EmptyableToPtr(repo.HomepageURL),
		ImageURL:       lo.EmptyableToPtr(repo.OpenGraphImageURL),
		GitHubOwner:    owner,
		GitHubRepo:     name,
		GitHubStars:    repo.Stars,
		GitHubLanguage: lo.EmptyableToPtr(repo.PrimaryLanguage),
		GitHubTopics:   lo.Ternary(repo.Topics == nil, []string{}, repo.Topics),
		Source:         "github",
	}
	if len(repo.Languages) > 0 {
		data.TechStack = repo.Languages
	}
	return data
}
