package dto

import "alteran/internal/pkg/github"

// GitHubRepoRequest 仓库查询请求, url 与 owner+repo 二选一
type GitHubRepoRequest struct {
	URL   string `json:"url"`
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

// GitHubRawData 未经映射的部分原始数据, 供前端展示
type GitHubRawData struct {
	Stars             int      `json:"stars"`
	PrimaryLanguage   *string  `json:"primary_language"`
	Topics            []string `json:"topics"`
	Languages         []string `json:"languages"`
	OpenGraphImageURL *string  `json:"open_graph_image_url"`
}

// GitHubImportResponse 仓库查询结果
type GitHubImportResponse struct {
	*github.ImportData
	Raw GitHubRawData `json:"_raw"`
}
