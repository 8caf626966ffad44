package github

import "time"

// Repo GitHub 仓库元数据, 序列化后直接写入缓存
type Repo struct {
	Owner             string    `json:"owner"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	URL               string    `json:"url"`
	HomepageURL       string    `json:"homepage_url"`
	Stars             int       `json:"stars"`
	PrimaryLanguage   string    `json:"primary_language"`
	Topics            []string  `json:"topics"`
	Languages         []string  `json:"languages"` // 按代码量降序
	OpenGraphImageURL string    `json:"open_graph_image_url"`
	Readme            string    `json:"readme"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// repoQuery 一次请求取回导入所需的全部字段
const repoQuery = `query($owner: String!, $name: String!) {
  repository(owner: $owner, name: $name) {
    name
    description
    url
    homepageUrl
    stargazerCount
    primaryLanguage { name }
    repositoryTopics(first: 20) { nodes { topic { name } } }
    openGraphImageUrl
    languages(first: 10, orderBy: { field: SIZE, direction: DESC }) { nodes { name } }
    object(expression: "HEAD:README.md") { ... on Blob { text } }
    createdAt
    updatedAt
  }
}`

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type graphQLError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type nameNode struct {
	Name string `json:"name"`
}

type topicNode struct {
	Topic nameNode `json:"topic"`
}

type repositoryNode struct {
	Name             string    `json:"name"`
	Description      *string   `json:"description"`
	URL              string    `json:"url"`
	HomepageURL      *string   `json:"homepageUrl"`
	StargazerCount   int       `json:"stargazerCount"`
	PrimaryLanguage  *nameNode `json:"primaryLanguage"`
	RepositoryTopics struct {
		Nodes []topicNode `json:"nodes"`
	} `json:"repositoryTopics"`
	OpenGraphImageURL *string `json:"openGraphImageUrl"`
	Languages         struct {
		Nodes []nameNode `json:"nodes"`
	} `json:"languages"`
	Object *struct {
		Text *string `json:"text"`
	} `json:"object"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type graphQLResponse struct {
	Data *struct {
		Repository *repositoryNode `json:"repository"`
	} `json:"data"`
	Errors  []graphQLError `json:"errors"`
	Message string         `json:"message"` // REST 风格的错误体
}
