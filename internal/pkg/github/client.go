package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"
)

// DefaultBaseURL GitHub API 地址, GraphQL 端点为 <base>/graphql
const DefaultBaseURL = "https://api.github.com"

const defaultUserAgent = "alteran.tech"

// Config 客户端配置
type Config struct {
	BaseURL   string
	Token     string // 可选, 未配置时以匿名身份访问公开仓库
	UserAgent string
	Timeout   time.Duration
}

// Client GitHub GraphQL 客户端
type Client struct {
	endpoint   string
	token      string
	userAgent  string
	httpClient *http.Client
}

// NewClient 创建客户端
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(lo.Ternary(cfg.BaseURL == "", DefaultBaseURL, cfg.BaseURL), "/")
	timeout := lo.Ternary(cfg.Timeout <= 0, 15*time.Second, cfg.Timeout)

	return &Client{
		endpoint:   baseURL + "/graphql",
		token:      cfg.Token,
		userAgent:  lo.Ternary(cfg.UserAgent == "", defaultUserAgent, cfg.UserAgent),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchRepo 获取仓库元数据
func (c *Client) FetchRepo(ctx context.Context, owner, name string) (*Repo, error) {
	body, err := json.Marshal(graphQLRequest{
		Query:     repoQuery,
		Variables: map[string]interface{}{"owner": owner, "name": name},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求 GitHub 失败: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var payload graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, newAPIError(ErrUpstream, http.StatusBadGateway, "Invalid response from GitHub")
	}

	if len(payload.Errors) > 0 {
		first := payload.Errors[0]
		if first.Type == "NOT_FOUND" {
			return nil, notFound(owner, name)
		}
		return nil, newAPIError(ErrBadQuery, http.StatusBadRequest, lo.Ternary(first.Message == "", "GitHub GraphQL error", first.Message))
	}

	if payload.Message != "" {
		return nil, newAPIError(ErrAuthFailed, http.StatusUnauthorized, payload.Message)
	}

	if payload.Data == nil || payload.Data.Repository == nil {
		return nil, notFound(owner, name)
	}

	return toRepo(owner, payload.Data.Repository), nil
}

// checkStatus 处理 HTTP 层面的错误
func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return newAPIError(ErrAuthFailed, http.StatusUnauthorized, "GitHub authentication failed. Check GITHUB_TOKEN.")
	case resp.StatusCode == http.StatusForbidden:
		if resp.Header.Get("X-RateLimit-Remaining") == "0" {
			return newAPIError(ErrRateLimited, http.StatusTooManyRequests, "GitHub API rate limit exceeded")
		}
		return newAPIError(ErrForbidden, http.StatusForbidden, "GitHub API access forbidden")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return newAPIError(ErrUpstream, resp.StatusCode, fmt.Sprintf("GitHub API returned %d", resp.StatusCode))
	}
	return nil
}

func notFound(owner, name string) *APIError {
	return newAPIError(ErrNotFound, http.StatusNotFound, fmt.Sprintf("Repository not found: %s/%s", owner, name))
}

func toRepo(owner string, node *repositoryNode) *Repo {
	repo := &Repo{
		Owner:             owner,
		Name:              node.Name,
		Description:       lo.FromPtr(node.Description),
		URL:               node.URL,
		HomepageURL:       lo.FromPtr(node.HomepageURL),
		Stars:             node.StargazerCount,
		OpenGraphImageURL: lo.FromPtr(node.OpenGraphImageURL),
		CreatedAt:         node.CreatedAt,
		UpdatedAt:         node.UpdatedAt,
		Topics:            lo.Map(node.RepositoryTopics.Nodes, func(n topicNode, _ int) string { return n.Topic.Name }),
		Languages:         lo.Map(node.Languages.Nodes, func(n nameNode, _ int) string { return n.Name }),
	}
	if node.PrimaryLanguage != nil {
		repo.PrimaryLanguage = node.PrimaryLanguage.Name
	}
	if node.Object != nil {
		repo.Readme = lo.FromPtr(node.Object.Text)
	}
	return repo
}
