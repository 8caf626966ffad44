package github

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

var (
	ownerPattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,38})$`)
	repoPattern  = regexp.MustCompile(`^[A-Za-z0-9._-]{1,100}$`)
)

// ParseURL 解析仓库引用, 支持:
//
//	owner/repo
//	github.com/owner/repo
//	https://github.com/owner/repo/tree/main/...
func ParseURL(input string) (owner, repo string, err error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", "", invalidURL("GitHub URL is required")
	}

	if !strings.Contains(s, "://") {
		// GitHub 用户名不含 "."，首段带点号说明是域名
		first, _, _ := strings.Cut(s, "/")
		if !strings.Contains(first, ".") {
			return splitOwnerRepo(s)
		}
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return "", "", invalidURL("Invalid GitHub URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", "", invalidURL("Invalid GitHub URL")
	}
	host := strings.ToLower(u.Hostname())
	if host != "github.com" && host != "www.github.com" {
		return "", "", invalidURL("URL must point to github.com")
	}

	return splitOwnerRepo(u.Path)
}

func splitOwnerRepo(path string) (string, string, error) {
	parts := lo.Compact(strings.Split(path, "/"))
	if len(parts) < 2 {
		return "", "", invalidURL("Expected a repository URL like https://github.com/owner/repo")
	}

	owner := parts[0]
	repo := strings.TrimSuffix(parts[1], ".git")
	if !ownerPattern.MatchString(owner) || !repoPattern.MatchString(repo) || repo == "." || repo == ".." {
		return "", "", invalidURL("Invalid GitHub owner or repository name")
	}
	return owner, repo, nil
}

// CacheKey 缓存键, 不区分大小写
func CacheKey(owner, repo string) string {
	return strings.ToLower(owner + "/" + repo)
}
