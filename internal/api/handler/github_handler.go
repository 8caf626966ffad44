package handler

import (
	"github.com/gin-gonic/gin"

	"alteran/internal/dto"
	"alteran/internal/service"
	"alteran/pkg/responses"
)

type GitHubHandler struct {
	githubService service.GitHubService
}

func NewGitHubHandler(githubService service.GitHubService) *GitHubHandler {
	return &GitHubHandler{githubService: githubService}
}

// Repo 查询仓库并映射为项目字段
// @Summary 查询 GitHub 仓库
// @Description 请求体为 {url} 或 {owner, repo}, 结果缓存一小时
// @Tags GitHub
// @Accept json
// @Produce json
// @Param request body dto.GitHubRepoRequest true "仓库引用"
// @Success 200 {object} dto.GitHubImportResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 429 {object} responses.ErrorResponse
// @Router /api/github/repo [post]
func (h *GitHubHandler) Repo(c *gin.Context) {
	var req dto.GitHubRepoRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.githubService.Lookup(c.Request.Context(), &req)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, resp)
}

// Import 以仓库数据创建草稿项目
// @Summary 从 GitHub 导入项目
// @Tags GitHub
// @Accept json
// @Produce json
// @Param request body dto.GitHubRepoRequest true "仓库引用"
// @Success 201 {object} dto.ProjectResponse
// @Failure 400 {object} responses.ErrorResponse
// @Router /api/github/import [post]
func (h *GitHubHandler) Import(c *gin.Context) {
	var req dto.GitHubRepoRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.githubService.Import(c.Request.Context(), &req)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Created(c, dto.ToProjectResponse(project))
}
