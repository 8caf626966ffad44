package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alteran/internal/dto"
	"alteran/internal/model"
	"alteran/internal/repository"
	"alteran/internal/service"
	"alteran/pkg/responses"
	"alteran/pkg/utils"
)

type ProjectHandler struct {
	projectService service.ProjectService
}

func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// ListPublished 获取已发布项目
// @Summary 获取已发布项目
// @Tags Project
// @Produce json
// @Success 200 {array} dto.ProjectResponse
// @Router /api/projects [get]
func (h *ProjectHandler) ListPublished(c *gin.Context) {
	projects, err := h.projectService.List(c.Request.Context(), repository.ProjectFilter{Status: model.ProjectStatusPublished})
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, dto.ToProjectResponses(projects))
}

// GetByID 获取项目详情
// @Summary 获取项目详情
// @Tags Project
// @Produce json
// @Param id path int64 true "项目ID"
// @Success 200 {object} dto.ProjectResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /api/projects/{id} [get]
func (h *ProjectHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	project, err := h.projectService.GetByID(c.Request.Context(), id)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, dto.ToProjectResponse(project))
}

// List 后台项目列表
// @Summary 后台项目列表(包含草稿)
// @Tags Admin
// @Produce json
// @Param status query string false "draft / published"
// @Param featured query bool false "是否精选"
// @Param category query string false "分类"
// @Param limit query int false "数量限制"
// @Success 200 {array} dto.ProjectResponse
// @Failure 401 {object} responses.ErrorResponse
// @Router /api/admin/projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	var query dto.ProjectListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		responses.ErrorWithDetail(c, http.StatusBadRequest, "Invalid query", utils.FormatValidationError(err))
		return
	}

	projects, err := h.projectService.List(c.Request.Context(), repository.ProjectFilter{
		Status:   query.Status,
		Featured: query.Featured,
		Category: query.Category,
		Limit:    query.Limit,
	})
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, dto.ToProjectResponses(projects))
}

// Stats 后台概览统计
// @Summary 后台概览统计
// @Tags Admin
// @Produce json
// @Success 200 {object} dto.ProjectStatsResponse
// @Router /api/admin/stats [get]
func (h *ProjectHandler) Stats(c *gin.Context) {
	stats, err := h.projectService.Stats(c.Request.Context())
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, stats)
}

// Create 创建项目
// @Summary 创建项目
// @Tags Project
// @Accept json
// @Produce json
// @Param request body dto.CreateProjectRequest true "创建项目请求"
// @Success 201 {object} dto.ProjectResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Router /api/projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var req dto.CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), &req)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Created(c, dto.ToProjectResponse(project))
}

// Update 更新项目
// @Summary 更新项目
// @Tags Project
// @Accept json
// @Produce json
// @Param id path int64 true "项目ID"
// @Param request body dto.UpdateProjectRequest true "更新项目请求"
// @Success 200 {object} dto.ProjectResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /api/projects/{id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), id, &req)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, dto.ToProjectResponse(project))
}

// Delete 删除项目
// @Summary 删除项目
// @Tags Project
// @Produce json
// @Param id path int64 true "项目ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /api/projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), id); err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, dto.SuccessResponse{Success: true})
}

// Toggle 切换发布状态
// @Summary 切换发布状态
// @Tags Project
// @Produce json
// @Param id path int64 true "项目ID"
// @Success 200 {object} dto.ProjectResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /api/projects/{id}/toggle [post]
func (h *ProjectHandler) Toggle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	project, err := h.projectService.ToggleStatus(c.Request.Context(), id)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, dto.ToProjectResponse(project))
}
