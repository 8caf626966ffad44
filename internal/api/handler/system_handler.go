package handler

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"alteran/internal/dto"
	"alteran/internal/pkg/logger"
	"alteran/internal/service"
	pkgErrors "alteran/pkg/errors"
	"alteran/pkg/responses"
)

type SystemHandler struct {
	db          *gorm.DB
	revalidator service.Revalidator
}

func NewSystemHandler(db *gorm.DB, revalidator service.Revalidator) *SystemHandler {
	return &SystemHandler{db: db, revalidator: revalidator}
}

// Health 健康检查
// @Summary 健康检查
// @Tags System
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	resp := dto.HealthResponse{Status: "ok", Database: "ok", Time: time.Now().Format(time.RFC3339)}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		resp.Database = "unavailable"
	}

	responses.Success(c, resp)
}

// Revalidate 使页面缓存失效
// @Summary 使页面缓存失效
// @Tags System
// @Accept json
// @Produce json
// @Param request body dto.RevalidateRequest true "页面路径"
// @Success 200 {object} dto.RevalidateResponse
// @Failure 400 {object} responses.ErrorResponse
// @Router /api/revalidate [post]
func (h *SystemHandler) Revalidate(c *gin.Context) {
	var req dto.RevalidateRequest
	if !bindJSON(c, &req) {
		return
	}
	path := strings.TrimSpace(req.Path)
	if path == "" {
		responses.Error(c, pkgErrors.ErrRevalidatePathMiss)
		return
	}

	h.revalidator.Invalidate(path)
	logger.Info("页面缓存已失效", zap.String("path", path))

	responses.Success(c, dto.RevalidateResponse{
		Revalidated: true,
		Path:        path,
		Timestamp:   time.Now().UnixMilli(),
	})
}
