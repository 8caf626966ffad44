package handler

import (
	"github.com/gin-gonic/gin"

	"alteran/internal/dto"
	"alteran/internal/service"
	"alteran/pkg/responses"
)

type SettingHandler struct {
	settingService service.SettingService
}

func NewSettingHandler(settingService service.SettingService) *SettingHandler {
	return &SettingHandler{settingService: settingService}
}

// Get 获取联系方式
// @Summary 获取联系方式设置
// @Tags Settings
// @Produce json
// @Success 200 {object} dto.ContactSettings
// @Router /api/settings [get]
func (h *SettingHandler) Get(c *gin.Context) {
	contact, err := h.settingService.GetContact(c.Request.Context())
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, contact)
}

// Update 保存联系方式
// @Summary 保存联系方式设置
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body dto.ContactSettings true "联系方式"
// @Success 200 {object} dto.ContactSettings
// @Failure 400 {object} responses.ErrorResponse
// @Router /api/settings [put]
func (h *SettingHandler) Update(c *gin.Context) {
	var req dto.ContactSettings
	if !bindJSON(c, &req) {
		return
	}

	contact, err := h.settingService.SaveContact(c.Request.Context(), &req)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, contact)
}
