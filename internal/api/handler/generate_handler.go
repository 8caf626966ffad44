package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"alteran/internal/dto"
	"alteran/internal/pkg/sse"
	"alteran/internal/service"
	pkgErrors "alteran/pkg/errors"
	"alteran/pkg/responses"
)

type GenerateHandler struct {
	generateService service.GenerateService
}

func NewGenerateHandler(generateService service.GenerateService) *GenerateHandler {
	return &GenerateHandler{generateService: generateService}
}

// bind 解析请求并做生成前的检查
func (h *GenerateHandler) bind(c *gin.Context) (*dto.GenerateRequest, bool) {
	var req dto.GenerateRequest
	if !bindJSON(c, &req) {
		return nil, false
	}
	if strings.TrimSpace(req.Title) == "" {
		responses.Error(c, pkgErrors.ErrTitleRequired)
		return nil, false
	}
	if !h.generateService.Enabled() {
		responses.Error(c, pkgErrors.ErrGenerateDisabled)
		return nil, false
	}
	return &req, true
}

// Stream 流式生成项目文案
// @Summary 流式生成项目文案
// @Description 以 text/event-stream 返回 data: {"text"} 事件, 以 data: [DONE] 结束
// @Tags Generate
// @Accept json
// @Produce text/event-stream
// @Param request body dto.GenerateRequest true "生成请求"
// @Success 200 {string} string "事件流"
// @Failure 400 {object} responses.ErrorResponse
// @Failure 503 {object} responses.ErrorResponse
// @Router /api/generate [post]
func (h *GenerateHandler) Stream(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	sse.SetHeaders(c.Writer.Header())
	c.Status(http.StatusOK)
	// 客户端断开时 ctx 被取消, 错误已以事件形式写出
	_ = h.generateService.Stream(c.Request.Context(), req, sse.NewWriter(c.Writer))
}

// Result 生成并返回解析后的结果
// @Summary 生成项目文案(非流式)
// @Tags Generate
// @Accept json
// @Produce json
// @Param request body dto.GenerateRequest true "生成请求"
// @Success 200 {object} dto.GenerateResult
// @Failure 400 {object} responses.ErrorResponse
// @Failure 502 {object} responses.ErrorResponse
// @Router /api/generate/result [post]
func (h *GenerateHandler) Result(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	result, err := h.generateService.Generate(c.Request.Context(), req)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, result)
}
