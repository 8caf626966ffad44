package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"alteran/internal/dto"
	"alteran/internal/service"
	"alteran/pkg/constants"
	pkgErrors "alteran/pkg/errors"
	"alteran/pkg/responses"
)

type UploadHandler struct {
	uploadService service.UploadService
}

func NewUploadHandler(uploadService service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// Upload 上传图片
// @Summary 上传图片
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "图片文件"
// @Success 200 {object} dto.UploadResponse
// @Failure 400 {object} responses.ErrorResponse
// @Router /api/upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			responses.Error(c, pkgErrors.ErrFileRequired)
			return
		}
		responses.ErrorWithDetail(c, http.StatusBadRequest, pkgErrors.ErrBadRequest.Message, err.Error())
		return
	}

	url, err := h.uploadService.Save(header)
	if err != nil {
		responses.Error(c, err)
		return
	}
	responses.Success(c, dto.UploadResponse{URL: url})
}

// Serve 读取已上传的图片
// @Summary 读取已上传的图片
// @Tags Upload
// @Produce image/jpeg,image/png,image/webp,image/gif,image/avif
// @Param filename path string true "文件名"
// @Success 200 {file} file
// @Failure 404 {object} responses.ErrorResponse
// @Router /api/uploads/{filename} [get]
func (h *UploadHandler) Serve(c *gin.Context) {
	var param dto.FilenameParam
	if err := c.ShouldBindUri(&param); err != nil {
		responses.Error(c, pkgErrors.ErrNotFound)
		return
	}

	file, err := h.uploadService.Open(param.Filename)
	if err != nil {
		responses.Error(c, err)
		return
	}

	c.Header("Content-Type", file.ContentType)
	c.Header(constants.HeaderCacheControl, constants.ImmutableCacheControl)
	c.File(file.Path)
}
