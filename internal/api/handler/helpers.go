package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alteran/internal/dto"
	pkgErrors "alteran/pkg/errors"
	"alteran/pkg/responses"
	"alteran/pkg/utils"
)

// bindJSON 解析请求体, 失败时写出 400 并返回 false
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if utils.IsJSONError(err) {
			responses.Error(c, pkgErrors.ErrInvalidJSON)
			return false
		}
		responses.ErrorWithDetail(c, http.StatusBadRequest, pkgErrors.ErrBadRequest.Message, utils.FormatValidationError(err))
		return false
	}
	return true
}

// parseID 解析路径中的 :id
func parseID(c *gin.Context) (int64, bool) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		responses.Error(c, pkgErrors.ErrInvalidProjectID)
		return 0, false
	}
	return param.ID, true
}
