package responses

import (
	"net/http"

	"github.com/gin-gonic/gin"

	pkgErrors "alteran/pkg/errors"
)

// ErrorResponse 统一错误响应结构
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"` // 详细错误信息（可选）
}

// Success 成功响应, 直接返回数据本身
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 资源创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Error 错误响应, HTTP 状态码取自 AppError.Code
func Error(c *gin.Context, err error) {
	if appErr, ok := pkgErrors.As(err); ok {
		c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message})
		return
	}

	// 未知错误不向调用方暴露细节
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: pkgErrors.ErrInternalError.Message})
}

// ErrorWithCode 自定义错误响应
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorResponse{Error: message})
}

// ErrorWithDetail 带详细信息的错误响应
func ErrorWithDetail(c *gin.Context, code int, message, detail string) {
	c.JSON(code, ErrorResponse{
		Error:  message,
		Detail: detail,
	})
}

// AbortWithError 中间件中使用, 写入错误并终止后续处理
func AbortWithError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
