package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// 错误码, 直接对应 HTTP 状态码
const (
	CodeBadRequest         = http.StatusBadRequest
	CodeUnauthorized       = http.StatusUnauthorized
	CodeNotFound           = http.StatusNotFound
	CodeInternalError      = http.StatusInternalServerError
	CodeBadGateway         = http.StatusBadGateway
	CodeServiceUnavailable = http.StatusServiceUnavailable
)

// CodeDatabaseError 数据库错误对外统一表现为 500
const CodeDatabaseError = CodeInternalError

// AppError 应用错误
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新错误
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// As 从错误链中取出 AppError
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// StatusOf 返回错误对应的 HTTP 状态码, 非 AppError 一律视为 500
func StatusOf(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return CodeInternalError
}

// 预定义错误
var (
	ErrBadRequest    = New(CodeBadRequest, "Invalid request")
	ErrInvalidJSON   = New(CodeBadRequest, "Invalid JSON body")
	ErrUnauthorized  = New(CodeUnauthorized, "Unauthorized")
	ErrNotFound      = New(CodeNotFound, "Not found")
	ErrInternalError = New(CodeInternalError, "Internal server error")

	// 具体业务错误
	ErrInvalidProjectID   = New(CodeBadRequest, "Invalid project ID")
	ErrTitleRequired      = New(CodeBadRequest, "Title is required")
	ErrProjectNotFound    = New(CodeNotFound, "Project not found")
	ErrRecordNotFound     = New(CodeNotFound, "Record not found")
	ErrInvalidPassword    = New(CodeUnauthorized, "Invalid password")
	ErrAuthNotConfigured  = New(CodeServiceUnavailable, "Admin authentication is not configured")
	ErrGenerateDisabled   = New(CodeServiceUnavailable, "AI generation is not configured. Set OPENROUTER_API_KEY.")
	ErrRepoRefRequired    = New(CodeBadRequest, "Provide either 'url' or both 'owner' and 'repo'")
	ErrFileRequired       = New(CodeBadRequest, "No file provided")
	ErrUnsupportedFile    = New(CodeBadRequest, "Invalid file type. Allowed: JPEG, PNG, WebP, GIF, AVIF.")
	ErrRevalidatePathMiss = New(CodeBadRequest, "Path is required")
)
