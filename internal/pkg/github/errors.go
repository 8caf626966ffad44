package github

import (
	"errors"
	"net/http"
)

// 错误类别, 通过 errors.Is 判断
var (
	ErrInvalidURL  = errors.New("github: invalid repository reference")
	ErrAuthFailed  = errors.New("github: authentication failed")
	ErrRateLimited = errors.New("github: rate limit exceeded")
	ErrForbidden   = errors.New("github: access forbidden")
	ErrNotFound    = errors.New("github: repository not found")
	ErrBadQuery    = errors.New("github: query rejected")
	ErrUpstream    = errors.New("github: upstream error")
)

// APIError 携带对外暴露的状态码与提示
type APIError struct {
	Kind       error
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Kind
}

func newAPIError(kind error, status int, message string) *APIError {
	return &APIError{Kind: kind, StatusCode: status, Message: message}
}

func invalidURL(message string) *APIError {
	return newAPIError(ErrInvalidURL, http.StatusBadRequest, message)
}
