package utils

import (
	"net/url"
	"strings"
)

const (
	uploadsPrefix    = "/uploads/"
	apiUploadsPrefix = "/api/uploads/"
)

// NormalizeImageURL 将历史上传路径统一改写为 /api/uploads/<file>
// 空值返回空串, 外部图片地址原样返回
func NormalizeImageURL(raw string) string {
	if raw == "" || strings.HasPrefix(raw, apiUploadsPrefix) {
		return raw
	}

	if strings.HasPrefix(raw, uploadsPrefix) {
		return apiUploadsPrefix + strings.TrimPrefix(raw, uploadsPrefix)
	}

	// 绝对地址且路径在 /uploads/ 下时去掉 origin
	parsed, err := url.Parse(raw)
	if err != nil || !parsed.IsAbs() {
		return raw
	}
	if strings.HasPrefix(parsed.Path, uploadsPrefix) {
		return apiUploadsPrefix + strings.TrimPrefix(parsed.Path, uploadsPrefix)
	}
	return raw
}

// NormalizeImageURLPtr 指针版本, nil 或空串返回 nil
func NormalizeImageURLPtr(raw *string) *string {
	if raw == nil || *raw == "" {
		return nil
	}
	normalized := NormalizeImageURL(*raw)
	return &normalized
}
