package dto

// UploadResponse 上传结果
type UploadResponse struct {
	URL string `json:"url"`
}

// RevalidateRequest 页面缓存失效请求
type RevalidateRequest struct {
	Path string `json:"path" binding:"max=1024"`
}

// RevalidateResponse 页面缓存失效结果
type RevalidateResponse struct {
	Revalidated bool   `json:"revalidated"`
	Path        string `json:"path"`
	Timestamp   int64  `json:"timestamp"`
}
