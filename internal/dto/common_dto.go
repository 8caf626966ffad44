package dto

// IDParam ID参数
type IDParam struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// FilenameParam 文件名参数
type FilenameParam struct {
	Filename string `uri:"filename" binding:"required"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Time     string `json:"time"`
}

// SuccessResponse 无数据返回的操作结果
type SuccessResponse struct {
	Success bool `json:"success"`
}
