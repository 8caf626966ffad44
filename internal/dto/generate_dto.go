package dto

// GenerateRequest AI 生成请求
type GenerateRequest struct {
	Title    string `json:"title" binding:"max=255"`
	Keywords string `json:"keywords" binding:"max=2000"`
	Context  string `json:"context" binding:"max=8000"`
}

// GenerateResult 解析后的生成结果
type GenerateResult struct {
	Description string   `json:"description"`
	Content     string   `json:"content"`
	TechStack   []string `json:"tech_stack"`
}
