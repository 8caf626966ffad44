package dto

// ContactSettings 联系方式设置
// 格式校验 (validate 标签) 在去除首尾空白之后进行
type ContactSettings struct {
	GitHubURL string `json:"github_url" form:"github_url" binding:"max=500" validate:"omitempty,url"`
	Email     string `json:"email" form:"email" binding:"max=255" validate:"omitempty,email"`
}
