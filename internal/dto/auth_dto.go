package dto

// LoginRequest 登录请求
type LoginRequest struct {
	Password string `json:"password" form:"password"`
}

// SignInForm 登录页表单
type SignInForm struct {
	Password    string `form:"password"`
	RedirectURL string `form:"redirect_url"`
}
