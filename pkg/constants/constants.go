package constants

// 上下文键
const (
	ContextKeyAdmin     = "admin"
	ContextKeyRequestID = "request_id"
)

// HTTP Header
const (
	HeaderRequestID    = "X-Request-ID"
	HeaderCacheControl = "Cache-Control"
	HeaderPageCache    = "X-Page-Cache"
)

// 页面缓存命中状态
const (
	PageCacheHit  = "HIT"
	PageCacheMiss = "MISS"
)

// 路由前缀
const (
	PathAPI    = "/api/"
	PathAdmin  = "/admin"
	PathSignIn = "/sign-in"
)

// RedirectParam 登录后跳转地址参数
const RedirectParam = "redirect_url"

// ImmutableCacheControl 上传文件名唯一, 可永久缓存
const ImmutableCacheControl = "public, max-age=31536000, immutable"
