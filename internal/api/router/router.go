package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"alteran/internal/api/handler"
	"alteran/internal/api/middleware"
	"alteran/internal/pkg/config"
	"alteran/internal/pkg/pagecache"
	"alteran/internal/service"
	"alteran/internal/web"
	"alteran/pkg/constants"
	pkgErrors "alteran/pkg/errors"
	"alteran/pkg/responses"
	"alteran/pkg/utils"
)

// Setup 设置路由
func Setup(cfg *config.Config, db *gorm.DB, services *service.Services, pages *pagecache.Cache) (*gin.Engine, error) {
	// 设置Gin模式
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode, gin.DebugMode:
		gin.SetMode(cfg.Server.Mode)
	}
	utils.RegisterJSONTagNames()

	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.HTMLRender = renderer

	// 全局中间件
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.SecurityHeaders())

	// 初始化Handler
	// release 模式下会话 Cookie 始终带 Secure
	secureCookie := cfg.Auth.SecureCookie || cfg.Server.Mode == gin.ReleaseMode
	authHandler := handler.NewAuthHandler(services.Auth, secureCookie)
	projectHandler := handler.NewProjectHandler(services.Project)
	settingHandler := handler.NewSettingHandler(services.Setting)
	githubHandler := handler.NewGitHubHandler(services.GitHub)
	generateHandler := handler.NewGenerateHandler(services.Generate)
	uploadHandler := handler.NewUploadHandler(services.Upload)
	systemHandler := handler.NewSystemHandler(db, pages)
	pageHandler := handler.NewPageHandler(cfg.Site, services.Project, services.Setting, services.Auth, authHandler)

	// 健康检查
	r.GET("/health", systemHandler.Health)

	// Swagger API 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 静态资源
	r.StaticFS("/static", http.FS(web.Static()))

	api := r.Group(constants.PathAPI)
	{
		// 认证相关(无需登录)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/logout", authHandler.Logout)
		}

		// 公开接口
		api.GET("/projects", projectHandler.ListPublished)
		api.GET("/projects/:id", projectHandler.GetByID)
		api.GET("/uploads/:filename", uploadHandler.Serve)

		// 需要登录的接口
		authed := api.Group("")
		authed.Use(middleware.AuthMiddleware(services.Auth))
		{
			// 项目管理
			authed.GET("/admin/projects", projectHandler.List)
			authed.GET("/admin/stats", projectHandler.Stats)
			authed.POST("/projects", projectHandler.Create)
			authed.PUT("/projects/:id", projectHandler.Update)
			authed.DELETE("/projects/:id", projectHandler.Delete)
			authed.POST("/projects/:id/toggle", projectHandler.Toggle)

			// 站点设置
			authed.GET("/settings", settingHandler.Get)
			authed.PUT("/settings", settingHandler.Update)

			// GitHub 导入
			authed.POST("/github/repo", githubHandler.Repo)
			authed.POST("/github/import", githubHandler.Import)

			// AI 生成
			authed.POST("/generate", generateHandler.Stream)
			authed.POST("/generate/result", generateHandler.Result)

			authed.POST("/upload", uploadHandler.Upload)
			authed.POST("/revalidate", systemHandler.Revalidate)
		}
	}

	// 公开页面, 渲染结果按路径缓存
	public := r.Group("")
	public.Use(middleware.PageCache(pages))
	{
		public.GET("/", pageHandler.Home)
		public.GET("/projects", pageHandler.Projects)
		public.GET("/projects/:slug", pageHandler.Project)
		public.GET("/sitemap.xml", pageHandler.Sitemap)
		public.GET("/robots.txt", pageHandler.Robots)
		public.GET("/manifest.webmanifest", pageHandler.Manifest)
	}

	r.GET(constants.PathSignIn, pageHandler.SignIn)
	r.POST(constants.PathSignIn, pageHandler.SignInSubmit)
	r.POST("/sign-out", pageHandler.SignOut)

	// 后台页面
	admin := r.Group(constants.PathAdmin)
	admin.Use(middleware.PageAuthMiddleware(services.Auth))
	{
		admin.GET("", pageHandler.Dashboard)
		admin.GET("/projects", pageHandler.AdminProjects)
		admin.GET("/projects/new", pageHandler.NewProject)
		admin.POST("/projects/new", pageHandler.CreateProject)
		admin.GET("/projects/:id/edit", pageHandler.EditProject)
		admin.POST("/projects/:id/edit", pageHandler.UpdateProject)
		admin.POST("/projects/:id/toggle", pageHandler.ToggleProject)
		admin.POST("/projects/:id/delete", pageHandler.DeleteProject)
		admin.GET("/settings", pageHandler.Settings)
		admin.POST("/settings", pageHandler.SaveSettings)
	}

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, constants.PathAPI) {
			responses.Error(c, pkgErrors.ErrNotFound)
			return
		}
		pageHandler.NotFound(c)
	})

	return r, nil
}
