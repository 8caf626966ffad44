package handler

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"alteran/internal/dto"
	"alteran/internal/model"
	"alteran/internal/pkg/config"
	"alteran/internal/pkg/session"
	"alteran/internal/repository"
	"alteran/internal/service"
	"alteran/pkg/constants"
	pkgErrors "alteran/pkg/errors"
)

// 页面名, 与 internal/web/templates/pages 下的文件对应
const (
	pageHome          = "home"
	pageProjects      = "projects"
	pageProject       = "project"
	pageNotFound      = "not_found"
	pageError         = "error"
	pageSignIn        = "sign_in"
	pageDashboard     = "admin/dashboard"
	pageAdminProjects = "admin/projects"
	pageProjectForm   = "admin/project_form"
	pageSettings      = "admin/settings"
)

const defaultAdminRedirect = constants.PathAdmin

// PageData 页面模板数据
type PageData struct {
	Site        config.SiteConfig
	Title       string
	Description string
	Path        string
	Notice      string
	Error       string

	Contact    *dto.ContactSettings
	Featured   []*model.Project
	Projects   []*model.Project
	Project    *model.Project
	Categories []string
	Category   string
	Status     string
	Stats      *dto.ProjectStatsResponse

	Form        *dto.ProjectForm
	Action      string
	RedirectURL string
}

type PageHandler struct {
	site           config.SiteConfig
	projectService service.ProjectService
	settingService service.SettingService
	authService    service.AuthService
	auth           *AuthHandler
}

func NewPageHandler(
	site config.SiteConfig,
	projectService service.ProjectService,
	settingService service.SettingService,
	authService service.AuthService,
	auth *AuthHandler,
) *PageHandler {
	return &PageHandler{
		site:           site,
		projectService: projectService,
		settingService: settingService,
		authService:    authService,
		auth:           auth,
	}
}

func (h *PageHandler) data(c *gin.Context, title string) *PageData {
	return &PageData{
		Site:        h.site,
		Title:       title,
		Description: "Портфолио проектов " + h.site.Name,
		Path:        c.Request.URL.Path,
	}
}

func (h *PageHandler) render(c *gin.Context, status int, page string, data *PageData) {
	c.HTML(status, page, data)
}

// fail 404 渲染未找到页面, 其余错误渲染错误页
func (h *PageHandler) fail(c *gin.Context, err error) {
	status := pkgErrors.StatusOf(err)
	if status == http.StatusNotFound {
		h.render(c, status, pageNotFound, h.data(c, "Страница не найдена"))
		return
	}
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	data := h.data(c, "Ошибка")
	data.Error = "Не удалось загрузить страницу. Попробуйте позже."
	h.render(c, status, pageError, data)
}

func publishedFilter() repository.ProjectFilter {
	return repository.ProjectFilter{Status: model.ProjectStatusPublished}
}

// Home 首页: 精选项目, 全部已发布项目与联系方式
func (h *PageHandler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	data := h.data(c, "")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		filter := publishedFilter()
		filter.Featured = lo.ToPtr(true)
		data.Featured, err = h.projectService.List(gctx, filter)
		return err
	})
	g.Go(func() (err error) {
		data.Projects, err = h.projectService.List(gctx, publishedFilter())
		return err
	})
	g.Go(func() (err error) {
		data.Contact, err = h.settingService.GetContact(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.fail(c, err)
		return
	}

	h.render(c, http.StatusOK, pageHome, data)
}

// Projects 已发布项目列表, 可按分类过滤
func (h *PageHandler) Projects(c *gin.Context) {
	ctx := c.Request.Context()
	data := h.data(c, "Проекты")
	data.Category = strings.TrimSpace(c.Query("category"))

	filter := publishedFilter()
	filter.Category = data.Category

	var err error
	if data.Projects, err = h.projectService.List(ctx, filter); err != nil {
		h.fail(c, err)
		return
	}
	if data.Categories, err = h.projectService.Categories(ctx); err != nil {
		h.fail(c, err)
		return
	}

	h.render(c, http.StatusOK, pageProjects, data)
}

// Project 项目详情, 草稿与不存在的项目返回 404
func (h *PageHandler) Project(c *gin.Context) {
	project, err := h.projectService.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err)
		return
	}

	data := h.data(c, project.Title)
	data.Project = project
	if project.Description != nil {
		data.Description = *project.Description
	}
	h.render(c, http.StatusOK, pageProject, data)
}

// NotFound 未匹配路由
func (h *PageHandler) NotFound(c *gin.Context) {
	h.fail(c, pkgErrors.ErrNotFound)
}

// safeRedirect 只允许站内路径, 防止开放重定向
func safeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return defaultAdminRedirect
	}
	return target
}

// SignIn 登录页, 已登录时直接跳转
func (h *PageHandler) SignIn(c *gin.Context) {
	redirect := safeRedirect(c.Query(constants.RedirectParam))
	if token, err := c.Cookie(session.CookieName); err == nil && h.authService.Authenticated(token) {
		c.Redirect(http.StatusFound, redirect)
		return
	}

	data := h.data(c, "Вход")
	data.RedirectURL = redirect
	h.render(c, http.StatusOK, pageSignIn, data)
}

// SignInSubmit 登录表单提交
func (h *PageHandler) SignInSubmit(c *gin.Context) {
	var form dto.SignInForm
	_ = c.ShouldBind(&form)
	redirect := safeRedirect(form.RedirectURL)

	if err := h.auth.login(c, form.Password); err != nil {
		data := h.data(c, "Вход")
		data.RedirectURL = redirect
		data.Error = signInMessage(err)
		h.render(c, pkgErrors.StatusOf(err), pageSignIn, data)
		return
	}

	c.Redirect(http.StatusSeeOther, redirect)
}

func signInMessage(err error) string {
	switch pkgErrors.StatusOf(err) {
	case http.StatusUnauthorized:
		return "Неверный пароль"
	case http.StatusServiceUnavailable:
		return "Вход не настроен: задайте ADMIN_PASSWORD и AUTH_SECRET"
	default:
		return "Не удалось выполнить вход"
	}
}

// SignOut 退出登录
func (h *PageHandler) SignOut(c *gin.Context) {
	h.auth.setSessionCookie(c, "")
	c.Redirect(http.StatusSeeOther, "/")
}

// Dashboard 后台概览
func (h *PageHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	data := h.data(c, "Панель управления")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		data.Stats, err = h.projectService.Stats(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.Projects, err = h.projectService.List(gctx, repository.ProjectFilter{Limit: 5})
		return err
	})
	if err := g.Wait(); err != nil {
		h.fail(c, err)
		return
	}

	h.render(c, http.StatusOK, pageDashboard, data)
}

// AdminProjects 后台项目列表
func (h *PageHandler) AdminProjects(c *gin.Context) {
	data := h.data(c, "Проекты")
	status := c.Query("status")
	if status == model.ProjectStatusDraft || status == model.ProjectStatusPublished {
		data.Status = status
	}

	projects, err := h.projectService.List(c.Request.Context(), repository.ProjectFilter{Status: data.Status})
	if err != nil {
		h.fail(c, err)
		return
	}
	data.Projects = projects
	h.render(c, http.StatusOK, pageAdminProjects, data)
}

func (h *PageHandler) renderForm(c *gin.Context, status int, title, action string, form *dto.ProjectForm, err error) {
	data := h.data(c, title)
	data.Form = form
	data.Action = action
	if err != nil {
		if appErr, ok := pkgErrors.As(err); ok {
			data.Error = appErr.Message
		} else {
			_ = c.Error(err)
			data.Error = "Не удалось сохранить проект"
		}
	}
	h.render(c, status, pageProjectForm, data)
}

// pageID 解析页面路径中的 :id, 非法时渲染 404
func (h *PageHandler) pageID(c *gin.Context) (int64, bool) {
	var param dto.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		h.fail(c, pkgErrors.ErrProjectNotFound)
		return 0, false
	}
	return param.ID, true
}

func editAction(id int64) string {
	return fmt.Sprintf("%s/projects/%d/edit", constants.PathAdmin, id)
}

// NewProject 新建项目表单
func (h *PageHandler) NewProject(c *gin.Context) {
	form := &dto.ProjectForm{Status: model.ProjectStatusDraft, Source: model.ProjectSourceManual}
	h.renderForm(c, http.StatusOK, "Новый проект", constants.PathAdmin+"/projects/new", form, nil)
}

// CreateProject 新建项目表单提交
func (h *PageHandler) CreateProject(c *gin.Context) {
	action := constants.PathAdmin + "/projects/new"

	var form dto.ProjectForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderForm(c, http.StatusBadRequest, "Новый проект", action, &form, pkgErrors.Wrap(pkgErrors.CodeBadRequest, pkgErrors.ErrBadRequest.Message, err))
		return
	}

	if _, err := h.projectService.Create(c.Request.Context(), form.ToCreateRequest()); err != nil {
		h.renderForm(c, pkgErrors.StatusOf(err), "Новый проект", action, &form, err)
		return
	}
	c.Redirect(http.StatusSeeOther, constants.PathAdmin+"/projects")
}

// EditProject 编辑项目表单
func (h *PageHandler) EditProject(c *gin.Context) {
	id, ok := h.pageID(c)
	if !ok {
		return
	}

	project, err := h.projectService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderForm(c, http.StatusOK, project.Title, editAction(id), dto.NewProjectForm(project), nil)
}

// UpdateProject 编辑项目表单提交
func (h *PageHandler) UpdateProject(c *gin.Context) {
	id, ok := h.pageID(c)
	if !ok {
		return
	}

	var form dto.ProjectForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderForm(c, http.StatusBadRequest, form.Title, editAction(id), &form, pkgErrors.Wrap(pkgErrors.CodeBadRequest, pkgErrors.ErrBadRequest.Message, err))
		return
	}

	if _, err := h.projectService.Update(c.Request.Context(), id, form.ToUpdateRequest()); err != nil {
		if pkgErrors.StatusOf(err) == http.StatusNotFound {
			h.fail(c, err)
			return
		}
		h.renderForm(c, pkgErrors.StatusOf(err), form.Title, editAction(id), &form, err)
		return
	}
	c.Redirect(http.StatusSeeOther, constants.PathAdmin+"/projects")
}

// ToggleProject 切换发布状态
func (h *PageHandler) ToggleProject(c *gin.Context) {
	id, ok := h.pageID(c)
	if !ok {
		return
	}

	if _, err := h.projectService.ToggleStatus(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, constants.PathAdmin+"/projects")
}

// DeleteProject 删除项目
func (h *PageHandler) DeleteProject(c *gin.Context) {
	id, ok := h.pageID(c)
	if !ok {
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, constants.PathAdmin+"/projects")
}

// Settings 联系方式设置页
func (h *PageHandler) Settings(c *gin.Context) {
	contact, err := h.settingService.GetContact(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	data := h.data(c, "Настройки")
	data.Contact = contact
	h.render(c, http.StatusOK, pageSettings, data)
}

// SaveSettings 联系方式设置提交
func (h *PageHandler) SaveSettings(c *gin.Context) {
	data := h.data(c, "Настройки")

	var form dto.ContactSettings
	if err := c.ShouldBind(&form); err != nil {
		data.Contact = &form
		data.Error = "Проверьте адрес GitHub и email"
		h.render(c, http.StatusBadRequest, pageSettings, data)
		return
	}

	contact, err := h.settingService.SaveContact(c.Request.Context(), &form)
	if err != nil {
		if pkgErrors.StatusOf(err) != http.StatusBadRequest {
			h.fail(c, err)
			return
		}
		data.Contact = &form
		data.Error = "Проверьте адрес GitHub и email"
		h.render(c, http.StatusBadRequest, pageSettings, data)
		return
	}
	data.Contact = contact
	data.Notice = "Сохранено"
	h.render(c, http.StatusOK, pageSettings, data)
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

func (h *PageHandler) absolute(path string) string {
	return strings.TrimSuffix(h.site.URL, "/") + path
}

// Sitemap 静态页面与已发布项目
func (h *PageHandler) Sitemap(c *gin.Context) {
	projects, err := h.projectService.List(c.Request.Context(), publishedFilter())
	if err != nil {
		_ = c.Error(err)
		c.Status(http.StatusInternalServerError)
		return
	}

	now := time.Now().UTC().Format(time.DateOnly)
	set := sitemapURLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{
			{Loc: h.absolute("/"), LastMod: now, ChangeFreq: "weekly", Priority: "1.0"},
			{Loc: h.absolute("/projects"), LastMod: now, ChangeFreq: "weekly", Priority: "0.9"},
		},
	}
	for _, p := range projects {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        h.absolute("/projects/" + p.Slug),
			LastMod:    p.UpdatedAt.UTC().Format(time.DateOnly),
			ChangeFreq: "monthly",
			Priority:   "0.8",
		})
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		_ = c.Error(err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), body...))
}

// Robots robots.txt
func (h *PageHandler) Robots(c *gin.Context) {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /admin/\n")
	b.WriteString("Disallow: /api/\n")
	b.WriteString("Disallow: /sign-in/\n")
	b.WriteString("\nSitemap: " + h.absolute("/sitemap.xml") + "\n")
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(b.String()))
}

type manifestIcon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"`
	Type  string `json:"type"`
}

// Manifest PWA manifest
func (h *PageHandler) Manifest(c *gin.Context) {
	body, err := json.Marshal(map[string]any{
		"name":             h.site.Name,
		"short_name":       h.site.Name,
		"start_url":        "/",
		"display":          "standalone",
		"background_color": "#050510",
		"theme_color":      "#050510",
		"icons": []manifestIcon{
			{Src: "/static/favicon.svg", Sizes: "any", Type: "image/svg+xml"},
		},
	})
	if err != nil {
		_ = c.Error(err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "application/manifest+json", body)
}
