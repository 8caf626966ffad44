package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alteran/internal/dto"
	"alteran/internal/pkg/config"
	"alteran/internal/pkg/database"
	"alteran/internal/pkg/pagecache"
	"alteran/internal/pkg/session"
	"alteran/internal/service"
	"alteran/pkg/constants"
)

const testPassword = "correct horse"

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	cookie *http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Name: "alteran", Mode: gin.TestMode},
		Auth: config.AuthConfig{
			AdminPassword: testPassword,
			Secret:        "test-secret-0123456789",
			SessionMaxAge: 3600,
		},
		Upload:    config.UploadConfig{Dir: t.TempDir(), MaxSize: 1 << 20},
		Site:      config.SiteConfig{Name: "Alteran", URL: "https://alteran.test", PageCacheTTL: 3600},
		Scheduler: config.SchedulerConfig{StarSyncConcurrency: 1},
	}
	return newTestServerWithConfig(t, cfg)
}

func newTestServerWithConfig(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()

	db := database.NewTestDB(t)
	pages := pagecache.New(cfg.Site.PageCacheTTLDuration())
	services := service.NewServices(cfg, db, pages, zap.NewNop())

	engine, err := Setup(cfg, db, services, pages)
	require.NoError(t, err)
	return &testServer{t: t, engine: engine}
}

func (s *testServer) do(method, target, contentType, body string) *httptest.ResponseRecorder {
	s.t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) json(method, target string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	raw := ""
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		raw = string(data)
	}
	return s.do(method, target, "application/json", raw)
}

func (s *testServer) login() {
	s.t.Helper()
	w := s.json(http.MethodPost, "/api/auth/login", dto.LoginRequest{Password: testPassword})
	require.Equal(s.t, http.StatusOK, w.Code)
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			s.cookie = c
		}
	}
	require.NotNil(s.t, s.cookie)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[dto.HealthResponse](t, w)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ok", resp.Database)
	assert.NotEmpty(t, w.Header().Get(constants.HeaderRequestID))
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	w := s.json(http.MethodPost, "/api/auth/login", dto.LoginRequest{Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Invalid password"}`, w.Body.String())

	s.login()
	assert.True(t, s.cookie.HttpOnly)

	w = s.json(http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	cleared := w.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.True(t, cleared[0].MaxAge < 0)
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func TestSessionCookieSecureInReleaseMode(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", testPassword)
	t.Setenv("AUTH_SECRET", "test-secret-0123456789")

	// 默认配置即 release 模式
	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, gin.ReleaseMode, cfg.Server.Mode)
	require.False(t, cfg.Auth.SecureCookie)
	cfg.Upload.Dir = t.TempDir()

	s := newTestServerWithConfig(t, cfg)
	defer gin.SetMode(gin.TestMode)

	w := s.json(http.MethodPost, "/api/auth/login", dto.LoginRequest{Password: testPassword})
	require.Equal(t, http.StatusOK, w.Code)
	c := sessionCookie(w)
	require.NotNil(t, c)
	assert.True(t, c.Secure)
	assert.True(t, c.HttpOnly)

	form := url.Values{"password": {testPassword}, "redirect_url": {"/admin"}}
	w = s.do(http.MethodPost, "/sign-in", "application/x-www-form-urlencoded", form.Encode())
	require.Equal(t, http.StatusSeeOther, w.Code)
	c = sessionCookie(w)
	require.NotNil(t, c)
	assert.True(t, c.Secure)
}

func TestSessionCookieNotSecureInTestMode(t *testing.T) {
	s := newTestServer(t)

	w := s.json(http.MethodPost, "/api/auth/login", dto.LoginRequest{Password: testPassword})
	require.Equal(t, http.StatusOK, w.Code)
	c := sessionCookie(w)
	require.NotNil(t, c)
	assert.False(t, c.Secure)
}

func TestAPIRequiresSession(t *testing.T) {
	s := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/projects"},
		{http.MethodGet, "/api/admin/projects"},
		{http.MethodPut, "/api/settings"},
		{http.MethodPost, "/api/generate"},
		{http.MethodPost, "/api/upload"},
		{http.MethodPost, "/api/revalidate"},
	} {
		w := s.json(tc.method, tc.path, map[string]string{})
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.path)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String(), tc.path)
	}

	// 被篡改的 cookie 同样拒绝
	s.cookie = &http.Cookie{Name: session.CookieName, Value: "forged.token"}
	w := s.json(http.MethodGet, "/api/admin/projects", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProjectLifecycle(t *testing.T) {
	s := newTestServer(t)
	s.login()

	w := s.json(http.MethodPost, "/api/projects", dto.CreateProjectRequest{Title: "Star Gate", TechStack: []string{"Go"}})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[dto.ProjectResponse](t, w)
	assert.Equal(t, "star-gate", created.Slug)
	assert.Equal(t, "draft", created.Status)

	// 草稿不出现在公开列表
	w = s.do(http.MethodGet, "/api/projects", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = s.json(http.MethodPost, "/api/projects/"+itoa(created.ID)+"/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "published", decode[dto.ProjectResponse](t, w).Status)

	w = s.do(http.MethodGet, "/api/projects", "", "")
	assert.Len(t, decode[[]dto.ProjectResponse](t, w), 1)

	w = s.json(http.MethodPut, "/api/projects/"+itoa(created.ID), map[string]string{"title": "Atlantis"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "atlantis", decode[dto.ProjectResponse](t, w).Slug)

	w = s.json(http.MethodGet, "/api/admin/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode[dto.ProjectStatsResponse](t, w).Published)

	w = s.json(http.MethodDelete, "/api/projects/"+itoa(created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = s.do(http.MethodGet, "/api/projects/"+itoa(created.ID), "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/projects/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateProjectValidation(t *testing.T) {
	s := newTestServer(t)
	s.login()

	w := s.do(http.MethodPost, "/api/projects", "application/json", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid JSON body"}`, w.Body.String())

	w = s.json(http.MethodPost, "/api/projects", map[string]string{"title": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Title is required"}`, w.Body.String())

	w = s.json(http.MethodPost, "/api/projects", map[string]string{"title": "x", "status": "archived"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateDisabled(t *testing.T) {
	s := newTestServer(t)
	s.login()

	w := s.json(http.MethodPost, "/api/generate", dto.GenerateRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Title is required"}`, w.Body.String())

	w = s.json(http.MethodPost, "/api/generate", dto.GenerateRequest{Title: "Shelf"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "OPENROUTER_API_KEY")
	assert.NotContains(t, w.Header().Get("Content-Type"), "text/event-stream")
}

func TestRevalidate(t *testing.T) {
	s := newTestServer(t)
	s.login()

	w := s.json(http.MethodPost, "/api/revalidate", dto.RevalidateRequest{Path: " "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.json(http.MethodPost, "/api/revalidate", dto.RevalidateRequest{Path: "/projects"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[dto.RevalidateResponse](t, w)
	assert.True(t, resp.Revalidated)
	assert.Equal(t, "/projects", resp.Path)
	assert.Positive(t, resp.Timestamp)
}

func TestPublicPagesAreCached(t *testing.T) {
	s := newTestServer(t)
	s.login()

	w := s.json(http.MethodPost, "/api/projects", dto.CreateProjectRequest{Title: "Star Gate", Status: "published"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := itoa(decode[dto.ProjectResponse](t, w).ID)

	w = s.do(http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, constants.PageCacheMiss, w.Header().Get(constants.HeaderPageCache))
	assert.Contains(t, w.Body.String(), "Star Gate")

	w = s.do(http.MethodGet, "/", "", "")
	assert.Equal(t, constants.PageCacheHit, w.Header().Get(constants.HeaderPageCache))
	assert.Contains(t, w.Body.String(), "Star Gate")

	// 修改项目后首页重新渲染
	w = s.json(http.MethodPut, "/api/projects/"+id, map[string]string{"title": "Atlantis"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/", "", "")
	assert.Equal(t, constants.PageCacheMiss, w.Header().Get(constants.HeaderPageCache))
	assert.Contains(t, w.Body.String(), "Atlantis")

	w = s.do(http.MethodGet, "/projects/atlantis", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<h1 itemprop=\"name\">Atlantis</h1>")
}

func TestProjectPageNotFound(t *testing.T) {
	s := newTestServer(t)
	s.login()

	w := s.json(http.MethodPost, "/api/projects", dto.CreateProjectRequest{Title: "Secret"})
	require.Equal(t, http.StatusCreated, w.Code)

	for _, path := range []string{"/projects/secret", "/projects/missing", "/no/such/page"} {
		w = s.do(http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Contains(t, w.Body.String(), "Страница не найдена", path)
	}

	w = s.do(http.MethodGet, "/api/no-such-endpoint", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())
}

func TestAdminPagesRedirectToSignIn(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/admin/projects", "", "")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/sign-in?redirect_url=%2Fadmin%2Fprojects", w.Header().Get("Location"))

	// 查询参数随跳转地址保留, 登录后回到原筛选
	w = s.do(http.MethodGet, "/admin/projects?status=draft", "", "")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/sign-in?redirect_url=%2Fadmin%2Fprojects%3Fstatus%3Ddraft", w.Header().Get("Location"))

	form := url.Values{"password": {testPassword}, "redirect_url": {"/admin/projects?status=draft"}}
	w = s.do(http.MethodPost, "/sign-in", "application/x-www-form-urlencoded", form.Encode())
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/projects?status=draft", w.Header().Get("Location"))

	s.login()
	w = s.do(http.MethodGet, "/admin", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Панель управления")
	assert.Contains(t, w.Body.String(), "noindex")
}

func TestSignInForm(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/sign-in?redirect_url=%2Fadmin%2Fsettings", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="/admin/settings"`)

	form := url.Values{"password": {"wrong"}, "redirect_url": {"/admin"}}
	w = s.do(http.MethodPost, "/sign-in", "application/x-www-form-urlencoded", form.Encode())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Неверный пароль")

	// 站外地址回退到后台首页
	form = url.Values{"password": {testPassword}, "redirect_url": {"//evil.example"}}
	w = s.do(http.MethodPost, "/sign-in", "application/x-www-form-urlencoded", form.Encode())
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))
	require.NotEmpty(t, w.Result().Cookies())
	s.cookie = w.Result().Cookies()[0]

	w = s.do(http.MethodGet, "/sign-in?redirect_url=%2Fadmin%2Fprojects", "", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/projects", w.Header().Get("Location"))
}

func TestAdminProjectForm(t *testing.T) {
	s := newTestServer(t)
	s.login()

	form := url.Values{
		"title":      {"Vector Gateway"},
		"tech_stack": {"Go, gRPC, , Qdrant"},
		"featured":   {"true"},
		"status":     {"published"},
	}
	w := s.do(http.MethodPost, "/admin/projects/new", "application/x-www-form-urlencoded", form.Encode())
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/projects", w.Header().Get("Location"))

	w = s.json(http.MethodGet, "/api/admin/projects", nil)
	projects := decode[[]dto.ProjectResponse](t, w)
	require.Len(t, projects, 1)
	assert.Equal(t, []string{"Go", "gRPC", "Qdrant"}, projects[0].TechStack)
	assert.True(t, projects[0].Featured)

	w = s.do(http.MethodGet, "/admin/projects/"+itoa(projects[0].ID)+"/edit", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Go, gRPC, Qdrant"`)

	w = s.do(http.MethodPost, "/admin/projects/new", "application/x-www-form-urlencoded", url.Values{"title": {""}}.Encode())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Title is required")

	w = s.do(http.MethodPost, "/admin/projects/"+itoa(projects[0].ID)+"/delete", "application/x-www-form-urlencoded", "")
	require.Equal(t, http.StatusSeeOther, w.Code)
	w = s.do(http.MethodGet, "/admin/projects/"+itoa(projects[0].ID)+"/edit", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSettings(t *testing.T) {
	s := newTestServer(t)
	s.login()

	w := s.json(http.MethodPut, "/api/settings", dto.ContactSettings{Email: "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.json(http.MethodPut, "/api/settings", dto.ContactSettings{Email: " me@alteran.test ", GitHubURL: "https://github.com/me "})
	require.Equal(t, http.StatusOK, w.Code)
	saved := decode[dto.ContactSettings](t, w)
	assert.Equal(t, "me@alteran.test", saved.Email)
	assert.Equal(t, "https://github.com/me", saved.GitHubURL)

	w = s.do(http.MethodGet, "/", "", "")
	assert.Contains(t, w.Body.String(), "mailto:me@alteran.test")

	form := url.Values{"email": {" admin@alteran.test "}, "github_url": {" https://github.com/alteran "}}
	w = s.do(http.MethodPost, "/admin/settings", "application/x-www-form-urlencoded", form.Encode())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Сохранено")

	form = url.Values{"email": {"nope"}}
	w = s.do(http.MethodPost, "/admin/settings", "application/x-www-form-urlencoded", form.Encode())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Проверьте адрес GitHub и email")
}

func TestRobotsAndSitemap(t *testing.T) {
	s := newTestServer(t)
	s.login()

	w := s.json(http.MethodPost, "/api/projects", dto.CreateProjectRequest{Title: "Shelf", Status: "published"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, "/robots.txt", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Disallow: /admin/")
	assert.Contains(t, body, "Disallow: /api/")
	assert.Contains(t, body, "Disallow: /sign-in/")
	assert.Contains(t, body, "Sitemap: https://alteran.test/sitemap.xml")

	w = s.do(http.MethodGet, "/sitemap.xml", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, w.Body.String(), "<loc>https://alteran.test/projects/shelf</loc>")
	assert.Contains(t, w.Body.String(), "<loc>https://alteran.test/projects</loc>")
}

func TestStaticAssets(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/static/site.css", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/css")

	w = s.do(http.MethodGet, "/manifest.webmanifest", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"start_url":"/"`)
}
