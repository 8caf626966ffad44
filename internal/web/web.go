// Package web 内嵌的页面模板与静态资源
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin/render"

	"alteran/internal/pkg/markdown"
	"alteran/pkg/utils"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// 布局模板, 每个页面与所在布局单独组成一个模板集
const (
	layoutPublic = "templates/layout/public.html"
	layoutAdmin  = "templates/layout/admin.html"
	partials     = "templates/partials/*.html"
)

// Static 静态资源, 根目录为 static/
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Funcs 模板函数
func Funcs() template.FuncMap {
	return template.FuncMap{
		"markdown": markdown.MustRender,
		"imageURL": func(s *string) string {
			return utils.NormalizeImageURL(deref(s))
		},
		"deref": deref,
		"join":  strings.Join,
		"date": func(t time.Time) string {
			return t.Format("02.01.2006")
		},
		"isoDate": func(t time.Time) string {
			return t.Format(time.RFC3339)
		},
		"year": func() int {
			return time.Now().Year()
		},
	}
}

// Renderer 实现 gin 的 HTMLRender, 按页面名取模板集
type Renderer struct {
	templates map[string]*template.Template
}

var _ render.HTMLRender = (*Renderer)(nil)

// NewRenderer 解析全部页面模板
// pages/ 下的页面使用公开布局, pages/admin/ 下的页面使用后台布局
func NewRenderer() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template)}

	sets := []struct {
		pattern string
		layout  string
		prefix  string
	}{
		{"templates/pages/*.html", layoutPublic, ""},
		{"templates/pages/admin/*.html", layoutAdmin, "admin/"},
	}

	for _, set := range sets {
		pages, err := fs.Glob(templateFS, set.pattern)
		if err != nil {
			return nil, err
		}
		for _, page := range pages {
			name := set.prefix + strings.TrimSuffix(path.Base(page), ".html")
			tmpl, err := template.New(path.Base(set.layout)).Funcs(Funcs()).
				ParseFS(templateFS, set.layout, partials, page)
			if err != nil {
				return nil, fmt.Errorf("解析模板 %s 失败: %w", name, err)
			}
			r.templates[name] = tmpl
		}
	}
	return r, nil
}

// Names 已加载的页面名
func (r *Renderer) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	return names
}

// Instance 实现 render.HTMLRender
func (r *Renderer) Instance(name string, data any) render.Render {
	tmpl, ok := r.templates[name]
	if !ok {
		panic(fmt.Sprintf("页面模板 %s 不存在", name))
	}
	return render.HTML{
		Template: tmpl,
		Name:     tmpl.Name(),
		Data:     data,
	}
}
