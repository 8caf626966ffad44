package middleware

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"alteran/internal/pkg/pagecache"
	"alteran/pkg/constants"
)

// bodyRecorder 在写出响应的同时保留一份副本
type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// PageCache 缓存公开页面的渲染结果, 以请求路径为键, 只缓存 200 响应
func PageCache(cache *pagecache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cache == nil || !cache.Enabled() || c.Request.Method != http.MethodGet || c.Request.URL.RawQuery != "" {
			c.Next()
			return
		}

		path := c.Request.URL.Path
		if body, contentType, ok := cache.Get(path); ok {
			c.Header(constants.HeaderPageCache, constants.PageCacheHit)
			c.Data(http.StatusOK, contentType, body)
			c.Abort()
			return
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder
		c.Header(constants.HeaderPageCache, constants.PageCacheMiss)
		c.Next()

		if recorder.Status() == http.StatusOK && recorder.body.Len() > 0 {
			cache.Set(path, recorder.Header().Get("Content-Type"), bytes.Clone(recorder.body.Bytes()))
		}
	}
}
