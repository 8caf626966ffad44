package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	out, err := Render("## Обзор\n\n**bold** and `code`\n\n- one\n- two\n")
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "<h2")
	assert.Contains(t, html, "Обзор</h2>")
	assert.Contains(t, html, "<strong>bold</strong>")
	assert.Contains(t, html, "<code>code</code>")
	assert.Contains(t, html, "<li>one</li>")
}

func TestRenderStripsScripts(t *testing.T) {
	out, err := Render("hello <script>alert(1)</script>\n\n<img src=x onerror=alert(1)>")
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<script")
	assert.NotContains(t, string(out), "onerror")
}

func TestRenderExternalLinks(t *testing.T) {
	out, err := Render("[site](https://alteran.tech)")
	require.NoError(t, err)
	assert.Contains(t, string(out), `href="https://alteran.tech"`)
	assert.Contains(t, string(out), `target="_blank"`)
}

func TestRenderGFMTable(t *testing.T) {
	out := MustRender("| a | b |\n|---|---|\n| 1 | 2 |\n")
	assert.Contains(t, string(out), "<table>")
}
