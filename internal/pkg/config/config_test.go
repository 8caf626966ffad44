package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.GitHub.CacheTTLDuration())
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.SessionTTL())
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxSize)
	assert.Equal(t, "anthropic/claude-sonnet-4", cfg.OpenRouter.Model)
	assert.Equal(t, "google/gemini-flash-1.5", cfg.OpenRouter.FallbackModel)
	assert.Same(t, cfg, GlobalConfig)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 8081
auth:
  admin_password: from-file
site:
  name: Test Site
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("ADMIN_PASSWORD", "from-env")
	t.Setenv("GITHUB_TOKEN", "ghp_test")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Auth.AdminPassword)
	assert.Equal(t, "ghp_test", cfg.GitHub.Token)
	assert.Equal(t, "Test Site", cfg.Site.Name)
	assert.Equal(t, "0.0.0.0:8081", cfg.Server.GetAddr())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("AUTH_SECRET=dotenv-secret\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("AUTH_SECRET") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "dotenv-secret", cfg.Auth.Secret)
}
