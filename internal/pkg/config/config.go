package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var GlobalConfig *Config

// Config 全局配置
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Log        LogConfig        `mapstructure:"log"`
	Auth       AuthConfig       `mapstructure:"auth"`
	GitHub     GitHubConfig     `mapstructure:"github"`
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
	Upload     UploadConfig     `mapstructure:"upload"`
	Site       SiteConfig       `mapstructure:"site"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
}

// ServerConfig 服务配置
type ServerConfig struct {
	Name string `mapstructure:"name"`
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"` // sqlite, mysql
	Path            string `mapstructure:"path"`   // sqlite 文件路径, 支持 file: 前缀
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Database        string `mapstructure:"database"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 秒
	LogLevel        string `mapstructure:"log_level"`         // SQL日志级别: silent/error/warn/info
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`  // debug, info, warn, error
	Format   string `mapstructure:"format"` // json, console
	Output   string `mapstructure:"output"` // stdout, file
	FilePath string `mapstructure:"file_path"`
}

// AuthConfig 管理员认证配置
type AuthConfig struct {
	AdminPassword     string `mapstructure:"admin_password"`
	AdminPasswordHash string `mapstructure:"admin_password_hash"` // bcrypt, 优先于明文密码
	Secret            string `mapstructure:"secret"`              // 会话签名密钥
	SessionMaxAge     int    `mapstructure:"session_max_age"`     // 秒
	SecureCookie      bool   `mapstructure:"secure_cookie"`       // 非 release 模式下强制 Secure
}

// GitHubConfig GitHub 接入配置
type GitHubConfig struct {
	Token    string `mapstructure:"token"`
	BaseURL  string `mapstructure:"base_url"`
	CacheTTL int    `mapstructure:"cache_ttl"` // 秒
	Timeout  int    `mapstructure:"timeout"`   // 秒
}

// OpenRouterConfig AI 生成配置
type OpenRouterConfig struct {
	APIKey        string  `mapstructure:"api_key"`
	BaseURL       string  `mapstructure:"base_url"`
	Model         string  `mapstructure:"model"`
	FallbackModel string  `mapstructure:"fallback_model"`
	Temperature   float64 `mapstructure:"temperature"`
	MaxTokens     int     `mapstructure:"max_tokens"`
	Timeout       int     `mapstructure:"timeout"` // 秒
}

// UploadConfig 图片上传配置
type UploadConfig struct {
	Dir     string `mapstructure:"dir"`
	MaxSize int64  `mapstructure:"max_size"` // 字节
}

// SiteConfig 站点配置
type SiteConfig struct {
	Name          string `mapstructure:"name"`
	URL           string `mapstructure:"url"`
	PageCacheTTL  int    `mapstructure:"page_cache_ttl"` // 秒
	DefaultGitHub string `mapstructure:"default_github"`
	DefaultEmail  string `mapstructure:"default_email"`
}

// SchedulerConfig 定时任务配置
type SchedulerConfig struct {
	Enabled             bool   `mapstructure:"enabled"`
	CachePurgeCron      string `mapstructure:"cache_purge_cron"`
	StarSyncCron        string `mapstructure:"star_sync_cron"`
	StarSyncConcurrency int    `mapstructure:"star_sync_concurrency"`
}

// 环境变量与配置项的对应关系, 兼容部署环境已有的变量名
var envBindings = map[string]string{
	"auth.admin_password":  "ADMIN_PASSWORD",
	"auth.secret":          "AUTH_SECRET",
	"github.token":         "GITHUB_TOKEN",
	"openrouter.api_key":   "OPENROUTER_API_KEY",
	"database.path":        "DATABASE_URL",
	"site.url":             "SITE_URL",
	"server.port":          "PORT",
	"upload.dir":           "UPLOAD_DIR",
	"auth.secure_cookie":   "SECURE_COOKIE",
	"openrouter.model":     "OPENROUTER_MODEL",
	"auth.session_max_age": "SESSION_MAX_AGE",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "alteran")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.mode", "release")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "file:./data/alteran.db")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.conn_max_lifetime", 3600)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("auth.admin_password", "")
	v.SetDefault("auth.admin_password_hash", "")
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.session_max_age", 7*24*3600)
	v.SetDefault("auth.secure_cookie", false)

	v.SetDefault("github.token", "")
	v.SetDefault("github.base_url", "https://api.github.com")
	v.SetDefault("github.cache_ttl", 3600)
	v.SetDefault("github.timeout", 15)

	v.SetDefault("openrouter.api_key", "")
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter.model", "anthropic/claude-sonnet-4")
	v.SetDefault("openrouter.fallback_model", "google/gemini-flash-1.5")
	v.SetDefault("openrouter.temperature", 0.7)
	v.SetDefault("openrouter.max_tokens", 2048)
	v.SetDefault("openrouter.timeout", 300)

	v.SetDefault("upload.dir", "./uploads")
	v.SetDefault("upload.max_size", 5*1024*1024)

	v.SetDefault("site.name", "Alteran")
	v.SetDefault("site.url", "https://alteran.tech")
	v.SetDefault("site.page_cache_ttl", 3600)
	v.SetDefault("site.default_github", "https://github.com/alteran-tech")
	v.SetDefault("site.default_email", "hello@alteran.tech")

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.cache_purge_cron", "0 0 * * * *")
	v.SetDefault("scheduler.star_sync_cron", "0 30 3 * * *")
	v.SetDefault("scheduler.star_sync_concurrency", 4)
}

// loadDotEnv 读取 .env.local 与 .env, 已存在的环境变量不会被覆盖
func loadDotEnv() error {
	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("读取 %s 失败: %w", name, err)
		}
	}
	return nil
}

// Load 加载配置
// configPath 为空时在 ./configs 与 . 下查找 config.yaml, 找不到则只使用默认值与环境变量
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	// 设置配置文件路径
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// 读取环境变量
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("绑定环境变量 %s 失败: %w", env, err)
		}
	}

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	// 解析配置
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// 设置全局配置
	GlobalConfig = config

	return config, nil
}

// GetDSN 获取 MySQL DSN
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Username,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// GetAddr 获取服务监听地址
func (c *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SessionTTL 会话有效期
func (c *AuthConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionMaxAge) * time.Second
}

// CacheTTLDuration GitHub 缓存有效期
func (c *GitHubConfig) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// TimeoutDuration GitHub 请求超时
func (c *GitHubConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// TimeoutDuration OpenRouter 请求超时, 需覆盖整个流式响应
func (c *OpenRouterConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// PageCacheTTLDuration 页面缓存有效期
func (c *SiteConfig) PageCacheTTLDuration() time.Duration {
	return time.Duration(c.PageCacheTTL) * time.Second
}
