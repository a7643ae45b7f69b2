package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var v *viper.Viper
var cfg *Config

// Config App-wide configuration
type Config struct {
	Database  DatabaseConfig  `mapstructure:"-"`
	Redis     RedisConfig     `mapstructure:"-"`
	App       AppConfig       `mapstructure:"-"`
	API       APIConfig       `mapstructure:"-"`
	JWT       JWTConfig       `mapstructure:"-"`
	Cache     CacheConfig     `mapstructure:"-"`
	Snowflake SnowflakeConfig `mapstructure:"-"`
	Logging   LoggingConfig   `mapstructure:"-"`
	Security  SecurityConfig  `mapstructure:"-"`
}

// DatabaseConfig SQLite cache store configuration
type DatabaseConfig struct {
	Path         string
	MaxOpenConns int
}

// RedisConfig Redis Configuration (optional L2 cache)
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// AppConfig local bridge server configuration
type AppConfig struct {
	Host string
	Port int
	Mode string
}

// APIConfig remote forum API configuration
type APIConfig struct {
	BaseURL   string
	CDNURL    string
	Timeout   int // seconds
	Attempts  int
	UserAgent string
}

// JWTConfig JWT Configuration
type JWTConfig struct {
	Secret string
	Expiry int // Token过期时间(秒)
}

// CacheConfig Cache Configuration
type CacheConfig struct {
	L1Cap int // MB
	L2TTL int // seconds
}

// SnowflakeConfig Snowflake Configuration
type SnowflakeConfig struct {
	WorkerID int64
}

// LoggingConfig Logging Configuration
type LoggingConfig struct {
	Level    string
	Output   string
	Filename string
}

// SecurityConfig Security Configuration
type SecurityConfig struct {
	AllowIPs  []string // IP白名单
	DenyIPs   []string // IP黑名单
	RateLimit int      // 频率限制
}

// Init Initialize configuration with Viper
func Init(configPath string) error {
	v = viper.New()
	cfg = &Config{}

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	// 环境变量覆盖
	v.SetEnvPrefix("XDNMB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvs()

	return parseConfig()
}

// setDefaults 设置默认值
func setDefaults() {
	v.SetDefault("app.host", "127.0.0.1")
	v.SetDefault("app.port", 8686)
	v.SetDefault("app.mode", "release")

	v.SetDefault("api.base_url", "https://api.nmb.best/Api/")
	v.SetDefault("api.cdn_url", "https://image.nmb.best/")
	v.SetDefault("api.timeout", 15)
	v.SetDefault("api.attempts", 1)
	v.SetDefault("api.user_agent", "xdnmb-go/1.0")

	v.SetDefault("database.path", "xdnmb.db")
	v.SetDefault("database.max_open_conns", 1)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.pool_size", 4)

	v.SetDefault("cache.l1_cap", 8)
	v.SetDefault("cache.l2_ttl", 3600)

	v.SetDefault("snowflake.worker_id", 0)

	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.expiry", 86400)

	v.SetDefault("security.allow_ips", []string{"127.0.0.1", "localhost", "::1"})
	v.SetDefault("security.rate_limit", 120)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.output", "stdout")
}

// bindEnvs 绑定环境变量
func bindEnvs() {
	v.BindEnv("database.path", "XDNMB_DATABASE_PATH")

	v.BindEnv("api.base_url", "XDNMB_API_BASE_URL")
	v.BindEnv("api.cdn_url", "XDNMB_API_CDN_URL")

	v.BindEnv("redis.enabled", "XDNMB_REDIS_ENABLED")
	v.BindEnv("redis.host", "XDNMB_REDIS_HOST")
	v.BindEnv("redis.port", "XDNMB_REDIS_PORT")
	v.BindEnv("redis.password", "XDNMB_REDIS_PASSWORD")

	v.BindEnv("jwt.secret", "XDNMB_JWT_SECRET")
}

// parseConfig 解析配置到结构体
func parseConfig() error {
	// Database
	cfg.Database.Path = strings.TrimSpace(v.GetString("database.path"))
	cfg.Database.MaxOpenConns = v.GetInt("database.max_open_conns")

	// Redis
	cfg.Redis.Enabled = v.GetBool("redis.enabled")
	cfg.Redis.Host = v.GetString("redis.host")
	cfg.Redis.Port = v.GetInt("redis.port")
	cfg.Redis.Password = v.GetString("redis.password")
	cfg.Redis.DB = v.GetInt("redis.db")
	cfg.Redis.PoolSize = v.GetInt("redis.pool_size")

	// App
	cfg.App.Host = v.GetString("app.host")
	cfg.App.Port = v.GetInt("app.port")
	cfg.App.Mode = v.GetString("app.mode")

	// API
	cfg.API.BaseURL = ensureSlash(strings.TrimSpace(v.GetString("api.base_url")))
	cfg.API.CDNURL = ensureSlash(strings.TrimSpace(v.GetString("api.cdn_url")))
	cfg.API.Timeout = v.GetInt("api.timeout")
	cfg.API.Attempts = v.GetInt("api.attempts")
	cfg.API.UserAgent = v.GetString("api.user_agent")

	// JWT
	cfg.JWT.Secret = v.GetString("jwt.secret")
	cfg.JWT.Expiry = v.GetInt("jwt.expiry")

	// Cache
	cfg.Cache.L1Cap = v.GetInt("cache.l1_cap")
	cfg.Cache.L2TTL = v.GetInt("cache.l2_ttl")

	// Snowflake
	cfg.Snowflake.WorkerID = v.GetInt64("snowflake.worker_id")

	// Logging
	cfg.Logging.Level = v.GetString("logging.level")
	cfg.Logging.Output = v.GetString("logging.output")
	cfg.Logging.Filename = v.GetString("logging.filename")

	// Security
	cfg.Security.AllowIPs = v.GetStringSlice("security.allow_ips")
	cfg.Security.DenyIPs = v.GetStringSlice("security.deny_ips")
	cfg.Security.RateLimit = v.GetInt("security.rate_limit")

	if cfg.API.Attempts < 1 {
		return fmt.Errorf("api.attempts must be >= 1, got %d", cfg.API.Attempts)
	}
	if cfg.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	return nil
}

// Get 获取配置实例
func Get() *Config {
	return cfg
}

// GetRedisAddr Get Redis address
func (c *RedisConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetServerAddr Get server address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetTimeout request timeout as a duration
func (c *APIConfig) GetTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// GetL2TTL L2 ttl as a duration
func (c *CacheConfig) GetL2TTL() time.Duration {
	return time.Duration(c.L2TTL) * time.Second
}

func ensureSlash(s string) string {
	if s == "" || strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}
