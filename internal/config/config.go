package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Admin 鉴权模式。
const (
	AuthModeSecret = "secret"
	AuthModeToken  = "token"
)

// Config aggregates application settings that may be sourced from files or environment variables.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Intake   IntakeConfig   `mapstructure:"intake"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Log      LogConfig      `mapstructure:"log"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port           int           `mapstructure:"port"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	CORSOrigins    []string      `mapstructure:"cors_origins"`
}

// DatabaseConfig contains connection options for PostgreSQL.
// URL 非空时优先于分项配置。
type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig 包含 Redis 连接配置。
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// AdminConfig 描述管理后台的共享口令与鉴权方式。
type AdminConfig struct {
	Password        string        `mapstructure:"password"`
	PasswordHash    string        `mapstructure:"password_hash"`
	AuthMode        string        `mapstructure:"auth_mode"`
	TokenSigningKey string        `mapstructure:"token_signing_key"`
	TokenTTL        time.Duration `mapstructure:"token_ttl"`

	// 每个 IP 每小时的登录尝试上限，0 表示不限。
	LoginRateLimitPerHour int `mapstructure:"login_rate_limit_per_hour"`
}

// IntakeConfig 控制公开投递接口的限流。0 表示不限。
type IntakeConfig struct {
	RateLimitPerHour int `mapstructure:"rate_limit_per_hour"`
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
// Endpoint 为空时导出到对象存储的功能关闭。
type MinIOConfig struct {
	Endpoint         string `mapstructure:"endpoint"`
	PublicEndpoint   string `mapstructure:"public_endpoint"`
	AccessKeyID      string `mapstructure:"access_key_id"`
	SecretAccessKey  string `mapstructure:"secret_access_key"`
	UseSSL           bool   `mapstructure:"use_ssl"`
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	AutoCreateBucket bool   `mapstructure:"auto_create_bucket"`
}

// LogConfig controls the slog level.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DSN builds a libpq compatible connection string.
func (d DatabaseConfig) DSN() string {
	if strings.TrimSpace(d.URL) != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// Addr returns host:port for the redis client.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Enabled reports whether object storage export is configured.
func (m MinIOConfig) Enabled() bool {
	return strings.TrimSpace(m.Endpoint) != ""
}

// SlogLevel 将配置的日志级别转换为 slog.Level，未识别时为 Info。
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads configuration solely from environment variables (with optional defaults).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Admin.AuthMode = strings.ToLower(strings.TrimSpace(cfg.Admin.AuthMode))
	if cfg.Admin.TokenSigningKey == "" {
		cfg.Admin.TokenSigningKey = cfg.Admin.Password
	}
	if cfg.MinIO.PublicEndpoint == "" && cfg.MinIO.Endpoint != "" {
		scheme := "http://"
		if cfg.MinIO.UseSSL {
			scheme = "https://"
		}
		cfg.MinIO.PublicEndpoint = scheme + cfg.MinIO.Endpoint
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.request_timeout", 10*time.Second)
	v.SetDefault("api.cors_origins", []string{})
	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "hireform")
	v.SetDefault("database.user", "hireform")
	v.SetDefault("database.password", "")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("admin.password", "")
	v.SetDefault("admin.password_hash", "")
	v.SetDefault("admin.auth_mode", AuthModeSecret)
	v.SetDefault("admin.token_signing_key", "")
	v.SetDefault("admin.token_ttl", 12*time.Hour)
	v.SetDefault("admin.login_rate_limit_per_hour", 20)
	v.SetDefault("intake.rate_limit_per_hour", 20)
	v.SetDefault("minio.endpoint", "")
	v.SetDefault("minio.public_endpoint", "")
	v.SetDefault("minio.access_key_id", "")
	v.SetDefault("minio.secret_access_key", "")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "hireform-exports")
	v.SetDefault("minio.region", "")
	v.SetDefault("minio.auto_create_bucket", true)
	v.SetDefault("log.level", "info")
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                        "API_PORT",
		"api.request_timeout":             "API_REQUEST_TIMEOUT",
		"api.cors_origins":                "CORS_ALLOW_ORIGINS",
		"database.url":                    "DATABASE_URL",
		"database.host":                   "DATABASE_HOST",
		"database.port":                   "DATABASE_PORT",
		"database.name":                   "POSTGRES_DB",
		"database.user":                   "POSTGRES_USER",
		"database.password":               "POSTGRES_PASSWORD",
		"database.sslmode":                "DATABASE_SSLMODE",
		"redis.host":                      "REDIS_HOST",
		"redis.port":                      "REDIS_PORT",
		"admin.password":                  "ADMIN_PASSWORD",
		"admin.password_hash":             "ADMIN_PASSWORD_HASH",
		"admin.auth_mode":                 "ADMIN_AUTH_MODE",
		"admin.token_signing_key":         "ADMIN_TOKEN_SIGNING_KEY",
		"admin.token_ttl":                 "ADMIN_TOKEN_TTL",
		"admin.login_rate_limit_per_hour": "ADMIN_LOGIN_RATE_LIMIT_PER_HOUR",
		"intake.rate_limit_per_hour":      "INTAKE_RATE_LIMIT_PER_HOUR",
		"minio.endpoint":                  "MINIO_ENDPOINT",
		"minio.public_endpoint":           "MINIO_PUBLIC_ENDPOINT",
		"minio.access_key_id":             "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key":         "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":                   "MINIO_USE_SSL",
		"minio.bucket":                    "MINIO_BUCKET",
		"minio.region":                    "MINIO_REGION",
		"minio.auto_create_bucket":        "MINIO_AUTO_CREATE_BUCKET",
		"log.level":                       "LOG_LEVEL",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if cfg.API.RequestTimeout <= 0 {
		return errors.New("api request timeout must be positive")
	}
	if strings.TrimSpace(cfg.Database.URL) == "" {
		if cfg.Database.Host == "" {
			return errors.New("database host is required")
		}
		if cfg.Database.Port <= 0 {
			return errors.New("database port must be positive")
		}
		if cfg.Database.Name == "" {
			return errors.New("database name is required")
		}
		if cfg.Database.User == "" {
			return errors.New("database user is required")
		}
		if cfg.Database.Password == "" {
			return errors.New("database password is required")
		}
		if cfg.Database.SSLMode == "" {
			return errors.New("database sslmode is required")
		}
	}
	if cfg.Redis.Host == "" {
		return errors.New("redis host is required")
	}
	if cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	if strings.TrimSpace(cfg.Admin.Password) == "" && strings.TrimSpace(cfg.Admin.PasswordHash) == "" {
		return errors.New("admin password (ADMIN_PASSWORD or ADMIN_PASSWORD_HASH) is required")
	}
	switch cfg.Admin.AuthMode {
	case AuthModeSecret:
	case AuthModeToken:
		if strings.TrimSpace(cfg.Admin.TokenSigningKey) == "" {
			return errors.New("admin token signing key is required in token mode")
		}
		if cfg.Admin.TokenTTL <= 0 {
			return errors.New("admin token ttl must be positive")
		}
	default:
		return fmt.Errorf("invalid admin auth mode %q", cfg.Admin.AuthMode)
	}
	if cfg.Admin.LoginRateLimitPerHour < 0 {
		return errors.New("admin login rate limit must not be negative")
	}
	if cfg.Intake.RateLimitPerHour < 0 {
		return errors.New("intake rate limit must not be negative")
	}
	if cfg.MinIO.Enabled() {
		if cfg.MinIO.AccessKeyID == "" {
			return errors.New("minio access key id is required")
		}
		if cfg.MinIO.SecretAccessKey == "" {
			return errors.New("minio secret access key is required")
		}
		if cfg.MinIO.Bucket == "" {
			return errors.New("minio bucket is required")
		}
	}
	return nil
}
