package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const defaultJWTSecret = "change-me-jwt-secret"

// Config is the full runtime configuration, read from the environment.
type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"dev"`
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	DatabaseURL string `envconfig:"DATABASE_URL" default:"file:carrental.db?cache=shared"`

	JWTSecret    string        `envconfig:"JWT_SECRET" default:"change-me-jwt-secret"`
	JWTAccessTTL time.Duration `envconfig:"JWT_ACCESS_TTL" default:"24h"`

	RedisURL        string        `envconfig:"REDIS_URL"`
	ProfileCacheTTL time.Duration `envconfig:"PROFILE_CACHE_TTL" default:"5m"`

	UploadDir     string `envconfig:"UPLOAD_DIR" default:"./uploads"`
	UploadURLBase string `envconfig:"UPLOAD_URL_BASE" default:"/static/uploads"`

	// StrictTransitions turns on the status transition tables for bookings and maintenance.
	StrictTransitions bool `envconfig:"STRICT_TRANSITIONS" default:"false"`

	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"LOG_WARN_STACK" default:"false"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`

	// MetricsToken guards /metrics; empty disables the endpoint.
	MetricsToken      string   `envconfig:"METRICS_TOKEN"`
	MetricsAllowedIPs []string `envconfig:"METRICS_ALLOWED_IPS"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsProdLike() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.ProfileCacheTTL < 0 {
		return fmt.Errorf("PROFILE_CACHE_TTL must be >= 0")
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	format := strings.ToLower(cfg.LogFormat)
	if format != "json" && format != "console" {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if strings.HasPrefix(cfg.DatabaseURL, "file:") {
			return fmt.Errorf("in prod/release DATABASE_URL must point at postgres")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}
