// internal/config/config.go
//
// Server configuration.
// Sources, lowest precedence first:
//   - built-in defaults;
//   - an optional YAML file named by BOWLING_CONFIG;
//   - environment variables (a .env file is loaded into the environment by main).
//
// Example YAML:
//
//	port: "8080"
//	store: redis
//	redis:
//	  addr: redis:6379
//	  prefix: bowling
//	request_timeout: 5s

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete server configuration.
type Config struct {
	Port           string        `yaml:"port"`
	LogLevel       string        `yaml:"log_level"`
	DBPath         string        `yaml:"db_path"`
	Store          string        `yaml:"store"` // sqlite | memory | redis
	Redis          RedisConfig   `yaml:"redis"`
	ClientOrigin   string        `yaml:"client_origin"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Auth           AuthConfig    `yaml:"auth"`
	Env            string        `yaml:"env"` // "production" enables Secure cookies
}

// RedisConfig contains settings for the redis store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// AuthConfig contains scorekeeper session settings.
type AuthConfig struct {
	JWTSecret      string `yaml:"jwt_secret"`
	JWTExpiresDays int    `yaml:"jwt_expires_days"`
	CookieName     string `yaml:"cookie_name"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Port:     "5175",
		LogLevel: "info",
		DBPath:   "./data/bowling.db",
		Store:    "sqlite",
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "bowling",
		},
		ClientOrigin:   "http://localhost:5173",
		RequestTimeout: 10 * time.Second,
		Auth: AuthConfig{
			JWTSecret:      "dev_secret_change_me",
			JWTExpiresDays: 14,
			CookieName:     "bowling_token",
		},
		Env: "development",
	}
}

// Production reports whether the server runs in production mode.
func (c Config) Production() bool { return c.Env == "production" }

// Load builds the configuration from BOWLING_CONFIG and the process environment.
func Load() (Config, error) {
	return LoadFrom(os.Getenv("BOWLING_CONFIG"), os.Getenv)
}

// LoadFrom reads the YAML file at path (skipped when empty) and then applies
// overrides from getenv.
func LoadFrom(path string, getenv func(string) string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	if err := applyEnv(&cfg, getenv); err != nil {
		return Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	str("PORT", &cfg.Port)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("DB_PATH", &cfg.DBPath)
	str("STORE", &cfg.Store)
	str("REDIS_ADDR", &cfg.Redis.Addr)
	str("REDIS_PASSWORD", &cfg.Redis.Password)
	str("REDIS_PREFIX", &cfg.Redis.Prefix)
	str("CLIENT_ORIGIN", &cfg.ClientOrigin)
	str("JWT_SECRET", &cfg.Auth.JWTSecret)
	str("COOKIE_NAME", &cfg.Auth.CookieName)
	str("NODE_ENV", &cfg.Env)

	if v := getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		cfg.Redis.DB = n
	}
	if v := getenv("JWT_EXPIRES_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("JWT_EXPIRES_DAYS: %w", err)
		}
		cfg.Auth.JWTExpiresDays = n
	}
	if v := getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}
	cfg.Store = strings.ToLower(cfg.Store)
	return nil
}

// Validate checks values that would otherwise fail later at startup.
func Validate(cfg Config) error {
	switch cfg.Store {
	case "memory", "sqlite", "redis":
	default:
		return fmt.Errorf("unknown store %q (want memory, sqlite or redis)", cfg.Store)
	}
	if cfg.Port == "" {
		return fmt.Errorf("port is required")
	}
	if cfg.Store == "sqlite" && cfg.DBPath == "" {
		return fmt.Errorf("db_path is required for the sqlite store")
	}
	if cfg.Store == "redis" && cfg.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required for the redis store")
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if cfg.Auth.JWTExpiresDays <= 0 {
		return fmt.Errorf("jwt_expires_days must be positive")
	}
	return nil
}
