package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefaults(t *testing.T) {
	cfg, err := LoadFrom("", envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "5175", cfg.Port)
	assert.Equal(t, "sqlite", cfg.Store)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.Production())
}

func TestEnvOverrides(t *testing.T) {
	cfg, err := LoadFrom("", envMap(map[string]string{
		"PORT":             "8080",
		"STORE":            "Redis",
		"REDIS_ADDR":       "cache:6379",
		"REDIS_DB":         "2",
		"JWT_EXPIRES_DAYS": "3",
		"REQUEST_TIMEOUT":  "250ms",
		"NODE_ENV":         "production",
		"COOKIE_NAME":      "tok",
	}))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "redis", cfg.Store)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 3, cfg.Auth.JWTExpiresDays)
	assert.Equal(t, 250*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, "tok", cfg.Auth.CookieName)
	assert.True(t, cfg.Production())
}

func TestYAMLFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bowling.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
store: memory
request_timeout: 5s
redis:
  prefix: lanes
auth:
  cookie_name: lane_token
`), 0o644))

	cfg, err := LoadFrom(path, envMap(map[string]string{"PORT": "9001"}))
	require.NoError(t, err)
	assert.Equal(t, "9001", cfg.Port)
	assert.Equal(t, "memory", cfg.Store)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "lanes", cfg.Redis.Prefix)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "lane_token", cfg.Auth.CookieName)
	assert.Equal(t, 14, cfg.Auth.JWTExpiresDays)
}

func TestLoadErrors(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"), envMap(nil))
	assert.ErrorContains(t, err, "failed to read config file")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("port: [unclosed"), 0o644))
	_, err = LoadFrom(bad, envMap(nil))
	assert.ErrorContains(t, err, "failed to parse config")

	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown store", map[string]string{"STORE": "postgres"}},
		{"bad redis db", map[string]string{"REDIS_DB": "one"}},
		{"bad expiry", map[string]string{"JWT_EXPIRES_DAYS": "soon"}},
		{"zero expiry", map[string]string{"JWT_EXPIRES_DAYS": "0"}},
		{"bad timeout", map[string]string{"REQUEST_TIMEOUT": "10"}},
		{"negative timeout", map[string]string{"REQUEST_TIMEOUT": "-1s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom("", envMap(tt.env))
			assert.Error(t, err)
		})
	}
}
