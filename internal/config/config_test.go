package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "faultline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfigFile(t, `
enabled: true
endpoint: https://faultline.example.com/api/errors
project: billing
environment: staging
autofix_environments:
  - staging
sample_rate: 0.25
ignored_errors:
  - context.deadlineExceededError
sensitive_fields:
  - password
  - ssn
source:
  enabled: true
  context_lines: 7
  project_root: /srv/app
rate_limit:
  enabled: true
  max_per_minute: 20
  dedup_window_seconds: 120
http:
  timeout_seconds: 5
delivery:
  async: true
  queue_size: 128
  workers: 4
  retry:
    max_attempts: 5
    initial_interval: 2s
    max_interval: 1m
    multiplier: 3.0
redis:
  host: localhost
  port: 6380
  db: 2
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "https://faultline.example.com/api/errors", cfg.Endpoint)
	assert.Equal(t, "billing", cfg.Project)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, []string{"staging"}, cfg.AutofixEnvironments)
	assert.Equal(t, 0.25, cfg.SampleRate)
	assert.Equal(t, []string{"context.deadlineExceededError"}, cfg.IgnoredErrors)
	assert.Equal(t, []string{"password", "ssn"}, cfg.SensitiveFields)

	assert.True(t, cfg.Source.Enabled)
	assert.Equal(t, 7, cfg.Source.ContextLines)
	assert.Equal(t, "/srv/app", cfg.Source.ProjectRoot)

	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 20, cfg.RateLimit.MaxPerMinute)
	assert.Equal(t, 2*time.Minute, cfg.RateLimit.DedupWindow())

	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout())

	assert.True(t, cfg.Delivery.Async)
	assert.Equal(t, 128, cfg.Delivery.QueueSize)
	assert.Equal(t, 4, cfg.Delivery.Workers)
	assert.Equal(t, 5, cfg.Delivery.Retry.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Delivery.Retry.InitialInterval)
	assert.Equal(t, time.Minute, cfg.Delivery.Retry.MaxInterval)
	assert.Equal(t, 3.0, cfg.Delivery.Retry.Multiplier)

	assert.True(t, cfg.Redis.Configured())
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, 6380, cfg.Redis.Port)
	assert.Equal(t, 2, cfg.Redis.DB)

	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfigFile(t, `
endpoint: https://faultline.example.com/api/errors
project: billing
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 1.0, cfg.SampleRate)
	assert.True(t, cfg.Source.Enabled)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.True(t, cfg.Delivery.Async)
	assert.Equal(t, 3, cfg.Delivery.Retry.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Delivery.Retry.InitialInterval)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.False(t, cfg.Redis.Configured())
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("FAULTLINE_ENVIRONMENT", "canary")

	path := writeConfigFile(t, `
endpoint: https://faultline.example.com/api/errors
project: billing
environment: production
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "canary", cfg.Environment)
}

func TestValidateStatic(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Enabled:    true,
			Endpoint:   "https://faultline.example.com/api/errors",
			Project:    "billing",
			SampleRate: 1.0,
			Delivery: DeliveryConfig{
				Retry: RetryConfig{MaxAttempts: 3},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}, wantErr: false},
		{name: "missing endpoint", mutate: func(c *Config) { c.Endpoint = "" }, wantErr: true},
		{name: "relative endpoint", mutate: func(c *Config) { c.Endpoint = "/api/errors" }, wantErr: true},
		{name: "missing project", mutate: func(c *Config) { c.Project = "" }, wantErr: true},
		{name: "sample rate above one", mutate: func(c *Config) { c.SampleRate = 1.5 }, wantErr: true},
		{name: "negative sample rate", mutate: func(c *Config) { c.SampleRate = -0.1 }, wantErr: true},
		{name: "disabled skips reporting checks", mutate: func(c *Config) {
			c.Enabled = false
			c.Endpoint = ""
			c.Project = ""
		}, wantErr: false},
		{name: "zero retry attempts", mutate: func(c *Config) { c.Delivery.Retry.MaxAttempts = 0 }, wantErr: true},
		{name: "async without queue", mutate: func(c *Config) {
			c.Delivery.Async = true
			c.Delivery.QueueSize = 0
		}, wantErr: true},
		{name: "rate limit zero max", mutate: func(c *Config) {
			c.RateLimit.Enabled = true
			c.RateLimit.MaxPerMinute = 0
			c.RateLimit.DedupWindowSeconds = 60
		}, wantErr: true},
		{name: "rate limit zero window", mutate: func(c *Config) {
			c.RateLimit.Enabled = true
			c.RateLimit.MaxPerMinute = 10
			c.RateLimit.DedupWindowSeconds = 0
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := ValidateStatic(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
