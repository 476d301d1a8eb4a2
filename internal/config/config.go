package config

import (
	"time"

	"faultline/internal/constants"
)

type Config struct {
	Enabled             bool     `mapstructure:"enabled"`
	Endpoint            string   `mapstructure:"endpoint"`
	Project             string   `mapstructure:"project"`
	Environment         string   `mapstructure:"environment"`
	AutofixEnvironments []string `mapstructure:"autofix_environments"`
	SampleRate          float64  `mapstructure:"sample_rate"`
	IgnoredErrors       []string `mapstructure:"ignored_errors"`
	IgnoreExpressions   []string `mapstructure:"ignore_expressions"`
	SensitiveFields     []string `mapstructure:"sensitive_fields"`

	Source         SourceConfig         `mapstructure:"source"`
	RateLimit      RateLimitConfig      `mapstructure:"rate_limit"`
	HTTP           HTTPConfig           `mapstructure:"http"`
	Delivery       DeliveryConfig       `mapstructure:"delivery"`
	Redis          RedisConfig          `mapstructure:"redis"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
	Logging        LoggingConfig        `mapstructure:"logging"`
}

type SourceConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	ContextLines int    `mapstructure:"context_lines"`
	ProjectRoot  string `mapstructure:"project_root"`
}

type RateLimitConfig struct {
	Enabled            bool `mapstructure:"enabled"`
	MaxPerMinute       int  `mapstructure:"max_per_minute"`
	DedupWindowSeconds int  `mapstructure:"dedup_window_seconds"`
}

func (c RateLimitConfig) DedupWindow() time.Duration {
	return time.Duration(c.DedupWindowSeconds) * time.Second
}

type HTTPConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

func (c HTTPConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return constants.DefaultHTTPTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type DeliveryConfig struct {
	Async     bool        `mapstructure:"async"`
	QueueSize int         `mapstructure:"queue_size"`
	Workers   int         `mapstructure:"workers"`
	Retry     RetryConfig `mapstructure:"retry"`
}

type RetryConfig struct {
	MaxAttempts     int           `mapstructure:"max_attempts"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
	Multiplier      float64       `mapstructure:"multiplier"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (c RedisConfig) Configured() bool {
	return c.Host != ""
}

type CircuitBreakerConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}
