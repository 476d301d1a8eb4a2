package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"faultline/internal/constants"
)

func Load(configFile string) (*Config, error) {
	viper.Reset()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(configFile)

	viper.SetEnvPrefix("FAULTLINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateStatic(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("enabled", true)
	viper.SetDefault("environment", "production")
	viper.SetDefault("sample_rate", 1.0)

	viper.SetDefault("source.enabled", true)
	viper.SetDefault("source.context_lines", constants.DefaultContextLines)

	viper.SetDefault("rate_limit.enabled", false)
	viper.SetDefault("rate_limit.max_per_minute", constants.DefaultMaxPerMinute)
	viper.SetDefault("rate_limit.dedup_window_seconds", constants.DefaultDedupWindowSeconds)

	viper.SetDefault("http.timeout_seconds", int(constants.DefaultHTTPTimeout.Seconds()))

	viper.SetDefault("delivery.async", true)
	viper.SetDefault("delivery.queue_size", constants.DefaultQueueSize)
	viper.SetDefault("delivery.workers", constants.DefaultQueueWorkers)
	viper.SetDefault("delivery.retry.max_attempts", 3)
	viper.SetDefault("delivery.retry.initial_interval", "1s")
	viper.SetDefault("delivery.retry.max_interval", "30s")
	viper.SetDefault("delivery.retry.multiplier", 2.0)

	viper.SetDefault("redis.port", 6379)

	viper.SetDefault("logging.level", "info")
}

func bindEnvVariables() {
	viper.BindEnv("enabled", "FAULTLINE_ENABLED")
	viper.BindEnv("endpoint", "FAULTLINE_ENDPOINT")
	viper.BindEnv("project", "FAULTLINE_PROJECT")
	viper.BindEnv("environment", "FAULTLINE_ENVIRONMENT")
	viper.BindEnv("sample_rate", "FAULTLINE_SAMPLE_RATE")

	viper.BindEnv("redis.host", "FAULTLINE_REDIS_HOST")
	viper.BindEnv("redis.port", "FAULTLINE_REDIS_PORT")
	viper.BindEnv("redis.password", "FAULTLINE_REDIS_PASSWORD")
	viper.BindEnv("redis.db", "FAULTLINE_REDIS_DB")

	viper.BindEnv("http.timeout_seconds", "FAULTLINE_HTTP_TIMEOUT_SECONDS")
	viper.BindEnv("delivery.async", "FAULTLINE_DELIVERY_ASYNC")

	viper.BindEnv("logging.level", "FAULTLINE_LOGGING_LEVEL")
}
