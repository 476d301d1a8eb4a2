package config

import (
	"fmt"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func ValidateStatic(cfg *Config) error {
	var errors []error

	if err := validateReporting(cfg); err != nil {
		errors = append(errors, err)
	}

	if err := validateRateLimit(cfg.RateLimit); err != nil {
		errors = append(errors, err)
	}

	if err := validateDelivery(cfg.Delivery); err != nil {
		errors = append(errors, err)
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errors)
	}

	return nil
}

func validateReporting(cfg *Config) error {
	if !cfg.Enabled {
		return nil
	}

	if cfg.Endpoint == "" {
		return &ValidationError{
			Field:   "endpoint",
			Message: "endpoint is required when reporting is enabled",
		}
	}

	parsed, err := url.Parse(cfg.Endpoint)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return &ValidationError{
			Field:   "endpoint",
			Message: fmt.Sprintf("endpoint must be an absolute URL, got %q", cfg.Endpoint),
		}
	}

	if cfg.Project == "" {
		return &ValidationError{
			Field:   "project",
			Message: "project id is required when reporting is enabled",
		}
	}

	if cfg.SampleRate < 0 || cfg.SampleRate > 1 {
		return &ValidationError{
			Field:   "sample_rate",
			Message: fmt.Sprintf("sample rate must be within [0, 1], got %v", cfg.SampleRate),
		}
	}

	return nil
}

func validateRateLimit(cfg RateLimitConfig) error {
	if !cfg.Enabled {
		return nil
	}

	if cfg.MaxPerMinute <= 0 {
		return &ValidationError{
			Field:   "rate_limit.max_per_minute",
			Message: fmt.Sprintf("max per minute must be positive, got %d", cfg.MaxPerMinute),
		}
	}

	if cfg.DedupWindowSeconds <= 0 {
		return &ValidationError{
			Field:   "rate_limit.dedup_window_seconds",
			Message: fmt.Sprintf("dedup window must be positive, got %d", cfg.DedupWindowSeconds),
		}
	}

	return nil
}

func validateDelivery(cfg DeliveryConfig) error {
	if cfg.Retry.MaxAttempts < 1 {
		return &ValidationError{
			Field:   "delivery.retry.max_attempts",
			Message: fmt.Sprintf("retry attempts must be at least 1, got %d", cfg.Retry.MaxAttempts),
		}
	}

	if cfg.Async && cfg.QueueSize < 1 {
		return &ValidationError{
			Field:   "delivery.queue_size",
			Message: fmt.Sprintf("queue size must be positive, got %d", cfg.QueueSize),
		}
	}

	if cfg.Async && cfg.Workers < 1 {
		return &ValidationError{
			Field:   "delivery.workers",
			Message: fmt.Sprintf("worker count must be positive, got %d", cfg.Workers),
		}
	}

	return nil
}
