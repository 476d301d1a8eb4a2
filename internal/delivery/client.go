package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"faultline/internal/config"
	"faultline/internal/constants"
	"faultline/internal/logger"
	"faultline/internal/report"
	"faultline/pkg/logging"
	"faultline/pkg/metrics"
	"faultline/pkg/retry"
)

// Client posts serialized payloads to the collector with bounded retries.
// Transport errors and 5xx responses are retried with increasing backoff;
// 4xx responses are terminal after a single attempt.
type Client struct {
	http     *http.Client
	endpoint string
	project  string
	policy   retry.Policy
	log      logger.Logger
}

func NewClient(cfg *config.Config, log logger.Logger) *Client {
	policy := retry.Policy{
		MaxAttempts:     cfg.Delivery.Retry.MaxAttempts,
		InitialInterval: cfg.Delivery.Retry.InitialInterval,
		MaxInterval:     cfg.Delivery.Retry.MaxInterval,
		Multiplier:      cfg.Delivery.Retry.Multiplier,
	}
	if policy.MaxAttempts <= 0 {
		policy = retry.DefaultPolicy()
	}

	return &Client{
		http: &http.Client{
			Timeout: cfg.HTTP.Timeout(),
		},
		endpoint: cfg.Endpoint,
		project:  cfg.Project,
		policy:   policy,
		log:      log,
	}
}

// Deliver runs the retry loop to success or exhaustion. Terminal failure is
// logged with full identifying detail and returned; the payload is never
// re-queued.
func (c *Client) Deliver(ctx context.Context, payload *report.Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to serialize payload: %w", err)
	}

	ctx = logging.WithErrorHash(ctx, payload.ErrorHash)

	onRetry := func(attempt int, attemptErr error, nextDelay time.Duration) {
		metrics.DeliveryRetriesTotal.Inc()
		c.log.WarnwCtx(ctx, "Delivery attempt failed, retrying",
			"endpoint_host", c.endpointHost(),
			"attempt", attempt,
			"next_delay", nextDelay,
			"error", attemptErr,
		)
	}

	err = retry.Do(ctx, c.policy, func() error {
		return c.attempt(ctx, body)
	}, onRetry)

	if err != nil {
		c.log.ErrorwCtx(ctx, "Delivery failed permanently",
			"project", c.project,
			"error_class", payload.Error.Class,
			"error_file", payload.Error.File,
			"error", err,
			"hint", c.remediationHint(err),
		)
		return err
	}

	c.log.DebugwCtx(ctx, "Report delivered",
		"endpoint_host", c.endpointHost(),
	)
	return nil
}

func (c *Client) attempt(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return retry.NewFatalError(fmt.Errorf("failed to build request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.ProjectHeader, c.project)

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)

	if err != nil {
		metrics.DeliveryAttemptsTotal.WithLabelValues("network_error").Inc()
		metrics.ObserveDeliveryDuration(duration, "network_error")
		return retry.NewRetryableError(fmt.Errorf("failed to reach collector: %w", err))
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= constants.HTTPStatusOKMin && resp.StatusCode < constants.HTTPStatusOKMax:
		metrics.DeliveryAttemptsTotal.WithLabelValues("success").Inc()
		metrics.ObserveDeliveryDuration(duration, "success")
		return nil

	case resp.StatusCode >= 500:
		metrics.DeliveryAttemptsTotal.WithLabelValues("server_error").Inc()
		metrics.ObserveDeliveryDuration(duration, "server_error")
		return retry.NewRetryableError(fmt.Errorf("collector returned status %d", resp.StatusCode))

	default:
		metrics.DeliveryAttemptsTotal.WithLabelValues("client_error").Inc()
		metrics.ObserveDeliveryDuration(duration, "client_error")
		return retry.NewFatalError(fmt.Errorf("collector rejected payload with status %d", resp.StatusCode))
	}
}

func (c *Client) endpointHost() string {
	parsed, err := url.Parse(c.endpoint)
	if err != nil {
		return c.endpoint
	}
	return parsed.Host
}

func (c *Client) remediationHint(err error) string {
	if retry.IsFatal(err) {
		return "the collector rejected the payload; check the project id and collector API version"
	}
	return "the collector is unreachable or failing; check endpoint connectivity and collector health"
}
