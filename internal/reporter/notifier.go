package reporter

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"faultline/internal/config"
	"faultline/internal/delivery"
	"faultline/internal/fingerprint"
	"faultline/internal/gate"
	"faultline/internal/limiter"
	"faultline/internal/logger"
	"faultline/internal/report"
	"faultline/internal/source"
	"faultline/pkg/logging"
	"faultline/pkg/metrics"
)

// Drop reasons for reports suppressed before delivery.
const (
	dropNone        = ""
	dropGate        = "gate"
	dropDuplicate   = "duplicate"
	dropRateLimited = "rate_limited"
)

// Notifier is the process-lifetime capture pipeline. Its wiring is immutable
// after construction; all per-unit-of-work state lives in Scopes.
type Notifier struct {
	cfg        *config.Config
	gate       *gate.Gate
	limiter    *limiter.Limiter
	builder    *report.Builder
	dispatcher delivery.Dispatcher
	log        logger.Logger
}

type options struct {
	store      limiter.Store
	dispatcher delivery.Dispatcher
}

type Option func(*options)

// WithStore overrides the dedup/rate-limit store (tests, embedded setups).
func WithStore(store limiter.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithDispatcher overrides the delivery strategy.
func WithDispatcher(d delivery.Dispatcher) Option {
	return func(o *options) {
		o.dispatcher = d
	}
}

func New(cfg *config.Config, log logger.Logger, opts ...Option) (*Notifier, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	metrics.RegisterCaptureMetrics()
	metrics.RegisterDeliveryMetrics()
	metrics.RegisterLimiterMetrics()

	if sugared, ok := log.(*logger.SugaredLogger); ok {
		sugared.SetProject(cfg.Project)
	}

	captureGate, err := gate.New(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize capture gate: %w", err)
	}

	store := o.store
	if store == nil {
		store = newStore(cfg)
	}
	if cfg.CircuitBreaker.Enabled {
		store = limiter.NewBreakerStore(store)
	}

	dispatcher := o.dispatcher
	if dispatcher == nil {
		client := delivery.NewClient(cfg, log)
		if cfg.Delivery.Async {
			dispatcher = delivery.NewQueueDispatcher(client, cfg.Delivery.QueueSize, cfg.Delivery.Workers, log)
		} else {
			dispatcher = delivery.NewSyncDispatcher(client)
		}
	}

	var sources report.SourceReader
	if cfg.Source.Enabled {
		sources = source.NewReader(cfg.Source.ContextLines, cfg.Source.ProjectRoot)
	}

	return &Notifier{
		cfg:        cfg,
		gate:       captureGate,
		limiter:    limiter.New(cfg.RateLimit, store, log),
		builder:    report.NewBuilder(cfg, sources),
		dispatcher: dispatcher,
		log:        log,
	}, nil
}

func newStore(cfg *config.Config) limiter.Store {
	if !cfg.Redis.Configured() {
		return limiter.NewMemoryStore()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return limiter.NewRedisStore(client)
}

// NewScope creates independent per-unit-of-work state. Each request or job
// execution must own its own Scope.
func (n *Notifier) NewScope() *Scope {
	return &Scope{
		notifier: n,
		context:  report.NewContext(),
	}
}

// Close drains the delivery queue, bounded by the context deadline.
func (n *Notifier) Close(ctx context.Context) error {
	return n.dispatcher.Close(ctx)
}

// process runs the gate -> fingerprint -> limiter -> build -> dispatch
// pipeline. skip counts stack frames between the application call site and
// this function.
func (n *Notifier) process(ctx context.Context, err error, state report.ScopeState, extra map[string]interface{}, skip int) (string, error) {
	stack := report.CollectStack(skip + 1)
	file, line := report.Origin(stack, n.cfg.Source.ProjectRoot)

	if !n.gate.ShouldCapture(ctx, err, file, line) {
		metrics.SuppressedTotal.WithLabelValues(dropGate).Inc()
		return dropGate, nil
	}

	hash := fingerprint.Hash(report.ClassOf(err), err.Error(), file, line)
	ctx = logging.WithErrorHash(ctx, hash)

	if n.limiter.IsDuplicate(ctx, hash) {
		metrics.SuppressedTotal.WithLabelValues(dropDuplicate).Inc()
		n.log.DebugwCtx(ctx, "Duplicate report suppressed within dedup window")
		return dropDuplicate, nil
	}

	if n.limiter.IsRateLimited(ctx) {
		metrics.SuppressedTotal.WithLabelValues(dropRateLimited).Inc()
		n.log.DebugwCtx(ctx, "Report suppressed by per-minute rate limit")
		return dropRateLimited, nil
	}

	payload := n.builder.Build(err, stack, state, extra)
	metrics.CapturesTotal.WithLabelValues("captured").Inc()

	return dropNone, n.dispatcher.Dispatch(ctx, payload)
}

type verificationError struct{}

func (verificationError) Error() string {
	return "faultline verification probe"
}

// Verify synthesizes one error and pushes it through the identical pipeline
// production traffic uses, propagating the outcome instead of swallowing it.
func (n *Notifier) Verify(ctx context.Context) error {
	if !n.cfg.Enabled {
		return fmt.Errorf("reporting is disabled; set enabled: true")
	}
	if n.cfg.Endpoint == "" {
		return fmt.Errorf("no endpoint configured; set endpoint to the collector URL")
	}
	if n.cfg.Project == "" {
		return fmt.Errorf("no project configured; set project to your project id")
	}

	scope := n.NewScope()
	scope.SetContext(map[string]interface{}{
		"verification": true,
	})

	reason, err := n.process(ctx, verificationError{}, scope.snapshot(), nil, 1)
	if err != nil {
		return fmt.Errorf("delivery failed: %w", err)
	}
	if reason != dropNone {
		return fmt.Errorf("synthetic error was suppressed (%s); check the ignore list, sample rate and rate limit settings", reason)
	}

	return nil
}
