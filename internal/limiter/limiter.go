package limiter

import (
	"context"
	"time"

	"faultline/internal/config"
	"faultline/internal/constants"
	"faultline/internal/logger"
	"faultline/pkg/metrics"
)

// Limiter suppresses duplicate and excessive reports using the shared store.
// Both checks are no-ops returning false when rate limiting is disabled.
type Limiter struct {
	cfg   config.RateLimitConfig
	store Store
	log   logger.Logger
	now   func() time.Time
}

func New(cfg config.RateLimitConfig, store Store, log logger.Logger) *Limiter {
	return &Limiter{
		cfg:   cfg,
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// IsDuplicate checks the dedup flag for the hash and atomically claims it
// with the configured window TTL when absent. A check-then-set race between
// two concurrent identical errors may let both through; that is tolerated.
// Store errors fail open.
func (l *Limiter) IsDuplicate(ctx context.Context, hash string) bool {
	if !l.cfg.Enabled {
		return false
	}

	key := constants.CacheKeyPrefixDedup + hash
	claimed, err := l.store.SetNX(ctx, key, l.now().Unix(), l.cfg.DedupWindow())
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("dedup").Inc()
		l.log.WarnwCtx(ctx, "Dedup check failed, allowing report",
			"error", err,
		)
		return false
	}

	return !claimed
}

// IsRateLimited reads the counter for the current wall-clock minute bucket
// and rejects at or above the configured maximum without incrementing
// further; otherwise it increments. A burst across a bucket boundary may
// reach twice the per-minute rate. Store errors fail open.
func (l *Limiter) IsRateLimited(ctx context.Context) bool {
	if !l.cfg.Enabled {
		return false
	}

	key := constants.CacheKeyPrefixRate + l.now().UTC().Format(constants.RateBucketLayout)

	count, err := l.store.GetInt(ctx, key)
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("rate").Inc()
		l.log.WarnwCtx(ctx, "Rate-limit check failed, allowing report",
			"error", err,
		)
		return false
	}

	if count >= int64(l.cfg.MaxPerMinute) {
		return true
	}

	if _, err := l.store.IncrWithTTL(ctx, key, constants.RateBucketTTL); err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("rate").Inc()
		l.log.WarnwCtx(ctx, "Rate-limit increment failed",
			"error", err,
		)
	}

	return false
}

// SetClock overrides the limiter clock for bucket-rollover tests.
func (l *Limiter) SetClock(now func() time.Time) {
	l.now = now
}
