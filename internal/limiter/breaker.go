package limiter

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"faultline/pkg/metrics"
)

// BreakerStore wraps a Store with a circuit breaker so a failing Redis never
// stalls the capture path. While the circuit is open, operations fail fast
// and the limiter falls back to allowing delivery.
type BreakerStore struct {
	inner Store
	cb    *gobreaker.CircuitBreaker
}

func NewBreakerStore(inner Store) *BreakerStore {
	settings := gobreaker.Settings{
		Name:        "limiter-store",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.BreakerState.WithLabelValues(name).Set(float64(to))
		},
	}

	return &BreakerStore{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker(settings),
	}
}

func (s *BreakerStore) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	result, err := s.cb.Execute(func() (interface{}, error) {
		return s.inner.SetNX(ctx, key, value, ttl)
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

func (s *BreakerStore) GetInt(ctx context.Context, key string) (int64, error) {
	result, err := s.cb.Execute(func() (interface{}, error) {
		return s.inner.GetInt(ctx, key)
	})
	if err != nil {
		return 0, err
	}
	return result.(int64), nil
}

func (s *BreakerStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	result, err := s.cb.Execute(func() (interface{}, error) {
		return s.inner.IncrWithTTL(ctx, key, ttl)
	})
	if err != nil {
		return 0, err
	}
	return result.(int64), nil
}
