package retry

import (
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
)

func newExponentialBackoff(policy Policy) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = policy.InitialInterval
	exp.MaxInterval = policy.MaxInterval
	exp.Multiplier = policy.Multiplier
	exp.MaxElapsedTime = 0
	return exp
}

// NextDelay reports the nominal delay before the attempt following the given
// one, ignoring jitter.
func NextDelay(attempt int, policy Policy) time.Duration {
	duration := float64(policy.InitialInterval) * math.Pow(policy.Multiplier, float64(attempt-1))
	if duration > float64(policy.MaxInterval) {
		return policy.MaxInterval
	}
	return time.Duration(duration)
}
