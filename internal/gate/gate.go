package gate

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"

	"faultline/internal/config"
	"faultline/internal/logger"
	"faultline/internal/report"
)

// Suppressed is the capability an error implements to opt out of reporting.
type Suppressed interface {
	error
	SuppressReport() bool
}

// Gate decides whether an error is eligible for reporting at all. It is a
// pure predicate with no side effects.
type Gate struct {
	cfg       *config.Config
	evaluator *Evaluator
	log       logger.Logger
	randFloat func() float64
}

func New(cfg *config.Config, log logger.Logger) (*Gate, error) {
	var evaluator *Evaluator
	if len(cfg.IgnoreExpressions) > 0 {
		var err error
		evaluator, err = NewEvaluator(cfg.IgnoreExpressions)
		if err != nil {
			return nil, fmt.Errorf("failed to compile ignore expressions: %w", err)
		}
	}

	return &Gate{
		cfg:       cfg,
		evaluator: evaluator,
		log:       log,
		randFloat: rand.Float64,
	}, nil
}

// ShouldCapture filters on the enable flag, endpoint presence, the
// ignore-list (class names across the unwrap chain plus the Suppressed
// capability), ignore expressions, and the sample rate.
func (g *Gate) ShouldCapture(ctx context.Context, err error, file string, line int) bool {
	if err == nil {
		return false
	}

	if !g.cfg.Enabled || g.cfg.Endpoint == "" {
		return false
	}

	if g.isIgnored(ctx, err, file, line) {
		return false
	}

	return g.sampled()
}

func (g *Gate) isIgnored(ctx context.Context, err error, file string, line int) bool {
	var suppressed Suppressed
	if errors.As(err, &suppressed) && suppressed.SuppressReport() {
		return true
	}

	for _, class := range report.ClassChain(err) {
		if slices.Contains(g.cfg.IgnoredErrors, class) {
			return true
		}
	}

	if g.evaluator != nil {
		matched, evalErr := g.evaluator.Matches(ctx, report.ClassOf(err), err.Error(), file, line, g.cfg.Environment)
		if evalErr != nil {
			g.log.DebugwCtx(ctx, "Ignore expression evaluation failed",
				"error", evalErr,
			)
		}
		if matched {
			return true
		}
	}

	return false
}

// sampled guards the rate boundaries explicitly: 1.0 never rejects and 0.0
// never accepts, regardless of floating-point draw semantics.
func (g *Gate) sampled() bool {
	rate := g.cfg.SampleRate
	if rate >= 1.0 {
		return true
	}
	if rate <= 0.0 {
		return false
	}
	return g.randFloat() <= rate
}
