// Package wait implements the readiness engine and the built-in wait strategies.
package wait

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/cenkalti/backoff/v4"

	"github.com/bnema/ephemera/internal/boundaries/out"
	"github.com/bnema/ephemera/internal/domain"
)

// Policy controls how one strategy is polled.
type Policy = domain.WaitPolicy

// DefaultPolicy is used for every field left zero by both the strategy and the engine configuration.
var DefaultPolicy = Policy{
	Timeout:      60 * time.Second,
	PollInterval: 100 * time.Millisecond,
	MaxInterval:  2 * time.Second,
	Multiplier:   1.5,
}

// Engine runs an ordered chain of wait strategies against a started container.
type Engine struct {
	defaults Policy
	prober   out.HTTPProber
}

// NewEngine creates an engine. Zero fields of defaults fall back to DefaultPolicy.
// prober is handed to HTTP strategies that were built without one.
func NewEngine(defaults Policy, prober out.HTTPProber) *Engine {
	return &Engine{
		defaults: defaults.Merge(DefaultPolicy),
		prober:   prober,
	}
}

// Defaults returns the effective engine defaults.
func (e *Engine) Defaults() Policy {
	return e.defaults
}

// Run evaluates strategies strictly in order. The first strategy that does not
// succeed within its timeout aborts the chain with a *domain.WaitTimeoutError;
// later strategies are never attempted. Cancelling ctx stops polling at once
// and the returned error wraps ctx.Err().
func (e *Engine) Run(ctx context.Context, target domain.RunningContainer, strategies []domain.WaitStrategy) error {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:    "usecase",
		zerowrap.FieldUseCase:  "AwaitReadiness",
		zerowrap.FieldEntityID: target.ID(),
	})
	log := zerowrap.FromCtx(ctx)

	for i, strategy := range strategies {
		if hs, ok := strategy.(HTTPStrategy); ok && hs.prober == nil {
			strategy = hs.WithProber(e.prober)
		}

		start := time.Now()
		if err := e.await(ctx, i, target, strategy); err != nil {
			return err
		}

		log.Debug().
			Str("strategy", strategy.String()).
			Int("index", i).
			Dur(zerowrap.FieldDuration, time.Since(start)).
			Msg("wait strategy satisfied")
	}

	return nil
}

func (e *Engine) await(ctx context.Context, index int, target domain.RunningContainer, strategy domain.WaitStrategy) error {
	policy := strategy.Policy().Merge(e.defaults)

	waitCtx, cancel := context.WithTimeout(ctx, policy.Timeout)
	defer cancel()

	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(policy.PollInterval),
		backoff.WithMultiplier(policy.Multiplier),
		backoff.WithMaxInterval(policy.MaxInterval),
		backoff.WithRandomizationFactor(0),
		backoff.WithMaxElapsedTime(0),
	)

	start := time.Now()
	var lastErr error

	for attempt := 1; ; attempt++ {
		err := strategy.Check(waitCtx, target)
		if err == nil {
			return nil
		}
		lastErr = err

		log := zerowrap.FromCtx(ctx)

		log.Debug().
			Str("strategy", strategy.String()).
			Int("attempt", attempt).
			Err(err).
			Msg("wait strategy not satisfied yet")

		timer := time.NewTimer(b.NextBackOff())
		select {
		case <-timer.C:
		case <-waitCtx.Done():
			timer.Stop()
		}

		if ctx.Err() != nil {
			return fmt.Errorf("wait strategy #%d (%s) interrupted after %s: %w",
				index, strategy, time.Since(start).Round(time.Millisecond), ctx.Err())
		}
		if waitCtx.Err() != nil {
			return &domain.WaitTimeoutError{
				Strategy: strategy.String(),
				Index:    index,
				Elapsed:  time.Since(start),
				Timeout:  policy.Timeout,
				LastErr:  lastErr,
			}
		}
	}
}
