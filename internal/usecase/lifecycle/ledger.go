package lifecycle

import (
	"context"
	"sync"

	"github.com/bnema/zerowrap"

	"github.com/bnema/ephemera/internal/domain"
)

// undoStep reverses one provisioning step. resource names what may leak when
// the step fails; steps with an empty resource never leak.
type undoStep struct {
	resource string
	undo     func(ctx context.Context) error
}

// ledger records what a start created so it can be reclaimed in reverse order.
type ledger struct {
	mu    sync.Mutex
	steps []undoStep
}

func (l *ledger) push(resource string, undo func(ctx context.Context) error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.steps = append(l.steps, undoStep{resource: resource, undo: undo})
}

// mark returns the current depth, for a later unwindTo.
func (l *ledger) mark() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.steps)
}

// unwindTo runs the steps above depth in reverse order. Every step runs even
// when an earlier one failed. Failed steps that own a resource stay in the
// ledger, so a later unwind retries them. It returns nil when all steps succeeded.
func (l *ledger) unwindTo(ctx context.Context, depth int) *domain.TeardownError {
	l.mu.Lock()
	if depth < 0 {
		depth = 0
	}
	if depth > len(l.steps) {
		depth = len(l.steps)
	}
	pending := l.steps[depth:]
	l.steps = l.steps[:depth:depth]
	l.mu.Unlock()

	log := zerowrap.FromCtx(ctx)

	var td *domain.TeardownError
	var retry []undoStep
	for i := len(pending) - 1; i >= 0; i-- {
		step := pending[i]
		if err := step.undo(ctx); err != nil {
			log.Warn().Err(err).Str("resource", step.resource).Msg("teardown step failed")
			if td == nil {
				td = &domain.TeardownError{}
			}
			td.Errs = append(td.Errs, err)
			if step.resource != "" {
				td.Leaked = append(td.Leaked, step.resource)
				retry = append(retry, step)
			}
		}
	}

	if len(retry) > 0 {
		l.mu.Lock()
		for i := len(retry) - 1; i >= 0; i-- {
			l.steps = append(l.steps, retry[i])
		}
		l.mu.Unlock()
	}
	return td
}

func (l *ledger) unwind(ctx context.Context) *domain.TeardownError {
	return l.unwindTo(ctx, 0)
}
