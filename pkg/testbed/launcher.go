package testbed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/bnema/ephemera/internal/app"
	"github.com/bnema/ephemera/internal/domain"
)

// Launcher starts containers for one session and removes them on Close.
type Launcher struct {
	kernel *app.Kernel

	mu      sync.Mutex
	started []*Container
	closed  bool
}

type options struct {
	configPath string
}

// Option configures New.
type Option func(*options)

// WithConfigFile reads settings from path instead of searching for ephemera.toml.
func WithConfigFile(path string) Option {
	return func(o *options) {
		o.configPath = path
	}
}

// New connects to the container engine and starts a new session.
func New(ctx context.Context, opts ...Option) (*Launcher, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	kernel, err := app.NewKernel(ctx, o.configPath)
	if err != nil {
		return nil, err
	}
	return newLauncher(kernel), nil
}

func newLauncher(kernel *app.Kernel) *Launcher {
	return &Launcher{kernel: kernel}
}

// NewT is New for tests: it fails tb when the engine is unreachable and
// closes the launcher when tb ends.
func NewT(tb testing.TB, opts ...Option) *Launcher {
	tb.Helper()
	l, err := New(context.Background(), opts...)
	if err != nil {
		tb.Fatalf("testbed: %v", err)
	}
	tb.Cleanup(func() {
		if err := l.Close(context.Background()); err != nil {
			tb.Errorf("testbed: %v", err)
		}
	})
	return l
}

// SessionID labels every container started by l.
func (l *Launcher) SessionID() string {
	return l.kernel.Orchestrator().SessionID()
}

// Start builds b and starts the container. It returns once every wait
// strategy succeeded.
func (l *Launcher) Start(ctx context.Context, b Builder) (*Container, error) {
	spec, err := b.Build()
	if err != nil {
		return nil, err
	}
	return l.StartSpec(ctx, spec)
}

// StartSpec starts an already built spec.
func (l *Launcher) StartSpec(ctx context.Context, spec *Spec) (*Container, error) {
	if err := l.checkOpen(); err != nil {
		return nil, err
	}
	c, err := l.kernel.Orchestrator().Start(ctx, spec)
	if err != nil {
		return nil, err
	}
	l.track(c)
	return c, nil
}

// StartAll starts the builders concurrently. When one fails, the others are
// removed and the first error is returned.
func (l *Launcher) StartAll(ctx context.Context, builders ...Builder) ([]*Container, error) {
	if err := l.checkOpen(); err != nil {
		return nil, err
	}

	specs := make([]*domain.ContainerSpec, 0, len(builders))
	for i, b := range builders {
		spec, err := b.Build()
		if err != nil {
			return nil, fmt.Errorf("builder %d: %w", i, err)
		}
		specs = append(specs, spec)
	}

	containers, err := l.kernel.Orchestrator().StartAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	l.track(containers...)
	return containers, nil
}

// Run starts b for a test and removes the container when tb ends.
func (l *Launcher) Run(tb testing.TB, b Builder) *Container {
	tb.Helper()
	c, err := l.Start(context.Background(), b)
	if err != nil {
		tb.Fatalf("testbed: %v", err)
	}
	tb.Cleanup(func() {
		if err := c.Terminate(context.Background()); err != nil {
			tb.Errorf("testbed: %v", err)
		}
	})
	return c
}

// Prune removes every container of this session still known to the engine,
// including ones a crashed test never terminated.
func (l *Launcher) Prune(ctx context.Context) (int, error) {
	return l.kernel.Launcher().Prune(ctx, l.SessionID())
}

// Close terminates the containers started by l that are still around and
// releases the engine connection. Calling it again is a no-op.
func (l *Launcher) Close(ctx context.Context) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	started := l.started
	l.started = nil
	l.mu.Unlock()

	var errs []error
	for i := len(started) - 1; i >= 0; i-- {
		c := started[i]
		if c.State() == domain.StateRemoved {
			continue
		}
		if err := c.Terminate(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	l.kernel.Close(ctx)
	return errors.Join(errs...)
}

func (l *Launcher) track(containers ...*Container) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.started = append(l.started, containers...)
}

func (l *Launcher) checkOpen() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return errors.New("testbed: launcher is closed")
	}
	return nil
}
