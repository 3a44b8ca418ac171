// Package domain contains pure types for ephemeral test containers without external dependencies.
// These types are shared by the builder, the orchestrator and the runtime adapters.
package domain

import (
	"context"
	"io"
	"time"
)

// ExecResult holds the result of executing a command in a container.
type ExecResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// RunningContainer is the view of a started container given to startup
// callbacks and readiness checks.
type RunningContainer interface {
	ID() string
	Name() string
	Host() string
	MappedPort(port Port) (int, error)
	IsRunning(ctx context.Context) (bool, error)
	Logs(ctx context.Context) ([]byte, error)
	Exec(ctx context.Context, cmd ...string) (*ExecResult, error)
}

// StartupCallback runs once after the container started and before any wait strategy.
type StartupCallback func(ctx context.Context, c RunningContainer) error

// OutputConsumer receives the container's stdout and stderr streams.
type OutputConsumer interface {
	Stdout() io.Writer
	Stderr() io.Writer
}

// NativePayload is the runtime-specific creation payload.
// The core never looks inside it.
type NativePayload any

// PayloadModifier edits the native payload right before creation.
type PayloadModifier func(payload NativePayload)

// WaitPolicy controls how a readiness check is polled.
// Zero fields fall back to the engine defaults.
type WaitPolicy struct {
	Timeout      time.Duration
	PollInterval time.Duration
	MaxInterval  time.Duration
	Multiplier   float64
}

// Merge fills the zero fields of p from defaults.
func (p WaitPolicy) Merge(defaults WaitPolicy) WaitPolicy {
	if p.Timeout <= 0 {
		p.Timeout = defaults.Timeout
	}
	if p.PollInterval <= 0 {
		p.PollInterval = defaults.PollInterval
	}
	if p.MaxInterval <= 0 {
		p.MaxInterval = defaults.MaxInterval
	}
	if p.Multiplier < 1 {
		p.Multiplier = defaults.Multiplier
	}
	if p.MaxInterval < p.PollInterval {
		p.MaxInterval = p.PollInterval
	}
	return p
}

// WaitStrategy is a readiness predicate with its own polling policy.
// Two strategies with the same description and policy are duplicates,
// unless the strategy is a WaitStrategyKeyer.
type WaitStrategy interface {
	String() string
	Policy() WaitPolicy
	Check(ctx context.Context, target RunningContainer) error
}

// WaitStrategyKeyer overrides the description as the deduplication key.
// An empty key means the strategy is never a duplicate.
type WaitStrategyKeyer interface {
	DedupKey() string
}

// WaitStrategyValidator is implemented by strategies that can be misconfigured.
// Build rejects a strategy whose Validate returns an error.
type WaitStrategyValidator interface {
	Validate() error
}

// PortRequirer is implemented by wait strategies that need a published port.
type PortRequirer interface {
	RequiredPort() Port
}
