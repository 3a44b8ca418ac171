// Package in defines input ports (interfaces) for use cases.
// These interfaces define the contract between driving adapters (CLI, the
// public testbed package) and the business logic (use cases).
package in

import (
	"context"

	"github.com/bnema/ephemera/internal/domain"
)

// ManagedContainer is a started container as seen by driving adapters.
type ManagedContainer interface {
	domain.RunningContainer
	State() domain.State
	Ports() domain.PortMap
	Endpoint(port string) (string, error)
	Stop(ctx context.Context) error
	Terminate(ctx context.Context) error
}

// ContainerLauncher defines the contract for provisioning containers.
type ContainerLauncher interface {
	// Launch starts spec and returns once it is ready.
	Launch(ctx context.Context, spec *domain.ContainerSpec) (ManagedContainer, error)

	// Prune removes managed containers of sessionID, or of every session when empty.
	Prune(ctx context.Context, sessionID string) (int, error)

	// SessionID returns the session label value of containers launched here.
	SessionID() string
}
