// Package out defines output ports (interfaces) for infrastructure.
// These interfaces define the contract between use cases and driven adapters
// (Docker, event bus, HTTP probing).
package out

import (
	"context"
	"io"
	"time"

	"github.com/bnema/ephemera/internal/domain"
)

// RuntimeClient defines the contract for container runtime operations.
// This interface abstracts the underlying container engine.
type RuntimeClient interface {
	// Image operations
	// FindLocalImage returns nil, nil when no local image matches ref.
	FindLocalImage(ctx context.Context, ref string) (*domain.CachedImage, error)
	PullImage(ctx context.Context, ref string) error

	// Container lifecycle
	// NewPayload translates spec and its resolved port bindings into the native creation payload.
	NewPayload(ctx context.Context, spec *domain.ContainerSpec, bindings []domain.ResolvedBinding) (domain.NativePayload, error)
	CreateContainer(ctx context.Context, payload domain.NativePayload) (string, error)
	StartContainer(ctx context.Context, containerID string) error
	StopContainer(ctx context.Context, containerID string, timeout time.Duration) error
	// RemoveContainer treats an already removed container as success.
	RemoveContainer(ctx context.Context, containerID string) error

	// Container inspection
	StreamLogs(ctx context.Context, containerID string, follow bool, stdout, stderr io.Writer) error
	InspectPortBindings(ctx context.Context, containerID string) (domain.PortMap, error)
	IsRunning(ctx context.Context, containerID string) (bool, error)
	ExecuteCommand(ctx context.Context, containerID string, cmd []string) (*domain.ExecResult, error)

	// Network attachment
	AttachNetwork(ctx context.Context, containerID, network string, aliases []string) error
	DetachNetwork(ctx context.Context, containerID, network string) error

	// Runtime information
	SupportsAutoRemove(ctx context.Context) (bool, error)
	// Host returns the address under which published ports are reachable.
	Host() string
	// ListManaged returns the ids of containers carrying every label of labels.
	ListManaged(ctx context.Context, labels map[string]string) ([]string, error)
}
