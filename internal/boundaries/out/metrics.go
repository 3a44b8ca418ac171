package out

import (
	"context"
	"time"

	"github.com/bnema/ephemera/internal/domain"
)

// LifecycleRecorder records container lifecycle measurements.
type LifecycleRecorder interface {
	ContainerReady(ctx context.Context, image string, startup, readiness time.Duration)
	ContainerFailed(ctx context.Context, image string, stage domain.State)
	ContainerRemoved(ctx context.Context, image string)
	ResourcesLeaked(ctx context.Context, count int)
}
