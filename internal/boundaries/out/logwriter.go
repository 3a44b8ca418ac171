package out

import (
	"context"

	"github.com/bnema/ephemera/internal/domain"
)

// ContainerLogWriter persists container output outside the runtime, so it
// survives container removal.
type ContainerLogWriter interface {
	// Open returns a consumer for the output of the named container.
	Open(ctx context.Context, name string) (domain.OutputConsumer, error)

	// Close flushes and closes every consumer opened so far.
	Close() error
}
