package ports

import (
	"context"

	"github.com/bnema/zerowrap"

	"github.com/bnema/ephemera/internal/domain"
)

// Resolver turns the port bindings of a spec into concrete host ports.
type Resolver struct {
	arena *Arena
}

// NewResolver creates a resolver backed by arena. A nil arena uses DefaultArena.
func NewResolver(arena *Arena) *Resolver {
	if arena == nil {
		arena = DefaultArena()
	}
	return &Resolver{arena: arena}
}

// Arena returns the arena the resolver reserves from.
func (r *Resolver) Arena() *Arena {
	return r.arena
}

// Resolve reserves a host port for every binding of spec on behalf of owner.
// Random tcp and udp bindings get a port from the arena; random sctp bindings
// get host port 0 and the engine picks one. Fixed ports are claimed as is.
// On error every port reserved for owner is released.
func (r *Resolver) Resolve(ctx context.Context, owner string, spec *domain.ContainerSpec) ([]domain.ResolvedBinding, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "usecase",
		zerowrap.FieldUseCase: "ResolvePorts",
		"owner":               owner,
	})
	log := zerowrap.FromCtx(ctx)

	bindings := spec.PortBindings()
	resolved := make([]domain.ResolvedBinding, 0, len(bindings))

	for _, b := range bindings {
		hostPort, err := r.resolveOne(owner, b)
		if err != nil {
			r.arena.Release(owner)
			return nil, log.WrapErrWithFields(err, "failed to resolve port binding", map[string]any{
				"binding": b.String(),
			})
		}

		log.Debug().
			Str("container_port", b.Container.String()).
			Int("host_port", hostPort).
			Bool("random", b.Host.Random).
			Msg("port binding resolved")

		resolved = append(resolved, domain.ResolvedBinding{HostPort: hostPort, Container: b.Container})
	}

	return resolved, nil
}

func (r *Resolver) resolveOne(owner string, b domain.PortBinding) (int, error) {
	if !b.Host.Random {
		if err := r.arena.Claim(owner, b.Host.Number, b.Container.Protocol); err != nil {
			return 0, err
		}
		return b.Host.Number, nil
	}

	if b.Container.Protocol == domain.ProtocolSCTP {
		return 0, nil
	}
	return r.arena.Reserve(owner, b.Container.Protocol)
}

// Release frees the ports reserved for owner.
func (r *Resolver) Release(owner string) []int {
	return r.arena.Release(owner)
}
