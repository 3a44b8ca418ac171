package docker

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/bnema/zerowrap"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/go-connections/nat"

	"github.com/bnema/ephemera/internal/domain"
)

// Payload is the Docker creation request built from a container spec.
// Payload modifiers receive a *Payload and may change any field before creation.
type Payload struct {
	Name       string
	Config     *container.Config
	HostConfig *container.HostConfig
	Networking *network.NetworkingConfig

	mounts []domain.Mount
}

// Modify returns a payload modifier editing the Docker payload.
// It does nothing when the payload belongs to another runtime.
func Modify(fn func(p *Payload)) domain.PayloadModifier {
	return func(payload domain.NativePayload) {
		if p, ok := payload.(*Payload); ok && fn != nil {
			fn(p)
		}
	}
}

// NewPayload translates spec and its resolved bindings into a Docker payload.
func (r *Runtime) NewPayload(ctx context.Context, spec *domain.ContainerSpec, bindings []domain.ResolvedBinding) (domain.NativePayload, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "adapter",
		zerowrap.FieldAdapter: "docker",
		zerowrap.FieldAction:  "NewPayload",
		"image":               spec.Image(),
	})
	log := zerowrap.FromCtx(ctx)

	exposedPorts, portBindings := r.translatePorts(spec.ExposedPorts(), bindings)

	mounts, err := translateMounts(spec.Mounts())
	if err != nil {
		return nil, log.WrapErr(err, "failed to translate mounts")
	}

	p := &Payload{
		Name: spec.Name(),
		Config: &container.Config{
			Image:        spec.Image(),
			Hostname:     spec.Hostname(),
			WorkingDir:   spec.WorkingDir(),
			Entrypoint:   spec.Entrypoint(),
			Cmd:          spec.Command(),
			Env:          spec.EnvList(),
			Labels:       spec.Labels(),
			ExposedPorts: exposedPorts,
		},
		HostConfig: &container.HostConfig{
			PortBindings: portBindings,
			Mounts:       mounts,
			AutoRemove:   spec.AutoRemove(),
			Privileged:   spec.Privileged(),
		},
		Networking: &network.NetworkingConfig{},
		mounts:     spec.Mounts(),
	}

	log.Debug().
		Int("exposed_ports", len(exposedPorts)).
		Int("port_bindings", len(portBindings)).
		Int("mounts", len(mounts)).
		Msg("payload built")
	return p, nil
}

func natPort(p domain.Port) nat.Port {
	return nat.Port(strconv.Itoa(p.Number) + "/" + string(p.Protocol))
}

// translatePorts exposes every bound port as well; host port 0 lets the engine pick.
func (r *Runtime) translatePorts(exposed []domain.Port, bindings []domain.ResolvedBinding) (nat.PortSet, nat.PortMap) {
	exposedPorts := make(nat.PortSet, len(exposed)+len(bindings))
	portBindings := make(nat.PortMap, len(bindings))

	for _, p := range exposed {
		exposedPorts[natPort(p)] = struct{}{}
	}

	for _, b := range bindings {
		port := natPort(b.Container)
		exposedPorts[port] = struct{}{}

		hostPort := ""
		if b.HostPort > 0 {
			hostPort = strconv.Itoa(b.HostPort)
		}
		portBindings[port] = append(portBindings[port], nat.PortBinding{
			HostIP:   r.bindAddress,
			HostPort: hostPort,
		})
	}

	return exposedPorts, portBindings
}

// translateMounts fails with a MountAttachmentError when a bind source is missing.
func translateMounts(mounts []domain.Mount) ([]mount.Mount, error) {
	if len(mounts) == 0 {
		return nil, nil
	}

	out := make([]mount.Mount, 0, len(mounts))
	for _, m := range mounts {
		dm := mount.Mount{
			Target:   m.Destination,
			ReadOnly: m.ReadOnly(),
		}

		switch m.Kind {
		case domain.MountBind:
			if _, err := os.Stat(m.Source); err != nil {
				return nil, &domain.MountAttachmentError{Mount: m, Err: err}
			}
			dm.Type = mount.TypeBind
			dm.Source = m.Source
		case domain.MountVolume:
			dm.Type = mount.TypeVolume
			dm.Source = m.Source
		case domain.MountTmpfs:
			dm.Type = mount.TypeTmpfs
		default:
			return nil, &domain.MountAttachmentError{Mount: m, Err: fmt.Errorf("unsupported mount kind %q", m.Kind)}
		}

		out = append(out, dm)
	}
	return out, nil
}
