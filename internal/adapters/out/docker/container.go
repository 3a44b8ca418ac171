package docker

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/bnema/zerowrap"
	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"

	"github.com/bnema/ephemera/internal/domain"
)

// CreateContainer creates a container from a payload built by NewPayload.
func (r *Runtime) CreateContainer(ctx context.Context, payload domain.NativePayload) (string, error) {
	p, ok := payload.(*Payload)
	if !ok || p == nil || p.Config == nil {
		return "", fmt.Errorf("%w: docker runtime cannot create from payload %T", domain.ErrInvalidConfig, payload)
	}

	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "adapter",
		zerowrap.FieldAdapter: "docker",
		zerowrap.FieldAction:  "CreateContainer",
		"container_name":      p.Name,
		"image":               p.Config.Image,
	})
	log := zerowrap.FromCtx(ctx)

	resp, err := r.client.ContainerCreate(ctx, p.Config, p.HostConfig, p.Networking, nil, p.Name)
	if err != nil {
		if cerrdefs.IsNotFound(err) {
			return "", &domain.ImageResolutionError{Image: p.Config.Image, Err: err}
		}
		if mountErr, ok := asMountError(err, p.mounts); ok {
			return "", log.WrapErr(mountErr, "failed to create container")
		}
		return "", log.WrapErr(err, "failed to create container")
	}

	for _, warning := range resp.Warnings {
		log.Warn().Str(zerowrap.FieldEntityID, resp.ID).Msg(warning)
	}

	log.Info().Str(zerowrap.FieldEntityID, resp.ID).Msg("container created")
	return resp.ID, nil
}

// StartContainer starts a container.
func (r *Runtime) StartContainer(ctx context.Context, containerID string) error {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:    "adapter",
		zerowrap.FieldAdapter:  "docker",
		zerowrap.FieldAction:   "StartContainer",
		zerowrap.FieldEntityID: containerID,
	})
	log := zerowrap.FromCtx(ctx)

	err := r.client.ContainerStart(ctx, containerID, container.StartOptions{})
	if err != nil {
		if conflict, ok := asPortConflict(err); ok {
			return log.WrapErr(conflict, "failed to start container")
		}
		return log.WrapErr(err, "failed to start container")
	}

	log.Info().Msg("container started")
	return nil
}

// StopContainer stops a container, killing it once timeout elapsed.
// A missing or already stopped container is not an error.
func (r *Runtime) StopContainer(ctx context.Context, containerID string, timeout time.Duration) error {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:    "adapter",
		zerowrap.FieldAdapter:  "docker",
		zerowrap.FieldAction:   "StopContainer",
		zerowrap.FieldEntityID: containerID,
	})
	log := zerowrap.FromCtx(ctx)

	seconds := int(math.Ceil(timeout.Seconds()))
	err := r.client.ContainerStop(ctx, containerID, container.StopOptions{Timeout: &seconds})
	if err != nil {
		if isGone(err) {
			log.Debug().Msg("container already stopped")
			return nil
		}
		return log.WrapErr(err, "failed to stop container")
	}

	log.Info().Msg("container stopped")
	return nil
}

// RemoveContainer force-removes a container with its anonymous volumes.
// A missing container is not an error.
func (r *Runtime) RemoveContainer(ctx context.Context, containerID string) error {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:    "adapter",
		zerowrap.FieldAdapter:  "docker",
		zerowrap.FieldAction:   "RemoveContainer",
		zerowrap.FieldEntityID: containerID,
	})
	log := zerowrap.FromCtx(ctx)

	err := r.client.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: true, RemoveVolumes: true})
	if err != nil {
		if isGone(err) {
			log.Debug().Msg("container not found, already removed")
			return nil
		}
		return log.WrapErr(err, "failed to remove container")
	}

	log.Info().Msg("container removed")
	return nil
}

// InspectPortBindings returns the host ports published for each container port.
// Exposed ports without a binding are present with no host ports.
func (r *Runtime) InspectPortBindings(ctx context.Context, containerID string) (domain.PortMap, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:    "adapter",
		zerowrap.FieldAdapter:  "docker",
		zerowrap.FieldAction:   "InspectPortBindings",
		zerowrap.FieldEntityID: containerID,
	})
	log := zerowrap.FromCtx(ctx)

	resp, err := r.client.ContainerInspect(ctx, containerID)
	if err != nil {
		return nil, log.WrapErr(err, "failed to inspect container")
	}

	ports := domain.PortMap{}
	if resp.NetworkSettings == nil {
		return ports, nil
	}

	for natPort, bindings := range resp.NetworkSettings.Ports {
		p := domain.Port{Number: natPort.Int(), Protocol: domain.Protocol(natPort.Proto())}

		// IPv4 and IPv6 bindings repeat the same host port.
		var hostPorts []int
		seen := map[int]bool{}
		for _, binding := range bindings {
			hostPort, err := strconv.Atoi(binding.HostPort)
			if err != nil || hostPort == 0 || seen[hostPort] {
				continue
			}
			seen[hostPort] = true
			hostPorts = append(hostPorts, hostPort)
		}
		ports[p] = hostPorts
	}

	return ports, nil
}

// IsRunning checks if a container is running. A missing container is not running.
func (r *Runtime) IsRunning(ctx context.Context, containerID string) (bool, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:    "adapter",
		zerowrap.FieldAdapter:  "docker",
		zerowrap.FieldAction:   "IsRunning",
		zerowrap.FieldEntityID: containerID,
	})
	log := zerowrap.FromCtx(ctx)

	resp, err := r.client.ContainerInspect(ctx, containerID)
	if err != nil {
		if cerrdefs.IsNotFound(err) {
			return false, nil
		}
		return false, log.WrapErr(err, "failed to inspect container")
	}

	return resp.ContainerJSONBase != nil && resp.State != nil && resp.State.Running, nil
}
