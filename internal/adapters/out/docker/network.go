package docker

import (
	"context"

	"github.com/bnema/zerowrap"
	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/network"

	"github.com/bnema/ephemera/internal/domain"
)

// AttachNetwork connects a container to a network under aliases.
func (r *Runtime) AttachNetwork(ctx context.Context, containerID, networkName string, aliases []string) error {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:    "adapter",
		zerowrap.FieldAdapter:  "docker",
		zerowrap.FieldAction:   "AttachNetwork",
		zerowrap.FieldEntityID: containerID,
		"network":              networkName,
	})
	log := zerowrap.FromCtx(ctx)

	err := r.client.NetworkConnect(ctx, networkName, containerID, &network.EndpointSettings{Aliases: aliases})
	if err != nil {
		return &domain.NetworkAttachmentError{
			Network: networkName,
			Err:     log.WrapErr(err, "failed to connect container to network"),
		}
	}

	log.Info().Strs("aliases", aliases).Msg("container connected to network")
	return nil
}

// DetachNetwork disconnects a container from a network.
// A missing container or network is not an error.
func (r *Runtime) DetachNetwork(ctx context.Context, containerID, networkName string) error {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:    "adapter",
		zerowrap.FieldAdapter:  "docker",
		zerowrap.FieldAction:   "DetachNetwork",
		zerowrap.FieldEntityID: containerID,
		"network":              networkName,
	})
	log := zerowrap.FromCtx(ctx)

	err := r.client.NetworkDisconnect(ctx, networkName, containerID, true)
	if err != nil {
		if cerrdefs.IsNotFound(err) {
			log.Debug().Msg("network or container not found, already detached")
			return nil
		}
		return &domain.NetworkAttachmentError{
			Network: networkName,
			Err:     log.WrapErr(err, "failed to disconnect container from network"),
		}
	}

	log.Info().Msg("container disconnected from network")
	return nil
}
