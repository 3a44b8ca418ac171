package docker

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/bnema/zerowrap"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/bnema/ephemera/internal/domain"
)

// StreamLogs copies the container output to stdout and stderr. With follow it
// keeps streaming until the container exits or ctx is done.
func (r *Runtime) StreamLogs(ctx context.Context, containerID string, follow bool, stdout, stderr io.Writer) error {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:    "adapter",
		zerowrap.FieldAdapter:  "docker",
		zerowrap.FieldAction:   "StreamLogs",
		zerowrap.FieldEntityID: containerID,
		"follow":               follow,
	})
	log := zerowrap.FromCtx(ctx)

	logs, err := r.client.ContainerLogs(ctx, containerID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     follow,
	})
	if err != nil {
		return log.WrapErr(err, "failed to get container logs")
	}
	defer logs.Close()

	if _, err := stdcopy.StdCopy(stdout, stderr, logs); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return log.WrapErr(err, "failed to read container logs")
	}
	return nil
}

// ExecuteCommand runs cmd in the container and waits for it to exit.
func (r *Runtime) ExecuteCommand(ctx context.Context, containerID string, cmd []string) (*domain.ExecResult, error) {
	if len(cmd) == 0 {
		return nil, fmt.Errorf("%w: empty exec command", domain.ErrInvalidConfig)
	}

	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:    "adapter",
		zerowrap.FieldAdapter:  "docker",
		zerowrap.FieldAction:   "ExecuteCommand",
		zerowrap.FieldEntityID: containerID,
		"command":              cmd[0],
	})
	log := zerowrap.FromCtx(ctx)

	created, err := r.client.ContainerExecCreate(ctx, containerID, container.ExecOptions{
		Cmd:          cmd,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return nil, log.WrapErr(err, "failed to create exec")
	}

	attached, err := r.client.ContainerExecAttach(ctx, created.ID, container.ExecAttachOptions{})
	if err != nil {
		return nil, log.WrapErr(err, "failed to attach exec")
	}
	defer attached.Close()

	stdout, stderr, err := parseExecOutput(attached.Reader)
	if err != nil {
		return nil, log.WrapErr(err, "failed to read exec output")
	}

	inspect, err := r.client.ContainerExecInspect(ctx, created.ID)
	if err != nil {
		return nil, log.WrapErr(err, "failed to inspect exec")
	}

	log.Debug().Int("exit_code", inspect.ExitCode).Msg("exec finished")
	return &domain.ExecResult{
		ExitCode: inspect.ExitCode,
		Stdout:   stdout,
		Stderr:   stderr,
	}, nil
}

// parseExecOutput splits a multiplexed Docker stream into stdout and stderr.
func parseExecOutput(stream io.Reader) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, stream); err != nil {
		return nil, nil, err
	}
	return stdout.Bytes(), stderr.Bytes(), nil
}
