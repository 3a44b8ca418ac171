// Package docker implements the container runtime adapter using Docker API.
package docker

import (
	"context"
	"fmt"
	"net/url"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/bnema/zerowrap"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"

	"github.com/bnema/ephemera/internal/boundaries/out"
)

// autoRemoveConstraint is the first API version honouring HostConfig.AutoRemove.
var autoRemoveConstraint = mustConstraint(">= 1.25")

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}

var _ out.RuntimeClient = (*Runtime)(nil)

// Runtime implements the RuntimeClient interface using Docker API.
type Runtime struct {
	client      *client.Client
	publishHost string
	bindAddress string
	auth        *registryAuth
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithPublishHost overrides the address published ports are reached on.
func WithPublishHost(host string) Option {
	return func(r *Runtime) {
		r.publishHost = host
	}
}

// WithBindAddress sets the host interface published ports bind to.
// Empty binds every interface.
func WithBindAddress(address string) Option {
	return func(r *Runtime) {
		r.bindAddress = address
	}
}

// WithRegistryAuth authenticates pulls from server.
func WithRegistryAuth(server, username, password string) Option {
	return func(r *Runtime) {
		if server == "" || username == "" {
			return
		}
		r.auth = &registryAuth{server: server, username: username, password: password}
	}
}

// NewRuntime creates a new Docker runtime instance. An empty host uses the
// DOCKER_HOST environment and the platform default socket.
func NewRuntime(host string, opts ...Option) (*Runtime, error) {
	clientOpts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if host != "" {
		clientOpts = append(clientOpts, client.WithHost(host))
	}

	cli, err := client.NewClientWithOpts(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	return NewRuntimeWithClient(cli, opts...), nil
}

// NewRuntimeWithClient creates a new Docker runtime instance with a custom client (for testing).
func NewRuntimeWithClient(cli *client.Client, opts ...Option) *Runtime {
	r := &Runtime{client: cli}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Close releases the underlying client.
func (r *Runtime) Close() error {
	return r.client.Close()
}

// Host returns the address published ports are reachable on.
// Local sockets publish on the loopback interface.
func (r *Runtime) Host() string {
	if r.publishHost != "" {
		return r.publishHost
	}

	u, err := url.Parse(r.client.DaemonHost())
	if err == nil {
		switch u.Scheme {
		case "tcp", "http", "https":
			if h := u.Hostname(); h != "" {
				return h
			}
		}
	}
	return "127.0.0.1"
}

// SupportsAutoRemove reports whether the daemon API honours auto-remove.
func (r *Runtime) SupportsAutoRemove(ctx context.Context) (bool, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "adapter",
		zerowrap.FieldAdapter: "docker",
		zerowrap.FieldAction:  "SupportsAutoRemove",
	})
	log := zerowrap.FromCtx(ctx)

	version, err := r.client.ServerVersion(ctx)
	if err != nil {
		return false, log.WrapErr(err, "failed to get Docker version")
	}

	v, err := semver.NewVersion(version.APIVersion)
	if err != nil {
		return false, log.WrapErrWithFields(err, "unparseable API version", map[string]any{"api_version": version.APIVersion})
	}

	supported := autoRemoveConstraint.Check(v)
	log.Debug().Str("api_version", version.APIVersion).Bool("supported", supported).Msg("auto-remove support checked")
	return supported, nil
}

// ListManaged returns the ids of containers carrying every label of labels,
// stopped ones included.
func (r *Runtime) ListManaged(ctx context.Context, labels map[string]string) ([]string, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "adapter",
		zerowrap.FieldAdapter: "docker",
		zerowrap.FieldAction:  "ListManaged",
	})
	log := zerowrap.FromCtx(ctx)

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := filters.NewArgs()
	for _, k := range keys {
		args.Add("label", k+"="+labels[k])
	}

	containers, err := r.client.ContainerList(ctx, container.ListOptions{All: true, Filters: args})
	if err != nil {
		return nil, log.WrapErr(err, "failed to list containers")
	}

	ids := make([]string, 0, len(containers))
	for _, c := range containers {
		ids = append(ids, c.ID)
	}

	log.Debug().Int(zerowrap.FieldCount, len(ids)).Msg("managed containers listed")
	return ids, nil
}
