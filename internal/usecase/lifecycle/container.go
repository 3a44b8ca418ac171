package lifecycle

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/bnema/zerowrap"
	"github.com/google/uuid"

	"github.com/bnema/ephemera/internal/domain"
)

// Container is the handle of a container started by the orchestrator.
type Container struct {
	orch  *Orchestrator
	spec  *domain.ContainerSpec
	owner string

	ledger   ledger
	stopMark int

	mu    sync.RWMutex
	id    string
	state domain.State
	ports domain.PortMap
}

func newContainer(o *Orchestrator, spec *domain.ContainerSpec) *Container {
	return &Container{
		orch:  o,
		spec:  spec,
		owner: uuid.NewString(),
		state: domain.StateConfigured,
	}
}

func (c *Container) setID(id string) {
	c.mu.Lock()
	c.id = id
	c.mu.Unlock()
}

func (c *Container) setPorts(p domain.PortMap) {
	c.mu.Lock()
	c.ports = p.Clone()
	c.mu.Unlock()
}

// transition moves the container to next and publishes a state event.
func (c *Container) transition(ctx context.Context, next domain.State, cause error) error {
	c.mu.Lock()
	from := c.state
	to, err := from.Transition(next)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.state = to
	id := c.id
	c.mu.Unlock()

	log := zerowrap.FromCtx(ctx)

	log.Debug().
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("container state changed")

	c.orch.publish(ctx, domain.EventContainerState, domain.ContainerStatePayload{
		ContainerID: id,
		Name:        c.spec.Name(),
		Image:       c.spec.Image(),
		From:        from,
		To:          to,
		Err:         cause,
	})
	return nil
}

// ID returns the runtime identifier of the container.
func (c *Container) ID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.id
}

// Name returns the configured container name, empty when the runtime picked one.
func (c *Container) Name() string {
	return c.spec.Name()
}

// Host returns the address published ports are reachable on.
func (c *Container) Host() string {
	return c.orch.runtime.Host()
}

// State returns the current lifecycle state.
func (c *Container) State() domain.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Spec returns the spec the container was started from.
func (c *Container) Spec() *domain.ContainerSpec {
	return c.spec
}

// Ports returns the host ports published for each container port.
func (c *Container) Ports() domain.PortMap {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ports.Clone()
}

// MappedPort returns the host port published for port.
func (c *Container) MappedPort(port domain.Port) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if hostPort, ok := c.ports.Lookup(port); ok {
		return hostPort, nil
	}
	return 0, fmt.Errorf("%w: %s", domain.ErrPortNotPublished, port)
}

// Endpoint returns "host:port" for a published container port such as "5432" or "53/udp".
func (c *Container) Endpoint(port string) (string, error) {
	p, err := domain.ParsePort(port)
	if err != nil {
		return "", err
	}
	hostPort, err := c.MappedPort(p)
	if err != nil {
		return "", err
	}
	return net.JoinHostPort(c.Host(), strconv.Itoa(hostPort)), nil
}

// IsRunning asks the runtime whether the container process is running.
func (c *Container) IsRunning(ctx context.Context) (bool, error) {
	return c.orch.runtime.IsRunning(ctx, c.ID())
}

// Logs returns a snapshot of the combined stdout and stderr of the container.
func (c *Container) Logs(ctx context.Context) ([]byte, error) {
	var buf syncBuffer
	if err := c.orch.runtime.StreamLogs(ctx, c.ID(), false, &buf, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Exec runs cmd inside the container and waits for it to exit.
func (c *Container) Exec(ctx context.Context, cmd ...string) (*domain.ExecResult, error) {
	if len(cmd) == 0 {
		return nil, fmt.Errorf("%w: empty command", domain.ErrInvalidConfig)
	}
	return c.orch.runtime.ExecuteCommand(ctx, c.ID(), cmd)
}

// Stop stops the container without removing it.
func (c *Container) Stop(ctx context.Context) error {
	ctx = c.ctx(ctx, "StopContainer")

	switch c.State() {
	case domain.StateStopping, domain.StateRemoved, domain.StateFailed:
		return nil
	}
	if err := c.transition(ctx, domain.StateStopping, nil); err != nil {
		return err
	}

	if td := c.ledger.unwindTo(ctx, c.stopMark); td != nil {
		return c.teardownFailed(ctx, td)
	}
	return nil
}

// Remove stops the container if needed, detaches its networks, removes it and
// releases its host ports.
func (c *Container) Remove(ctx context.Context) error {
	ctx = c.ctx(ctx, "RemoveContainer")

	switch c.State() {
	case domain.StateRemoved:
		return nil
	case domain.StateFailed:
		// Retries the steps that leaked when the container failed.
		if td := c.ledger.unwind(ctx); td != nil {
			return c.teardownFailed(ctx, td)
		}
		return nil
	case domain.StateReady:
		if err := c.transition(ctx, domain.StateStopping, nil); err != nil {
			return err
		}
	}

	if td := c.ledger.unwind(ctx); td != nil {
		return c.teardownFailed(ctx, td)
	}
	if err := c.transition(ctx, domain.StateRemoved, nil); err != nil {
		return err
	}

	c.orch.recorder.ContainerRemoved(ctx, c.spec.Image())
	log := zerowrap.FromCtx(ctx)
	log.Info().Msg("container removed")
	return nil
}

// Terminate stops and removes the container. Calling it again is a no-op.
func (c *Container) Terminate(ctx context.Context) error {
	return c.Remove(ctx)
}

func (c *Container) teardownFailed(ctx context.Context, td *domain.TeardownError) error {
	_ = c.transition(ctx, domain.StateFailed, td)
	c.orch.recorder.ResourcesLeaked(ctx, len(td.Leaked))
	return &domain.OrchestrationError{Stage: domain.StateStopping, Err: td.Errs[0], Teardown: td}
}

func (c *Container) ctx(ctx context.Context, action string) context.Context {
	return zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:    "usecase",
		zerowrap.FieldUseCase:  action,
		zerowrap.FieldEntityID: c.ID(),
	})
}

// syncBuffer lets stdout and stderr share one buffer.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Clone(b.buf.Bytes())
}
