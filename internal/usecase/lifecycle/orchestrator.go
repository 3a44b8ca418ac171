// Package lifecycle drives a container spec to a running, verified-ready
// container and reclaims everything it created on failure or termination.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bnema/ephemera/internal/boundaries/in"
	"github.com/bnema/ephemera/internal/boundaries/out"
	"github.com/bnema/ephemera/internal/domain"
	"github.com/bnema/ephemera/internal/usecase/ports"
	"github.com/bnema/ephemera/internal/usecase/wait"
)

// Default timeouts used when Config leaves them zero.
const (
	DefaultStopTimeout     = 10 * time.Second
	DefaultTeardownTimeout = 30 * time.Second
)

var tracer = otel.Tracer("github.com/bnema/ephemera/internal/usecase/lifecycle")

// Config holds configuration needed by the orchestrator.
type Config struct {
	// SessionID labels every container started by this orchestrator.
	SessionID       string
	StopTimeout     time.Duration
	TeardownTimeout time.Duration
}

// Orchestrator implements the ContainerLauncher interface.
type Orchestrator struct {
	runtime  out.RuntimeClient
	resolver *ports.Resolver
	engine   *wait.Engine
	events   out.EventPublisher
	recorder out.LifecycleRecorder
	pull     domain.PullPolicy
	config   Config
}

// Option configures optional collaborators of the orchestrator.
type Option func(*Orchestrator)

// WithEventPublisher publishes a state event on every lifecycle transition.
func WithEventPublisher(events out.EventPublisher) Option {
	return func(o *Orchestrator) {
		o.events = events
	}
}

// WithRecorder records lifecycle metrics.
func WithRecorder(recorder out.LifecycleRecorder) Option {
	return func(o *Orchestrator) {
		o.recorder = recorder
	}
}

// WithDefaultPullPolicy applies policy to specs that do not set one.
func WithDefaultPullPolicy(policy domain.PullPolicy) Option {
	return func(o *Orchestrator) {
		if policy != nil {
			o.pull = policy
		}
	}
}

// NewOrchestrator creates a new orchestrator.
func NewOrchestrator(
	runtime out.RuntimeClient,
	resolver *ports.Resolver,
	engine *wait.Engine,
	config Config,
	opts ...Option,
) *Orchestrator {
	if config.SessionID == "" {
		config.SessionID = uuid.NewString()
	}
	if config.StopTimeout <= 0 {
		config.StopTimeout = DefaultStopTimeout
	}
	if config.TeardownTimeout <= 0 {
		config.TeardownTimeout = DefaultTeardownTimeout
	}
	if resolver == nil {
		resolver = ports.NewResolver(nil)
	}
	if engine == nil {
		engine = wait.NewEngine(wait.Policy{}, nil)
	}

	o := &Orchestrator{
		runtime:  runtime,
		resolver: resolver,
		engine:   engine,
		recorder: nopRecorder{},
		pull:     domain.PullMissing,
		config:   config,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SessionID returns the session label value of this orchestrator.
func (o *Orchestrator) SessionID() string {
	return o.config.SessionID
}

// Start provisions spec and returns once every wait strategy succeeded.
// Any failure tears down what was created so far and returns a
// *domain.OrchestrationError carrying the original error; teardown failures are
// attached to it, never returned alone.
func (o *Orchestrator) Start(ctx context.Context, spec *domain.ContainerSpec) (*Container, error) {
	ctx, span := tracer.Start(ctx, "lifecycle.Start", trace.WithAttributes(
		attribute.String("container.image.name", spec.Image()),
		attribute.String("ephemera.session", o.config.SessionID),
	))
	defer span.End()

	c, err := o.start(ctx, spec)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "container failed to become ready")
		return nil, err
	}
	span.SetAttributes(attribute.String("container.id", c.ID()))
	return c, nil
}

func (o *Orchestrator) start(ctx context.Context, spec *domain.ContainerSpec) (*Container, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "usecase",
		zerowrap.FieldUseCase: "StartContainer",
		"image":               spec.Image(),
	})
	log := zerowrap.FromCtx(ctx)

	c := newContainer(o, spec)
	started := time.Now()

	if err := c.transition(ctx, domain.StateCreating, nil); err != nil {
		return nil, err
	}

	if err := o.ensureImage(ctx, spec); err != nil {
		return nil, o.fail(ctx, c, err)
	}

	spec, err := o.prepareSpec(ctx, spec)
	if err != nil {
		return nil, o.fail(ctx, c, err)
	}

	bindings, err := o.resolver.Resolve(ctx, c.owner, spec)
	c.ledger.push("", func(context.Context) error {
		o.resolver.Release(c.owner)
		return nil
	})
	if err != nil {
		return nil, o.fail(ctx, c, err)
	}

	payload, err := o.runtime.NewPayload(ctx, spec, bindings)
	if err != nil {
		return nil, o.fail(ctx, c, err)
	}
	for _, modify := range spec.Modifiers() {
		modify(payload)
	}

	id, err := o.runtime.CreateContainer(ctx, payload)
	if err != nil {
		return nil, o.fail(ctx, c, err)
	}
	c.setID(id)
	ctx = zerowrap.CtxWithField(ctx, zerowrap.FieldEntityID, id)
	c.ledger.push("container "+id, func(ctx context.Context) error {
		return o.runtime.RemoveContainer(ctx, id)
	})

	if err := c.transition(ctx, domain.StateCreated, nil); err != nil {
		return nil, o.fail(ctx, c, err)
	}

	if err := o.attachNetworks(ctx, c, spec.Networks()); err != nil {
		return nil, o.fail(ctx, c, err)
	}

	if err := c.transition(ctx, domain.StateStarting, nil); err != nil {
		return nil, o.fail(ctx, c, err)
	}

	c.stopMark = c.ledger.mark()
	if err := o.runtime.StartContainer(ctx, id); err != nil {
		return nil, o.fail(ctx, c, err)
	}
	c.ledger.push("running container "+id, func(ctx context.Context) error {
		return o.runtime.StopContainer(ctx, id, o.config.StopTimeout)
	})

	portMap, err := o.runtime.InspectPortBindings(ctx, id)
	if err != nil {
		return nil, o.fail(ctx, c, err)
	}
	c.setPorts(portMap)

	if err := c.transition(ctx, domain.StateAwaitingReadiness, nil); err != nil {
		return nil, o.fail(ctx, c, err)
	}

	if consumer := spec.OutputConsumer(); consumer != nil {
		o.followOutput(ctx, c, consumer)
	}

	if callback := spec.StartupCallback(); callback != nil {
		if err := callback(ctx, c); err != nil {
			return nil, o.fail(ctx, c, fmt.Errorf("startup callback: %w", err))
		}
	}

	readinessStart := time.Now()
	if err := o.engine.Run(ctx, c, spec.WaitStrategies()); err != nil {
		return nil, o.fail(ctx, c, err)
	}
	readiness := time.Since(readinessStart)

	if err := c.transition(ctx, domain.StateReady, nil); err != nil {
		return nil, o.fail(ctx, c, err)
	}

	o.recorder.ContainerReady(ctx, spec.Image(), time.Since(started), readiness)
	log.Info().
		Str("name", c.Name()).
		Dur(zerowrap.FieldDuration, time.Since(started)).
		Int("ports", len(portMap)).
		Msg("container ready")

	return c, nil
}

// Launch is Start behind the ContainerLauncher port.
func (o *Orchestrator) Launch(ctx context.Context, spec *domain.ContainerSpec) (in.ManagedContainer, error) {
	c, err := o.Start(ctx, spec)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ensureImage consults the pull policy exactly once and pulls when it asks to.
func (o *Orchestrator) ensureImage(ctx context.Context, spec *domain.ContainerSpec) error {
	log := zerowrap.FromCtx(ctx)
	ref := spec.Image()

	cached, err := o.runtime.FindLocalImage(ctx, ref)
	if err != nil {
		return &domain.ImageResolutionError{Image: ref, Err: err}
	}

	if !spec.PullPolicyOr(o.pull).ShouldPull(cached) {
		if cached == nil {
			return &domain.ImageResolutionError{Image: ref}
		}
		log.Debug().Str("image_id", cached.ID).Msg("using cached image")
		return nil
	}

	start := time.Now()
	if err := o.runtime.PullImage(ctx, ref); err != nil {
		return &domain.ImageResolutionError{Image: ref, Pulled: true, Err: err}
	}

	duration := time.Since(start)
	log.Info().Dur(zerowrap.FieldDuration, duration).Msg("image pulled")
	o.publish(ctx, domain.EventImagePulled, domain.ImagePulledPayload{Image: ref, Duration: duration})
	return nil
}

// prepareSpec adds the session labels and drops auto-remove when the runtime cannot honour it.
func (o *Orchestrator) prepareSpec(ctx context.Context, spec *domain.ContainerSpec) (*domain.ContainerSpec, error) {
	data := spec.Data()

	labels := domain.ManagedLabels(o.config.SessionID, data.Image)
	if data.Name != "" {
		labels[domain.LabelName] = data.Name
	}
	if data.Labels == nil {
		data.Labels = make(map[string]string, len(labels))
	}
	maps.Copy(data.Labels, labels)

	if data.AutoRemove {
		supported, err := o.runtime.SupportsAutoRemove(ctx)
		if err != nil {
			return nil, err
		}
		if !supported {
			log := zerowrap.FromCtx(ctx)
			log.Warn().Msg("runtime does not support auto-remove, container will be removed on teardown")
			data.AutoRemove = false
		}
	}

	return domain.NewContainerSpec(data), nil
}

func (o *Orchestrator) attachNetworks(ctx context.Context, c *Container, networks []domain.NetworkAttachment) error {
	log := zerowrap.FromCtx(ctx)

	for _, n := range networks {
		if err := o.runtime.AttachNetwork(ctx, c.id, n.Network, n.Aliases); err != nil {
			if !errors.Is(err, domain.ErrNetworkAttachment) {
				err = &domain.NetworkAttachmentError{Network: n.Network, Err: err}
			}
			return err
		}

		network := n.Network
		c.ledger.push("network "+network+" on container "+c.id, func(ctx context.Context) error {
			return o.runtime.DetachNetwork(ctx, c.id, network)
		})

		log.Debug().Str("network", network).Strs("aliases", n.Aliases).Msg("network attached")
	}
	return nil
}

// followOutput streams the container output to consumer until teardown.
func (o *Orchestrator) followOutput(ctx context.Context, c *Container, consumer domain.OutputConsumer) {
	followCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})

	go func() {
		defer close(done)
		if err := o.runtime.StreamLogs(followCtx, c.id, true, consumer.Stdout(), consumer.Stderr()); err != nil && followCtx.Err() == nil {
			log := zerowrap.FromCtx(ctx)
			log.Warn().Err(err).Msg("output stream ended with error")
		}
	}()

	c.ledger.push("", func(ctx context.Context) error {
		cancel()
		select {
		case <-done:
		case <-ctx.Done():
		}
		return nil
	})
}

// fail tears down whatever was created and wraps cause with the failed stage.
func (o *Orchestrator) fail(ctx context.Context, c *Container, cause error) error {
	stage := c.State()
	log := zerowrap.FromCtx(ctx)

	teardownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.config.TeardownTimeout)
	defer cancel()

	td := c.ledger.unwind(teardownCtx)
	_ = c.transition(ctx, domain.StateFailed, cause)

	o.recorder.ContainerFailed(ctx, c.spec.Image(), stage)
	if td != nil {
		o.recorder.ResourcesLeaked(ctx, len(td.Leaked))
		log.Error().Err(td).Strs("leaked", td.Leaked).Msg("teardown after failure was incomplete")
	}

	err := &domain.OrchestrationError{Stage: stage, Err: cause, Teardown: td}
	log.Error().Err(cause).Str("stage", string(stage)).Msg("container failed to become ready")
	return err
}

func (o *Orchestrator) publish(ctx context.Context, eventType domain.EventType, payload any) {
	if o.events == nil {
		return
	}
	if err := o.events.Publish(eventType, payload); err != nil {
		log := zerowrap.FromCtx(ctx)
		log.Warn().Err(err).Str(zerowrap.FieldEvent, string(eventType)).Msg("failed to publish event")
	}
}

// Prune removes every container of the given session, or of all sessions when
// sessionID is empty. It returns the number of containers removed.
func (o *Orchestrator) Prune(ctx context.Context, sessionID string) (int, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "usecase",
		zerowrap.FieldUseCase: "Prune",
		"session":             sessionID,
	})
	log := zerowrap.FromCtx(ctx)

	labels := map[string]string{domain.LabelManaged: "true"}
	if sessionID != "" {
		labels[domain.LabelSession] = sessionID
	}

	ids, err := o.runtime.ListManaged(ctx, labels)
	if err != nil {
		return 0, log.WrapErr(err, "failed to list managed containers")
	}

	removed := 0
	var errs []error
	for _, id := range ids {
		if err := o.runtime.RemoveContainer(ctx, id); err != nil {
			log.Warn().Err(err).Str(zerowrap.FieldEntityID, id).Msg("failed to remove container")
			errs = append(errs, fmt.Errorf("remove %s: %w", id, err))
			continue
		}
		removed++
	}

	log.Info().Int(zerowrap.FieldCount, removed).Msg("pruned managed containers")
	return removed, errors.Join(errs...)
}

type nopRecorder struct{}

func (nopRecorder) ContainerReady(context.Context, string, time.Duration, time.Duration) {}
func (nopRecorder) ContainerFailed(context.Context, string, domain.State)                {}
func (nopRecorder) ContainerRemoved(context.Context, string)                             {}
func (nopRecorder) ResourcesLeaked(context.Context, int)                                 {}
