package app

import (
	"context"
	"fmt"

	"github.com/bnema/zerowrap"
	"github.com/google/uuid"

	"github.com/bnema/ephemera/internal/adapters/out/docker"
	"github.com/bnema/ephemera/internal/adapters/out/eventbus"
	"github.com/bnema/ephemera/internal/adapters/out/httpprober"
	"github.com/bnema/ephemera/internal/adapters/out/logwriter"
	"github.com/bnema/ephemera/internal/adapters/out/telemetry"
	"github.com/bnema/ephemera/internal/boundaries/in"
	"github.com/bnema/ephemera/internal/boundaries/out"
	"github.com/bnema/ephemera/internal/domain"
	"github.com/bnema/ephemera/internal/usecase/lifecycle"
	"github.com/bnema/ephemera/internal/usecase/ports"
	"github.com/bnema/ephemera/internal/usecase/wait"
	"github.com/bnema/ephemera/pkg/version"
)

// Kernel wires the runtime adapter, the readiness engine and the orchestrator
// for in-process use by the CLI and the testbed package.
type Kernel struct {
	cfg          Config
	log          zerowrap.Logger
	pullPolicy   domain.PullPolicy
	runtime      out.RuntimeClient
	orchestrator *lifecycle.Orchestrator
	bus          *eventbus.InMemory
	logWriter    *logwriter.LogWriter
	provider     *telemetry.Provider
	cleanups     []func(context.Context)
}

// NewKernel loads configPath and wires a kernel against the Docker daemon.
func NewKernel(ctx context.Context, configPath string) (*Kernel, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	log, cleanup, err := initLogger(cfg)
	if err != nil {
		return nil, err
	}

	k, err := NewKernelFromConfig(ctx, cfg, log)
	if err != nil {
		cleanup()
		return nil, err
	}
	k.cleanups = append(k.cleanups, func(context.Context) { cleanup() })
	return k, nil
}

// NewKernelFromConfig wires a kernel against the Docker daemon named by cfg.
func NewKernelFromConfig(ctx context.Context, cfg Config, log zerowrap.Logger) (*Kernel, error) {
	runtime, err := docker.NewRuntime(cfg.Docker.Host,
		docker.WithPublishHost(cfg.Docker.PublishHost),
		docker.WithBindAddress(cfg.Ports.BindAddress),
		docker.WithRegistryAuth(cfg.Registry.Server, cfg.Registry.Username, cfg.Registry.Password),
	)
	if err != nil {
		return nil, log.WrapErr(err, "failed to create Docker runtime")
	}

	k, err := NewKernelWithRuntime(ctx, cfg, log, runtime)
	if err != nil {
		_ = runtime.Close()
		return nil, err
	}
	k.cleanups = append(k.cleanups, func(context.Context) { _ = runtime.Close() })
	return k, nil
}

// NewKernelWithRuntime wires a kernel around an existing runtime client.
func NewKernelWithRuntime(ctx context.Context, cfg Config, log zerowrap.Logger, runtime out.RuntimeClient) (*Kernel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pullPolicy, _ := cfg.PullPolicy()

	if cfg.Session.ID == "" {
		cfg.Session.ID = uuid.NewString()
	}

	ctx = zerowrap.WithCtx(ctx, log)
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:     "app",
		zerowrap.FieldComponent: "kernel",
		"session":               cfg.Session.ID,
	})
	k := &Kernel{cfg: cfg, log: log, pullPolicy: pullPolicy, runtime: runtime}
	klog := zerowrap.FromCtx(ctx)

	provider, err := telemetry.NewProvider(ctx, cfg.Telemetry, telemetry.Service{
		Name:      "ephemera",
		Version:   version.Version(),
		SessionID: cfg.Session.ID,
	})
	if err != nil {
		return nil, klog.WrapErr(err, "failed to initialize telemetry")
	}
	k.provider = provider
	k.cleanups = append(k.cleanups, func(ctx context.Context) {
		if err := provider.Shutdown(ctx); err != nil {
			klog.Warn().Err(err).Msg("telemetry was not fully flushed")
		}
	})

	metrics, err := telemetry.NewMetrics()
	if err != nil {
		k.Close(ctx)
		return nil, klog.WrapErr(err, "failed to register metrics")
	}

	k.bus = eventbus.NewInMemory(cfg.Events.BufferSize, log, eventbus.WithMetrics(metrics))
	if err := k.bus.Start(); err != nil {
		k.Close(ctx)
		return nil, klog.WrapErr(err, "failed to start event bus")
	}
	k.cleanups = append(k.cleanups, func(context.Context) { _ = k.bus.Stop() })

	writer, err := logwriter.New(cfg.Logging.Containers)
	if err != nil {
		k.Close(ctx)
		return nil, klog.WrapErr(err, "failed to create container log writer")
	}
	k.logWriter = writer
	k.cleanups = append(k.cleanups, func(context.Context) { _ = writer.Close() })

	engine := wait.NewEngine(cfg.WaitPolicy(), httpprober.New())
	resolver := ports.NewResolver(ports.SharedArena(cfg.Ports.BindAddress))

	k.orchestrator = lifecycle.NewOrchestrator(runtime, resolver, engine,
		lifecycle.Config{
			SessionID:       cfg.Session.ID,
			StopTimeout:     cfg.Stop.Timeout,
			TeardownTimeout: cfg.Teardown.Timeout,
		},
		lifecycle.WithEventPublisher(k.bus),
		lifecycle.WithRecorder(metrics),
		lifecycle.WithDefaultPullPolicy(pullPolicy),
	)

	klog.Debug().
		Str("pull_policy", fmt.Sprint(pullPolicy)).
		Dur("wait_timeout", cfg.WaitPolicy().Timeout).
		Msg("kernel initialized")
	return k, nil
}

// Close stops the event bus, closes the output files, flushes telemetry and
// releases the runtime client. Containers are left alone.
func (k *Kernel) Close(ctx context.Context) {
	if k == nil {
		return
	}
	for i := len(k.cleanups) - 1; i >= 0; i-- {
		k.cleanups[i](ctx)
	}
	k.cleanups = nil
}

func (k *Kernel) Config() Config { return k.cfg }

func (k *Kernel) Logger() zerowrap.Logger { return k.log }

// PullPolicy is the configured default for specs that do not set one.
func (k *Kernel) PullPolicy() domain.PullPolicy { return k.pullPolicy }

func (k *Kernel) Runtime() out.RuntimeClient { return k.runtime }

func (k *Kernel) Orchestrator() *lifecycle.Orchestrator { return k.orchestrator }

func (k *Kernel) Launcher() in.ContainerLauncher { return k.orchestrator }

func (k *Kernel) Events() out.EventSubscriber { return k.bus }

// ContainerLogs persists container output under logging.containers.dir.
func (k *Kernel) ContainerLogs() out.ContainerLogWriter { return k.logWriter }
