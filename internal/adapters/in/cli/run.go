package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/ephemera/internal/app"
	"github.com/bnema/ephemera/internal/boundaries/out"
	"github.com/bnema/ephemera/internal/domain"
)

// terminateGrace bounds the teardown once the user interrupts the run.
const terminateGrace = 30 * time.Second

func newRunCmd(configPath *string) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run IMAGE",
		Short: "Start a disposable container and wait until it is ready",
		Long: `Starts IMAGE, publishes the requested ports on free host ports, waits for the
readiness checks and prints the endpoints. The container is removed on Ctrl-C
unless --detach is given.

Examples:
  ephemera run redis:7 -p 6379 --wait-port 6379
  ephemera run postgres:16 -p 5432 -e POSTGRES_PASSWORD=secret --wait-log "ready to accept connections"
  ephemera run nginx:alpine -p 8080:80 --wait-http 80:/ --detach`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runContainer(ctx, cmd.OutOrStdout(), *configPath, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.name, "name", "", "Container name")
	f.StringArrayVarP(&opts.env, "env", "e", nil, "Environment variable KEY=VALUE, or KEY to copy it from the current environment")
	f.StringArrayVar(&opts.envFiles, "env-file", nil, "Read environment variables from a dotenv file")
	f.StringArrayVarP(&opts.labels, "label", "l", nil, "Container label KEY=VALUE")
	f.StringArrayVarP(&opts.publish, "publish", "p", nil, "Publish a port: PORT[/PROTO] on a free host port, or HOSTPORT:PORT[/PROTO]")
	f.StringArrayVar(&opts.expose, "expose", nil, "Expose a port without publishing it")
	f.StringArrayVar(&opts.mounts, "mount", nil, "Bind mount SRC:DST[:ro|rw]")
	f.StringArrayVarP(&opts.volumes, "volume", "v", nil, "Volume mount NAME:DST[:ro|rw]")
	f.StringArrayVar(&opts.tmpfs, "tmpfs", nil, "Tmpfs mount DST[:ro|rw]")
	f.StringArrayVar(&opts.networks, "network", nil, "Attach to NETWORK[:ALIAS,...]")
	f.StringVar(&opts.command, "cmd", "", "Command line, split with shell quoting rules")
	f.StringVar(&opts.entrypoint, "entrypoint", "", "Entrypoint, split with shell quoting rules")
	f.StringArrayVar(&opts.waitPorts, "wait-port", nil, "Wait until PORT[/PROTO] accepts connections")
	f.StringArrayVar(&opts.waitLogs, "wait-log", nil, "Wait until the output contains TEXT")
	f.StringArrayVar(&opts.waitHTTP, "wait-http", nil, "Wait until PORT:PATH answers 200")
	f.DurationVar(&opts.waitTimeout, "wait-timeout", 0, "Timeout of each readiness check (default from config)")
	f.StringVar(&opts.pull, "pull", "", "Pull policy: never, missing or always (default from config)")
	f.BoolVar(&opts.privileged, "privileged", false, "Run in privileged mode")
	f.BoolVar(&opts.autoRemove, "auto-remove", false, "Let the engine delete the container when it stops")
	f.BoolVar(&opts.logFile, "log-file", false, "Write the container output under logging.containers.dir")
	f.BoolVarP(&opts.detach, "detach", "d", false, "Leave the container running and exit")

	return cmd
}

func runContainer(ctx context.Context, w io.Writer, configPath, image string, opts runOptions) error {
	b, err := opts.builder(image)
	if err != nil {
		return err
	}

	kernel, err := app.NewKernel(ctx, configPath)
	if err != nil {
		return err
	}
	defer kernel.Close(context.WithoutCancel(ctx))

	printer := &transitionPrinter{w: w}
	if err := kernel.Events().Subscribe(printer); err != nil {
		return err
	}

	var logFile string
	if opts.logFile {
		name := opts.name
		if name == "" {
			name = image + "-" + kernel.Config().Session.ID
		}
		consumer, err := kernel.ContainerLogs().Open(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to open container log file: %w", err)
		}
		b = b.WithOutputConsumer(consumer)
		if f, ok := consumer.(interface{ Path() string }); ok {
			logFile = f.Path()
		}
	}

	spec, err := b.Build()
	if err != nil {
		return err
	}

	c, err := kernel.Orchestrator().Start(ctx, spec)
	if err != nil {
		return err
	}

	view := newContainerView(c.ID(), c.Name(), spec.Image(), kernel.Orchestrator().SessionID(), c.Host(), c.Ports())
	view.LogFile = logFile
	if err := cliWriteLine(w, cliRenderContainer(view)); err != nil {
		return err
	}

	if opts.detach {
		return cliWriteLine(w, cliRenderMuted(fmt.Sprintf("detached, remove with: ephemera prune --session %s", view.Session)))
	}

	_ = cliWriteLine(w, cliRenderMuted("press Ctrl-C to stop and remove the container"))
	<-ctx.Done()

	termCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), terminateGrace)
	defer cancel()
	if err := c.Terminate(termCtx); err != nil {
		return fmt.Errorf("failed to remove container: %w", err)
	}
	return cliWriteLine(w, cliRenderSuccess("container removed"))
}

// transitionPrinter prints container state changes as they happen.
type transitionPrinter struct {
	w io.Writer
}

var _ out.EventHandler = (*transitionPrinter)(nil)

func (p *transitionPrinter) CanHandle(t domain.EventType) bool {
	return t == domain.EventContainerState || t == domain.EventImagePulled
}

func (p *transitionPrinter) Handle(_ context.Context, e domain.Event) error {
	switch payload := e.Data.(type) {
	case domain.ContainerStatePayload:
		return cliWriteLine(p.w, cliRenderTransition(payload))
	case domain.ImagePulledPayload:
		return cliWriteLine(p.w, cliRenderMuted(fmt.Sprintf("pulled %s in %s", payload.Image, payload.Duration.Round(time.Millisecond))))
	default:
		return errors.New("unexpected event payload")
	}
}
