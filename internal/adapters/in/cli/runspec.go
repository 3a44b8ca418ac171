package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kballard/go-shellquote"

	"github.com/bnema/ephemera/internal/domain"
	"github.com/bnema/ephemera/internal/usecase/builder"
	"github.com/bnema/ephemera/internal/usecase/wait"
)

// runOptions mirrors the flags of the run command.
type runOptions struct {
	name        string
	env         []string
	envFiles    []string
	labels      []string
	publish     []string
	expose      []string
	mounts      []string
	volumes     []string
	tmpfs       []string
	networks    []string
	command     string
	entrypoint  string
	waitPorts   []string
	waitLogs    []string
	waitHTTP    []string
	waitTimeout time.Duration
	pull        string
	privileged  bool
	autoRemove  bool
	logFile     bool
	detach      bool
}

// builder translates the options into a builder for image. Flags are applied
// in a fixed order: env files before --env so explicit values win.
func (o runOptions) builder(image string) (builder.Builder, error) {
	b := builder.New().WithImage(image)

	if o.name != "" {
		b = b.WithName(o.name)
	}

	if len(o.envFiles) > 0 {
		fileEnv, err := godotenv.Read(o.envFiles...)
		if err != nil {
			return b, fmt.Errorf("failed to read env file: %w", err)
		}
		b = b.WithEnvironmentMap(fileEnv)
	}
	for _, raw := range o.env {
		key, value, err := parseEnvFlag(raw)
		if err != nil {
			return b, err
		}
		b = b.WithEnvironment(key, value)
	}

	for _, raw := range o.labels {
		key, value, _ := strings.Cut(raw, "=")
		b = b.WithLabel(key, value)
	}

	for _, raw := range o.publish {
		var err error
		if b, err = applyPublish(b, raw); err != nil {
			return b, err
		}
	}
	for _, port := range o.expose {
		b = b.WithExposedPort(port)
	}

	for _, raw := range o.mounts {
		src, dst, mode, err := splitMount(raw, 2)
		if err != nil {
			return b, err
		}
		if !filepath.IsAbs(src) {
			if src, err = filepath.Abs(src); err != nil {
				return b, fmt.Errorf("--mount %q: %w", raw, err)
			}
		}
		b = b.WithBindMount(src, dst, mode)
	}
	for _, raw := range o.volumes {
		name, dst, mode, err := splitMount(raw, 2)
		if err != nil {
			return b, err
		}
		b = b.WithVolumeMount(name, dst, mode)
	}
	for _, raw := range o.tmpfs {
		_, dst, mode, err := splitMount(raw, 1)
		if err != nil {
			return b, err
		}
		b = b.WithTmpfsMount(dst, mode)
	}

	for _, raw := range o.networks {
		network, aliases, _ := strings.Cut(raw, ":")
		var list []string
		if aliases != "" {
			list = strings.Split(aliases, ",")
		}
		b = b.WithNetwork(network, list...)
	}

	if o.entrypoint != "" {
		args, err := shellquote.Split(o.entrypoint)
		if err != nil {
			return b, fmt.Errorf("--entrypoint: %w", err)
		}
		b = b.WithEntrypoint(args...)
	}
	if o.command != "" {
		b = b.WithCommandLine(o.command)
	}

	if o.pull != "" {
		policy, err := domain.ParsePullPolicy(o.pull)
		if err != nil {
			return b, fmt.Errorf("--pull: %w", err)
		}
		b = b.WithPullPolicy(policy)
	}

	b = b.WithPrivileged(o.privileged).WithAutoRemove(o.autoRemove)

	strategies, err := o.waitStrategies()
	if err != nil {
		return b, err
	}
	if len(strategies) > 0 {
		b = b.WithWaitStrategy(strategies...)
	}

	return b, b.Err()
}

func (o runOptions) waitStrategies() ([]domain.WaitStrategy, error) {
	var strategies []domain.WaitStrategy
	for _, port := range o.waitPorts {
		s := wait.ForListeningPort(port)
		if o.waitTimeout > 0 {
			s = s.WithTimeout(o.waitTimeout)
		}
		strategies = append(strategies, s)
	}
	for _, text := range o.waitLogs {
		s := wait.ForLog(text)
		if o.waitTimeout > 0 {
			s = s.WithTimeout(o.waitTimeout)
		}
		strategies = append(strategies, s)
	}
	for _, raw := range o.waitHTTP {
		port, path, ok := strings.Cut(raw, ":")
		if !ok || port == "" {
			return nil, fmt.Errorf("--wait-http %q: want PORT:PATH", raw)
		}
		s := wait.ForHTTP(path).WithPort(port)
		if o.waitTimeout > 0 {
			s = s.WithTimeout(o.waitTimeout)
		}
		strategies = append(strategies, s)
	}
	return strategies, nil
}

// parseEnvFlag accepts KEY=VALUE, or KEY alone to copy the variable from the
// calling environment.
func parseEnvFlag(raw string) (string, string, error) {
	key, value, ok := strings.Cut(raw, "=")
	if key == "" {
		return "", "", fmt.Errorf("--env %q: missing variable name", raw)
	}
	if !ok {
		value = os.Getenv(key)
	}
	return key, value, nil
}

// applyPublish handles "80" and "80/udp" (random host port) and "8080:80"
// (fixed host port).
func applyPublish(b builder.Builder, raw string) (builder.Builder, error) {
	hostPart, containerPart, fixed := strings.Cut(raw, ":")
	if !fixed {
		return b.WithPortBinding(raw, true), nil
	}
	if strings.Contains(containerPart, ":") {
		return b, fmt.Errorf("--publish %q: want [HOSTPORT:]PORT[/PROTO]", raw)
	}
	hostPort, err := domain.ParsePortNumber(hostPart)
	if err != nil {
		return b, fmt.Errorf("--publish %q: %w", raw, err)
	}
	return b.WithHostPortBinding(hostPort, containerPart), nil
}

// splitMount parses "SRC:DST[:MODE]" when fields is 2 and "DST[:MODE]" when
// fields is 1.
func splitMount(raw string, fields int) (source, destination string, mode domain.AccessMode, err error) {
	parts := strings.Split(raw, ":")
	switch len(parts) {
	case fields:
	case fields + 1:
		mode = domain.AccessMode(parts[fields])
	default:
		return "", "", "", fmt.Errorf("mount %q: want %s", raw, mountUsage(fields))
	}
	if fields == 2 {
		source = parts[0]
	}
	return source, parts[fields-1], mode, nil
}

func mountUsage(fields int) string {
	if fields == 1 {
		return "DST[:ro|rw]"
	}
	return "SRC:DST[:ro|rw]"
}
