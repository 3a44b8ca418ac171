// Package builder implements the persistent configuration builder for container specs.
//
// A Builder is a value. Every With method returns a new Builder and never
// touches the receiver, so a common base can be branched into several specs
// from different goroutines.
package builder

import (
	"maps"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/bnema/ephemera/internal/domain"
)

// reservedLabelPrefix is owned by the orchestrator.
const reservedLabelPrefix = "ephemera."

// Builder accumulates container options. The zero value is ready to use.
type Builder struct {
	data domain.SpecData
	err  *domain.ConfigurationError
}

// New returns an empty builder.
func New() Builder {
	return Builder{}
}

// Err returns the first validation error recorded on the builder, if any.
// Once set, later With calls are no-ops.
func (b Builder) Err() error {
	if b.err == nil {
		return nil
	}
	return b.err
}

// apply runs fn on a private copy of the builder data.
func (b Builder) apply(fn func(d *domain.SpecData) *domain.ConfigurationError) Builder {
	if b.err != nil {
		return b
	}
	next := Builder{data: b.data.Clone()}
	if err := fn(&next.data); err != nil {
		return Builder{data: b.data, err: err}
	}
	return next
}

func invalid(op, field, value, reason string) *domain.ConfigurationError {
	return &domain.ConfigurationError{Op: op, Field: field, Value: value, Reason: reason}
}

// WithImage sets the image reference.
func (b Builder) WithImage(ref string) Builder {
	return b.apply(func(d *domain.SpecData) *domain.ConfigurationError {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			return invalid("WithImage", "image", ref, "image reference cannot be empty")
		}
		d.Image = ref
		return nil
	})
}

// WithName sets the container name.
func (b Builder) WithName(name string) Builder {
	return b.apply(func(d *domain.SpecData) *domain.ConfigurationError {
		if strings.ContainsAny(name, " /") {
			return invalid("WithName", "name", name, "name cannot contain spaces or slashes")
		}
		d.Name = name
		return nil
	})
}

// WithHostname sets the hostname seen inside the container.
func (b Builder) WithHostname(hostname string) Builder {
	return b.apply(func(d *domain.SpecData) *domain.ConfigurationError {
		d.Hostname = hostname
		return nil
	})
}

// WithWorkingDirectory sets the working directory of the container process.
func (b Builder) WithWorkingDirectory(dir string) Builder {
	return b.apply(func(d *domain.SpecData) *domain.ConfigurationError {
		if dir != "" && !path.IsAbs(dir) {
			return invalid("WithWorkingDirectory", "workingDirectory", dir, "must be an absolute path")
		}
		d.WorkingDir = dir
		return nil
	})
}

// WithEntrypoint replaces the image entrypoint. No arguments restores the image default.
func (b Builder) WithEntrypoint(args ...string) Builder {
	return b.apply(func(d *domain.SpecData) *domain.ConfigurationError {
		d.Entrypoint = slices.Clone(args)
		return nil
	})
}

// WithCommand replaces the image command. No arguments restores the image default.
func (b Builder) WithCommand(args ...string) Builder {
	return b.apply(func(d *domain.SpecData) *domain.ConfigurationError {
		d.Command = slices.Clone(args)
		return nil
	})
}

// WithCommandLine splits line with shell quoting rules and uses it as the command.
func (b Builder) WithCommandLine(line string) Builder {
	return b.apply(func(d *domain.SpecData) *domain.ConfigurationError {
		args, err := shellquote.Split(line)
		if err != nil {
			return invalid("WithCommandLine", "command", line, err.Error())
		}
		d.Command = args
		return nil
	})
}

// WithEnvironment sets one environment variable. Last write wins.
func (b Builder) WithEnvironment(name, value string) Builder {
	return b.apply(func(d *domain.SpecData) *domain.ConfigurationError {
		return setEnv(d, "WithEnvironment", name, value)
	})
}

// WithEnvironmentMap sets every variable of env.
func (b Builder) WithEnvironmentMap(env map[string]string) Builder {
	return b.apply(func(d *domain.SpecData) *domain.ConfigurationError {
		for _, name := range slices.Sorted(maps.Keys(env)) {
			if err := setEnv(d, "WithEnvironmentMap", name, env[name]); err != nil {
				return err
			}
		}
		return nil
	})
}

func setEnv(d *domain.SpecData, op, name, value string) *domain.ConfigurationError {
	if name == "" || strings.ContainsAny(name, "= \t\n") {
		return invalid(op, "environment", name, "variable name cannot be empty or contain '=' or whitespace")
	}
	if d.Env == nil {
		d.Env = make(map[string]string)
	}
	d.Env[name] = value
	return nil
}

// WithLabel sets a container label. Keys under "ephemera." are reserved.
func (b Builder) WithLabel(key, value string) Builder {
	return b.apply(func(d *domain.SpecData) *domain.ConfigurationError {
		if key == "" {
			return invalid("WithLabel", "label", key, "label key cannot be empty")
		}
		if strings.HasPrefix(key, reservedLabelPrefix) {
			return invalid("WithLabel", "label", key, "label prefix "+reservedLabelPrefix+" is reserved")
		}
		if d.Labels == nil {
			d.Labels = make(map[string]string)
		}
		d.Labels[key] = value
		return nil
	})
}

// WithExposedPort declares a container port without publishing it on the host.
// Accepts "80", "80/tcp", "53/udp" or "38412/sctp".
func (b Builder) WithExposedPort(port string) Builder {
	return b.apply(func(d *domain.SpecData) *domain.ConfigurationError {
		p, err := domain.ParsePort(port)
		if err != nil {
			return invalid("WithExposedPort", "port", port, err.Error())
		}
		if !slices.Contains(d.ExposedPorts, p) {
			d.ExposedPorts = append(d.ExposedPorts, p)
		}
		return nil
	})
}

// WithPortBinding publishes a container port. With assignRandomHostPort the host
// port is picked at start time, otherwise the host port equals the container port.
func (b Builder) WithPortBinding(port string, assignRandomHostPort bool) Builder {
	return b.apply(func(d *domain.SpecData) *domain.ConfigurationError {
		p, err := domain.ParsePort(port)
		if err != nil {
			return invalid("WithPortBinding", "port", port, err.Error())
		}
		host := domain.FixedHostPort(p.Number)
		if assignRandomHostPort {
			host = domain.RandomHostPort()
		}
		return addBinding(d, "WithPortBinding", domain.PortBinding{Host: host, Container: p})
	})
}

// WithHostPortBinding publishes containerPort on a fixed host port.
// The binding uses the container port protocol.
func (b Builder) WithHostPortBinding(hostPort int, containerPort string) Builder {
	return b.apply(func(d *domain.SpecData) *domain.ConfigurationError {
		p, err := domain.ParsePort(containerPort)
		if err != nil {
			return invalid("WithHostPortBinding", "containerPort", containerPort, err.Error())
		}
		if hostPort < domain.MinPort || hostPort > domain.MaxPort {
			return invalid("WithHostPortBinding", "hostPort", strconv.Itoa(hostPort), "port out of range [1,65535]")
		}
		return addBinding(d, "WithHostPortBinding", domain.PortBinding{Host: domain.FixedHostPort(hostPort), Container: p})
	})
}

func addBinding(d *domain.SpecData, op string, binding domain.PortBinding) *domain.ConfigurationError {
	for _, existing := range d.PortBindings {
		if existing == binding && binding.Host.Random {
			return nil
		}
		if !binding.Host.Random && !existing.Host.Random &&
			existing.Host.Number == binding.Host.Number &&
			existing.Container.Protocol == binding.Container.Protocol {
			return invalid(op, "hostPort", binding.String(),
				"host port "+strconv.Itoa(binding.Host.Number)+"/"+string(binding.Container.Protocol)+" is already bound to "+existing.Container.String())
		}
	}
	d.PortBindings = append(d.PortBindings, binding)
	return nil
}

// WithBindMount mounts the host path source at destination.
func (b Builder) WithBindMount(source, destination string, mode domain.AccessMode) Builder {
	return b.apply(func(d *domain.SpecData) *domain.ConfigurationError {
		if source == "" || !filepath.IsAbs(source) {
			return invalid("WithBindMount", "source", source, "bind source must be an absolute host path")
		}
		return addMount(d, "WithBindMount", domain.MountBind, filepath.Clean(source), destination, mode)
	})
}

// WithVolumeMount mounts the engine-managed volume at destination.
func (b Builder) WithVolumeMount(volume, destination string, mode domain.AccessMode) Builder {
	return b.apply(func(d *domain.SpecData) *domain.ConfigurationError {
		if strings.TrimSpace(volume) == "" {
			return invalid("WithVolumeMount", "source", volume, "volume name cannot be empty")
		}
		return addMount(d, "WithVolumeMount", domain.MountVolume, volume, destination, mode)
	})
}

// WithTmpfsMount mounts an in-memory filesystem at destination.
func (b Builder) WithTmpfsMount(destination string, mode domain.AccessMode) Builder {
	return b.apply(func(d *domain.SpecData) *domain.ConfigurationError {
		return addMount(d, "WithTmpfsMount", domain.MountTmpfs, "", destination, mode)
	})
}

func addMount(d *domain.SpecData, op string, kind domain.MountKind, source, destination string, mode domain.AccessMode) *domain.ConfigurationError {
	if destination == "" || !path.IsAbs(destination) {
		return invalid(op, "destination", destination, "destination must be an absolute path")
	}
	destination = path.Clean(destination)

	accessMode, err := domain.ParseAccessMode(string(mode))
	if err != nil {
		return invalid(op, "accessMode", string(mode), err.Error())
	}

	for _, m := range d.Mounts {
		if m.Destination == destination {
			return invalid(op, "destination", destination, "destination is already used by "+string(m.Kind)+" mount")
		}
	}

	d.Mounts = append(d.Mounts, domain.Mount{
		Kind:        kind,
		Source:      source,
		Destination: destination,
		AccessMode:  accessMode,
	})
	return nil
}

// WithNetwork attaches the container to network under the given aliases.
// Calling it again for the same network adds aliases.
func (b Builder) WithNetwork(network string, aliases ...string) Builder {
	return b.apply(func(d *domain.SpecData) *domain.ConfigurationError {
		if strings.TrimSpace(network) == "" {
			return invalid("WithNetwork", "network", network, "network cannot be empty")
		}

		idx := slices.IndexFunc(d.Networks, func(n domain.NetworkAttachment) bool {
			return n.Network == network
		})
		if idx < 0 {
			d.Networks = append(d.Networks, domain.NetworkAttachment{Network: network})
			idx = len(d.Networks) - 1
		}

		attachment := &d.Networks[idx]
		for _, alias := range aliases {
			if strings.TrimSpace(alias) == "" {
				return invalid("WithNetwork", "alias", alias, "alias cannot be empty")
			}
			if slices.Contains(attachment.Aliases, alias) {
				return invalid("WithNetwork", "alias", alias, "alias already used on network "+network)
			}
			attachment.Aliases = append(attachment.Aliases, alias)
		}
		return nil
	})
}

// WithAutoRemove asks the runtime to delete the container once it stops.
func (b Builder) WithAutoRemove(autoRemove bool) Builder {
	return b.apply(func(d *domain.SpecData) *domain.ConfigurationError {
		d.AutoRemove = autoRemove
		return nil
	})
}

// WithPrivileged runs the container in privileged mode.
func (b Builder) WithPrivileged(privileged bool) Builder {
	return b.apply(func(d *domain.SpecData) *domain.ConfigurationError {
		d.Privileged = privileged
		return nil
	})
}

// WithPullPolicy sets the pull policy. The default pulls when the image is missing.
func (b Builder) WithPullPolicy(policy domain.PullPolicy) Builder {
	return b.apply(func(d *domain.SpecData) *domain.ConfigurationError {
		if policy == nil {
			return invalid("WithPullPolicy", "pullPolicy", "", "pull policy cannot be nil")
		}
		d.PullPolicy = policy
		return nil
	})
}

// WithOutputConsumer streams stdout and stderr of the container to consumer.
// A nil consumer disables streaming.
func (b Builder) WithOutputConsumer(consumer domain.OutputConsumer) Builder {
	return b.apply(func(d *domain.SpecData) *domain.ConfigurationError {
		d.OutputConsumer = consumer
		return nil
	})
}

// WithWaitStrategy appends readiness checks. They run in the order added.
func (b Builder) WithWaitStrategy(strategies ...domain.WaitStrategy) Builder {
	return b.apply(func(d *domain.SpecData) *domain.ConfigurationError {
		for i, s := range strategies {
			if s == nil {
				return invalid("WithWaitStrategy", "waitStrategy", strconv.Itoa(i), "wait strategy cannot be nil")
			}
		}
		d.WaitStrategies = append(d.WaitStrategies, strategies...)
		return nil
	})
}

// WithPayloadModifier appends a function that edits the native creation payload.
// Modifiers run in the order added, right before the container is created.
func (b Builder) WithPayloadModifier(modifier domain.PayloadModifier) Builder {
	return b.apply(func(d *domain.SpecData) *domain.ConfigurationError {
		if modifier == nil {
			return invalid("WithPayloadModifier", "modifier", "", "modifier cannot be nil")
		}
		d.Modifiers = append(d.Modifiers, modifier)
		return nil
	})
}

// WithStartupCallback sets the function run once after start and before the wait strategies.
func (b Builder) WithStartupCallback(callback domain.StartupCallback) Builder {
	return b.apply(func(d *domain.SpecData) *domain.ConfigurationError {
		d.StartupCallback = callback
		return nil
	})
}
