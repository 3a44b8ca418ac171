package domain

import (
	"maps"
	"slices"
)

// SpecData is the plain record a ContainerSpec is made from.
// It is copied on the way in and on the way out.
type SpecData struct {
	Image           string
	Name            string
	Hostname        string
	WorkingDir      string
	Entrypoint      []string
	Command         []string
	Env             map[string]string
	Labels          map[string]string
	ExposedPorts    []Port
	PortBindings    []PortBinding
	Mounts          []Mount
	Networks        []NetworkAttachment
	AutoRemove      bool
	Privileged      bool
	PullPolicy      PullPolicy
	OutputConsumer  OutputConsumer
	WaitStrategies  []WaitStrategy
	Modifiers       []PayloadModifier
	StartupCallback StartupCallback
}

// Clone returns a deep copy of d. Function values and interfaces are shared.
func (d SpecData) Clone() SpecData {
	d.Entrypoint = slices.Clone(d.Entrypoint)
	d.Command = slices.Clone(d.Command)
	d.Env = maps.Clone(d.Env)
	d.Labels = maps.Clone(d.Labels)
	d.ExposedPorts = slices.Clone(d.ExposedPorts)
	d.PortBindings = slices.Clone(d.PortBindings)
	d.Mounts = slices.Clone(d.Mounts)
	d.Networks = cloneNetworks(d.Networks)
	d.WaitStrategies = slices.Clone(d.WaitStrategies)
	d.Modifiers = slices.Clone(d.Modifiers)
	return d
}

func cloneNetworks(in []NetworkAttachment) []NetworkAttachment {
	if in == nil {
		return nil
	}
	out := make([]NetworkAttachment, len(in))
	for i, n := range in {
		out[i] = NetworkAttachment{Network: n.Network, Aliases: slices.Clone(n.Aliases)}
	}
	return out
}

// ContainerSpec is the frozen description of a container to provision.
// It has no setters; every accessor returns a copy.
type ContainerSpec struct {
	data SpecData
}

// NewContainerSpec freezes d. Callers normally go through the builder, which
// validates the data first.
func NewContainerSpec(d SpecData) *ContainerSpec {
	return &ContainerSpec{data: d.Clone()}
}

// Data returns a copy of the underlying record.
func (s *ContainerSpec) Data() SpecData { return s.data.Clone() }

func (s *ContainerSpec) Image() string      { return s.data.Image }
func (s *ContainerSpec) Name() string       { return s.data.Name }
func (s *ContainerSpec) Hostname() string   { return s.data.Hostname }
func (s *ContainerSpec) WorkingDir() string { return s.data.WorkingDir }
func (s *ContainerSpec) AutoRemove() bool   { return s.data.AutoRemove }
func (s *ContainerSpec) Privileged() bool   { return s.data.Privileged }

func (s *ContainerSpec) Entrypoint() []string { return slices.Clone(s.data.Entrypoint) }
func (s *ContainerSpec) Command() []string    { return slices.Clone(s.data.Command) }

func (s *ContainerSpec) Env() map[string]string    { return maps.Clone(s.data.Env) }
func (s *ContainerSpec) Labels() map[string]string { return maps.Clone(s.data.Labels) }

func (s *ContainerSpec) ExposedPorts() []Port        { return slices.Clone(s.data.ExposedPorts) }
func (s *ContainerSpec) PortBindings() []PortBinding { return slices.Clone(s.data.PortBindings) }
func (s *ContainerSpec) Mounts() []Mount             { return slices.Clone(s.data.Mounts) }
func (s *ContainerSpec) Networks() []NetworkAttachment {
	return cloneNetworks(s.data.Networks)
}

// PullPolicy returns the configured policy, PullMissing when unset.
func (s *ContainerSpec) PullPolicy() PullPolicy {
	return s.PullPolicyOr(PullMissing)
}

// PullPolicyOr returns the configured policy, fallback when unset.
func (s *ContainerSpec) PullPolicyOr(fallback PullPolicy) PullPolicy {
	if s.data.PullPolicy == nil {
		return fallback
	}
	return s.data.PullPolicy
}

func (s *ContainerSpec) OutputConsumer() OutputConsumer   { return s.data.OutputConsumer }
func (s *ContainerSpec) StartupCallback() StartupCallback { return s.data.StartupCallback }

func (s *ContainerSpec) WaitStrategies() []WaitStrategy { return slices.Clone(s.data.WaitStrategies) }
func (s *ContainerSpec) Modifiers() []PayloadModifier   { return slices.Clone(s.data.Modifiers) }

// EnvList renders the environment as sorted KEY=VALUE pairs.
func (s *ContainerSpec) EnvList() []string {
	keys := slices.Sorted(maps.Keys(s.data.Env))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+s.data.Env[k])
	}
	return out
}

// PublishedPort reports whether p has a host binding.
func (s *ContainerSpec) PublishedPort(p Port) bool {
	for _, b := range s.data.PortBindings {
		if b.Container == p {
			return true
		}
	}
	return false
}
