package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Domain errors represent the failure classes of container provisioning.
// Typed errors below match these sentinels through errors.Is.
var (
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrImageResolution    = errors.New("image resolution failed")
	ErrPortConflict       = errors.New("port conflict")
	ErrMountAttachment    = errors.New("mount attachment failed")
	ErrNetworkAttachment  = errors.New("network attachment failed")
	ErrWaitTimeout        = errors.New("wait strategy timed out")
	ErrTeardown           = errors.New("teardown failed")
	ErrIllegalTransition  = errors.New("illegal state transition")
	ErrContainerNotFound  = errors.New("container not found")
	ErrContainerNotReady  = errors.New("container is not ready")
	ErrPortNotPublished   = errors.New("port is not published")
	ErrRuntimeUnavailable = errors.New("container runtime unavailable")
)

// ConfigurationError reports an invalid option. Op names the builder call.
type ConfigurationError struct {
	Op     string
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("invalid configuration")
	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": %s", e.Field)
		if e.Value != "" {
			fmt.Fprintf(&b, " %q", e.Value)
		}
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	return b.String()
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrInvalidConfig }

// ImageResolutionError reports a failed local lookup or pull.
type ImageResolutionError struct {
	Image  string
	Pulled bool
	Err    error
}

func (e *ImageResolutionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("image %s is not available locally and the pull policy forbids pulling", e.Image)
	}
	if e.Pulled {
		return fmt.Sprintf("failed to pull image %s: %v", e.Image, e.Err)
	}
	return fmt.Sprintf("failed to resolve image %s: %v", e.Image, e.Err)
}

func (e *ImageResolutionError) Unwrap() error        { return e.Err }
func (e *ImageResolutionError) Is(target error) bool { return target == ErrImageResolution }

// PortConflictError reports a host port that is already taken.
type PortConflictError struct {
	HostPort int
	Protocol Protocol
	Holder   string
	Err      error
}

func (e *PortConflictError) Error() string {
	msg := fmt.Sprintf("host port %d/%s is already in use", e.HostPort, e.Protocol)
	if e.HostPort == 0 {
		msg = "host port is already in use"
	}
	if e.Holder != "" {
		msg += " by " + e.Holder
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PortConflictError) Unwrap() error        { return e.Err }
func (e *PortConflictError) Is(target error) bool { return target == ErrPortConflict }

// MountAttachmentError reports a mount the runtime could not attach.
type MountAttachmentError struct {
	Mount Mount
	Err   error
}

func (e *MountAttachmentError) Error() string {
	return fmt.Sprintf("failed to attach mount %s: %v", e.Mount, e.Err)
}

func (e *MountAttachmentError) Unwrap() error        { return e.Err }
func (e *MountAttachmentError) Is(target error) bool { return target == ErrMountAttachment }

// NetworkAttachmentError reports a network the container could not join or leave.
type NetworkAttachmentError struct {
	Network string
	Err     error
}

func (e *NetworkAttachmentError) Error() string {
	return fmt.Sprintf("failed to attach network %s: %v", e.Network, e.Err)
}

func (e *NetworkAttachmentError) Unwrap() error        { return e.Err }
func (e *NetworkAttachmentError) Is(target error) bool { return target == ErrNetworkAttachment }

// WaitTimeoutError reports the readiness check that did not pass in time.
type WaitTimeoutError struct {
	Strategy string
	Index    int
	Elapsed  time.Duration
	Timeout  time.Duration
	LastErr  error
}

func (e *WaitTimeoutError) Error() string {
	msg := fmt.Sprintf("wait strategy #%d (%s) not satisfied after %s (timeout %s)",
		e.Index, e.Strategy, e.Elapsed.Round(time.Millisecond), e.Timeout)
	if e.LastErr != nil {
		msg += ": last error: " + e.LastErr.Error()
	}
	return msg
}

func (e *WaitTimeoutError) Unwrap() error        { return e.LastErr }
func (e *WaitTimeoutError) Is(target error) bool { return target == ErrWaitTimeout }

// TeardownError collects the failures of a best-effort cleanup.
// Leaked lists resources that may still exist. Remove on the container handle
// retries them; after Start fails they need manual cleanup or a prune.
type TeardownError struct {
	Leaked []string
	Errs   []error
}

func (e *TeardownError) Error() string {
	parts := make([]string, 0, len(e.Errs))
	for _, err := range e.Errs {
		parts = append(parts, err.Error())
	}
	msg := "teardown failed: " + strings.Join(parts, "; ")
	if len(e.Leaked) > 0 {
		msg += " (leaked: " + strings.Join(e.Leaked, ", ") + ")"
	}
	return msg
}

func (e *TeardownError) Unwrap() []error      { return e.Errs }
func (e *TeardownError) Is(target error) bool { return target == ErrTeardown }

// OrchestrationError is the error returned when a container fails to become ready.
// Err is the primary failure; Teardown is set when cleanup itself failed.
type OrchestrationError struct {
	Stage    State
	Err      error
	Teardown *TeardownError
}

func (e *OrchestrationError) Error() string {
	msg := fmt.Sprintf("container failed while %s: %v", e.Stage, e.Err)
	if e.Teardown != nil {
		msg += "; " + e.Teardown.Error()
	}
	return msg
}

func (e *OrchestrationError) Unwrap() []error {
	if e.Teardown == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Teardown}
}
