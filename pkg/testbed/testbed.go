// Package testbed starts disposable containers from Go tests.
//
// A typical test builds a spec, starts it and lets the test cleanup remove it:
//
//	func TestRedis(t *testing.T) {
//		tb := testbed.NewT(t)
//		redis := tb.Run(t, testbed.NewBuilder().
//			WithImage("redis:7").
//			WithPortBinding("6379", true).
//			WithWaitStrategy(testbed.ForListeningPort("6379")))
//		addr, _ := redis.Endpoint("6379")
//		...
//	}
//
// Settings come from ephemera.toml and EPHEMERA_* environment variables, the
// same way the ephemera command reads them.
package testbed

import (
	"regexp"

	"github.com/bnema/ephemera/internal/adapters/out/docker"
	"github.com/bnema/ephemera/internal/domain"
	"github.com/bnema/ephemera/internal/usecase/builder"
	"github.com/bnema/ephemera/internal/usecase/lifecycle"
	"github.com/bnema/ephemera/internal/usecase/wait"
)

type (
	// Builder accumulates container options. Every With method returns a new Builder.
	Builder = builder.Builder
	// Spec is an immutable, validated container description.
	Spec = domain.ContainerSpec
	// Container is a started container.
	Container = lifecycle.Container
	// RunningContainer is what startup callbacks and custom checks see.
	RunningContainer = domain.RunningContainer
	// ExecResult is the outcome of Container.Exec.
	ExecResult = domain.ExecResult
	// OutputConsumer receives the container output.
	OutputConsumer = domain.OutputConsumer
	// PullPolicy decides whether an image is pulled before creation.
	PullPolicy = domain.PullPolicy
	// PullPolicyFunc adapts a function to PullPolicy.
	PullPolicyFunc = domain.PullPolicyFunc
	// CachedImage describes a local image handed to a PullPolicy.
	CachedImage = domain.CachedImage
	// AccessMode is the permission a container has on a mount.
	AccessMode = domain.AccessMode
	// WaitStrategy is a readiness check.
	WaitStrategy = domain.WaitStrategy
	// State is a lifecycle state of a container.
	State = domain.State
	// Payload is the Docker creation request edited by Modify.
	Payload = docker.Payload
)

// Readiness checks, see the constructors below.
type (
	PortStrategy    = wait.PortStrategy
	LogStrategy     = wait.LogStrategy
	HTTPStrategy    = wait.HTTPStrategy
	ExecStrategy    = wait.ExecStrategy
	RunningStrategy = wait.RunningStrategy
	FuncStrategy    = wait.FuncStrategy
	CheckFunc       = wait.CheckFunc
)

var (
	PullNever   = domain.PullNever
	PullMissing = domain.PullMissing
	PullAlways  = domain.PullAlways
)

const (
	ReadWrite = domain.ReadWrite
	ReadOnly  = domain.ReadOnly
)

// Errors returned by Start, matched with errors.Is.
var (
	ErrInvalidConfig     = domain.ErrInvalidConfig
	ErrImageResolution   = domain.ErrImageResolution
	ErrPortConflict      = domain.ErrPortConflict
	ErrMountAttachment   = domain.ErrMountAttachment
	ErrNetworkAttachment = domain.ErrNetworkAttachment
	ErrWaitTimeout       = domain.ErrWaitTimeout
	ErrTeardown          = domain.ErrTeardown
	ErrPortNotPublished  = domain.ErrPortNotPublished
)

// NewBuilder returns an empty builder.
func NewBuilder() Builder {
	return builder.New()
}

// Modify returns a payload modifier for options the builder does not cover.
func Modify(fn func(p *Payload)) domain.PayloadModifier {
	return docker.Modify(fn)
}

func ForListeningPort(port string) PortStrategy { return wait.ForListeningPort(port) }

func ForLog(text string) LogStrategy { return wait.ForLog(text) }

func ForLogPattern(pattern *regexp.Regexp) LogStrategy { return wait.ForLogPattern(pattern) }

// ForHTTP probes path on 80/tcp; use WithPort for another port.
func ForHTTP(path string) HTTPStrategy { return wait.ForHTTP(path) }

func ForExec(cmd ...string) ExecStrategy { return wait.ForExec(cmd...) }

func ForRunning() RunningStrategy { return wait.ForRunning() }

// ForFunc wraps a custom check, retried until it returns nil.
func ForFunc(name string, fn CheckFunc) FuncStrategy { return wait.ForFunc(name, fn) }
