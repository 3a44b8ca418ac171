package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTypedErrors_MatchSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"configuration", &ConfigurationError{Op: "WithImage", Reason: "empty"}, ErrInvalidConfig},
		{"image", &ImageResolutionError{Image: "redis:7"}, ErrImageResolution},
		{"port", &PortConflictError{HostPort: 8080, Protocol: ProtocolTCP}, ErrPortConflict},
		{"mount", &MountAttachmentError{Mount: Mount{Kind: MountBind}, Err: errors.New("x")}, ErrMountAttachment},
		{"network", &NetworkAttachmentError{Network: "n", Err: errors.New("x")}, ErrNetworkAttachment},
		{"wait", &WaitTimeoutError{Strategy: "log", Timeout: time.Second}, ErrWaitTimeout},
		{"teardown", &TeardownError{Errs: []error{errors.New("x")}}, ErrTeardown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("context: %w", tt.err)
			assert.True(t, errors.Is(wrapped, tt.sentinel))
		})
	}
}

func TestOrchestrationError_KeepsPrimaryAndTeardown(t *testing.T) {
	primary := &WaitTimeoutError{Strategy: "port 80/tcp", Index: 1, Timeout: 200 * time.Millisecond}
	teardown := &TeardownError{Leaked: []string{"container abc"}, Errs: []error{errors.New("remove failed")}}

	err := error(&OrchestrationError{Stage: StateAwaitingReadiness, Err: primary, Teardown: teardown})

	var waitErr *WaitTimeoutError
	assert.True(t, errors.As(err, &waitErr))
	assert.Equal(t, 1, waitErr.Index)

	var tdErr *TeardownError
	assert.True(t, errors.As(err, &tdErr))
	assert.Equal(t, []string{"container abc"}, tdErr.Leaked)

	assert.Contains(t, err.Error(), "awaiting_readiness")
	assert.Contains(t, err.Error(), "leaked: container abc")
}

func TestImageResolutionError_Message(t *testing.T) {
	assert.Contains(t, (&ImageResolutionError{Image: "a:b"}).Error(), "forbids pulling")
	assert.Contains(t, (&ImageResolutionError{Image: "a:b", Pulled: true, Err: errors.New("denied")}).Error(), "failed to pull")
}
