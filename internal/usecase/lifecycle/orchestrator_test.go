package lifecycle

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/ephemera/internal/boundaries/out/mocks"
	"github.com/bnema/ephemera/internal/domain"
	"github.com/bnema/ephemera/internal/usecase/builder"
	"github.com/bnema/ephemera/internal/usecase/ports"
	"github.com/bnema/ephemera/internal/usecase/wait"
)

func testContext() context.Context {
	return zerowrap.WithCtx(context.Background(), zerowrap.Default())
}

type testPayload struct {
	spec  *domain.ContainerSpec
	edits []string
}

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(call string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fixture struct {
	runtime *mocks.MockRuntimeClient
	arena   *ports.Arena
	orch    *Orchestrator
	log     *callLog
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	runtime := mocks.NewMockRuntimeClient(t)
	arena := ports.NewArena("127.0.0.1")
	engine := wait.NewEngine(wait.Policy{
		Timeout:      time.Second,
		PollInterval: 10 * time.Millisecond,
		MaxInterval:  20 * time.Millisecond,
	}, nil)

	runtime.EXPECT().Host().Return("127.0.0.1").Maybe()

	return &fixture{
		runtime: runtime,
		arena:   arena,
		orch: NewOrchestrator(runtime, ports.NewResolver(arena), engine, Config{
			SessionID:       "session-1",
			StopTimeout:     time.Second,
			TeardownTimeout: time.Second,
		}, opts...),
		log: &callLog{},
	}
}

// expectImageCached makes the image available locally.
func (f *fixture) expectImageCached() {
	f.runtime.EXPECT().FindLocalImage(mock.Anything, mock.Anything).
		Return(&domain.CachedImage{ID: "sha256:cached"}, nil).Once()
}

// expectCreate covers payload translation and creation.
func (f *fixture) expectCreate(id string) {
	f.runtime.EXPECT().NewPayload(mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, spec *domain.ContainerSpec, _ []domain.ResolvedBinding) (domain.NativePayload, error) {
			f.log.add("payload")
			return &testPayload{spec: spec}, nil
		}).Once()
	f.runtime.EXPECT().CreateContainer(mock.Anything, mock.Anything).
		RunAndReturn(func(context.Context, domain.NativePayload) (string, error) {
			f.log.add("create")
			return id, nil
		}).Once()
}

func (f *fixture) expectStart(id string, portMap domain.PortMap) {
	f.runtime.EXPECT().StartContainer(mock.Anything, id).
		RunAndReturn(func(context.Context, string) error {
			f.log.add("start")
			return nil
		}).Once()
	f.runtime.EXPECT().InspectPortBindings(mock.Anything, id).Return(portMap, nil).Once()
}

func (f *fixture) expectTeardown(id string, removeErr error) {
	f.runtime.EXPECT().StopContainer(mock.Anything, id, time.Second).
		RunAndReturn(func(ctx context.Context, _ string, _ time.Duration) error {
			f.log.add("stop")
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		}).Once()
	f.runtime.EXPECT().RemoveContainer(mock.Anything, id).
		RunAndReturn(func(ctx context.Context, _ string) error {
			f.log.add("remove")
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return removeErr
		}).Once()
}

func (f *fixture) expectHappyPath(id string, portMap domain.PortMap) {
	f.expectImageCached()
	f.expectCreate(id)
	f.expectStart(id, portMap)
}

func buildSpec(t *testing.T, b builder.Builder) *domain.ContainerSpec {
	t.Helper()
	spec, err := b.Build()
	require.NoError(t, err)
	return spec
}

func tcp(n int) domain.Port { return domain.Port{Number: n, Protocol: domain.ProtocolTCP} }

func freeTCPPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestOrchestrator_Start_Success(t *testing.T) {
	f := newFixture(t)

	spec := buildSpec(t, builder.New().
		WithImage("nginx:1.27").
		WithName("web").
		WithExposedPort("443").
		WithPortBinding("80", true).
		WithNetwork("frontend", "web", "www").
		WithNetwork("backend"))

	f.expectHappyPath("c1", domain.PortMap{tcp(80): {49153}, tcp(443): nil})
	f.runtime.EXPECT().AttachNetwork(mock.Anything, "c1", "frontend", []string{"web", "www"}).
		RunAndReturn(func(context.Context, string, string, []string) error {
			f.log.add("attach frontend")
			return nil
		}).Once()
	f.runtime.EXPECT().AttachNetwork(mock.Anything, "c1", "backend", []string(nil)).
		RunAndReturn(func(context.Context, string, string, []string) error {
			f.log.add("attach backend")
			return nil
		}).Once()

	c, err := f.orch.Start(testContext(), spec)
	require.NoError(t, err)

	assert.Equal(t, domain.StateReady, c.State())
	assert.Equal(t, "c1", c.ID())
	assert.Equal(t, "web", c.Name())
	assert.Equal(t, []string{"payload", "create", "attach frontend", "attach backend", "start"}, f.log.list())

	hostPort, err := c.MappedPort(tcp(80))
	require.NoError(t, err)
	assert.Equal(t, 49153, hostPort)

	endpoint, err := c.Endpoint("80")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:49153", endpoint)

	_, err = c.MappedPort(tcp(443))
	assert.ErrorIs(t, err, domain.ErrPortNotPublished, "exposed-only port has no host mapping")

	assert.Len(t, f.arena.Reserved(c.owner), 1, "random binding reserved until teardown")

	f.expectTeardown("c1", nil)
	f.runtime.EXPECT().DetachNetwork(mock.Anything, "c1", "backend").
		RunAndReturn(func(context.Context, string, string) error {
			f.log.add("detach backend")
			return nil
		}).Once()
	f.runtime.EXPECT().DetachNetwork(mock.Anything, "c1", "frontend").
		RunAndReturn(func(context.Context, string, string) error {
			f.log.add("detach frontend")
			return nil
		}).Once()

	require.NoError(t, c.Terminate(testContext()))
	assert.Equal(t, domain.StateRemoved, c.State())
	assert.Equal(t, []string{"stop", "detach backend", "detach frontend", "remove"}, f.log.list()[5:])
	assert.Empty(t, f.arena.Reserved(c.owner))

	assert.NoError(t, c.Terminate(testContext()), "terminate is idempotent")
}

func TestOrchestrator_Start_LabelsAndFixedBinding(t *testing.T) {
	f := newFixture(t)

	port := freeTCPPort(t)
	spec := buildSpec(t, builder.New().
		WithImage("postgres:16").
		WithName("db").
		WithLabel("team", "payments").
		WithHostPortBinding(port, "5432"))

	f.expectImageCached()
	f.runtime.EXPECT().NewPayload(mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, s *domain.ContainerSpec, bindings []domain.ResolvedBinding) (domain.NativePayload, error) {
			assert.Equal(t, map[string]string{
				"team":               "payments",
				domain.LabelManaged: "true",
				domain.LabelSession: "session-1",
				domain.LabelImage:   "postgres:16",
				domain.LabelName:    "db",
			}, s.Labels())
			assert.Equal(t, []domain.ResolvedBinding{{HostPort: port, Container: tcp(5432)}}, bindings)
			return &testPayload{}, nil
		}).Once()
	f.runtime.EXPECT().CreateContainer(mock.Anything, mock.Anything).Return("c2", nil).Once()
	f.expectStart("c2", domain.PortMap{tcp(5432): {port}})

	c, err := f.orch.Start(testContext(), spec)
	require.NoError(t, err)

	hostPort, err := c.MappedPort(tcp(5432))
	require.NoError(t, err)
	assert.Equal(t, port, hostPort)
	assert.Equal(t, map[string]string{"team": "payments"}, spec.Labels(), "the caller's spec is left untouched")
}

func TestOrchestrator_PullPolicy(t *testing.T) {
	cached := &domain.CachedImage{ID: "sha256:abc"}

	tests := []struct {
		name       string
		policy     domain.PullPolicy
		cached     *domain.CachedImage
		expectPull bool
		wantErr    bool
	}{
		{name: "missing and absent pulls", policy: domain.PullMissing, cached: nil, expectPull: true},
		{name: "missing and cached does not pull", policy: domain.PullMissing, cached: cached},
		{name: "always pulls even when cached", policy: domain.PullAlways, cached: cached, expectPull: true},
		{name: "never and cached uses cache", policy: domain.PullNever, cached: cached},
		{name: "never and absent fails without pulling", policy: domain.PullNever, cached: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			spec := buildSpec(t, builder.New().WithImage("redis:7").WithPullPolicy(tt.policy))

			f.runtime.EXPECT().FindLocalImage(mock.Anything, "redis:7").Return(tt.cached, nil).Once()
			if tt.expectPull {
				f.runtime.EXPECT().PullImage(mock.Anything, "redis:7").Return(nil).Once()
			}

			if tt.wantErr {
				_, err := f.orch.Start(testContext(), spec)
				var imgErr *domain.ImageResolutionError
				require.True(t, errors.As(err, &imgErr), "got %v", err)
				assert.False(t, imgErr.Pulled)
				assert.True(t, errors.Is(err, domain.ErrImageResolution))
				f.runtime.AssertNotCalled(t, "PullImage", mock.Anything, mock.Anything)
				f.runtime.AssertNotCalled(t, "CreateContainer", mock.Anything, mock.Anything)
				return
			}

			f.expectCreate("c")
			f.expectStart("c", domain.PortMap{})

			c, err := f.orch.Start(testContext(), spec)
			require.NoError(t, err)
			assert.Equal(t, domain.StateReady, c.State())
			if !tt.expectPull {
				f.runtime.AssertNotCalled(t, "PullImage", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestOrchestrator_PullPolicyConsultedOnce(t *testing.T) {
	f := newFixture(t)

	var consulted atomic.Int32
	policy := domain.PullPolicyFunc(func(cached *domain.CachedImage) bool {
		consulted.Add(1)
		return false
	})
	spec := buildSpec(t, builder.New().WithImage("alpine").WithPullPolicy(policy))

	f.expectHappyPath("c", domain.PortMap{})

	_, err := f.orch.Start(testContext(), spec)
	require.NoError(t, err)
	assert.Equal(t, int32(1), consulted.Load())
}

func TestOrchestrator_PullFailureIsFatal(t *testing.T) {
	f := newFixture(t)
	spec := buildSpec(t, builder.New().WithImage("ghcr.io/acme/private:1").WithPullPolicy(domain.PullAlways))

	f.runtime.EXPECT().FindLocalImage(mock.Anything, mock.Anything).Return(&domain.CachedImage{ID: "stale"}, nil).Once()
	f.runtime.EXPECT().PullImage(mock.Anything, mock.Anything).Return(errors.New("unauthorized")).Once()

	_, err := f.orch.Start(testContext(), spec)

	var imgErr *domain.ImageResolutionError
	require.True(t, errors.As(err, &imgErr))
	assert.True(t, imgErr.Pulled)
	assert.EqualError(t, imgErr.Err, "unauthorized")

	var orchErr *domain.OrchestrationError
	require.True(t, errors.As(err, &orchErr))
	assert.Equal(t, domain.StateCreating, orchErr.Stage)
	assert.Nil(t, orchErr.Teardown)
}

func TestOrchestrator_WaitChainTimeoutTearsDown(t *testing.T) {
	f := newFixture(t)

	var aSatisfied atomic.Bool
	var aStart atomic.Int64
	a := wait.ForFunc("a", func(context.Context, domain.RunningContainer) error {
		now := time.Now().UnixNano()
		aStart.CompareAndSwap(0, now)
		if time.Duration(now-aStart.Load()) < 50*time.Millisecond {
			return errors.New("warming up")
		}
		aSatisfied.Store(true)
		return nil
	}).WithTimeout(time.Second)
	b := wait.ForFunc("b", func(context.Context, domain.RunningContainer) error {
		return errors.New("never ready")
	}).WithTimeout(200 * time.Millisecond).WithPollInterval(20 * time.Millisecond)

	spec := buildSpec(t, builder.New().WithImage("app:latest").WithAutoRemove(true).WithWaitStrategy(a, b))

	f.runtime.EXPECT().SupportsAutoRemove(mock.Anything).Return(true, nil).Once()
	f.expectHappyPath("c3", domain.PortMap{})
	f.expectTeardown("c3", nil)

	start := time.Now()
	c, err := f.orch.Start(testContext(), spec)
	elapsed := time.Since(start)

	require.Nil(t, c)
	var orchErr *domain.OrchestrationError
	require.True(t, errors.As(err, &orchErr), "got %v", err)
	assert.Equal(t, domain.StateAwaitingReadiness, orchErr.Stage)
	assert.Nil(t, orchErr.Teardown)

	var timeout *domain.WaitTimeoutError
	require.True(t, errors.As(err, &timeout))
	assert.Equal(t, 1, timeout.Index)
	assert.Equal(t, "func b", timeout.Strategy)

	assert.True(t, aSatisfied.Load())
	assert.GreaterOrEqual(t, elapsed, 250*time.Millisecond)
	assert.Less(t, elapsed, 900*time.Millisecond)
	assert.Equal(t, []string{"payload", "create", "start", "stop", "remove"}, f.log.list())
}

func TestOrchestrator_StartupCallbackRunsOnceBeforeWait(t *testing.T) {
	f := newFixture(t)

	var order []string
	var mu sync.Mutex
	record := func(s string) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, s)
	}

	checks := 0
	spec := buildSpec(t, builder.New().
		WithImage("app").
		WithStartupCallback(func(_ context.Context, c domain.RunningContainer) error {
			assert.Equal(t, "c4", c.ID())
			record("callback")
			return nil
		}).
		WithWaitStrategy(wait.ForFunc("ready", func(context.Context, domain.RunningContainer) error {
			record("check")
			checks++
			if checks < 3 {
				return errors.New("not yet")
			}
			return nil
		})))

	f.expectHappyPath("c4", domain.PortMap{})

	_, err := f.orch.Start(testContext(), spec)
	require.NoError(t, err)
	assert.Equal(t, []string{"callback", "check", "check", "check"}, order)
}

func TestOrchestrator_StartupCallbackFailure(t *testing.T) {
	f := newFixture(t)

	spec := buildSpec(t, builder.New().
		WithImage("app").
		WithStartupCallback(func(context.Context, domain.RunningContainer) error {
			return errors.New("seed failed")
		}))

	f.expectHappyPath("c5", domain.PortMap{})
	f.expectTeardown("c5", nil)

	_, err := f.orch.Start(testContext(), spec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "startup callback: seed failed")

	var orchErr *domain.OrchestrationError
	require.True(t, errors.As(err, &orchErr))
	assert.Equal(t, domain.StateAwaitingReadiness, orchErr.Stage)
}

func TestOrchestrator_CancellationDuringWait(t *testing.T) {
	f := newFixture(t)

	spec := buildSpec(t, builder.New().
		WithImage("app").
		WithWaitStrategy(wait.ForFunc("never", func(context.Context, domain.RunningContainer) error {
			return errors.New("no")
		}).WithTimeout(10*time.Second).WithPollInterval(20*time.Millisecond)))

	f.expectHappyPath("c6", domain.PortMap{})
	f.expectTeardown("c6", nil)

	ctx, cancel := context.WithCancel(testContext())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	c, err := f.orch.Start(ctx, spec)

	assert.Nil(t, c)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	var orchErr *domain.OrchestrationError
	require.True(t, errors.As(err, &orchErr))
	assert.Equal(t, domain.StateAwaitingReadiness, orchErr.Stage)
	assert.Nil(t, orchErr.Teardown, "teardown runs on a context detached from the cancelled one")
	assert.Equal(t, []string{"payload", "create", "start", "stop", "remove"}, f.log.list())
}

func TestOrchestrator_TeardownErrorIsAttached(t *testing.T) {
	f := newFixture(t)

	spec := buildSpec(t, builder.New().
		WithImage("app").
		WithWaitStrategy(wait.ForFunc("never", func(context.Context, domain.RunningContainer) error {
			return errors.New("no")
		}).WithTimeout(50*time.Millisecond).WithPollInterval(10*time.Millisecond)))

	f.expectHappyPath("c7", domain.PortMap{})
	f.expectTeardown("c7", errors.New("device busy"))

	_, err := f.orch.Start(testContext(), spec)

	var orchErr *domain.OrchestrationError
	require.True(t, errors.As(err, &orchErr))
	assert.True(t, errors.Is(err, domain.ErrWaitTimeout), "primary error stays the wait timeout")

	require.NotNil(t, orchErr.Teardown)
	assert.Equal(t, []string{"container c7"}, orchErr.Teardown.Leaked)
	assert.True(t, errors.Is(err, domain.ErrTeardown))
}

func TestOrchestrator_ModifiersAppliedInOrder(t *testing.T) {
	f := newFixture(t)

	edit := func(name string) domain.PayloadModifier {
		return func(p domain.NativePayload) {
			tp := p.(*testPayload)
			tp.edits = append(tp.edits, name)
		}
	}
	spec := buildSpec(t, builder.New().
		WithImage("app").
		WithPayloadModifier(edit("first")).
		WithPayloadModifier(edit("second")).
		WithPayloadModifier(func(p domain.NativePayload) {
			tp := p.(*testPayload)
			tp.edits = append(tp.edits, "saw "+tp.edits[len(tp.edits)-1])
		}))

	f.expectImageCached()
	f.runtime.EXPECT().NewPayload(mock.Anything, mock.Anything, mock.Anything).Return(&testPayload{}, nil).Once()
	f.runtime.EXPECT().CreateContainer(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, p domain.NativePayload) (string, error) {
			assert.Equal(t, []string{"first", "second", "saw second"}, p.(*testPayload).edits)
			return "c8", nil
		}).Once()
	f.expectStart("c8", domain.PortMap{})

	_, err := f.orch.Start(testContext(), spec)
	require.NoError(t, err)
}

func TestOrchestrator_NetworkAttachFailure(t *testing.T) {
	f := newFixture(t)

	spec := buildSpec(t, builder.New().WithImage("app").WithNetwork("a").WithNetwork("missing"))

	f.expectImageCached()
	f.expectCreate("c9")
	f.runtime.EXPECT().AttachNetwork(mock.Anything, "c9", "a", []string(nil)).Return(nil).Once()
	f.runtime.EXPECT().AttachNetwork(mock.Anything, "c9", "missing", []string(nil)).Return(errors.New("network missing not found")).Once()
	f.runtime.EXPECT().DetachNetwork(mock.Anything, "c9", "a").Return(nil).Once()
	f.runtime.EXPECT().RemoveContainer(mock.Anything, "c9").Return(nil).Once()

	_, err := f.orch.Start(testContext(), spec)

	var netErr *domain.NetworkAttachmentError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, "missing", netErr.Network)

	var orchErr *domain.OrchestrationError
	require.True(t, errors.As(err, &orchErr))
	assert.Equal(t, domain.StateCreated, orchErr.Stage)
	f.runtime.AssertNotCalled(t, "StartContainer", mock.Anything, mock.Anything)
}

func TestOrchestrator_StartPortConflict(t *testing.T) {
	f := newFixture(t)

	spec := buildSpec(t, builder.New().WithImage("app").WithPortBinding("80", true))
	conflict := &domain.PortConflictError{HostPort: 8080, Protocol: domain.ProtocolTCP, Err: errors.New("port is already allocated")}

	f.expectImageCached()
	f.expectCreate("c10")
	f.runtime.EXPECT().StartContainer(mock.Anything, "c10").Return(conflict).Once()
	f.runtime.EXPECT().RemoveContainer(mock.Anything, "c10").Return(nil).Once()

	_, err := f.orch.Start(testContext(), spec)

	assert.ErrorIs(t, err, domain.ErrPortConflict)
	var orchErr *domain.OrchestrationError
	require.True(t, errors.As(err, &orchErr))
	assert.Equal(t, domain.StateStarting, orchErr.Stage)
	f.runtime.AssertNotCalled(t, "StopContainer", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrchestrator_CreateFailureReleasesPorts(t *testing.T) {
	f := newFixture(t)

	port := freeTCPPort(t)
	spec := buildSpec(t, builder.New().WithImage("app").WithHostPortBinding(port, "80"))

	f.expectImageCached()
	f.runtime.EXPECT().NewPayload(mock.Anything, mock.Anything, mock.Anything).Return(&testPayload{}, nil).Once()
	f.runtime.EXPECT().CreateContainer(mock.Anything, mock.Anything).
		Return("", &domain.MountAttachmentError{Mount: domain.Mount{Kind: domain.MountBind, Source: "/nope", Destination: "/data"}, Err: errors.New("no such file")}).Once()

	_, err := f.orch.Start(testContext(), spec)
	assert.ErrorIs(t, err, domain.ErrMountAttachment)
	f.runtime.AssertNotCalled(t, "RemoveContainer", mock.Anything, mock.Anything)

	assert.NoError(t, f.arena.Claim("next", port, domain.ProtocolTCP), "host port is free again")
}

func TestOrchestrator_AutoRemoveUnsupported(t *testing.T) {
	f := newFixture(t)

	spec := buildSpec(t, builder.New().WithImage("app").WithAutoRemove(true))

	f.runtime.EXPECT().SupportsAutoRemove(mock.Anything).Return(false, nil).Once()
	f.expectImageCached()
	f.runtime.EXPECT().NewPayload(mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, s *domain.ContainerSpec, _ []domain.ResolvedBinding) (domain.NativePayload, error) {
			assert.False(t, s.AutoRemove())
			return &testPayload{}, nil
		}).Once()
	f.runtime.EXPECT().CreateContainer(mock.Anything, mock.Anything).Return("c11", nil).Once()
	f.expectStart("c11", domain.PortMap{})

	_, err := f.orch.Start(testContext(), spec)
	require.NoError(t, err)
}

type bufferConsumer struct {
	out, err io.Writer
}

func (b bufferConsumer) Stdout() io.Writer { return b.out }
func (b bufferConsumer) Stderr() io.Writer { return b.err }

// writerFunc hides the buffer behind a func so mock argument formatting never
// reads it while the follower writes.
type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

func TestOrchestrator_OutputConsumerFollowsUntilTeardown(t *testing.T) {
	f := newFixture(t)

	var stdout, stderr syncBuffer
	spec := buildSpec(t, builder.New().WithImage("app").WithOutputConsumer(bufferConsumer{out: writerFunc(stdout.Write), err: writerFunc(stderr.Write)}))

	f.expectHappyPath("c12", domain.PortMap{})

	followStopped := make(chan struct{})
	f.runtime.EXPECT().StreamLogs(mock.Anything, "c12", true, mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, _ string, _ bool, o, e io.Writer) error {
			_, _ = o.Write([]byte("hello\n"))
			_, _ = e.Write([]byte("warn\n"))
			<-ctx.Done()
			close(followStopped)
			return ctx.Err()
		}).Once()

	c, err := f.orch.Start(testContext(), spec)
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return len(stdout.Bytes()) > 0 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "hello\n", string(stdout.Bytes()))

	f.expectTeardown("c12", nil)
	require.NoError(t, c.Terminate(testContext()))

	select {
	case <-followStopped:
	case <-time.After(time.Second):
		t.Fatal("log follower was not stopped")
	}
	assert.Equal(t, "warn\n", string(stderr.Bytes()))
}

func TestOrchestrator_StopThenRemove(t *testing.T) {
	f := newFixture(t)
	spec := buildSpec(t, builder.New().WithImage("app"))

	f.expectHappyPath("c13", domain.PortMap{})
	c, err := f.orch.Start(testContext(), spec)
	require.NoError(t, err)

	f.expectTeardown("c13", nil)

	require.NoError(t, c.Stop(testContext()))
	assert.Equal(t, domain.StateStopping, c.State())
	f.runtime.AssertNotCalled(t, "RemoveContainer", mock.Anything, mock.Anything)

	require.NoError(t, c.Stop(testContext()), "stopping twice is a no-op")

	require.NoError(t, c.Remove(testContext()))
	assert.Equal(t, domain.StateRemoved, c.State())
	assert.Equal(t, []string{"payload", "create", "start", "stop", "remove"}, f.log.list())
}

func TestOrchestrator_TerminateFailureReportsLeak(t *testing.T) {
	f := newFixture(t)
	spec := buildSpec(t, builder.New().WithImage("app"))

	f.expectHappyPath("c14", domain.PortMap{})
	c, err := f.orch.Start(testContext(), spec)
	require.NoError(t, err)

	f.expectTeardown("c14", errors.New("engine gone"))

	err = c.Terminate(testContext())
	var orchErr *domain.OrchestrationError
	require.True(t, errors.As(err, &orchErr))
	assert.Equal(t, domain.StateStopping, orchErr.Stage)
	require.NotNil(t, orchErr.Teardown)
	assert.Equal(t, []string{"container c14"}, orchErr.Teardown.Leaked)
	assert.Equal(t, domain.StateFailed, c.State())

	f.runtime.EXPECT().RemoveContainer(mock.Anything, "c14").Return(nil).Once()
	require.NoError(t, c.Remove(testContext()), "leaked container is removed on retry")
	require.NoError(t, c.Remove(testContext()), "nothing left to retry")
	assert.Equal(t, domain.StateFailed, c.State())
}

func TestContainer_ExecLogsRunning(t *testing.T) {
	f := newFixture(t)
	spec := buildSpec(t, builder.New().WithImage("app"))

	f.expectHappyPath("c15", domain.PortMap{})
	c, err := f.orch.Start(testContext(), spec)
	require.NoError(t, err)

	f.runtime.EXPECT().ExecuteCommand(mock.Anything, "c15", []string{"echo", "hi"}).
		Return(&domain.ExecResult{ExitCode: 0, Stdout: []byte("hi\n")}, nil).Once()
	f.runtime.EXPECT().StreamLogs(mock.Anything, "c15", false, mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, _ string, _ bool, o, e io.Writer) error {
			_, _ = o.Write([]byte("out "))
			_, _ = e.Write([]byte("err"))
			return nil
		}).Once()
	f.runtime.EXPECT().IsRunning(mock.Anything, "c15").Return(true, nil).Once()

	res, err := c.Exec(testContext(), "echo", "hi")
	require.NoError(t, err)
	assert.Equal(t, "hi\n", string(res.Stdout))

	_, err = c.Exec(testContext())
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	logs, err := c.Logs(testContext())
	require.NoError(t, err)
	assert.Equal(t, "out err", string(logs))

	running, err := c.IsRunning(testContext())
	require.NoError(t, err)
	assert.True(t, running)
}

func TestOrchestrator_PublishesStateEvents(t *testing.T) {
	events := mocks.NewMockEventPublisher(t)
	f := newFixture(t, WithEventPublisher(events))

	var mu sync.Mutex
	var transitions []domain.State
	events.EXPECT().Publish(domain.EventContainerState, mock.Anything).
		RunAndReturn(func(_ domain.EventType, payload interface{}) error {
			p := payload.(domain.ContainerStatePayload)
			mu.Lock()
			transitions = append(transitions, p.To)
			mu.Unlock()
			return nil
		})

	spec := buildSpec(t, builder.New().WithImage("app"))
	f.expectHappyPath("c16", domain.PortMap{})

	c, err := f.orch.Start(testContext(), spec)
	require.NoError(t, err)

	f.expectTeardown("c16", nil)
	require.NoError(t, c.Terminate(testContext()))

	assert.Equal(t, []domain.State{
		domain.StateCreating, domain.StateCreated, domain.StateStarting,
		domain.StateAwaitingReadiness, domain.StateReady,
		domain.StateStopping, domain.StateRemoved,
	}, transitions)
}

func TestOrchestrator_Prune(t *testing.T) {
	f := newFixture(t)

	f.runtime.EXPECT().ListManaged(mock.Anything, map[string]string{
		domain.LabelManaged: "true",
		domain.LabelSession: "old-session",
	}).Return([]string{"a", "b", "c"}, nil).Once()
	f.runtime.EXPECT().RemoveContainer(mock.Anything, "a").Return(nil).Once()
	f.runtime.EXPECT().RemoveContainer(mock.Anything, "b").Return(errors.New("busy")).Once()
	f.runtime.EXPECT().RemoveContainer(mock.Anything, "c").Return(nil).Once()

	removed, err := f.orch.Prune(testContext(), "old-session")
	assert.Equal(t, 2, removed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remove b: busy")
}

func TestOrchestrator_PruneAllSessions(t *testing.T) {
	f := newFixture(t)

	f.runtime.EXPECT().ListManaged(mock.Anything, map[string]string{domain.LabelManaged: "true"}).Return(nil, nil).Once()

	removed, err := f.orch.Prune(testContext(), "")
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestNewOrchestrator_Defaults(t *testing.T) {
	o := NewOrchestrator(mocks.NewMockRuntimeClient(t), nil, nil, Config{})

	assert.NotEmpty(t, o.SessionID())
	assert.Equal(t, DefaultStopTimeout, o.config.StopTimeout)
	assert.Equal(t, DefaultTeardownTimeout, o.config.TeardownTimeout)
	assert.Same(t, ports.DefaultArena(), o.resolver.Arena())
}
