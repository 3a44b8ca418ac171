package testbed

import (
	"context"
	"testing"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/docker/docker/api/types/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/ephemera/internal/app"
	"github.com/bnema/ephemera/internal/boundaries/out/mocks"
	"github.com/bnema/ephemera/internal/domain"
)

func newTestLauncher(t *testing.T) (*Launcher, *mocks.MockRuntimeClient) {
	t.Helper()

	var cfg app.Config
	cfg.Logging.Containers.Dir = t.TempDir()
	cfg.Session.ID = "testbed-session"
	cfg.Stop.Timeout = time.Second
	cfg.Teardown.Timeout = time.Second

	runtime := mocks.NewMockRuntimeClient(t)
	runtime.EXPECT().Host().Return("127.0.0.1").Maybe()

	kernel, err := app.NewKernelWithRuntime(context.Background(), cfg, zerowrap.New(zerowrap.Config{Level: "warn"}), runtime)
	require.NoError(t, err)
	return newLauncher(kernel), runtime
}

func expectStart(runtime *mocks.MockRuntimeClient, id string) {
	runtime.EXPECT().FindLocalImage(mock.Anything, mock.Anything).
		Return(&domain.CachedImage{ID: "sha256:" + id}, nil).Once()
	runtime.EXPECT().NewPayload(mock.Anything, mock.Anything, mock.Anything).
		Return(&Payload{Config: &container.Config{}}, nil).Once()
	runtime.EXPECT().CreateContainer(mock.Anything, mock.Anything).Return(id, nil).Once()
	runtime.EXPECT().StartContainer(mock.Anything, id).Return(nil).Once()
	runtime.EXPECT().InspectPortBindings(mock.Anything, id).Return(domain.PortMap{}, nil).Once()
}

func expectTeardown(runtime *mocks.MockRuntimeClient, id string) {
	runtime.EXPECT().StopContainer(mock.Anything, id, time.Second).Return(nil).Once()
	runtime.EXPECT().RemoveContainer(mock.Anything, id).Return(nil).Once()
}

func TestLauncher_StartAndClose(t *testing.T) {
	l, runtime := newTestLauncher(t)
	expectStart(runtime, "c1")
	expectTeardown(runtime, "c1")

	var edited bool
	c, err := l.Start(context.Background(), NewBuilder().
		WithImage("alpine:3").
		WithPayloadModifier(Modify(func(p *Payload) {
			p.Config.User = "nobody"
			edited = true
		})))
	require.NoError(t, err)

	assert.Equal(t, "c1", c.ID())
	assert.Equal(t, domain.StateReady, c.State())
	assert.True(t, edited)
	assert.Equal(t, "testbed-session", l.SessionID())

	require.NoError(t, l.Close(context.Background()))
	assert.Equal(t, domain.StateRemoved, c.State())
	assert.NoError(t, l.Close(context.Background()), "close is idempotent")

	_, err = l.Start(context.Background(), NewBuilder().WithImage("alpine:3"))
	assert.ErrorContains(t, err, "launcher is closed")
}

func TestLauncher_CloseSkipsTerminated(t *testing.T) {
	l, runtime := newTestLauncher(t)
	expectStart(runtime, "c1")
	expectTeardown(runtime, "c1")

	c, err := l.Start(context.Background(), NewBuilder().WithImage("alpine:3"))
	require.NoError(t, err)
	require.NoError(t, c.Terminate(context.Background()))

	require.NoError(t, l.Close(context.Background()))
}

func TestLauncher_StartInvalidBuilder(t *testing.T) {
	l, runtime := newTestLauncher(t)
	t.Cleanup(func() { _ = l.Close(context.Background()) })

	_, err := l.Start(context.Background(), NewBuilder())
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = l.StartAll(context.Background(),
		NewBuilder().WithImage("alpine:3"),
		NewBuilder().WithImage("redis:7").WithWaitStrategy(ForListeningPort("6379")),
	)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorContains(t, err, "builder 1")

	runtime.AssertNotCalled(t, "CreateContainer", mock.Anything, mock.Anything)
}

func TestLauncher_StartAll(t *testing.T) {
	l, runtime := newTestLauncher(t)

	runtime.EXPECT().FindLocalImage(mock.Anything, mock.Anything).
		Return(&domain.CachedImage{ID: "sha256:cached"}, nil).Times(2)
	runtime.EXPECT().NewPayload(mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, spec *domain.ContainerSpec, _ []domain.ResolvedBinding) (domain.NativePayload, error) {
			return &Payload{Name: spec.Name(), Config: &container.Config{}}, nil
		}).Times(2)
	runtime.EXPECT().CreateContainer(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, payload domain.NativePayload) (string, error) {
			return "id-" + payload.(*Payload).Name, nil
		}).Times(2)
	for _, id := range []string{"id-db", "id-cache"} {
		runtime.EXPECT().StartContainer(mock.Anything, id).Return(nil).Once()
		runtime.EXPECT().InspectPortBindings(mock.Anything, id).Return(domain.PortMap{}, nil).Once()
		expectTeardown(runtime, id)
	}

	containers, err := l.StartAll(context.Background(),
		NewBuilder().WithImage("postgres:16").WithName("db"),
		NewBuilder().WithImage("redis:7").WithName("cache"),
	)
	require.NoError(t, err)
	require.Len(t, containers, 2)
	assert.Equal(t, "id-db", containers[0].ID())
	assert.Equal(t, "id-cache", containers[1].ID())

	require.NoError(t, l.Close(context.Background()))
}

func TestLauncher_Prune(t *testing.T) {
	l, runtime := newTestLauncher(t)
	t.Cleanup(func() { _ = l.Close(context.Background()) })

	runtime.EXPECT().ListManaged(mock.Anything, mock.MatchedBy(func(labels map[string]string) bool {
		return labels[domain.LabelSession] == "testbed-session"
	})).Return([]string{"old1", "old2"}, nil).Once()
	runtime.EXPECT().RemoveContainer(mock.Anything, "old1").Return(nil).Once()
	runtime.EXPECT().RemoveContainer(mock.Anything, "old2").Return(nil).Once()

	removed, err := l.Prune(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
}
