package ports

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/ephemera/internal/domain"
)

func TestArena_ReserveConcurrentDistinct(t *testing.T) {
	arena := NewArena("127.0.0.1")

	const n = 32
	ports := make([]int, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			port, err := arena.Reserve(fmt.Sprintf("owner-%d", i), domain.ProtocolTCP)
			ports[i] = port
			return err
		})
	}
	require.NoError(t, g.Wait())

	seen := make(map[int]bool, n)
	for _, p := range ports {
		assert.False(t, seen[p], "port %d assigned twice", p)
		seen[p] = true
		assert.GreaterOrEqual(t, p, 1024, "kernel-assigned ports lie in the ephemeral range")
		assert.LessOrEqual(t, p, domain.MaxPort)
	}
}

func TestArena_ReserveUDP(t *testing.T) {
	arena := NewArena("127.0.0.1")

	port, err := arena.Reserve("owner", domain.ProtocolUDP)
	require.NoError(t, err)
	assert.Positive(t, port)
	assert.Equal(t, []int{port}, arena.Reserved("owner"))
}

func TestArena_ReserveSCTPUnsupported(t *testing.T) {
	_, err := NewArena("").Reserve("owner", domain.ProtocolSCTP)
	assert.ErrorIs(t, err, ErrUnsupportedProtocol)
}

func TestArena_ClaimConflicts(t *testing.T) {
	arena := NewArena("127.0.0.1")

	port, err := arena.Reserve("first", domain.ProtocolTCP)
	require.NoError(t, err)

	err = arena.Claim("second", port, domain.ProtocolTCP)
	var conflict *domain.PortConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "first", conflict.Holder)
	assert.Equal(t, port, conflict.HostPort)
	assert.True(t, errors.Is(err, domain.ErrPortConflict))

	assert.NoError(t, arena.Claim("first", port, domain.ProtocolTCP), "owner re-claiming its port")
}

func TestArena_ClaimLiveListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	arena := NewArena("127.0.0.1")
	err = arena.Claim("owner", port, domain.ProtocolTCP)
	assert.ErrorIs(t, err, domain.ErrPortConflict)
	assert.Empty(t, arena.Reserved("owner"))
}

func TestArena_ClaimSameNumberOtherProtocol(t *testing.T) {
	arena := NewArena("127.0.0.1")

	port, err := arena.Reserve("a", domain.ProtocolUDP)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	if err != nil {
		t.Skipf("tcp port %d busy on this host", port)
	}
	ln.Close()

	assert.NoError(t, arena.Claim("b", port, domain.ProtocolTCP))
}

func TestArena_Release(t *testing.T) {
	arena := NewArena("127.0.0.1")

	a1, err := arena.Reserve("a", domain.ProtocolTCP)
	require.NoError(t, err)
	a2, err := arena.Reserve("a", domain.ProtocolTCP)
	require.NoError(t, err)
	b1, err := arena.Reserve("b", domain.ProtocolTCP)
	require.NoError(t, err)

	released := arena.Release("a")
	assert.ElementsMatch(t, []int{a1, a2}, released)
	assert.Empty(t, arena.Reserved("a"))
	assert.Equal(t, []int{b1}, arena.Reserved("b"))

	assert.NoError(t, arena.Claim("c", a1, domain.ProtocolTCP))
	assert.Empty(t, arena.Release("nobody"))
}

func TestDefaultArena_Singleton(t *testing.T) {
	var wg sync.WaitGroup
	arenas := make([]*Arena, 8)
	for i := range arenas {
		wg.Add(1)
		go func() {
			defer wg.Done()
			arenas[i] = DefaultArena()
		}()
	}
	wg.Wait()

	for _, a := range arenas {
		assert.Same(t, arenas[0], a)
	}
}

func TestSharedArena_OneTableForEveryBindAddress(t *testing.T) {
	loopback := SharedArena("127.0.0.1")
	assert.Same(t, loopback, SharedArena("127.0.0.1"))
	assert.NotSame(t, loopback, DefaultArena())

	port, err := loopback.Reserve("shared-a", domain.ProtocolTCP)
	require.NoError(t, err)
	t.Cleanup(func() { loopback.Release("shared-a") })

	err = DefaultArena().Claim("shared-b", port, domain.ProtocolTCP)
	var conflict *domain.PortConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "shared-a", conflict.Holder)

	isolated := NewArena("127.0.0.1")
	assert.NoError(t, isolated.Claim("shared-b", port, domain.ProtocolTCP), "a private table does not see shared reservations")
	isolated.Release("shared-b")
}
