// Package ports resolves container port bindings to concrete host ports.
package ports

import (
	"errors"
	"fmt"
	"net"
	"slices"
	"strconv"
	"sync"

	"github.com/bnema/ephemera/internal/domain"
)

// maxReserveAttempts bounds how often Reserve asks the kernel for a port that
// is not already reserved in the arena.
const maxReserveAttempts = 64

// ErrUnsupportedProtocol is returned when the host network stack cannot be
// probed for a protocol.
var ErrUnsupportedProtocol = errors.New("protocol cannot be reserved on the host")

type portKey struct {
	number   int
	protocol domain.Protocol
}

// reservations is the port table an arena guards with one lock.
type reservations struct {
	mu       sync.Mutex
	reserved map[portKey]string // port -> owner
}

func newReservations() *reservations {
	return &reservations{reserved: make(map[portKey]string)}
}

// Arena is the single acquisition point for host ports.
// Every reservation happens under one lock, so two containers starting
// concurrently never receive the same port.
type Arena struct {
	bindAddress string
	table       *reservations
}

// NewArena creates an arena with its own reservation table, probing ports on
// bindAddress ("" means all interfaces). Use SharedArena outside of tests.
func NewArena(bindAddress string) *Arena {
	return &Arena{
		bindAddress: bindAddress,
		table:       newReservations(),
	}
}

var (
	processTable = newReservations()

	sharedMu     sync.Mutex
	sharedArenas = map[string]*Arena{}
)

// SharedArena returns the arena probing on bindAddress backed by the
// process-wide reservation table. Every shared arena sees the reservations of
// the others, whatever their bind address.
func SharedArena(bindAddress string) *Arena {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if a, ok := sharedArenas[bindAddress]; ok {
		return a
	}
	a := &Arena{bindAddress: bindAddress, table: processTable}
	sharedArenas[bindAddress] = a
	return a
}

// DefaultArena returns the process-wide arena probing on all interfaces.
func DefaultArena() *Arena {
	return SharedArena("")
}

// Reserve asks the host network stack for a free port and records it for owner.
// Ports already reserved by any owner are skipped.
func (a *Arena) Reserve(owner string, protocol domain.Protocol) (int, error) {
	a.table.mu.Lock()
	defer a.table.mu.Unlock()

	for i := 0; i < maxReserveAttempts; i++ {
		port, err := a.probeFree(protocol)
		if err != nil {
			return 0, err
		}

		key := portKey{number: port, protocol: protocol}
		if _, taken := a.table.reserved[key]; taken {
			continue
		}

		a.table.reserved[key] = owner
		return port, nil
	}

	return 0, fmt.Errorf("no free %s port found after %d attempts", protocol, maxReserveAttempts)
}

// Claim records a fixed host port for owner. It fails with a PortConflictError
// when another owner holds the port or something on the host listens on it.
// Claiming a port the owner already holds is a no-op.
func (a *Arena) Claim(owner string, port int, protocol domain.Protocol) error {
	a.table.mu.Lock()
	defer a.table.mu.Unlock()

	key := portKey{number: port, protocol: protocol}
	if holder, taken := a.table.reserved[key]; taken {
		if holder == owner {
			return nil
		}
		return &domain.PortConflictError{HostPort: port, Protocol: protocol, Holder: holder}
	}

	if err := a.probeFixed(port, protocol); err != nil {
		return &domain.PortConflictError{HostPort: port, Protocol: protocol, Err: err}
	}

	a.table.reserved[key] = owner
	return nil
}

// Release frees every port held by owner and returns them.
func (a *Arena) Release(owner string) []int {
	a.table.mu.Lock()
	defer a.table.mu.Unlock()

	var released []int
	for key, holder := range a.table.reserved {
		if holder == owner {
			delete(a.table.reserved, key)
			released = append(released, key.number)
		}
	}
	slices.Sort(released)
	return released
}

// Reserved returns the ports currently held by owner.
func (a *Arena) Reserved(owner string) []int {
	a.table.mu.Lock()
	defer a.table.mu.Unlock()

	var ports []int
	for key, holder := range a.table.reserved {
		if holder == owner {
			ports = append(ports, key.number)
		}
	}
	slices.Sort(ports)
	return ports
}

func (a *Arena) address(port int) string {
	return net.JoinHostPort(a.bindAddress, strconv.Itoa(port))
}

// probeFree binds port 0 and returns what the kernel picked.
func (a *Arena) probeFree(protocol domain.Protocol) (int, error) {
	switch protocol {
	case domain.ProtocolTCP:
		ln, err := net.Listen("tcp", a.address(0))
		if err != nil {
			return 0, fmt.Errorf("failed to allocate tcp port: %w", err)
		}
		defer ln.Close()
		return ln.Addr().(*net.TCPAddr).Port, nil
	case domain.ProtocolUDP:
		pc, err := net.ListenPacket("udp", a.address(0))
		if err != nil {
			return 0, fmt.Errorf("failed to allocate udp port: %w", err)
		}
		defer pc.Close()
		return pc.LocalAddr().(*net.UDPAddr).Port, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedProtocol, protocol)
	}
}

// probeFixed checks that nothing on the host holds port. sctp is left to the engine.
func (a *Arena) probeFixed(port int, protocol domain.Protocol) error {
	switch protocol {
	case domain.ProtocolTCP:
		ln, err := net.Listen("tcp", a.address(port))
		if err != nil {
			return err
		}
		return ln.Close()
	case domain.ProtocolUDP:
		pc, err := net.ListenPacket("udp", a.address(port))
		if err != nil {
			return err
		}
		return pc.Close()
	default:
		return nil
	}
}
