package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Protocol is the transport protocol of a container port.
type Protocol string

const (
	ProtocolTCP  Protocol = "tcp"
	ProtocolUDP  Protocol = "udp"
	ProtocolSCTP Protocol = "sctp"
)

// MinPort and MaxPort bound valid port numbers.
const (
	MinPort = 1
	MaxPort = 65535
)

// Port is a container port with its protocol.
type Port struct {
	Number   int
	Protocol Protocol
}

// String returns the "80/tcp" form used by container engines.
func (p Port) String() string {
	return fmt.Sprintf("%d/%s", p.Number, p.Protocol)
}

// ParsePort parses "80", "80/tcp", "53/udp" or "38412/sctp".
// The protocol defaults to tcp.
func ParsePort(raw string) (Port, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Port{}, fmt.Errorf("port cannot be empty")
	}

	number, proto, hasProto := strings.Cut(raw, "/")
	protocol := ProtocolTCP
	if hasProto {
		switch p := Protocol(strings.ToLower(proto)); p {
		case ProtocolTCP, ProtocolUDP, ProtocolSCTP:
			protocol = p
		default:
			return Port{}, fmt.Errorf("unsupported protocol %q in port %q (want tcp, udp or sctp)", proto, raw)
		}
	}

	n, err := ParsePortNumber(number)
	if err != nil {
		return Port{}, err
	}

	return Port{Number: n, Protocol: protocol}, nil
}

// ParsePortNumber parses a bare port number and checks its range.
func ParsePortNumber(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid port number %q", raw)
	}
	if n < MinPort || n > MaxPort {
		return 0, fmt.Errorf("port %d out of range [%d,%d]", n, MinPort, MaxPort)
	}
	return n, nil
}

// HostPort is the host side of a binding: a fixed port or a random one.
type HostPort struct {
	Number int
	Random bool
}

// RandomHostPort requests a host port picked at start time.
func RandomHostPort() HostPort {
	return HostPort{Random: true}
}

// FixedHostPort pins the host side of a binding.
func FixedHostPort(n int) HostPort {
	return HostPort{Number: n}
}

func (h HostPort) String() string {
	if h.Random {
		return "random"
	}
	return strconv.Itoa(h.Number)
}

// PortBinding publishes a container port on the host.
// The host side uses the container port protocol.
type PortBinding struct {
	Host      HostPort
	Container Port
}

func (b PortBinding) String() string {
	return fmt.Sprintf("%s->%s", b.Host, b.Container)
}

// ResolvedBinding is a binding whose host side is concrete.
// HostPort 0 lets the engine pick the port itself.
type ResolvedBinding struct {
	HostPort  int
	Container Port
}

// PortMap maps container ports to the host ports published for them.
type PortMap map[Port][]int

// Lookup returns the first host port published for p.
func (m PortMap) Lookup(p Port) (int, bool) {
	ports := m[p]
	if len(ports) == 0 {
		return 0, false
	}
	return ports[0], true
}

// Ports returns the container ports of the map in a stable order.
func (m PortMap) Ports() []Port {
	ports := make([]Port, 0, len(m))
	for p := range m {
		ports = append(ports, p)
	}
	sort.Slice(ports, func(i, j int) bool {
		if ports[i].Number != ports[j].Number {
			return ports[i].Number < ports[j].Number
		}
		return ports[i].Protocol < ports[j].Protocol
	})
	return ports
}

// Clone returns a deep copy of the map.
func (m PortMap) Clone() PortMap {
	if m == nil {
		return nil
	}
	out := make(PortMap, len(m))
	for k, v := range m {
		out[k] = append([]int(nil), v...)
	}
	return out
}
