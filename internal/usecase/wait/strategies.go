package wait

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/ephemera/internal/boundaries/out"
	"github.com/bnema/ephemera/internal/domain"
)

// ErrNotRunning is returned by checks while the container is not running.
var ErrNotRunning = errors.New("container is not running")

var (
	errNoLogPattern = errors.New("log pattern cannot be nil")
	errNoCommand    = errors.New("no command to execute")
	errNoCheckFunc  = errors.New("no check function")
)

// RunningStrategy waits until the runtime reports the container as running.
type RunningStrategy struct {
	policy Policy
}

// ForRunning waits for the container to be running.
func ForRunning() RunningStrategy {
	return RunningStrategy{}
}

func (s RunningStrategy) WithTimeout(d time.Duration) RunningStrategy {
	s.policy.Timeout = d
	return s
}

func (s RunningStrategy) WithPollInterval(d time.Duration) RunningStrategy {
	s.policy.PollInterval = d
	return s
}

func (s RunningStrategy) String() string { return "running" }
func (s RunningStrategy) Policy() Policy { return s.policy }

func (s RunningStrategy) Check(ctx context.Context, target domain.RunningContainer) error {
	running, err := target.IsRunning(ctx)
	if err != nil {
		return err
	}
	if !running {
		return ErrNotRunning
	}
	return nil
}

// PortStrategy waits until a published tcp port accepts connections from the host.
// For udp and sctp only the presence of the host mapping is checked.
type PortStrategy struct {
	port   domain.Port
	policy Policy
}

// ForListeningPort waits for port ("5432", "53/udp") to be reachable through its host mapping.
// An unparsable port falls back to 0/tcp, which the builder rejects as unpublished.
func ForListeningPort(port string) PortStrategy {
	p, err := domain.ParsePort(port)
	if err != nil {
		p = domain.Port{Protocol: domain.ProtocolTCP}
	}
	return PortStrategy{port: p}
}

func (s PortStrategy) WithTimeout(d time.Duration) PortStrategy {
	s.policy.Timeout = d
	return s
}

func (s PortStrategy) WithPollInterval(d time.Duration) PortStrategy {
	s.policy.PollInterval = d
	return s
}

func (s PortStrategy) String() string            { return "port " + s.port.String() }
func (s PortStrategy) Policy() Policy            { return s.policy }
func (s PortStrategy) RequiredPort() domain.Port { return s.port }

func (s PortStrategy) Check(ctx context.Context, target domain.RunningContainer) error {
	hostPort, err := target.MappedPort(s.port)
	if err != nil {
		return err
	}
	if s.port.Protocol != domain.ProtocolTCP {
		return nil
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(target.Host(), strconv.Itoa(hostPort)))
	if err != nil {
		return err
	}
	return conn.Close()
}

// LogStrategy waits until the container logs match a pattern a number of times.
type LogStrategy struct {
	pattern    *regexp.Regexp
	occurrence int
	policy     Policy
}

// ForLog waits for text to appear in the container logs.
func ForLog(text string) LogStrategy {
	return ForLogPattern(regexp.MustCompile(regexp.QuoteMeta(text)))
}

// ForLogPattern waits for pattern to match the container logs.
func ForLogPattern(pattern *regexp.Regexp) LogStrategy {
	return LogStrategy{pattern: pattern, occurrence: 1}
}

// WithOccurrence requires n matches. Values below 1 mean 1.
func (s LogStrategy) WithOccurrence(n int) LogStrategy {
	s.occurrence = max(n, 1)
	return s
}

func (s LogStrategy) WithTimeout(d time.Duration) LogStrategy {
	s.policy.Timeout = d
	return s
}

func (s LogStrategy) WithPollInterval(d time.Duration) LogStrategy {
	s.policy.PollInterval = d
	return s
}

func (s LogStrategy) String() string {
	if s.pattern == nil {
		return fmt.Sprintf("log <nil> x%d", s.occurrence)
	}
	return fmt.Sprintf("log %q x%d", s.pattern.String(), s.occurrence)
}

func (s LogStrategy) Policy() Policy { return s.policy }

func (s LogStrategy) Validate() error {
	if s.pattern == nil {
		return errNoLogPattern
	}
	return nil
}

func (s LogStrategy) Check(ctx context.Context, target domain.RunningContainer) error {
	if s.pattern == nil {
		return errNoLogPattern
	}
	logs, err := target.Logs(ctx)
	if err != nil {
		return err
	}
	found := len(s.pattern.FindAllIndex(logs, s.occurrence))
	if found < s.occurrence {
		return fmt.Errorf("pattern %q matched %d of %d times", s.pattern.String(), found, s.occurrence)
	}
	return nil
}

// HTTPStrategy waits until an HTTP endpoint of the container answers with an expected status.
type HTTPStrategy struct {
	path   string
	port   domain.Port
	method string
	status []int
	tls    bool
	prober out.HTTPProber
	policy Policy
}

// ForHTTP probes path on port 80/tcp until it answers 200.
func ForHTTP(path string) HTTPStrategy {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return HTTPStrategy{
		path:   path,
		port:   domain.Port{Number: 80, Protocol: domain.ProtocolTCP},
		method: http.MethodGet,
		status: []int{http.StatusOK},
	}
}

// WithPort probes port instead of 80/tcp.
func (s HTTPStrategy) WithPort(port string) HTTPStrategy {
	if p, err := domain.ParsePort(port); err == nil {
		s.port = p
	} else {
		s.port = domain.Port{Protocol: domain.ProtocolTCP}
	}
	return s
}

// WithStatus sets the accepted status codes.
func (s HTTPStrategy) WithStatus(codes ...int) HTTPStrategy {
	s.status = slices.Clone(codes)
	return s
}

func (s HTTPStrategy) WithMethod(method string) HTTPStrategy {
	s.method = strings.ToUpper(method)
	return s
}

// WithTLS probes over https. Certificates are not verified.
func (s HTTPStrategy) WithTLS() HTTPStrategy {
	s.tls = true
	return s
}

// WithProber sets the prober used by Check.
func (s HTTPStrategy) WithProber(p out.HTTPProber) HTTPStrategy {
	s.prober = p
	return s
}

func (s HTTPStrategy) WithTimeout(d time.Duration) HTTPStrategy {
	s.policy.Timeout = d
	return s
}

func (s HTTPStrategy) WithPollInterval(d time.Duration) HTTPStrategy {
	s.policy.PollInterval = d
	return s
}

func (s HTTPStrategy) String() string {
	scheme := "http"
	if s.tls {
		scheme = "https"
	}
	return fmt.Sprintf("%s %s %s on %s expecting %v", scheme, s.method, s.path, s.port, s.status)
}

func (s HTTPStrategy) Policy() Policy            { return s.policy }
func (s HTTPStrategy) RequiredPort() domain.Port { return s.port }

func (s HTTPStrategy) Check(ctx context.Context, target domain.RunningContainer) error {
	if s.prober == nil {
		return errors.New("no HTTP prober configured")
	}

	hostPort, err := target.MappedPort(s.port)
	if err != nil {
		return err
	}

	scheme := "http"
	if s.tls {
		scheme = "https"
	}
	url := scheme + "://" + net.JoinHostPort(target.Host(), strconv.Itoa(hostPort)) + s.path

	status, _, err := s.prober.Probe(ctx, s.method, url)
	if err != nil {
		return err
	}
	if !slices.Contains(s.status, status) {
		return fmt.Errorf("unexpected status %d from %s", status, url)
	}
	return nil
}

// ExecStrategy waits until a command run inside the container exits with the expected code.
type ExecStrategy struct {
	cmd      []string
	exitCode int
	policy   Policy
}

// ForExec waits for cmd to exit with code 0.
func ForExec(cmd ...string) ExecStrategy {
	return ExecStrategy{cmd: slices.Clone(cmd)}
}

func (s ExecStrategy) WithExitCode(code int) ExecStrategy {
	s.exitCode = code
	return s
}

func (s ExecStrategy) WithTimeout(d time.Duration) ExecStrategy {
	s.policy.Timeout = d
	return s
}

func (s ExecStrategy) WithPollInterval(d time.Duration) ExecStrategy {
	s.policy.PollInterval = d
	return s
}

func (s ExecStrategy) String() string {
	return fmt.Sprintf("exec %q exit %d", s.cmd, s.exitCode)
}

func (s ExecStrategy) Policy() Policy { return s.policy }

func (s ExecStrategy) Validate() error {
	if len(s.cmd) == 0 {
		return errNoCommand
	}
	return nil
}

func (s ExecStrategy) Check(ctx context.Context, target domain.RunningContainer) error {
	if len(s.cmd) == 0 {
		return errNoCommand
	}
	res, err := target.Exec(ctx, s.cmd...)
	if err != nil {
		return err
	}
	if res.ExitCode != s.exitCode {
		return fmt.Errorf("command exited with %d: %s", res.ExitCode, strings.TrimSpace(string(res.Stderr)))
	}
	return nil
}

// CheckFunc is a custom readiness predicate.
type CheckFunc func(ctx context.Context, target domain.RunningContainer) error

// FuncStrategy wraps a custom predicate. name identifies it in errors.
type FuncStrategy struct {
	name   string
	fn     CheckFunc
	policy Policy
}

// ForFunc waits until fn returns nil.
func ForFunc(name string, fn CheckFunc) FuncStrategy {
	return FuncStrategy{name: name, fn: fn}
}

func (s FuncStrategy) WithTimeout(d time.Duration) FuncStrategy {
	s.policy.Timeout = d
	return s
}

func (s FuncStrategy) WithPollInterval(d time.Duration) FuncStrategy {
	s.policy.PollInterval = d
	return s
}

func (s FuncStrategy) String() string { return "func " + s.name }
func (s FuncStrategy) Policy() Policy { return s.policy }

// DedupKey is empty: functions cannot be compared, so two func strategies are
// never duplicates even under the same name.
func (s FuncStrategy) DedupKey() string { return "" }

func (s FuncStrategy) Validate() error {
	if s.fn == nil {
		return errNoCheckFunc
	}
	return nil
}

func (s FuncStrategy) Check(ctx context.Context, target domain.RunningContainer) error {
	if s.fn == nil {
		return errNoCheckFunc
	}
	return s.fn(ctx, target)
}
