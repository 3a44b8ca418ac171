// Package httpprober performs the HTTP requests behind ForHTTP readiness checks.
package httpprober

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/bnema/zerowrap"

	"github.com/bnema/ephemera/internal/domain"
)

// DefaultTimeout bounds a single probe, connection included.
const DefaultTimeout = 5 * time.Second

const (
	defaultUserAgent = "ephemera-wait/1.0"
	maxDrain         = 4 << 10
)

// ErrUnreachable marks a probe that got no HTTP response at all: nothing
// listens behind the mapped port yet, or the server hung up.
var ErrUnreachable = errors.New("endpoint unreachable")

// Prober sends readiness requests to containers through their mapped ports.
type Prober struct {
	client    *http.Client
	userAgent string
}

type settings struct {
	timeout   time.Duration
	client    *http.Client
	userAgent string
}

// Option configures the Prober.
type Option func(*settings)

// WithTimeout bounds each probe. Ignored when WithHTTPClient is used.
func WithTimeout(timeout time.Duration) Option {
	return func(s *settings) {
		s.timeout = timeout
	}
}

// WithHTTPClient replaces the probing client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *settings) {
		s.client = client
	}
}

// WithUserAgent overrides the User-Agent header sent with every probe.
func WithUserAgent(userAgent string) Option {
	return func(s *settings) {
		s.userAgent = userAgent
	}
}

// New creates a prober.
func New(opts ...Option) *Prober {
	s := settings{timeout: DefaultTimeout, userAgent: defaultUserAgent}
	for _, opt := range opts {
		opt(&s)
	}

	client := s.client
	if client == nil {
		client = newClient(s.timeout)
	}
	return &Prober{client: client, userAgent: s.userAgent}
}

// newClient builds a client for freshly started containers: one connection
// per probe, redirects reported as is, self-signed certificates accepted.
func newClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: timeout}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: dialer.DialContext,
			// #nosec G402 - test containers commonly serve self-signed certificates.
			TLSClientConfig:   &tls.Config{InsecureSkipVerify: true},
			DisableKeepAlives: true,
		},
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// Probe sends one request and returns the status code and the round trip in
// milliseconds. An empty method means GET. Transport failures wrap
// ErrUnreachable; a cancelled ctx is returned as ctx.Err().
func (p *Prober) Probe(ctx context.Context, method, url string) (int, int64, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "adapter",
		zerowrap.FieldAdapter: "httpprober",
		zerowrap.FieldAction:  "Probe",
		"url":                 url,
	})
	log := zerowrap.FromCtx(ctx)

	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, url, http.NoBody)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: probe request: %v", domain.ErrInvalidConfig, err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	start := time.Now()
	resp, err := p.client.Do(req)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, elapsed, ctxErr
		}
		log.Debug().Err(err).Int64("elapsed_ms", elapsed).Msg("probe got no response")
		return 0, elapsed, fmt.Errorf("%w: %s %s: %v", ErrUnreachable, method, url, err)
	}
	defer resp.Body.Close()

	// Reading a little of the body lets small servers finish their write
	// before the connection is torn down.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))

	log.Debug().Int("status", resp.StatusCode).Int64("elapsed_ms", elapsed).Msg("probe answered")
	return resp.StatusCode, elapsed, nil
}
