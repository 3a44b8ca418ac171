package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/ephemera/internal/domain"
)

var testService = Service{Name: "ephemera", Version: "test", SessionID: "session-1"}

func TestNewProvider_Disabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "disabled", cfg: Config{Enabled: false, Endpoint: "http://localhost:4318", Metrics: true}},
		{name: "no endpoint", cfg: Config{Enabled: true, Metrics: true}},
		{name: "no signal", cfg: Config{Enabled: true, Endpoint: "http://localhost:4318"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(context.Background(), tt.cfg, testService)
			require.NoError(t, err)
			assert.Nil(t, p.MeterProvider)
			assert.Nil(t, p.TracerProvider)
			assert.NoError(t, p.Shutdown(context.Background()))
		})
	}
}

func TestNewProvider_InvalidEndpoint(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Enabled: true, Endpoint: "localhost:4318", Traces: true}, testService)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestNewProvider_ExportsToCollector(t *testing.T) {
	var mu sync.Mutex
	paths := map[string]string{}
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths[r.URL.Path] = r.Header.Get("Authorization")
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer collector.Close()

	ctx := context.Background()
	p, err := NewProvider(ctx, Config{
		Enabled:         true,
		Endpoint:        collector.URL + "/otlp/",
		AuthToken:       "dXNlcjpwYXNz",
		Traces:          true,
		Metrics:         true,
		TraceSampleRate: 1,
	}, testService)
	require.NoError(t, err)
	require.NotNil(t, p.TracerProvider)
	require.NotNil(t, p.MeterProvider)

	_, span := p.TracerProvider.Tracer("test").Start(ctx, "start redis:7")
	span.End()
	counter, err := p.MeterProvider.Meter("test").Int64Counter("ephemera.test")
	require.NoError(t, err)
	counter.Add(ctx, 1)

	require.NoError(t, p.Shutdown(ctx))
	assert.NoError(t, p.Shutdown(ctx), "second shutdown has nothing to flush")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, map[string]string{
		"/otlp/v1/traces":  "Basic dXNlcjpwYXNz",
		"/otlp/v1/metrics": "Basic dXNlcjpwYXNz",
	}, paths)
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{rate: 0, want: "AlwaysOffSampler"},
		{rate: -1, want: "AlwaysOffSampler"},
		{rate: 1, want: "AlwaysOnSampler"},
		{rate: 2, want: "AlwaysOnSampler"},
		{rate: 0.25, want: "TraceIDRatioBased{0.25}"},
	}

	for _, tt := range tests {
		assert.Contains(t, sampler(tt.rate).Description(), tt.want, "rate %v", tt.rate)
	}
}

func TestNewCollector(t *testing.T) {
	tests := []struct {
		name      string
		endpoint  string
		token     string
		host      string
		traces    string
		plaintext bool
		auth      string
		wantErr   bool
	}{
		{
			name:      "plain http",
			endpoint:  "http://localhost:4318",
			host:      "localhost:4318",
			traces:    "/v1/traces",
			plaintext: true,
		},
		{
			name:     "https with path and token",
			endpoint: "https://otel.example.com/otlp/",
			token:    "dXNlcjpwYXNz",
			host:     "otel.example.com",
			traces:   "/otlp/v1/traces",
			auth:     "Basic dXNlcjpwYXNz",
		},
		{name: "missing scheme", endpoint: "localhost:4318", wantErr: true},
		{name: "grpc scheme", endpoint: "grpc://localhost:4317", wantErr: true},
		{name: "missing host", endpoint: "http:///v1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := newCollector(tt.endpoint, tt.token)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.host, c.host)
			assert.Equal(t, tt.traces, c.path("traces"))
			assert.Equal(t, tt.plaintext, c.plaintext)
			assert.Equal(t, tt.auth, c.headers["Authorization"])
		})
	}
}
