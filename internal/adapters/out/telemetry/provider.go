// Package telemetry exports container lifecycle telemetry over OTLP/HTTP:
// one span per container start and the instruments of Metrics.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/bnema/ephemera/internal/domain"
)

// Config holds telemetry configuration.
type Config struct {
	Enabled         bool    `mapstructure:"enabled"`
	Endpoint        string  `mapstructure:"endpoint"`          // collector base URL, e.g. "http://localhost:4318"
	AuthToken       string  `mapstructure:"auth_token"`        // base64 "user:pass" sent as Basic auth
	Traces          bool    `mapstructure:"traces"`            // one span per container start
	Metrics         bool    `mapstructure:"metrics"`           // lifecycle counters and histograms
	TraceSampleRate float64 `mapstructure:"trace_sample_rate"` // share of starts traced, 0 to 1
}

// Service identifies the process in exported telemetry.
type Service struct {
	Name      string
	Version   string
	SessionID string
}

// Provider owns the SDK providers installed for a kernel. A nil field means
// the signal is not exported.
type Provider struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider

	flushers []flusher
}

type flusher struct {
	signal string
	fn     func(context.Context) error
}

// NewProvider installs the configured providers globally. It returns an empty
// provider when telemetry is disabled or has no endpoint.
func NewProvider(ctx context.Context, cfg Config, svc Service) (*Provider, error) {
	p := &Provider{}
	if !cfg.Enabled || cfg.Endpoint == "" || (!cfg.Traces && !cfg.Metrics) {
		return p, nil
	}

	col, err := newCollector(cfg.Endpoint, cfg.AuthToken)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(svc.Name),
			semconv.ServiceVersion(svc.Version),
			semconv.ServiceInstanceID(svc.SessionID),
			attribute.String(domain.LabelSession, svc.SessionID),
		),
		resource.WithHost(),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry resource: %w", err)
	}

	if cfg.Traces {
		exp, err := otlptracehttp.New(ctx, col.traceOptions()...)
		if err != nil {
			return nil, fmt.Errorf("trace exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exp),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sampler(cfg.TraceSampleRate)),
		)
		otel.SetTracerProvider(tp)
		p.TracerProvider = tp
		p.flushers = append(p.flushers, flusher{signal: "traces", fn: tp.Shutdown})
	}

	if cfg.Metrics {
		exp, err := otlpmetrichttp.New(ctx, col.metricOptions()...)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("metric exporter: %w", err), p.Shutdown(ctx))
		}
		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
			sdkmetric.WithResource(res),
		)
		otel.SetMeterProvider(mp)
		p.MeterProvider = mp
		p.flushers = append(p.flushers, flusher{signal: "metrics", fn: mp.Shutdown})
	}

	return p, nil
}

// Shutdown flushes pending exports and stops every provider, last installed
// first. Every provider is stopped even when an earlier one fails.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(p.flushers) - 1; i >= 0; i-- {
		f := p.flushers[i]
		if err := f.fn(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown %s: %w", f.signal, err))
		}
	}
	p.flushers = nil
	return errors.Join(errs...)
}

// sampler maps trace_sample_rate: 0 or less traces nothing, 1 or more traces
// every start, values between keep that share of root spans.
func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate <= 0:
		return sdktrace.NeverSample()
	case rate >= 1:
		return sdktrace.AlwaysSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))
	}
}

// collector is the OTLP/HTTP collector address split the way exporters take it.
type collector struct {
	host      string
	prefix    string
	plaintext bool
	headers   map[string]string
}

func newCollector(endpoint, authToken string) (collector, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return collector{}, fmt.Errorf("%w: telemetry.endpoint: %v", domain.ErrInvalidConfig, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return collector{}, fmt.Errorf("%w: telemetry.endpoint %q must use http or https", domain.ErrInvalidConfig, endpoint)
	}
	if u.Host == "" {
		return collector{}, fmt.Errorf("%w: telemetry.endpoint %q has no host", domain.ErrInvalidConfig, endpoint)
	}

	c := collector{
		host:      u.Host,
		prefix:    strings.TrimRight(u.Path, "/"),
		plaintext: u.Scheme == "http",
	}
	if authToken != "" {
		c.headers = map[string]string{"Authorization": "Basic " + authToken}
	}
	return c, nil
}

// path is where the collector receives signal ("traces" or "metrics").
func (c collector) path(signal string) string {
	return c.prefix + "/v1/" + signal
}

func (c collector) traceOptions() []otlptracehttp.Option {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(c.host),
		otlptracehttp.WithURLPath(c.path("traces")),
	}
	if c.headers != nil {
		opts = append(opts, otlptracehttp.WithHeaders(c.headers))
	}
	if c.plaintext {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	return opts
}

func (c collector) metricOptions() []otlpmetrichttp.Option {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(c.host),
		otlpmetrichttp.WithURLPath(c.path("metrics")),
	}
	if c.headers != nil {
		opts = append(opts, otlpmetrichttp.WithHeaders(c.headers))
	}
	if c.plaintext {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	return opts
}
