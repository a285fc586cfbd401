package app

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	metricsdk "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

const (
	serviceName    = "gcam"
	serviceVersion = "1.0.0"
)

// TelemetryConfig holds the configuration for telemetry
type TelemetryConfig struct {
	MetricsPort    int
	HealthPort     int
	TracingEnabled bool
	OTLPEndpoint   string
	SampleRate     float64
}

// Telemetry manages OpenTelemetry tracing and metrics
type Telemetry struct {
	tracer        *trace.TracerProvider
	meterProvider *metricsdk.MeterProvider
	meter         metric.Meter
	config        TelemetryConfig
}

// InitTelemetry initializes OpenTelemetry tracing and metrics. RPC metrics are
// exported through registerer, which defaults to the global Prometheus registry.
func InitTelemetry(cfg TelemetryConfig, registerer promclient.Registerer) (*Telemetry, error) {
	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
			attribute.String("component", "clearing"),
		),
	)
	if err != nil {
		return nil, err
	}

	tel := &Telemetry{config: cfg, meter: noop.NewMeterProvider().Meter(serviceName)}

	if cfg.TracingEnabled {
		if err := tel.initTracing(res); err != nil {
			return nil, err
		}
	}

	if cfg.MetricsPort > 0 {
		if err := tel.initMetrics(res, registerer); err != nil {
			return nil, err
		}
	}

	return tel, nil
}

// initTracing sets up OTLP/HTTP tracing
func (t *Telemetry) initTracing(res *resource.Resource) error {
	if _, err := url.Parse(t.config.OTLPEndpoint); err != nil {
		return err
	}

	endpoint := strings.TrimPrefix(t.config.OTLPEndpoint, "http://")
	exp, err := otlptracehttp.New(context.Background(), otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
	if err != nil {
		return err
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exp),
		trace.WithResource(res),
		trace.WithSampler(trace.ParentBased(
			trace.TraceIDRatioBased(t.config.SampleRate),
		)),
	)

	otel.SetTracerProvider(tp)
	t.tracer = tp

	return nil
}

// initMetrics bridges OpenTelemetry instruments onto the Prometheus registry
func (t *Telemetry) initMetrics(res *resource.Resource, registerer promclient.Registerer) error {
	var opts []prometheus.Option
	if registerer != nil {
		opts = append(opts, prometheus.WithRegisterer(registerer))
	}

	exporter, err := prometheus.New(opts...)
	if err != nil {
		return err
	}

	provider := metricsdk.NewMeterProvider(
		metricsdk.WithResource(res),
		metricsdk.WithReader(exporter),
	)

	otel.SetMeterProvider(provider)
	t.meterProvider = provider
	t.meter = provider.Meter(serviceName)

	return nil
}

// Meter returns the meter RPC instruments are created from. It is a no-op
// meter when metrics are disabled.
func (t *Telemetry) Meter() metric.Meter {
	return t.meter
}

// Shutdown gracefully shuts down telemetry
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.tracer != nil {
		errs = append(errs, t.tracer.Shutdown(ctx))
	}
	if t.meterProvider != nil {
		errs = append(errs, t.meterProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// TelemetryMiddleware records per-request metrics for the gRPC and REST
// surfaces. Instrument and attribute names use underscores so they are valid
// classic Prometheus names.
type TelemetryMiddleware struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

// NewTelemetryMiddleware creates a new telemetry middleware
func NewTelemetryMiddleware(meter metric.Meter) (*TelemetryMiddleware, error) {
	requests, err := meter.Int64Counter(
		"gcam_rpc_requests",
		metric.WithDescription("Total number of clearing requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"gcam_rpc_duration",
		metric.WithDescription("Clearing request processing time"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &TelemetryMiddleware{
		requests: requests,
		duration: duration,
	}, nil
}

// RecordRequest records one served request.
func (tm *TelemetryMiddleware) RecordRequest(
	ctx context.Context,
	transport string,
	method string,
	duration time.Duration,
	success bool,
) {
	status := "success"
	if !success {
		status = "failed"
	}

	attrs := metric.WithAttributes(
		attribute.String("transport", transport),
		attribute.String("method", method),
		attribute.String("status", status),
	)

	tm.requests.Add(ctx, 1, attrs)
	tm.duration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
}
